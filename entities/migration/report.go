//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package migration

// SkipReason names why a candidate record was not migrated in a run.
type SkipReason string

const (
	SkipFetchError          SkipReason = "fetch_error"
	SkipMalformedIdentifier SkipReason = "malformed_identifier"
	SkipMalformedRecord     SkipReason = "malformed_record"
	SkipSerializationError  SkipReason = "serialization_error"
)

// ReasonFor maps a per-record error to its skip reason. ok is false for
// errors that must end the run instead.
func ReasonFor(err error) (reason SkipReason, ok bool) {
	switch {
	case IsMalformedIdentifier(err):
		return SkipMalformedIdentifier, true
	case IsMalformedRecord(err):
		return SkipMalformedRecord, true
	case IsSerialization(err):
		return SkipSerializationError, true
	case IsFetch(err):
		return SkipFetchError, true
	default:
		return "", false
	}
}

type SkippedRecord struct {
	Key    string     `json:"key"`
	Reason SkipReason `json:"reason"`
	Error  string     `json:"error"`
}

// Report summarizes one run. It is returned partially filled when a run ends
// with an error.
type Report struct {
	RunID          string          `json:"runId"`
	DryRun         bool            `json:"dryRun,omitempty"`
	Listed         int             `json:"listed"`
	AlreadyPresent int             `json:"alreadyPresent"`
	Migrated       int             `json:"migrated"`
	Skipped        []SkippedRecord `json:"skipped,omitempty"`
}

func (r *Report) Skip(key string, reason SkipReason, err error) {
	rec := SkippedRecord{Key: key, Reason: reason}
	if err != nil {
		rec.Error = err.Error()
	}
	r.Skipped = append(r.Skipped, rec)
}

// SkippedCount is the number of candidates skipped in the run.
func (r *Report) SkippedCount() int {
	return len(r.Skipped)
}
