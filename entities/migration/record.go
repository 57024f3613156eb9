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

import "time"

const (
	// FieldType carries the category of the source key in an enriched record.
	FieldType = "type"
	// FieldDate carries the date of the source key in an enriched record.
	FieldDate = "date"

	// TimestampFormat is used for LedgerEntry.Timestamp.
	TimestampFormat = time.RFC3339Nano
)

// Record is a JSON object fetched from the source store. Keys are arbitrary
// strings, values are anything encoding/json produces when decoding with
// UseNumber.
type Record map[string]interface{}

// Key rebuilds the source key from the provenance fields of an enriched
// record. ok is false if either field is missing or not a string.
func (r Record) Key() (string, bool) {
	category, ok := r[FieldType].(string)
	if !ok || category == "" {
		return "", false
	}
	date, ok := r[FieldDate].(string)
	if !ok || date == "" {
		return "", false
	}
	return category + Separator + date, true
}

// LedgerEntry is one line of the ledger object.
type LedgerEntry struct {
	Timestamp string `json:"timestamp"`
	Key       string `json:"key"`
}

func NewLedgerEntry(key string, ts time.Time) LedgerEntry {
	return LedgerEntry{
		Timestamp: ts.UTC().Format(TimestampFormat),
		Key:       key,
	}
}
