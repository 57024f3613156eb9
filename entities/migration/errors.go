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

import (
	"errors"
)

// ErrObjectNotFound is wrapped by store adapters when a key, blob or file does
// not exist. Fetches failing with it are not retried.
var ErrObjectNotFound = errors.New("object not found")

// ErrFetch means a source object could not be retrieved. Per record, the
// record is skipped for this run.
type ErrFetch struct {
	err error
}

func (e ErrFetch) Error() string {
	return "fetch: " + e.err.Error()
}

func (e ErrFetch) Unwrap() error {
	return e.err
}

func NewErrFetch(err error) ErrFetch {
	return ErrFetch{err}
}

// ErrMalformedIdentifier means a source key does not split into category and
// date. Per record, never retried.
type ErrMalformedIdentifier struct {
	err error
}

func (e ErrMalformedIdentifier) Error() string {
	return "malformed identifier: " + e.err.Error()
}

func (e ErrMalformedIdentifier) Unwrap() error {
	return e.err
}

func NewErrMalformedIdentifier(err error) ErrMalformedIdentifier {
	return ErrMalformedIdentifier{err}
}

// ErrMalformedRecord means a source object is not a JSON object. Per record,
// never retried.
type ErrMalformedRecord struct {
	err error
}

func (e ErrMalformedRecord) Error() string {
	return "malformed record: " + e.err.Error()
}

func (e ErrMalformedRecord) Unwrap() error {
	return e.err
}

func NewErrMalformedRecord(err error) ErrMalformedRecord {
	return ErrMalformedRecord{err}
}

// ErrSerialization means a payload cannot be written as a single JSON line.
// Nothing has been appended when it is returned.
type ErrSerialization struct {
	err error
}

func (e ErrSerialization) Error() string {
	return "serialization: " + e.err.Error()
}

func (e ErrSerialization) Unwrap() error {
	return e.err
}

func NewErrSerialization(err error) ErrSerialization {
	return ErrSerialization{err}
}

// ErrAppendFailed means a write to the destination failed. It ends the run.
type ErrAppendFailed struct {
	err error
}

func (e ErrAppendFailed) Error() string {
	return "append failed: " + e.err.Error()
}

func (e ErrAppendFailed) Unwrap() error {
	return e.err
}

func NewErrAppendFailed(err error) ErrAppendFailed {
	return ErrAppendFailed{err}
}

// ErrCorruptLedgerEntry is a ledger line that is not a valid entry.
type ErrCorruptLedgerEntry struct {
	Line int
	err  error
}

func (e ErrCorruptLedgerEntry) Error() string {
	if e.err == nil {
		return "corrupt ledger entry"
	}
	return "corrupt ledger entry: " + e.err.Error()
}

func (e ErrCorruptLedgerEntry) Unwrap() error {
	return e.err
}

func NewErrCorruptLedgerEntry(line int, err error) ErrCorruptLedgerEntry {
	return ErrCorruptLedgerEntry{Line: line, err: err}
}

// ErrStorageUnavailable means the source or destination cannot be reached
// before any record work begins. It ends the run.
type ErrStorageUnavailable struct {
	err error
}

func (e ErrStorageUnavailable) Error() string {
	return "storage unavailable: " + e.err.Error()
}

func (e ErrStorageUnavailable) Unwrap() error {
	return e.err
}

func NewErrStorageUnavailable(err error) ErrStorageUnavailable {
	return ErrStorageUnavailable{err}
}

func IsFetch(err error) bool {
	var target ErrFetch
	return errors.As(err, &target)
}

func IsMalformedIdentifier(err error) bool {
	var target ErrMalformedIdentifier
	return errors.As(err, &target)
}

func IsMalformedRecord(err error) bool {
	var target ErrMalformedRecord
	return errors.As(err, &target)
}

func IsSerialization(err error) bool {
	var target ErrSerialization
	return errors.As(err, &target)
}

func IsAppendFailed(err error) bool {
	var target ErrAppendFailed
	return errors.As(err, &target)
}

func IsCorruptLedgerEntry(err error) bool {
	var target ErrCorruptLedgerEntry
	return errors.As(err, &target)
}

func IsStorageUnavailable(err error) bool {
	var target ErrStorageUnavailable
	return errors.As(err, &target)
}
