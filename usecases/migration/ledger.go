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
	"context"
	"encoding/json"
	"maps"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/appendlog-migrator/entities/migration"
	"github.com/weaviate/appendlog-migrator/usecases/monitoring"
)

// CorruptEntryPolicy decides what loading does with a ledger line that is not
// a valid entry.
type CorruptEntryPolicy string

const (
	// CorruptEntrySkip logs and ignores the line. A truncated last line is
	// the expected leftover of a crash during an append.
	CorruptEntrySkip CorruptEntryPolicy = "skip"
	// CorruptEntryAbort fails the load.
	CorruptEntryAbort CorruptEntryPolicy = "abort"
)

// Ledger records which source keys have been migrated. It is backed by an
// append-only object of LedgerEntry lines next to the data object and is
// replayed into memory once per run.
type Ledger struct {
	sink    *AppendSink
	object  string
	policy  CorruptEntryPolicy
	logger  logrus.FieldLogger
	metrics *monitoring.MigrationMetrics

	keys map[string]struct{}
	// torn is set by Load if the object ends in a partial line
	torn bool
}

func NewLedger(sink *AppendSink, object string, policy CorruptEntryPolicy,
	logger logrus.FieldLogger, metrics *monitoring.MigrationMetrics,
) *Ledger {
	if policy == "" {
		policy = CorruptEntrySkip
	}
	return &Ledger{
		sink:    sink,
		object:  object,
		policy:  policy,
		logger:  logger,
		metrics: metrics,
		keys:    map[string]struct{}{},
	}
}

// Load replays the ledger object and replaces the in-memory snapshot. The
// object has to exist, an empty object yields an empty set.
func (l *Ledger) Load(ctx context.Context) (map[string]struct{}, error) {
	text, err := l.sink.readText(ctx, l.object)
	if err != nil {
		return nil, migration.NewErrStorageUnavailable(errors.Wrap(err, "load ledger"))
	}
	lines := splitLines(text)

	keys := make(map[string]struct{}, len(lines))
	corrupt := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}

		entry, err := parseLedgerLine(line)
		if err != nil {
			lineErr := migration.NewErrCorruptLedgerEntry(i+1, err)
			if l.policy == CorruptEntryAbort {
				return nil, errors.Wrapf(lineErr, "load ledger %q", l.object)
			}

			corrupt++
			l.logger.WithFields(logrus.Fields{
				"action": "ledger_load",
				"object": l.object,
				"line":   i + 1,
			}).WithError(err).Warn("skipping corrupt ledger entry")
			continue
		}

		keys[entry.Key] = struct{}{}
	}

	l.keys = keys
	l.torn = isTorn(text)
	l.metrics.LedgerLoaded(len(keys), corrupt)
	l.logger.WithFields(logrus.Fields{
		"action":  "ledger_load",
		"object":  l.object,
		"entries": len(keys),
		"corrupt": corrupt,
	}).Info("ledger loaded")

	return maps.Clone(keys), nil
}

func parseLedgerLine(line string) (migration.LedgerEntry, error) {
	var entry migration.LedgerEntry
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		return entry, err
	}
	if entry.Key == "" {
		return entry, errors.New("entry has no key")
	}
	return entry, nil
}

// Terminate ends a partial last line found by Load, so that the next entry
// is not glued onto it.
func (l *Ledger) Terminate(ctx context.Context) error {
	if !l.torn {
		return nil
	}
	if err := l.sink.terminate(ctx, l.object); err != nil {
		return errors.Wrap(err, "terminate ledger")
	}
	l.torn = false
	return nil
}

// Contains tests membership against the loaded snapshot plus the keys
// recorded since. It never reads from storage.
func (l *Ledger) Contains(key string) bool {
	_, ok := l.keys[key]
	return ok
}

// Record appends an entry for key. Only after it returns nil is key
// considered migrated.
func (l *Ledger) Record(ctx context.Context, key string, ts time.Time) error {
	if err := l.sink.AppendLine(ctx, l.object, migration.NewLedgerEntry(key, ts)); err != nil {
		if !migration.IsAppendFailed(err) {
			err = migration.NewErrAppendFailed(err)
		}
		return errors.Wrapf(err, "record ledger entry for %q", key)
	}

	l.keys[key] = struct{}{}
	return nil
}

// Len is the number of distinct migrated keys known to the ledger.
func (l *Ledger) Len() int {
	return len(l.keys)
}
