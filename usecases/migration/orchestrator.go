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
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/appendlog-migrator/entities/migration"
	"github.com/weaviate/appendlog-migrator/usecases/monitoring"
	"golang.org/x/time/rate"
)

type State string

const (
	StateIdle      State = "idle"
	StateListing   State = "listing"
	StateFiltering State = "filtering"
	StateMigrating State = "migrating"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

var allStates = []string{
	string(StateIdle), string(StateListing), string(StateFiltering),
	string(StateMigrating), string(StateDone), string(StateFailed),
}

type Options struct {
	// DataObject is the destination object enriched records are appended to.
	DataObject    string
	RecordTimeout time.Duration
	Retry         RetryPolicy
	// Limiter throttles source fetches, nil means unlimited.
	Limiter *rate.Limiter
	// DryRun fetches, transforms and encodes candidates without appending.
	DryRun bool
	// Now is the clock for ledger timestamps, defaults to time.Now.
	Now func() time.Time
}

// Orchestrator drives one migration run: list the source, drop keys the
// ledger already knows, then migrate the rest one by one. Each record is
// appended to the data object first and recorded in the ledger second, the
// ledger entry is the commit marker.
//
// Only one Orchestrator may write to a destination at a time. Concurrent
// runs interleave data and ledger appends and break the one line per ledger
// entry pairing. Configure a Locker to detect that instead of relying on it.
type Orchestrator struct {
	lister  *Lister
	sink    *AppendSink
	ledger  *Ledger
	locker  Locker
	fetcher *fetcher
	opts    Options
	logger  logrus.FieldLogger
	metrics *monitoring.MigrationMetrics

	mu    sync.Mutex
	state State
}

// NewOrchestrator wires the components of a run. locker may be nil.
func NewOrchestrator(lister *Lister, source SourceStore, sink *AppendSink, ledger *Ledger,
	locker Locker, opts Options, logger logrus.FieldLogger, metrics *monitoring.MigrationMetrics,
) *Orchestrator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Limiter == nil {
		opts.Limiter = NewLimiter(0, 0)
	}
	if opts.RecordTimeout <= 0 {
		opts.RecordTimeout = 30 * time.Second
	}

	f := &fetcher{
		store:   source,
		bucket:  lister.Bucket(),
		timeout: opts.RecordTimeout,
		retry:   opts.Retry,
		limiter: opts.Limiter,
		logger:  logger,
		metrics: metrics,
	}

	return &Orchestrator{
		lister:  lister,
		sink:    sink,
		ledger:  ledger,
		locker:  locker,
		fetcher: f,
		opts:    opts,
		logger:  logger,
		metrics: metrics,
		state:   StateIdle,
	}
}

func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(logger logrus.FieldLogger, state State) {
	o.mu.Lock()
	from := o.state
	o.state = state
	o.mu.Unlock()

	o.metrics.SetState(string(state), allStates)
	logger.WithFields(logrus.Fields{
		"action": "state_transition",
		"from":   from,
		"to":     state,
	}).Debug("orchestrator state changed")
}

// Run performs one migration run. Per record failures are reported in the
// returned Report and do not stop the run. Failing appends, unreachable
// storage and cancellation end the run with an error; the Report then
// reflects the work done so far and the next run resumes from the ledger.
func (o *Orchestrator) Run(ctx context.Context) (report *migration.Report, err error) {
	report = &migration.Report{RunID: uuid.NewString(), DryRun: o.opts.DryRun}
	logger := o.logger.WithField("run_id", report.RunID)

	defer func() {
		if err != nil {
			o.setState(logger, StateFailed)
			logger.WithField("action", "migration_run").WithError(err).Error("migration run failed")
		}
	}()

	if o.locker != nil {
		unlock, err := o.locker.Lock(ctx)
		if err != nil {
			return report, migration.NewErrStorageUnavailable(errors.Wrap(err, "lock destination"))
		}
		defer func() {
			if err := unlock(context.Background()); err != nil {
				logger.WithField("action", "unlock_destination").WithError(err).
					Warn("could not release destination lock")
			}
		}()
	}

	o.setState(logger, StateListing)
	if _, err := o.ledger.Load(ctx); err != nil {
		// a dry run never provisions, a missing ledger means nothing migrated yet
		if !o.opts.DryRun || !errors.Is(err, migration.ErrObjectNotFound) {
			return report, err
		}
		logger.WithField("action", "ledger_load").WithError(err).
			Warn("ledger does not exist yet, dry run continues with an empty ledger")
	}

	if !o.opts.DryRun {
		if err := o.terminateTails(ctx); err != nil {
			return report, err
		}
	}

	keys, err := o.lister.List(ctx)
	if err != nil {
		return report, err
	}
	report.Listed = len(keys)

	o.setState(logger, StateFiltering)
	candidates := make([]string, 0, len(keys))
	for _, key := range keys {
		if o.ledger.Contains(key) {
			report.AlreadyPresent++
			continue
		}
		candidates = append(candidates, key)
	}
	o.metrics.AlreadyPresent(report.AlreadyPresent)

	logger.WithFields(logrus.Fields{
		"action":          "migration_run",
		"listed":          report.Listed,
		"already_present": report.AlreadyPresent,
		"candidates":      len(candidates),
		"dry_run":         o.opts.DryRun,
	}).Info("starting migration of new records")

	o.setState(logger, StateMigrating)
	for _, key := range candidates {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, "migration run interrupted")
		}

		// the same key listed twice is only migrated once
		if o.ledger.Contains(key) {
			report.AlreadyPresent++
			o.metrics.AlreadyPresent(1)
			continue
		}

		if err := o.migrateRecord(ctx, logger.WithField("key", key), key, report); err != nil {
			return report, err
		}
	}

	o.setState(logger, StateDone)
	logger.WithFields(logrus.Fields{
		"action":          "migration_run",
		"listed":          report.Listed,
		"already_present": report.AlreadyPresent,
		"migrated":        report.Migrated,
		"skipped":         report.SkippedCount(),
		"dry_run":         o.opts.DryRun,
	}).Info("migration run finished")

	return report, nil
}

// migrateRecord runs fetch, transform, data append and ledger append for one
// key. A returned error ends the run, skips are only recorded in report.
func (o *Orchestrator) migrateRecord(ctx context.Context, logger logrus.FieldLogger,
	key string, report *migration.Report,
) error {
	err := o.appendRecord(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrapf(ctx.Err(), "migration run interrupted at %q", key)
		}

		reason, skippable := migration.ReasonFor(err)
		if !skippable {
			return errors.Wrapf(err, "migrate %q", key)
		}

		report.Skip(key, reason, err)
		o.metrics.Skipped(string(reason))
		logger.WithFields(logrus.Fields{
			"action": "migrate_record",
			"reason": reason,
		}).WithError(err).Warn("skipping record")
		return nil
	}

	if o.opts.DryRun {
		report.Migrated++
		logger.WithField("action", "migrate_record").Debug("record would be migrated")
		return nil
	}

	// data is written, only the ledger entry is missing. If this fails the
	// next run migrates the key again and leaves one duplicate data line.
	// Cancellation is honored between records, not here.
	commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.opts.RecordTimeout)
	defer cancel()
	if err := o.ledger.Record(commitCtx, key, o.opts.Now()); err != nil {
		return errors.Wrapf(err, "migrate %q", key)
	}

	report.Migrated++
	o.metrics.Migrated()
	logger.WithField("action", "migrate_record").Info("record migrated")
	return nil
}

// terminateTails ends partial last lines of the ledger and the data object.
// Without it the first append of this run would be glued onto the fragment
// and become unreadable.
func (o *Orchestrator) terminateTails(ctx context.Context) error {
	if err := o.ledger.Terminate(ctx); err != nil {
		return err
	}
	if _, err := o.sink.Terminate(ctx, o.opts.DataObject); err != nil {
		return errors.Wrap(err, "terminate data object")
	}
	return nil
}

func (o *Orchestrator) appendRecord(ctx context.Context, key string) error {
	raw, err := o.fetcher.fetch(ctx, key)
	if err != nil {
		return err
	}

	value, err := Decode(raw)
	if err != nil {
		return errors.Wrapf(err, "decode %q", key)
	}

	enriched, err := Transform(key, value)
	if err != nil {
		return err
	}

	if o.opts.DryRun {
		_, err := EncodeLine(enriched)
		return err
	}

	return o.sink.AppendLine(ctx, o.opts.DataObject, enriched)
}
