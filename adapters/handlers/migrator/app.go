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

package migrator

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/appendlog-migrator/modules/destination-azure/azure"
	moddstfs "github.com/weaviate/appendlog-migrator/modules/destination-filesystem"
	modsrcfs "github.com/weaviate/appendlog-migrator/modules/source-filesystem"
	"github.com/weaviate/appendlog-migrator/modules/source-gcs/gcs"
	"github.com/weaviate/appendlog-migrator/modules/source-s3/s3"
	"github.com/weaviate/appendlog-migrator/usecases/config"
	migrate "github.com/weaviate/appendlog-migrator/usecases/migration"
	"github.com/weaviate/appendlog-migrator/usecases/monitoring"
)

// App holds the components of one migrator process, wired from a Config.
type App struct {
	Config  config.Config
	Logger  logrus.FieldLogger
	Metrics *monitoring.MigrationMetrics

	Source      migrate.SourceStore
	Destination migrate.DestinationStore
	Locker      migrate.Locker
	Sink        *migrate.AppendSink

	closers []func() error
}

// New builds the stores of cfg. reg may be nil, metrics are then collected
// but not exported.
func New(ctx context.Context, cfg config.Config, logger logrus.FieldLogger,
	reg prometheus.Registerer,
) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: monitoring.NewMigrationMetrics(reg),
	}

	if err := app.initSource(ctx); err != nil {
		return nil, errors.Wrap(err, "init source")
	}
	if err := app.initDestination(); err != nil {
		app.Close()
		return nil, errors.Wrap(err, "init destination")
	}

	app.Sink = migrate.NewAppendSink(app.Destination, cfg.Destination.Container, logger, app.Metrics)
	return app, nil
}

func (a *App) initSource(ctx context.Context) error {
	src := a.Config.Source
	switch src.Backend {
	case config.BackendS3:
		source, err := s3.New(s3.NewConfig(src.Endpoint, src.UseSSL), a.Logger)
		if err != nil {
			return err
		}
		a.Source = source
	case config.BackendGCS:
		source, err := gcs.New(ctx, gcs.NewConfig(true), a.Logger)
		if err != nil {
			return err
		}
		a.Source = source
		a.closers = append(a.closers, source.Close)
	case config.BackendFilesystem:
		a.Source = modsrcfs.New(src.Path, a.Logger)
	default:
		return errors.Errorf("unknown source backend %q", src.Backend)
	}

	a.Logger.WithFields(logrus.Fields{
		"action":  "init_source",
		"backend": src.Backend,
		"bucket":  src.Bucket,
		"prefix":  src.Prefix,
	}).Debug("source store ready")
	return nil
}

func (a *App) initDestination() error {
	dst := a.Config.Destination
	switch dst.Backend {
	case config.BackendAzure:
		dest, err := azure.New(dst.ConnectionString, a.Logger)
		if err != nil {
			return err
		}
		a.Destination = dest
		if dst.Lock {
			a.Locker = dest.NewLeaseLocker(dst.Container, dst.LockObjectName(), dst.LockTTL)
		}
	case config.BackendFilesystem:
		dest := moddstfs.New(dst.Path, a.Logger)
		a.Destination = dest
		if dst.Lock {
			locker, err := moddstfs.NewLocker(dest, dst.Container, dst.LockObjectName())
			if err != nil {
				return err
			}
			a.Locker = locker
		}
	default:
		return errors.Errorf("unknown destination backend %q", dst.Backend)
	}

	a.Logger.WithFields(logrus.Fields{
		"action":    "init_destination",
		"backend":   dst.Backend,
		"container": dst.Container,
		"data":      dst.DataObject,
		"ledger":    dst.LedgerObjectName(),
		"lock":      dst.Lock,
	}).Debug("destination store ready")
	return nil
}

// Provision creates the data and the ledger object if they are missing.
func (a *App) Provision(ctx context.Context) error {
	return a.Sink.Provision(ctx, a.Config.Destination.DataObject, a.Config.Destination.LedgerObjectName())
}

// Orchestrator returns a new orchestrator with a fresh ledger, one per run.
func (a *App) Orchestrator(dryRun bool) *migrate.Orchestrator {
	cfg := a.Config
	ledger := migrate.NewLedger(a.Sink, cfg.Destination.LedgerObjectName(),
		migrate.CorruptEntryPolicy(cfg.Migration.CorruptLedgerPolicy), a.Logger, a.Metrics)
	lister := migrate.NewLister(a.Source, cfg.Source.Bucket, cfg.Source.Prefix,
		cfg.Source.Include, cfg.Source.Exclude)

	opts := migrate.Options{
		DataObject:    cfg.Destination.DataObject,
		RecordTimeout: cfg.Migration.RecordTimeout,
		Retry: migrate.RetryPolicy{
			MaxRetries:      cfg.Migration.MaxRetries,
			InitialInterval: cfg.Migration.InitialBackoff,
			MaxInterval:     cfg.Migration.MaxBackoff,
		},
		Limiter: migrate.NewLimiter(cfg.Source.RateLimit, cfg.Source.Burst),
		DryRun:  dryRun,
	}

	return migrate.NewOrchestrator(lister, a.Source, a.Sink, ledger, a.Locker, opts, a.Logger, a.Metrics)
}

func (a *App) Verifier() *migrate.Verifier {
	return migrate.NewVerifier(a.Sink, a.Config.Destination.DataObject,
		a.Config.Destination.LedgerObjectName(), a.Logger)
}

// Close releases all clients and reports every error that occurred.
func (a *App) Close() error {
	var result *multierror.Error
	for _, closer := range a.closers {
		result = multierror.Append(result, closer())
	}
	return result.ErrorOrNil()
}
