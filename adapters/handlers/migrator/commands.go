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
	"encoding/json"
	"io"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	enterrors "github.com/weaviate/appendlog-migrator/entities/errors"
	"github.com/weaviate/appendlog-migrator/entities/migration"
	"github.com/weaviate/appendlog-migrator/usecases/config"
)

// ErrInconsistent is returned by the verify command if the data object and
// the ledger do not pair up.
var ErrInconsistent = errors.New("destination is not consistent")

// Options are the flags shared by all commands.
type Options struct {
	Config string `long:"config" short:"c" env:"MIGRATOR_CONFIG" description:"path to a .yaml or .json config file"`
}

type command struct {
	ctx    context.Context
	opts   *Options
	logger *logrus.Logger
	out    io.Writer
}

func (c *command) load() (config.Config, error) {
	cfg, err := config.Load(c.opts.Config, c.logger)
	if err != nil {
		return cfg, errors.Wrap(err, "load config")
	}
	return cfg, nil
}

func (c *command) print(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// RunCommand migrates all records that are not in the ledger yet.
type RunCommand struct {
	DryRun      bool `long:"dry-run" description:"fetch, transform and encode records without writing"`
	NoProvision bool `long:"no-provision" description:"do not create missing destination objects"`

	command `no-flag:"true"`
}

func (c *RunCommand) Execute(args []string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := New(c.ctx, cfg, c.logger, reg)
	if err != nil {
		return err
	}
	defer app.Close()

	eg, ctx := enterrors.NewErrorGroupWrapper(c.ctx, c.logger)
	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	if cfg.Monitoring.Enabled {
		eg.Go(func() error {
			return serveMetrics(serverCtx, reg, cfg.Monitoring.Port, c.logger)
		})
	}

	var report *migration.Report
	eg.Go(func() error {
		defer stopServer()

		if !c.NoProvision && !c.DryRun {
			if err := app.Provision(ctx); err != nil {
				return err
			}
		}

		var err error
		report, err = app.Orchestrator(c.DryRun).Run(ctx)
		return err
	})

	err = eg.Wait()
	if report != nil {
		if perr := c.print(report); perr != nil && err == nil {
			err = perr
		}
	}
	return err
}

// VerifyCommand checks that the data object and the ledger pair up.
type VerifyCommand struct {
	command `no-flag:"true"`
}

func (c *VerifyCommand) Execute(args []string) error {
	cfg, err := c.load()
	if err != nil {
		return err
	}

	app, err := New(c.ctx, cfg, c.logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Verifier().Verify(c.ctx)
	if err != nil {
		return err
	}
	if err := c.print(report); err != nil {
		return err
	}
	if !report.Consistent() {
		return ErrInconsistent
	}
	return nil
}

// NewParser returns the command line parser of the migrator. Command output
// is written to out, logs go to logger.
func NewParser(ctx context.Context, logger *logrus.Logger, out io.Writer) *flags.Parser {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "migrator"

	base := command{ctx: ctx, opts: opts, logger: logger, out: out}
	parser.AddCommand("run", "Migrate new records",
		"Append every source record that is not in the ledger to the data object and record it in the ledger.",
		&RunCommand{command: base})
	parser.AddCommand("verify", "Verify the destination",
		"Check that every ledger entry has exactly one data row and vice versa.",
		&VerifyCommand{command: base})

	return parser
}
