//go:build integrationTest

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

package test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/appendlog-migrator/adapters/handlers/migrator"
	"github.com/weaviate/appendlog-migrator/modules/destination-azure/azure"
	"github.com/weaviate/appendlog-migrator/usecases/config"
)

func TestMigrationS3ToAzure(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()

	putS3Objects(t, "e2e-listings", map[string]string{
		"housing/":           "",
		"housing/2021-06-01": `{"title":"flat","price":500}`,
		"housing/2021-06-02": `{"title":"room","price":300}`,
		"jobs/2021-06-01":    `{"title":"cook"}`,
	})

	cfg := config.Default()
	cfg.Source = config.Source{
		Backend:  config.BackendS3,
		Bucket:   "e2e-listings",
		Endpoint: os.Getenv("SOURCE_ENDPOINT"),
	}
	cfg.Destination.Backend = config.BackendAzure
	cfg.Destination.ConnectionString = os.Getenv(azure.AZURE_STORAGE_CONNECTION_STRING)
	cfg.Destination.Container = "e2e-exports"
	cfg.Destination.DataObject = "listings.jsonl"
	cfg.Destination.Lock = true
	cfg.Destination.LockTTL = 15 * time.Second

	app, err := migrator.New(ctx, cfg, logger, prometheus.NewRegistry())
	require.NoError(t, err)
	defer app.Close()
	require.NoError(t, app.Provision(ctx))

	report, err := app.Orchestrator(false).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Listed)
	assert.Equal(t, 3, report.Migrated)
	assert.Equal(t, float64(3), testutil.ToFloat64(app.Metrics.RecordsMigrated))

	data, err := app.Destination.ReadAll(ctx, "e2e-exports", "listings.jsonl")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSuffix(data, "\n"), "\n"), 3)
	assert.Contains(t, data, `{"date":"2021-06-02","price":300,"title":"room","type":"housing"}`+"\n")

	// new source objects are picked up, migrated ones are not repeated
	putS3Objects(t, "e2e-listings", map[string]string{
		"jobs/2021-06-03": `{"title":"driver"}`,
	})
	require.NoError(t, app.Provision(ctx))
	report, err = app.Orchestrator(false).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.AlreadyPresent)
	assert.Equal(t, 1, report.Migrated)

	verified, err := app.Verifier().Verify(ctx)
	require.NoError(t, err)
	assert.True(t, verified.Consistent())
	assert.Equal(t, 4, verified.LedgerEntries)
}
