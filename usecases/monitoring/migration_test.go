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

package monitoring

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMigrationMetrics(reg)

	t.Run("counters", func(t *testing.T) {
		m.Migrated()
		m.Migrated()
		m.Skipped("fetch_error")
		m.AlreadyPresent(3)
		m.FetchRetried()

		assert.Equal(t, float64(2), testutil.ToFloat64(m.RecordsMigrated))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.RecordsSkipped.WithLabelValues("fetch_error")))
		assert.Equal(t, float64(3), testutil.ToFloat64(m.RecordsAlreadyPresent))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.FetchRetries))
	})

	t.Run("ledger load", func(t *testing.T) {
		m.LedgerLoaded(10, 1)
		m.LedgerLoaded(12, 0)

		assert.Equal(t, float64(12), testutil.ToFloat64(m.LedgerEntriesLoaded))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.LedgerCorruptLines))
	})

	t.Run("appends", func(t *testing.T) {
		m.ObserveAppend("data.jsonl", 10*time.Millisecond, nil)
		m.ObserveAppend("data.jsonl", 10*time.Millisecond, errors.New("boom"))

		assert.Equal(t, 1, testutil.CollectAndCount(m.AppendDurations))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.AppendFailures.WithLabelValues("data.jsonl")))
	})

	t.Run("state", func(t *testing.T) {
		states := []string{"idle", "listing", "done"}
		m.SetState("listing", states)
		assert.Equal(t, float64(1), testutil.ToFloat64(m.RunState.WithLabelValues("listing")))
		assert.Equal(t, float64(0), testutil.ToFloat64(m.RunState.WithLabelValues("idle")))

		m.SetState("done", states)
		assert.Equal(t, float64(0), testutil.ToFloat64(m.RunState.WithLabelValues("listing")))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.RunState.WithLabelValues("done")))
	})

	t.Run("registered", func(t *testing.T) {
		families, err := reg.Gather()
		require.NoError(t, err)
		assert.NotEmpty(t, families)
	})
}

func TestNilMigrationMetrics(t *testing.T) {
	var m *MigrationMetrics

	assert.NotPanics(t, func() {
		m.Migrated()
		m.Skipped("fetch_error")
		m.AlreadyPresent(1)
		m.FetchRetried()
		m.LedgerLoaded(1, 1)
		m.ObserveAppend("data", time.Second, nil)
		m.SetState("idle", []string{"idle"})
	})
}

func TestNoopRegistry(t *testing.T) {
	// two instances on the noop registry must not collide
	assert.NotPanics(t, func() {
		NewMigrationMetrics(nil)
		NewMigrationMetrics(nil)
	})
}
