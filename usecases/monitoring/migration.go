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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "appendlog_migrator"

// MigrationMetrics are the collectors of one migrator process. All methods
// are safe to call on a nil receiver, which disables metrics.
type MigrationMetrics struct {
	RecordsMigrated       prometheus.Counter
	RecordsSkipped        *prometheus.CounterVec
	RecordsAlreadyPresent prometheus.Counter
	FetchRetries          prometheus.Counter
	LedgerEntriesLoaded   prometheus.Gauge
	LedgerCorruptLines    prometheus.Counter
	AppendDurations       *prometheus.HistogramVec
	AppendFailures        *prometheus.CounterVec
	RunState              *prometheus.GaugeVec
}

// NewMigrationMetrics registers all collectors with reg. A nil reg yields
// working collectors that are never exported.
func NewMigrationMetrics(reg prometheus.Registerer) *MigrationMetrics {
	if reg == nil {
		reg = noop
	}
	factory := promauto.With(reg)

	return &MigrationMetrics{
		RecordsMigrated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_migrated_total",
			Help:      "Records appended to the destination log and recorded in the ledger",
		}),
		RecordsSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "Candidate records skipped for the current run, by reason",
		}, []string{"reason"}),
		RecordsAlreadyPresent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_already_present_total",
			Help:      "Listed records that the ledger already marks as migrated",
		}),
		FetchRetries: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_retries_total",
			Help:      "Retried source fetches after a transient error",
		}),
		LedgerEntriesLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ledger_entries_loaded",
			Help:      "Distinct keys in the ledger snapshot of the current run",
		}),
		LedgerCorruptLines: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_corrupt_lines_total",
			Help:      "Ledger lines that could not be parsed while loading",
		}),
		AppendDurations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "append_duration_seconds",
			Help:      "Duration of single line appends to the destination",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}, []string{"object"}),
		AppendFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "append_failures_total",
			Help:      "Failed appends to the destination",
		}, []string{"object"}),
		RunState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_state",
			Help:      "1 for the state the orchestrator is currently in, 0 otherwise",
		}, []string{"state"}),
	}
}

func (m *MigrationMetrics) Migrated() {
	if m == nil {
		return
	}

	m.RecordsMigrated.Inc()
}

func (m *MigrationMetrics) Skipped(reason string) {
	if m == nil {
		return
	}

	m.RecordsSkipped.WithLabelValues(reason).Inc()
}

func (m *MigrationMetrics) AlreadyPresent(n int) {
	if m == nil {
		return
	}

	m.RecordsAlreadyPresent.Add(float64(n))
}

func (m *MigrationMetrics) FetchRetried() {
	if m == nil {
		return
	}

	m.FetchRetries.Inc()
}

func (m *MigrationMetrics) LedgerLoaded(entries, corrupt int) {
	if m == nil {
		return
	}

	m.LedgerEntriesLoaded.Set(float64(entries))
	m.LedgerCorruptLines.Add(float64(corrupt))
}

func (m *MigrationMetrics) ObserveAppend(object string, took time.Duration, err error) {
	if m == nil {
		return
	}

	m.AppendDurations.WithLabelValues(object).Observe(took.Seconds())
	if err != nil {
		m.AppendFailures.WithLabelValues(object).Inc()
	}
}

// SetState marks state as the current one and resets all others in states.
func (m *MigrationMetrics) SetState(state string, states []string) {
	if m == nil {
		return
	}

	for _, s := range states {
		if s == state {
			m.RunState.WithLabelValues(s).Set(1)
		} else {
			m.RunState.WithLabelValues(s).Set(0)
		}
	}
}
