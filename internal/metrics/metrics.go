package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SyncMetrics holds the counters of rate sync cycles and quotation recalculations.
// A nil *SyncMetrics records nothing.
type SyncMetrics struct {
	registry *prometheus.Registry

	CyclesTotal        *prometheus.CounterVec
	FetchFailuresTotal *prometheus.CounterVec
	RateUpsertsTotal   prometheus.Counter
	LastSuccessfulSync prometheus.Gauge
	RecalculatedLines  prometheus.Counter
}

func NewSyncMetrics() *SyncMetrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &SyncMetrics{
		registry: reg,
		CyclesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsync_cycles_total",
				Help: "Rate sync cycles by result",
			},
			[]string{"result"},
		),
		FetchFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsync_fetch_failures_total",
				Help: "Failed rate fetches by target currency and failure kind",
			},
			[]string{"currency", "kind"},
		),
		RateUpsertsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "fxsync_rate_upserts_total",
			Help: "Exchange rates written to the store",
		}),
		LastSuccessfulSync: factory.NewGauge(prometheus.GaugeOpts{
			Name: "fxsync_last_successful_sync_timestamp_seconds",
			Help: "Unix time of the last cycle that finished without a fatal error",
		}),
		RecalculatedLines: factory.NewCounter(prometheus.CounterOpts{
			Name: "fxsync_recalculated_lines_total",
			Help: "Sales quotation lines with recalculated exchange amounts",
		}),
	}
}

func (m *SyncMetrics) RecordCycle(result string, finishedAt time.Time) {
	if m == nil {
		return
	}
	m.CyclesTotal.WithLabelValues(result).Inc()
	if result != "failed" {
		m.LastSuccessfulSync.Set(float64(finishedAt.Unix()))
	}
}

func (m *SyncMetrics) RecordFetchFailure(currency, kind string) {
	if m == nil {
		return
	}
	m.FetchFailuresTotal.WithLabelValues(currency, kind).Inc()
}

func (m *SyncMetrics) RecordUpsert() {
	if m == nil {
		return
	}
	m.RateUpsertsTotal.Inc()
}

func (m *SyncMetrics) RecordRecalculatedLines(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.RecalculatedLines.Add(float64(n))
}

// Handler exposes the registry in the Prometheus text format.
func (m *SyncMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
