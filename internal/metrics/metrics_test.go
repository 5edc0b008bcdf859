package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestSyncMetrics_RecordCycle(t *testing.T) {
	m := NewSyncMetrics()
	at := time.Date(2025, 5, 6, 12, 0, 0, 0, time.UTC)

	m.RecordCycle("ok", at)
	m.RecordCycle("partial", at)
	m.RecordCycle("failed", at.Add(time.Hour))

	require.Equal(t, float64(1), testutil.ToFloat64(m.CyclesTotal.WithLabelValues("ok")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.CyclesTotal.WithLabelValues("failed")))
	require.Equal(t, float64(at.Unix()), testutil.ToFloat64(m.LastSuccessfulSync))
}

func TestSyncMetrics_Counters(t *testing.T) {
	m := NewSyncMetrics()
	m.RecordFetchFailure("GBP", "unavailable")
	m.RecordUpsert()
	m.RecordUpsert()
	m.RecordRecalculatedLines(3)
	m.RecordRecalculatedLines(0)

	require.Equal(t, float64(1), testutil.ToFloat64(m.FetchFailuresTotal.WithLabelValues("GBP", "unavailable")))
	require.Equal(t, float64(2), testutil.ToFloat64(m.RateUpsertsTotal))
	require.Equal(t, float64(3), testutil.ToFloat64(m.RecalculatedLines))
}

func TestSyncMetrics_NilIsNoop(t *testing.T) {
	var m *SyncMetrics
	require.NotPanics(t, func() {
		m.RecordCycle("ok", time.Now())
		m.RecordFetchFailure("EUR", "rejected")
		m.RecordUpsert()
		m.RecordRecalculatedLines(2)
	})
}

func TestSyncMetrics_Handler(t *testing.T) {
	m := NewSyncMetrics()
	m.RecordUpsert()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Contains(t, rr.Body.String(), "fxsync_rate_upserts_total 1")
}
