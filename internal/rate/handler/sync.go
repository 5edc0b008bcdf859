package handler

import (
	"fxsync/internal/api/response"
	"fxsync/internal/rate"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type CurrencyFailureView struct {
	Currency string `json:"currency" example:"GBP"`
	Kind     string `json:"kind" example:"unavailable"`
	Message  string `json:"message"`
}

type SyncReportView struct {
	ExecutionID string                `json:"executionId"`
	Result      string                `json:"result" example:"partial"`
	StartedAt   time.Time             `json:"startedAt"`
	FinishedAt  time.Time             `json:"finishedAt"`
	Stored      []string              `json:"stored" example:"EUR,JPY"`
	Failed      []CurrencyFailureView `json:"failed"`
	Skipped     []string              `json:"skipped"`
}

type StatusView struct {
	State       string     `json:"state" example:"idle"`
	LastSuccess *time.Time `json:"lastSuccess"`
	NextRun     *time.Time `json:"nextRun"`
}

// RunSync godoc
// @Summary Run a sync cycle
// @Description Refresh every basket currency against the base currency now
// @Tags Exchange rates
// @Produce json
// @Success 200 {object} response.Envelope{data=SyncReportView}
// @Failure 404 {object} response.Envelope "base currency unknown"
// @Failure 409 {object} response.Envelope "a cycle is already running"
// @Failure 503 {object} response.Envelope "service is shutting down"
// @Failure 500 {object} response.Envelope
// @Router /exchange-rates/sync [post]
func (h *Handler) RunSync(w http.ResponseWriter, r *http.Request) {
	report, err := h.sync.RunCycle(r.Context())
	if err != nil {
		response.Error(w, err, logrus.Fields{"handler": "RunSync", "exec_id": report.ExecutionID})
		return
	}
	response.JSON(w, http.StatusOK, "Sync finished", newSyncReportView(report))
}

// GetStatus godoc
// @Summary Scheduler status
// @Tags Exchange rates
// @Produce json
// @Success 200 {object} response.Envelope{data=StatusView}
// @Router /exchange-rates/status [get]
func (h *Handler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	st := h.sync.Status()
	response.JSON(w, http.StatusOK, "Scheduler status", StatusView{
		State:       string(st.State),
		LastSuccess: st.LastSuccess,
		NextRun:     st.NextRun,
	})
}

func newSyncReportView(report rate.CycleReport) SyncReportView {
	failed := make([]CurrencyFailureView, 0, len(report.Failed))
	for _, f := range report.Failed {
		failed = append(failed, CurrencyFailureView{Currency: f.Currency, Kind: f.Kind, Message: response.MessageFor(f.Err, response.StatusFor(f.Err))})
	}
	stored := report.Stored
	if stored == nil {
		stored = []string{}
	}
	skipped := report.Skipped
	if skipped == nil {
		skipped = []string{}
	}
	return SyncReportView{
		ExecutionID: report.ExecutionID,
		Result:      report.Result(),
		StartedAt:   report.StartedAt,
		FinishedAt:  report.FinishedAt,
		Stored:      stored,
		Failed:      failed,
		Skipped:     skipped,
	}
}
