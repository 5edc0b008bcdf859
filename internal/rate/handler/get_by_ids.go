package handler

import (
	"fxsync/internal/api/response"
	"fxsync/internal/domain"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

// GetByIDs godoc
// @Summary Get a stored rate
// @Description Get the stored rate of a currency pair for a date (today by default)
// @Tags Exchange rates
// @Produce json
// @Param fromCurrencyId path int true "From currency ID"
// @Param toCurrencyId path int true "To currency ID"
// @Param date query string false "Rate date, YYYY-MM-DD"
// @Success 200 {object} response.Envelope{data=ExchangeRateView}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /exchange-rates/{fromCurrencyId}/{toCurrencyId} [get]
func (h *Handler) GetByIDs(w http.ResponseWriter, r *http.Request) {
	fromID, err := pathID(r, "fromCurrencyId")
	if err != nil {
		response.Error(w, err, nil)
		return
	}
	toID, err := pathID(r, "toCurrencyId")
	if err != nil {
		response.Error(w, err, nil)
		return
	}
	date, err := domain.ParseRateDate(r.URL.Query().Get("date"))
	if err != nil {
		response.Error(w, err, nil)
		return
	}

	found, err := h.service.Lookup(r.Context(), fromID, toID, date)
	if err != nil {
		response.Error(w, err, logrus.Fields{"handler": "GetByIDs", "from": fromID, "to": toID})
		return
	}
	response.JSON(w, http.StatusOK, "Exchange rate found", newExchangeRateView(found))
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError(name, "must be a positive id")
	}
	return id, nil
}
