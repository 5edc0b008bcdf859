package handler

import (
	"fxsync/internal/api/response"
	"net/http"

	"github.com/sirupsen/logrus"
)

type GetAndStoreRequest struct {
	FromCurrencyID int64 `json:"fromCurrencyId" validate:"required,gt=0" example:"1"`
	ToCurrencyID   int64 `json:"toCurrencyId" validate:"required,gt=0" example:"2"`
}

// GetAndStore godoc
// @Summary Fetch and store a rate
// @Description Fetch today's rate for a currency pair from the provider and store it
// @Tags Exchange rates
// @Accept json
// @Produce json
// @Param request body GetAndStoreRequest true "Currency pair"
// @Success 201 {object} response.Envelope{data=ExchangeRateView}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /exchange-rates/get-and-store [post]
func (h *Handler) GetAndStore(w http.ResponseWriter, r *http.Request) {
	var req GetAndStoreRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, err, nil)
		return
	}

	stored, err := h.service.GetAndStore(r.Context(), req.FromCurrencyID, req.ToCurrencyID)
	if err != nil {
		response.Error(w, err, logrus.Fields{"handler": "GetAndStore", "from": req.FromCurrencyID, "to": req.ToCurrencyID})
		return
	}
	response.JSON(w, http.StatusCreated, "Exchange rate stored", newExchangeRateView(stored))
}
