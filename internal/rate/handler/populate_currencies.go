package handler

import (
	"fxsync/internal/api/response"
	"net/http"

	"github.com/sirupsen/logrus"
)

type PopulateCurrenciesRequest struct {
	CreatedByID int64 `json:"createdById" validate:"required,gt=0" example:"1"`
}

type PopulateCurrenciesResponse struct {
	Codes []string `json:"codes" example:"EUR,JPY,USD"`
}

// PopulateCurrencies godoc
// @Summary Populate currencies
// @Description Create the allowed currencies quoted by the rate provider for the base currency
// @Tags Exchange rates
// @Accept json
// @Produce json
// @Param request body PopulateCurrenciesRequest true "Actor"
// @Success 201 {object} response.Envelope{data=PopulateCurrenciesResponse}
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /exchange-rates/populate-currencies [post]
func (h *Handler) PopulateCurrencies(w http.ResponseWriter, r *http.Request) {
	var req PopulateCurrenciesRequest
	if err := response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, err, nil)
		return
	}

	codes, err := h.service.PopulateCurrencies(r.Context(), req.CreatedByID)
	if err != nil {
		response.Error(w, err, logrus.Fields{"handler": "PopulateCurrencies", "created_by_id": req.CreatedByID})
		return
	}
	response.JSON(w, http.StatusCreated, "Currencies populated", PopulateCurrenciesResponse{Codes: codes})
}
