package handler

import (
	"fxsync/internal/api/response"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

type CurrencyView struct {
	CurrencyID int64     `json:"currencyId" example:"1"`
	Name       string    `json:"name" example:"USD"`
	CreatedAt  time.Time `json:"createdAt"`
}

// GetCurrencies godoc
// @Summary List currencies
// @Tags Exchange rates
// @Produce json
// @Success 200 {object} response.Envelope{data=[]CurrencyView}
// @Failure 500 {object} response.Envelope
// @Router /exchange-rates/currencies [get]
func (h *Handler) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	currencies, err := h.service.ListCurrencies(r.Context())
	if err != nil {
		response.Error(w, err, logrus.Fields{"handler": "GetCurrencies"})
		return
	}

	views := make([]CurrencyView, 0, len(currencies))
	for _, c := range currencies {
		views = append(views, CurrencyView{CurrencyID: c.CurrencyID, Name: c.Name, CreatedAt: c.CreatedAt})
	}
	response.JSON(w, http.StatusOK, "Currencies found", views)
}
