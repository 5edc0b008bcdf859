package handler

import (
	"context"
	"fxsync/internal/api/response"
	"fxsync/internal/domain"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Recalculator interface {
	Recalculate(ctx context.Context, quotationID, actorID int64) (int, []domain.QuotationLine, error)
}

type Handler struct {
	recalculator Recalculator
}

func NewQuotationHandler(recalculator Recalculator) *Handler {
	return &Handler{recalculator: recalculator}
}

type UpdateExchangeRatesRequest struct {
	UpdatedByID int64 `json:"updatedById" validate:"required,gt=0" example:"1"`
}

type LineView struct {
	SalesQuotationParcelID int64      `json:"salesQuotationParcelId" example:"10"`
	SalesQuotationID       int64      `json:"salesQuotationId" example:"1"`
	SupplierAmount         *string    `json:"supplierAmount" example:"100.00"`
	SupplierCurrencyID     *int64     `json:"supplierCurrencyId" example:"2"`
	LocalCurrencyID        *int64     `json:"localCurrencyId" example:"1"`
	ExchangeRate           *string    `json:"exchangeRate" example:"1.087"`
	ExchangeRateDate       *string    `json:"exchangeRateDate" example:"2025-05-06"`
	ExchangeAmount         *string    `json:"exchangeAmount" example:"108.7"`
	UpdatedByID            *int64     `json:"updatedById" example:"1"`
	UpdatedAt              *time.Time `json:"updatedAt"`
}

type UpdateExchangeRatesResponse struct {
	UpdatedCount int        `json:"updatedCount" example:"3"`
	Lines        []LineView `json:"lines"`
}

// UpdateExchangeRates godoc
// @Summary Recalculate quotation exchange amounts
// @Description Refresh the exchange rate and converted amount of every active line of a sales quotation
// @Tags Sales quotations
// @Accept json
// @Produce json
// @Param salesQuotationId path int true "Sales quotation ID"
// @Param request body UpdateExchangeRatesRequest true "Actor"
// @Success 200 {object} response.Envelope{data=UpdateExchangeRatesResponse}
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope "recalculation already running"
// @Failure 502 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /sales-quotation-parcels/update-exchange-rates/{salesQuotationId} [post]
func (h *Handler) UpdateExchangeRates(w http.ResponseWriter, r *http.Request) {
	quotationID, err := strconv.ParseInt(chi.URLParam(r, "salesQuotationId"), 10, 64)
	if err != nil || quotationID <= 0 {
		response.Error(w, domain.NewValidationError("salesQuotationId", "must be a positive id"), nil)
		return
	}

	var req UpdateExchangeRatesRequest
	if err = response.DecodeJSON(w, r, &req); err != nil {
		response.Error(w, err, nil)
		return
	}

	count, lines, err := h.recalculator.Recalculate(r.Context(), quotationID, req.UpdatedByID)
	if err != nil {
		response.Error(w, err, logrus.Fields{"handler": "UpdateExchangeRates", "sales_quotation_id": quotationID})
		return
	}

	views := make([]LineView, 0, len(lines))
	for _, l := range lines {
		views = append(views, newLineView(l))
	}
	response.JSON(w, http.StatusOK, "Exchange rates updated", UpdateExchangeRatesResponse{UpdatedCount: count, Lines: views})
}

func newLineView(l domain.QuotationLine) LineView {
	v := LineView{
		SalesQuotationParcelID: l.SalesQuotationParcelID,
		SalesQuotationID:       l.SalesQuotationID,
		SupplierCurrencyID:     l.SupplierCurrencyID,
		LocalCurrencyID:        l.LocalCurrencyID,
		UpdatedByID:            l.UpdatedByID,
	}
	if l.SupplierAmount != nil {
		s := l.SupplierAmount.String()
		v.SupplierAmount = &s
	}
	if l.ExchangeRate != nil {
		s := l.ExchangeRate.String()
		v.ExchangeRate = &s
	}
	if l.ExchangeRateDate != nil {
		s := l.ExchangeRateDate.Format(domain.DateLayout)
		v.ExchangeRateDate = &s
	}
	if l.ExchangeAmount != nil {
		s := l.ExchangeAmount.String()
		v.ExchangeAmount = &s
	}
	if !l.UpdatedAt.IsZero() {
		t := l.UpdatedAt
		v.UpdatedAt = &t
	}
	return v
}
