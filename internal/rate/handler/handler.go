package handler

import (
	"context"
	"fxsync/internal/domain"
	"fxsync/internal/rate"
	"time"
)

type RateService interface {
	PopulateCurrencies(ctx context.Context, actorID int64) ([]string, error)
	GetAndStore(ctx context.Context, fromID, toID int64) (domain.ExchangeRate, error)
	Lookup(ctx context.Context, fromID, toID int64, date time.Time) (domain.ExchangeRate, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

type SyncRunner interface {
	RunCycle(ctx context.Context) (rate.CycleReport, error)
	Status() rate.Status
}

type Handler struct {
	service RateService
	sync    SyncRunner
}

func NewRateHandler(service RateService, sync SyncRunner) *Handler {
	return &Handler{service: service, sync: sync}
}

type ExchangeRateView struct {
	ExchangeRateID int64     `json:"exchangeRateId" example:"42"`
	FromCurrencyID int64     `json:"fromCurrencyId" example:"1"`
	ToCurrencyID   int64     `json:"toCurrencyId" example:"2"`
	Date           string    `json:"date" example:"2025-05-06"`
	Rate           string    `json:"rate" example:"0.92"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func newExchangeRateView(r domain.ExchangeRate) ExchangeRateView {
	return ExchangeRateView{
		ExchangeRateID: r.ExchangeRateID,
		FromCurrencyID: r.FromCurrencyID,
		ToCurrencyID:   r.ToCurrencyID,
		Date:           r.Date.Format(domain.DateLayout),
		Rate:           r.Rate.String(),
		UpdatedAt:      r.UpdatedAt,
	}
}
