package rate

import (
	"context"
	"errors"
	"fmt"
	"fxsync/internal/adapters"
	"fxsync/internal/domain"
	"fxsync/internal/metrics"
	"maps"
	"slices"
	"time"

	"github.com/sirupsen/logrus"
)

type Service struct {
	store     adapters.RateStore
	fetcher   adapters.RateFetcher
	publisher adapters.RateEventPublisher
	basket    *Basket
	metrics   *metrics.SyncMetrics
	now       func() time.Time
}

// PopulateCurrencies creates the allowed currencies quoted by the provider for the basket base.
// It returns the codes that are now guaranteed to exist.
func (s *Service) PopulateCurrencies(ctx context.Context, actorID int64) ([]string, error) {
	if actorID <= 0 {
		return nil, domain.NewValidationError("createdById", "must be a positive id")
	}

	quoted, err := s.fetcher.FetchBasket(ctx, s.basket.Base(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch currency list for %q: %w", s.basket.Base(), err)
	}

	codes := s.basket.Filter(slices.Collect(maps.Keys(quoted)))
	if err = s.store.EnsureCurrenciesExist(ctx, codes, actorID); err != nil {
		return nil, err
	}
	return codes, nil
}

// GetAndStore fetches today's rate for the pair and upserts it.
func (s *Service) GetAndStore(ctx context.Context, fromID, toID int64) (domain.ExchangeRate, error) {
	if err := validateCurrencyPair(fromID, toID); err != nil {
		return domain.ExchangeRate{}, err
	}
	from, to, err := s.currencyPair(ctx, fromID, toID)
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	return s.fetchAndStore(ctx, from, to)
}

// Lookup returns the stored rate of the pair for date, today when date is zero.
func (s *Service) Lookup(ctx context.Context, fromID, toID int64, date time.Time) (domain.ExchangeRate, error) {
	if err := validateCurrencyPair(fromID, toID); err != nil {
		return domain.ExchangeRate{}, err
	}
	if date.IsZero() {
		date = s.now()
	}
	return s.store.Lookup(ctx, fromID, toID, domain.RateDate(date))
}

func (s *Service) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.store.ListCurrencies(ctx)
}

// Resolve returns the stored rate for the pair and date. On a miss the rate is
// fetched from the provider and stored before it is returned.
func (s *Service) Resolve(ctx context.Context, fromID, toID int64, date time.Time) (domain.ExchangeRate, error) {
	stored, err := s.store.Lookup(ctx, fromID, toID, domain.RateDate(date))
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.ExchangeRate{}, err
	}

	from, to, err := s.currencyPair(ctx, fromID, toID)
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	return s.fetchAndStore(ctx, from, to)
}

func (s *Service) currencyPair(ctx context.Context, fromID, toID int64) (domain.Currency, domain.Currency, error) {
	from, err := s.store.CurrencyByID(ctx, fromID)
	if err != nil {
		return domain.Currency{}, domain.Currency{}, err
	}
	to, err := s.store.CurrencyByID(ctx, toID)
	if err != nil {
		return domain.Currency{}, domain.Currency{}, err
	}
	return from, to, nil
}

func (s *Service) fetchAndStore(ctx context.Context, from, to domain.Currency) (domain.ExchangeRate, error) {
	fetched, err := s.fetcher.FetchRate(ctx, from.Name, to.Name)
	if err != nil {
		return domain.ExchangeRate{}, err
	}

	rate := domain.RoundRate(fetched.Rate)
	id, err := s.store.Upsert(ctx, from.CurrencyID, to.CurrencyID, fetched.AsOf, rate)
	if err != nil {
		return domain.ExchangeRate{}, err
	}
	s.metrics.RecordUpsert()

	stored := domain.ExchangeRate{
		ExchangeRateID: id,
		FromCurrencyID: from.CurrencyID,
		ToCurrencyID:   to.CurrencyID,
		Date:           fetched.AsOf,
		Rate:           rate,
		UpdatedAt:      s.now(),
	}
	if pubErr := s.publisher.PublishRateStored(ctx, stored); pubErr != nil {
		logrus.WithError(pubErr).WithFields(logrus.Fields{"from": from.Name, "to": to.Name}).Warn("rate stored but event wasn't published")
	}
	return stored, nil
}

func NewService(store adapters.RateStore, fetcher adapters.RateFetcher, publisher adapters.RateEventPublisher, basket *Basket, m *metrics.SyncMetrics) *Service {
	return &Service{
		store:     store,
		fetcher:   fetcher,
		publisher: publisher,
		basket:    basket,
		metrics:   m,
		now:       time.Now,
	}
}
