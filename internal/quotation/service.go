package quotation

import (
	"context"
	"fmt"
	"fxsync/internal/adapters"
	"fxsync/internal/domain"
	"fxsync/internal/metrics"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// RateSource returns the rate of a currency pair for a date, fetching and storing it when missing.
type RateSource interface {
	Resolve(ctx context.Context, fromID, toID int64, date time.Time) (domain.ExchangeRate, error)
}

type Service struct {
	repo    adapters.QuotationRepository
	rates   RateSource
	locker  adapters.Locker
	metrics *metrics.SyncMetrics
	now     func() time.Time
}

type pair struct{ from, to int64 }

// Recalculate re-derives the exchange amounts of the quotation's active lines.
// Every rate is resolved before the first write; lines are written in one transaction.
func (s *Service) Recalculate(ctx context.Context, quotationID, actorID int64) (int, []domain.QuotationLine, error) {
	if quotationID <= 0 {
		return 0, nil, domain.NewValidationError("salesQuotationId", "must be a positive id")
	}
	if actorID <= 0 {
		return 0, nil, domain.NewValidationError("updatedById", "must be a positive id")
	}

	release, err := s.locker.TryLock(ctx, fmt.Sprintf("sales-quotation:%d", quotationID))
	if err != nil {
		return 0, nil, err
	}
	defer release()

	exists, err := s.repo.QuotationExists(ctx, quotationID)
	if err != nil {
		return 0, nil, err
	}
	if !exists {
		return 0, nil, &domain.NotFoundError{Entity: "sales quotation"}
	}

	lines, err := s.repo.ListActiveLines(ctx, quotationID)
	if err != nil {
		return 0, nil, err
	}

	log := logrus.WithField("sales_quotation_id", quotationID)
	today := domain.RateDate(s.now())
	resolved := make(map[pair]decimal.Decimal)
	updates := make([]domain.LineRateUpdate, 0, len(lines))

	for _, line := range lines {
		if line.SupplierAmount == nil || line.SupplierCurrencyID == nil || line.LocalCurrencyID == nil {
			log.WithField("parcel_id", line.SalesQuotationParcelID).Info("line skipped, amount or currency missing")
			continue
		}
		if line.HasUsableRate(today) {
			continue
		}

		p := pair{from: *line.SupplierCurrencyID, to: *line.LocalCurrencyID}
		rate, ok := resolved[p]
		if !ok {
			rate, err = s.rateFor(ctx, p, today)
			if err != nil {
				return 0, nil, fmt.Errorf("failed to resolve rate for parcel %d: %w", line.SalesQuotationParcelID, err)
			}
			resolved[p] = rate
		}

		updates = append(updates, domain.LineRateUpdate{
			SalesQuotationParcelID: line.SalesQuotationParcelID,
			ExchangeRate:           rate,
			ExchangeRateDate:       today,
			ExchangeAmount:         domain.ConvertAmount(*line.SupplierAmount, rate),
		})
	}

	if len(updates) == 0 {
		return 0, []domain.QuotationLine{}, nil
	}

	updated, err := s.repo.ApplyLineRates(ctx, updates, actorID)
	if err != nil {
		return 0, nil, err
	}
	s.metrics.RecordRecalculatedLines(len(updated))
	log.Infof("%d lines recalculated", len(updated))
	return len(updated), updated, nil
}

func (s *Service) rateFor(ctx context.Context, p pair, day time.Time) (decimal.Decimal, error) {
	if p.from == p.to {
		return decimal.NewFromInt(1), nil
	}
	r, err := s.rates.Resolve(ctx, p.from, p.to, day)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return r.Rate, nil
}

func NewService(repo adapters.QuotationRepository, rates RateSource, locker adapters.Locker, m *metrics.SyncMetrics) *Service {
	return &Service{repo: repo, rates: rates, locker: locker, metrics: m, now: time.Now}
}
