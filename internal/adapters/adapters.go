package adapters

import (
	"context"
	"fxsync/internal/domain"
	"time"

	"github.com/shopspring/decimal"
)

type RateFetcher interface {
	FetchRate(ctx context.Context, fromCode, toCode string) (domain.FetchedRate, error)
	FetchBasket(ctx context.Context, baseCode string, targetCodes []string) (map[string]decimal.Decimal, error)
}

type RateStore interface {
	Upsert(ctx context.Context, fromID, toID int64, date time.Time, rate decimal.Decimal) (int64, error)
	Lookup(ctx context.Context, fromID, toID int64, date time.Time) (domain.ExchangeRate, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
	CurrencyByID(ctx context.Context, id int64) (domain.Currency, error)
	EnsureCurrenciesExist(ctx context.Context, names []string, actorID int64) error
	LatestUpdate(ctx context.Context) (time.Time, bool, error)
}

type QuotationRepository interface {
	QuotationExists(ctx context.Context, quotationID int64) (bool, error)
	ListActiveLines(ctx context.Context, quotationID int64) ([]domain.QuotationLine, error)
	ApplyLineRates(ctx context.Context, updates []domain.LineRateUpdate, actorID int64) ([]domain.QuotationLine, error)
}

type RateEventPublisher interface {
	PublishRateStored(ctx context.Context, rate domain.ExchangeRate) error
}

// Locker serializes work on a key across callers. Release must be called once
// the returned func is non-nil.
type Locker interface {
	TryLock(ctx context.Context, key string) (release func(), err error)
}
