package rate

import (
	"context"
	"time"

	"fxsync/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Testify mocks ---

type MockRateStore struct{ mock.Mock }

func (m *MockRateStore) Upsert(ctx context.Context, fromID, toID int64, date time.Time, rate decimal.Decimal) (int64, error) {
	args := m.Called(ctx, fromID, toID, date, rate)
	id, _ := args.Get(0).(int64)
	return id, args.Error(1)
}

func (m *MockRateStore) Lookup(ctx context.Context, fromID, toID int64, date time.Time) (domain.ExchangeRate, error) {
	args := m.Called(ctx, fromID, toID, date)
	r, _ := args.Get(0).(domain.ExchangeRate)
	return r, args.Error(1)
}

func (m *MockRateStore) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	c, _ := args.Get(0).([]domain.Currency)
	return c, args.Error(1)
}

func (m *MockRateStore) CurrencyByID(ctx context.Context, id int64) (domain.Currency, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(domain.Currency)
	return c, args.Error(1)
}

func (m *MockRateStore) EnsureCurrenciesExist(ctx context.Context, names []string, actorID int64) error {
	args := m.Called(ctx, names, actorID)
	return args.Error(0)
}

func (m *MockRateStore) LatestUpdate(ctx context.Context) (time.Time, bool, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).(time.Time)
	return t, args.Bool(1), args.Error(2)
}

type MockRateFetcher struct{ mock.Mock }

func (m *MockRateFetcher) FetchRate(ctx context.Context, from, to string) (domain.FetchedRate, error) {
	args := m.Called(ctx, from, to)
	r, _ := args.Get(0).(domain.FetchedRate)
	return r, args.Error(1)
}

func (m *MockRateFetcher) FetchBasket(ctx context.Context, base string, targets []string) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, base, targets)
	r, _ := args.Get(0).(map[string]decimal.Decimal)
	return r, args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) PublishRateStored(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

var (
	testNow = time.Date(2025, 5, 6, 9, 30, 0, 0, time.UTC)
	testDay = domain.RateDate(testNow)

	usd = domain.Currency{CurrencyID: 1, Name: "USD"}
	eur = domain.Currency{CurrencyID: 2, Name: "EUR"}
	gbp = domain.Currency{CurrencyID: 3, Name: "GBP"}
	jpy = domain.Currency{CurrencyID: 4, Name: "JPY"}
)

func fetched(from, to, rate string) domain.FetchedRate {
	return domain.FetchedRate{From: from, To: to, Rate: decimal.RequireFromString(rate), AsOf: testDay}
}

func newTestService(codes ...string) (*Service, *MockRateStore, *MockRateFetcher, *MockPublisher) {
	store := new(MockRateStore)
	fetcher := new(MockRateFetcher)
	pub := new(MockPublisher)
	svc := NewService(store, fetcher, pub, NewBasket("USD", codes), nil)
	svc.now = func() time.Time { return testNow }
	return svc, store, fetcher, pub
}
