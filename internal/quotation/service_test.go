package quotation

import (
	"context"
	"testing"
	"time"

	"fxsync/internal/adapters/lock"
	"fxsync/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Testify mocks ---

type MockRepository struct{ mock.Mock }

func (m *MockRepository) QuotationExists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListActiveLines(ctx context.Context, id int64) ([]domain.QuotationLine, error) {
	args := m.Called(ctx, id)
	lines, _ := args.Get(0).([]domain.QuotationLine)
	return lines, args.Error(1)
}

func (m *MockRepository) ApplyLineRates(ctx context.Context, updates []domain.LineRateUpdate, actorID int64) ([]domain.QuotationLine, error) {
	args := m.Called(ctx, updates, actorID)
	lines, _ := args.Get(0).([]domain.QuotationLine)
	return lines, args.Error(1)
}

// fakeRates is a deterministic RateSource counting its calls.
type fakeRates struct {
	rates map[[2]int64]string
	err   error
	calls int
}

func (f *fakeRates) Resolve(_ context.Context, fromID, toID int64, date time.Time) (domain.ExchangeRate, error) {
	f.calls++
	if f.err != nil {
		return domain.ExchangeRate{}, f.err
	}
	raw, ok := f.rates[[2]int64{fromID, toID}]
	if !ok {
		return domain.ExchangeRate{}, &domain.NotFoundError{Entity: "exchange rate"}
	}
	return domain.ExchangeRate{FromCurrencyID: fromID, ToCurrencyID: toID, Date: date, Rate: decimal.RequireFromString(raw)}, nil
}

var testNow = time.Date(2025, 5, 6, 10, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func line(id int64, amount string, supplier, local int64) domain.QuotationLine {
	l := domain.QuotationLine{SalesQuotationParcelID: id, SalesQuotationID: 1}
	if amount != "" {
		l.SupplierAmount = ptr(decimal.RequireFromString(amount))
	}
	if supplier != 0 {
		l.SupplierCurrencyID = ptr(supplier)
	}
	if local != 0 {
		l.LocalCurrencyID = ptr(local)
	}
	return l
}

func newTestService(repo *MockRepository, rates RateSource) *Service {
	svc := NewService(repo, rates, lock.NewLocalLocker(), nil)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestRecalculate_CountsOnlyCompleteLines(t *testing.T) {
	repo := new(MockRepository)
	rates := &fakeRates{rates: map[[2]int64]string{{2, 1}: "1.1", {3, 1}: "0.5"}}
	svc := newTestService(repo, rates)

	lines := []domain.QuotationLine{
		line(10, "100", 2, 1),
		line(11, "", 2, 1),
		line(12, "50.5", 3, 1),
		line(13, "", 3, 1),
		line(14, "20", 2, 1),
	}
	repo.On("QuotationExists", mock.Anything, int64(1)).Return(true, nil).Once()
	repo.On("ListActiveLines", mock.Anything, int64(1)).Return(lines, nil).Once()

	var written []domain.LineRateUpdate
	repo.On("ApplyLineRates", mock.Anything, mock.Anything, int64(9)).
		Run(func(args mock.Arguments) { written = args.Get(1).([]domain.LineRateUpdate) }).
		Return([]domain.QuotationLine{{SalesQuotationParcelID: 10}, {SalesQuotationParcelID: 12}, {SalesQuotationParcelID: 14}}, nil).Once()

	n, updated, err := svc.Recalculate(context.Background(), 1, 9)
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.Len(t, updated, 3)

	require.Len(t, written, 3)
	require.Equal(t, int64(10), written[0].SalesQuotationParcelID)
	require.True(t, written[0].ExchangeAmount.Equal(decimal.RequireFromString("110")))
	require.True(t, written[1].ExchangeAmount.Equal(decimal.RequireFromString("25.25")))
	require.Equal(t, domain.RateDate(testNow), written[2].ExchangeRateDate)
	require.Equal(t, 2, rates.calls, "one resolve per currency pair")
}

func TestRecalculate_SameCurrencyNeverFetches(t *testing.T) {
	repo := new(MockRepository)
	rates := &fakeRates{}
	svc := newTestService(repo, rates)

	repo.On("QuotationExists", mock.Anything, int64(1)).Return(true, nil)
	repo.On("ListActiveLines", mock.Anything, int64(1)).Return([]domain.QuotationLine{line(10, "12.34", 5, 5)}, nil)
	repo.On("ApplyLineRates", mock.Anything, mock.MatchedBy(func(u []domain.LineRateUpdate) bool {
		return len(u) == 1 && u[0].ExchangeRate.Equal(decimal.NewFromInt(1)) && u[0].ExchangeAmount.Equal(decimal.RequireFromString("12.34"))
	}), int64(2)).Return([]domain.QuotationLine{{SalesQuotationParcelID: 10}}, nil).Once()

	n, _, err := svc.Recalculate(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Zero(t, rates.calls)
	repo.AssertExpectations(t)
}

func TestRecalculate_SkipsLinesWithUsableRate(t *testing.T) {
	repo := new(MockRepository)
	rates := &fakeRates{}
	svc := newTestService(repo, rates)

	fresh := line(10, "100", 2, 1)
	fresh.ExchangeRate = ptr(decimal.RequireFromString("1.1"))
	fresh.ExchangeRateDate = ptr(domain.RateDate(testNow))
	fresh.ExchangeAmount = ptr(decimal.RequireFromString("110"))

	repo.On("QuotationExists", mock.Anything, int64(1)).Return(true, nil)
	repo.On("ListActiveLines", mock.Anything, int64(1)).Return([]domain.QuotationLine{fresh}, nil)

	n, updated, err := svc.Recalculate(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Zero(t, n)
	require.Empty(t, updated)
	require.Zero(t, rates.calls)
	repo.AssertNotCalled(t, "ApplyLineRates", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecalculate_UnresolvableRateWritesNothing(t *testing.T) {
	repo := new(MockRepository)
	rates := &fakeRates{err: domain.ErrFetchUnavailable}
	svc := newTestService(repo, rates)

	repo.On("QuotationExists", mock.Anything, int64(1)).Return(true, nil)
	repo.On("ListActiveLines", mock.Anything, int64(1)).Return([]domain.QuotationLine{line(10, "100", 5, 5), line(11, "1", 2, 1)}, nil)

	_, _, err := svc.Recalculate(context.Background(), 1, 2)
	require.ErrorIs(t, err, domain.ErrFetchUnavailable)
	require.Contains(t, err.Error(), "parcel 11")
	repo.AssertNotCalled(t, "ApplyLineRates", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecalculate_UnknownQuotation(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, &fakeRates{})
	repo.On("QuotationExists", mock.Anything, int64(404)).Return(false, nil).Once()

	_, _, err := svc.Recalculate(context.Background(), 404, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	repo.AssertNotCalled(t, "ListActiveLines", mock.Anything, mock.Anything)
}

func TestRecalculate_ValidationGuard(t *testing.T) {
	repo := new(MockRepository)
	svc := newTestService(repo, &fakeRates{})

	_, _, err := svc.Recalculate(context.Background(), 0, 1)
	require.ErrorIs(t, err, domain.ErrValidationFailed)
	_, _, err = svc.Recalculate(context.Background(), 1, -1)
	require.ErrorIs(t, err, domain.ErrValidationFailed)
	repo.AssertNotCalled(t, "QuotationExists", mock.Anything, mock.Anything)
}

func TestRecalculate_LockHeld(t *testing.T) {
	repo := new(MockRepository)
	locker := lock.NewLocalLocker()
	svc := NewService(repo, &fakeRates{}, locker, nil)

	release, err := locker.TryLock(context.Background(), "sales-quotation:1")
	require.NoError(t, err)
	defer release()

	_, _, err = svc.Recalculate(context.Background(), 1, 1)
	require.ErrorIs(t, err, domain.ErrRecalculationInProgress)
	repo.AssertNotCalled(t, "QuotationExists", mock.Anything, mock.Anything)
}
