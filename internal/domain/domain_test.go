package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestConvertAmount_RoundsToFourPlaces(t *testing.T) {
	got := ConvertAmount(decimal.RequireFromString("10.12345"), decimal.RequireFromString("1.5"))
	require.Equal(t, "15.1852", got.String())
}

func TestRoundRate_KeepsEightPlaces(t *testing.T) {
	got := RoundRate(decimal.RequireFromString("0.0066666666666667"))
	require.Equal(t, "0.00666667", got.String())
	require.True(t, RoundRate(decimal.RequireFromString("0.92")).Equal(decimal.RequireFromString("0.92")))
}

func TestQuotationLine_HasUsableRate(t *testing.T) {
	day := time.Date(2025, 5, 6, 15, 0, 0, 0, time.UTC)
	rateDate := RateDate(day)

	usable := QuotationLine{
		SupplierAmount:   dec("100"),
		ExchangeRate:     dec("1.1"),
		ExchangeRateDate: &rateDate,
		ExchangeAmount:   dec("110"),
	}
	require.True(t, usable.HasUsableRate(day))

	stale := usable
	yesterday := rateDate.AddDate(0, 0, -1)
	stale.ExchangeRateDate = &yesterday
	require.False(t, stale.HasUsableRate(day))

	inconsistent := usable
	inconsistent.ExchangeAmount = dec("100")
	require.False(t, inconsistent.HasUsableRate(day))

	zeroRate := usable
	zeroRate.ExchangeRate = dec("0")
	require.False(t, zeroRate.HasUsableRate(day))

	require.False(t, QuotationLine{SupplierAmount: dec("1")}.HasUsableRate(day))
}

func TestParseRateDate(t *testing.T) {
	d, err := ParseRateDate(" 2025-05-06 ")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseRateDate("")
	require.NoError(t, err)
	require.True(t, d.IsZero())

	_, err = ParseRateDate("2025/05/06")
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestErrorTypes_MatchSentinels(t *testing.T) {
	require.ErrorIs(t, fmt.Errorf("ctx: %w", NewValidationError("f", "bad")), ErrValidationFailed)
	require.ErrorIs(t, &NotFoundError{Entity: "currency"}, ErrNotFound)

	cause := errors.New("conn reset")
	pe := &PersistenceError{Message: "Database error: conn reset", Err: cause}
	require.ErrorIs(t, pe, ErrPersistenceFailure)
	require.ErrorIs(t, pe, cause)
	require.Equal(t, "Database error: conn reset", pe.Error())
	require.NotErrorIs(t, pe, ErrNotFound)
}
