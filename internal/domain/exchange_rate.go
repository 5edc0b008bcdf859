package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"
	// RateScale matches exchange_rates.rate numeric(20, 8).
	RateScale = 8
)

type ExchangeRate struct {
	ExchangeRateID int64
	FromCurrencyID int64
	ToCurrencyID   int64
	Date           time.Time
	Rate           decimal.Decimal
	UpdatedAt      time.Time
}

// FetchedRate is a spot rate as reported by the provider.
type FetchedRate struct {
	From string
	To   string
	Rate decimal.Decimal
	AsOf time.Time
}

// RateDate truncates t to its UTC calendar date.
func RateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// RoundRate rounds rate to the precision the store keeps.
func RoundRate(rate decimal.Decimal) decimal.Decimal {
	return rate.Round(RateScale)
}

// ParseRateDate parses YYYY-MM-DD. Empty input yields the zero time and no error.
func ParseRateDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, NewValidationError("date", "must be formatted as YYYY-MM-DD")
	}
	return t, nil
}

// NormalizeCode upper-cases and trims a currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
