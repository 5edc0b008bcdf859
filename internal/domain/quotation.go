package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuotationLine is a sales-quotation parcel carrying a supplier-currency amount.
type QuotationLine struct {
	SalesQuotationParcelID int64
	SalesQuotationID       int64
	SupplierAmount         *decimal.Decimal
	SupplierCurrencyID     *int64
	LocalCurrencyID        *int64
	ExchangeRate           *decimal.Decimal
	ExchangeRateDate       *time.Time
	ExchangeAmount         *decimal.Decimal
	UpdatedByID            *int64
	UpdatedAt              time.Time
}

// HasUsableRate reports whether the line already carries a rate for day that
// agrees with its converted amount.
func (l QuotationLine) HasUsableRate(day time.Time) bool {
	if l.ExchangeRate == nil || l.ExchangeRateDate == nil || l.ExchangeAmount == nil || l.SupplierAmount == nil {
		return false
	}
	if !l.ExchangeRate.IsPositive() || !RateDate(*l.ExchangeRateDate).Equal(RateDate(day)) {
		return false
	}
	return ConvertAmount(*l.SupplierAmount, *l.ExchangeRate).Equal(*l.ExchangeAmount)
}

// LineRateUpdate is the recalculated state written back to a quotation line.
type LineRateUpdate struct {
	SalesQuotationParcelID int64
	ExchangeRate           decimal.Decimal
	ExchangeRateDate       time.Time
	ExchangeAmount         decimal.Decimal
}

// ConvertAmount multiplies amount by rate, rounded to 4 decimal places.
func ConvertAmount(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(4)
}
