package domain

import "time"

type Currency struct {
	CurrencyID  int64
	Name        string
	CreatedByID *int64
	CreatedAt   time.Time
}
