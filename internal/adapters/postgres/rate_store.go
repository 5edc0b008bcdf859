package postgres

import (
	"context"
	"errors"
	"fmt"
	"fxsync/internal/domain"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type RateStore struct {
	pool *pgxpool.Pool
}

func (r *RateStore) Upsert(ctx context.Context, fromID, toID int64, date time.Time, rate decimal.Decimal) (int64, error) {
	if err := validateRateKey(fromID, toID, date); err != nil {
		return 0, err
	}
	if !rate.IsPositive() {
		return 0, domain.NewValidationError("rate", "must be positive")
	}

	const q = `
		insert into exchange_rates (from_currency_id, to_currency_id, date, rate)
		values ($1, $2, $3, $4)
		on conflict (from_currency_id, to_currency_id, date) do update
		  set rate = excluded.rate, updated_at = now()
		returning exchange_rate_id;
	`

	var id int64
	if err := r.pool.QueryRow(ctx, q, fromID, toID, domain.RateDate(date), rate).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to upsert rate %d/%d: %w", fromID, toID, persistenceErr(err))
	}
	return id, nil
}

func (r *RateStore) Lookup(ctx context.Context, fromID, toID int64, date time.Time) (domain.ExchangeRate, error) {
	if err := validateRateKey(fromID, toID, date); err != nil {
		return domain.ExchangeRate{}, err
	}

	const q = `
		select exchange_rate_id, from_currency_id, to_currency_id, date, rate, updated_at
		from exchange_rates
		where from_currency_id = $1 and to_currency_id = $2 and date = $3;
	`

	var rate domain.ExchangeRate
	if err := r.pool.QueryRow(ctx, q, fromID, toID, domain.RateDate(date)).Scan(
		&rate.ExchangeRateID,
		&rate.FromCurrencyID,
		&rate.ToCurrencyID,
		&rate.Date,
		&rate.Rate,
		&rate.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ExchangeRate{}, &domain.NotFoundError{Entity: "exchange rate"}
		}
		return domain.ExchangeRate{}, fmt.Errorf("failed to select rate %d/%d: %w", fromID, toID, persistenceErr(err))
	}
	return rate, nil
}

func (r *RateStore) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	const q = `
		select currency_id, name, created_by_id, created_at
		from currencies
		where not is_deleted
		order by currency_id;
	`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to query currencies: %w", persistenceErr(err))
	}
	defer rows.Close()

	currencies := make([]domain.Currency, 0, 32)
	for rows.Next() {
		var c domain.Currency
		if err = rows.Scan(&c.CurrencyID, &c.Name, &c.CreatedByID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan currency: %w", persistenceErr(err))
		}
		currencies = append(currencies, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating currencies: %w", persistenceErr(err))
	}
	return currencies, nil
}

func (r *RateStore) CurrencyByID(ctx context.Context, id int64) (domain.Currency, error) {
	if id <= 0 {
		return domain.Currency{}, domain.NewValidationError("currencyId", "must be a positive integer")
	}

	const q = `
		select currency_id, name, created_by_id, created_at
		from currencies
		where currency_id = $1 and not is_deleted;
	`

	var c domain.Currency
	if err := r.pool.QueryRow(ctx, q, id).Scan(&c.CurrencyID, &c.Name, &c.CreatedByID, &c.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Currency{}, &domain.NotFoundError{Entity: "currency"}
		}
		return domain.Currency{}, fmt.Errorf("failed to select currency %d: %w", id, persistenceErr(err))
	}
	return c, nil
}

// EnsureCurrenciesExist inserts every missing name in one transaction. A failing
// insert rolls back the whole batch.
func (r *RateStore) EnsureCurrenciesExist(ctx context.Context, names []string, actorID int64) error {
	if len(names) == 0 {
		return nil
	}
	if actorID <= 0 {
		return domain.NewValidationError("createdById", "must be a positive integer")
	}

	const q = `
		insert into currencies (name, created_by_id)
		select $1::varchar, $2::bigint
		where not exists (select 1 from currencies where name = $1::varchar and not is_deleted);
	`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", persistenceErr(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, name := range names {
		if _, err = tx.Exec(ctx, q, name, actorID); err != nil {
			return fmt.Errorf("failed to insert currency %q: %w", name, persistenceErr(err))
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", persistenceErr(err))
	}
	return nil
}

// LatestUpdate returns the freshest rate write time, ok is false when no rate is stored.
func (r *RateStore) LatestUpdate(ctx context.Context) (time.Time, bool, error) {
	var latest *time.Time
	if err := r.pool.QueryRow(ctx, `select max(updated_at) from exchange_rates`).Scan(&latest); err != nil {
		return time.Time{}, false, fmt.Errorf("failed to select latest rate update: %w", persistenceErr(err))
	}
	if latest == nil {
		return time.Time{}, false, nil
	}
	return *latest, true, nil
}

func validateRateKey(fromID, toID int64, date time.Time) error {
	if fromID <= 0 {
		return domain.NewValidationError("fromCurrencyId", "must be a positive integer")
	}
	if toID <= 0 {
		return domain.NewValidationError("toCurrencyId", "must be a positive integer")
	}
	if date.IsZero() {
		return domain.NewValidationError("date", "is required")
	}
	return nil
}

func NewRateStore(pool *pgxpool.Pool) *RateStore {
	return &RateStore{pool: pool}
}
