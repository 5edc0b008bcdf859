package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"fxsync/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type QuotationRepository struct {
	pool *pgxpool.Pool
}

func (r *QuotationRepository) QuotationExists(ctx context.Context, quotationID int64) (bool, error) {
	const q = `select exists (select 1 from sales_quotations where sales_quotation_id = $1 and not is_deleted);`

	var exists bool
	if err := r.pool.QueryRow(ctx, q, quotationID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check quotation %d: %w", quotationID, persistenceErr(err))
	}
	return exists, nil
}

const lineColumns = `
	sales_quotation_parcel_id, sales_quotation_id, supplier_amount, supplier_currency_id, local_currency_id,
	exchange_rate, exchange_rate_date, exchange_amount, updated_by_id, updated_at`

func (r *QuotationRepository) ListActiveLines(ctx context.Context, quotationID int64) ([]domain.QuotationLine, error) {
	const q = `select ` + lineColumns + `
		from sales_quotation_parcels
		where sales_quotation_id = $1 and is_active
		order by sales_quotation_parcel_id;`

	rows, err := r.pool.Query(ctx, q, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of quotation %d: %w", quotationID, persistenceErr(err))
	}
	return collectLines(rows)
}

type lineRateRow struct {
	ParcelID       int64           `json:"parcel_id"`
	ExchangeRate   decimal.Decimal `json:"exchange_rate"`
	RateDate       string          `json:"exchange_rate_date"`
	ExchangeAmount decimal.Decimal `json:"exchange_amount"`
}

// ApplyLineRates writes every update in one statement inside a transaction and
// returns the lines as stored.
func (r *QuotationRepository) ApplyLineRates(ctx context.Context, updates []domain.LineRateUpdate, actorID int64) ([]domain.QuotationLine, error) {
	if len(updates) == 0 {
		return []domain.QuotationLine{}, nil
	}

	payload := make([]lineRateRow, 0, len(updates))
	for _, u := range updates {
		payload = append(payload, lineRateRow{
			ParcelID:       u.SalesQuotationParcelID,
			ExchangeRate:   u.ExchangeRate,
			RateDate:       u.ExchangeRateDate.Format(domain.DateLayout),
			ExchangeAmount: u.ExchangeAmount,
		})
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal line rates: %w", err)
	}

	const q = `
		with input_rows as (
		  select * from json_to_recordset($1::json)
		    as r(parcel_id bigint, exchange_rate numeric, exchange_rate_date date, exchange_amount numeric)
		)
		update sales_quotation_parcels sqp
		set exchange_rate = ir.exchange_rate,
		    exchange_rate_date = ir.exchange_rate_date,
		    exchange_amount = ir.exchange_amount,
		    updated_by_id = $2,
		    updated_at = now()
		from input_rows ir
		where sqp.sales_quotation_parcel_id = ir.parcel_id and sqp.is_active
		returning sqp.sales_quotation_parcel_id, sqp.sales_quotation_id, sqp.supplier_amount,
		  sqp.supplier_currency_id, sqp.local_currency_id, sqp.exchange_rate, sqp.exchange_rate_date,
		  sqp.exchange_amount, sqp.updated_by_id, sqp.updated_at;`

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", persistenceErr(err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, q, json.RawMessage(payloadJSON), actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", persistenceErr(err))
	}
	lines, err := collectLines(rows)
	if err != nil {
		return nil, err
	}
	if len(lines) != len(updates) {
		return nil, &domain.PersistenceError{
			Message: fmt.Sprintf("Database error: expected %d updated lines, got %d", len(updates), len(lines)),
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", persistenceErr(err))
	}
	return lines, nil
}

func collectLines(rows pgx.Rows) ([]domain.QuotationLine, error) {
	defer rows.Close()

	lines := make([]domain.QuotationLine, 0, 16)
	for rows.Next() {
		var l domain.QuotationLine
		if err := rows.Scan(
			&l.SalesQuotationParcelID,
			&l.SalesQuotationID,
			&l.SupplierAmount,
			&l.SupplierCurrencyID,
			&l.LocalCurrencyID,
			&l.ExchangeRate,
			&l.ExchangeRateDate,
			&l.ExchangeAmount,
			&l.UpdatedByID,
			&l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quotation line: %w", persistenceErr(err))
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotation lines: %w", persistenceErr(err))
	}
	return lines, nil
}

func NewQuotationRepository(pool *pgxpool.Pool) *QuotationRepository {
	return &QuotationRepository{pool: pool}
}
