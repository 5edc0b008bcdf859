package postgres

import (
	"errors"
	"fxsync/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

// persistenceErr keeps the database message when the server sent one.
func persistenceErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Message != "" {
		return &domain.PersistenceError{Message: pgErr.Message, Err: err}
	}
	return &domain.PersistenceError{Message: "Database error: " + err.Error(), Err: err}
}
