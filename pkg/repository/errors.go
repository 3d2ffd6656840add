package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrUnavailable indicates the tenant database could not be reached.
var ErrUnavailable = errors.New("database unavailable")

const (
	pgConnectionClass = "08"
	pgAdminShutdown   = "57P01"
)

// MapError translates database errors to domain errors.
// sql.ErrNoRows maps to notFoundErr. Connection failures and PostgreSQL
// connection-class errors map to ErrUnavailable wrapping the driver error.
// Other errors are returned unchanged.
func MapError(err error, notFoundErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return errors.Join(ErrUnavailable, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, pgConnectionClass) || pgErr.Code == pgAdminShutdown {
			return errors.Join(ErrUnavailable, err)
		}
	}

	return err
}
