package dbx

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation           = "23505"
	pgInvalidTextRepresentation = "22P02"
)

// ClassifyPostgres wraps a pgx/database-sql error for op.
// A malformed uuid in a lookup is reported as not found: no row can have it.
func ClassifyPostgres(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return Wrap(op, KindNotFound, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return Wrap(op, KindDuplicateKey, err)
		case pgInvalidTextRepresentation:
			return Wrap(op, KindNotFound, err)
		}
	}
	return Wrap(op, KindOther, err)
}
