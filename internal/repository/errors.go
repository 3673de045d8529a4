package repository

import (
	"errors"

	"github.com/Domenick1991/airline-backoffice/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translate maps driver errors onto domain error kinds. what names the
// missing entity in not-found messages.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound("%s not found", what)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.Conflict("%s already exists: %s", what, pgErr.ConstraintName)
		case pgForeignKeyViolation:
			return domain.NotFound("%s references a missing record: %s", what, pgErr.ConstraintName)
		}
	}
	return err
}
