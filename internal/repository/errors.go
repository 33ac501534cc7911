package repository

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/emilianohg/jobtracker/internal/apperr"
)

// classify wraps a driver error with the apperr kind that describes it.
// Errors that are already classified pass through with op prepended.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var classified *apperr.Error
	if errors.As(err, &classified) {
		return fmt.Errorf("%s: %w", op, err)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.Wrap(apperr.KindNotFound, op, err)
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, driver.ErrBadConn) {
		return apperr.Wrap(apperr.KindStorageUnavailable, op, err)
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return apperr.Wrap(apperr.KindConstraintViolation, op, err)
		case sqlite3.ErrBusy,
			sqlite3.ErrLocked,
			sqlite3.ErrIoErr,
			sqlite3.ErrCantOpen,
			sqlite3.ErrFull,
			sqlite3.ErrReadonly,
			sqlite3.ErrCorrupt,
			sqlite3.ErrNotADB:
			return apperr.Wrap(apperr.KindStorageUnavailable, op, err)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	return false
}

// notFound is returned when an UPDATE or DELETE matched no rows.
func notFound(entity string, id int64) error {
	return apperr.New(apperr.KindNotFound, fmt.Sprintf("%s %d not found", entity, id))
}

// expectAffected reports NotFound when an UPDATE or DELETE touched
// nothing.
func expectAffected(result sql.Result, entity string, id int64) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(entity, id)
	}
	return nil
}
