package errors

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

// FromSQLite normalizes a raw driver error into the application
// taxonomy at the data-access boundary, so callers branch on an
// explicit code instead of inspecting driver internals.
func FromSQLite(resource string, err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	if errors.Is(err, sql.ErrNoRows) {
		return NewNotFoundError(resource, "no rows")
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return &AppError{
			Code:    ErrCodeConnection,
			Message: "database connection unavailable",
			Status:  503,
			Err:     err,
		}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return NewUniqueViolationError(resource, err)
		case sqlite3.ErrConstraintForeignKey:
			return &AppError{
				Code:    ErrCodeForeignKey,
				Message: resource + " references a missing row",
				Status:  409,
				Err:     err,
			}
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return &AppError{
				Code:    ErrCodeValidation,
				Message: resource + " failed a schema constraint",
				Status:  400,
				Err:     err,
			}
		}
		switch sqliteErr.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			return &AppError{
				Code:    ErrCodeTransaction,
				Message: "database is busy",
				Status:  503,
				Err:     err,
			}
		case sqlite3.ErrCantOpen:
			return &AppError{
				Code:    ErrCodeConnection,
				Message: "cannot open database",
				Status:  503,
				Err:     err,
			}
		}
	}
	return NewInternalError(err)
}
