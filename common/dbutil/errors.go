package dbutil

import (
	"context"

	"github.com/Aidin1998/usertodos/pkg/errors"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

// Postgres SQLSTATE codes the service tells apart in its logs.
const (
	DuplicateKeyErrorCode   = "23505"
	ForeignKeyErrorCode     = "23503"
	NotNullErrorCode        = "23502"
	InvalidTextErrorCode    = "22P02"
	UndefinedTableErrorCode = "42P01"
)

// Classification codes attached to database errors.
const (
	CodeUniqueViolation     = "unique_violation"
	CodeForeignKeyViolation = "foreign_key_violation"
	CodeNotNullViolation    = "not_null_violation"
	CodeInvalidInput        = "invalid_input"
	CodeUndefinedTable      = "undefined_table"
	CodeCanceled            = "canceled"
	CodeUnknown             = "unknown"
)

// Classify names the driver failure behind err.
func Classify(err error) string {
	var pgErr *pgconn.PgError
	var liteErr sqlite3.Error

	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	case errors.As(err, &pgErr):
		switch pgErr.Code {
		case DuplicateKeyErrorCode:
			return CodeUniqueViolation
		case ForeignKeyErrorCode:
			return CodeForeignKeyViolation
		case NotNullErrorCode:
			return CodeNotNullViolation
		case InvalidTextErrorCode:
			return CodeInvalidInput
		case UndefinedTableErrorCode:
			return CodeUndefinedTable
		}
	case errors.As(err, &liteErr):
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return CodeUniqueViolation
		case sqlite3.ErrConstraintForeignKey:
			return CodeForeignKeyViolation
		case sqlite3.ErrConstraintNotNull:
			return CodeNotNullViolation
		}
	}
	return CodeUnknown
}

// WrapError turns a driver error into a Database error carrying its
// classification. Errors already in the taxonomy pass through untouched.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*errors.Error); ok {
		return err
	}
	return errors.Database.Wrap(err).WithCode(Classify(err))
}
