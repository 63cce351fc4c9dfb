package dbutil

import (
	"context"

	"github.com/Aidin1998/usertodos/pkg/errors"
	sq "github.com/Masterminds/squirrel"
)

// Querier runs one parameterized statement and scans its rows into dest.
type Querier interface {
	Query(ctx context.Context, dest any, query string, args ...any) (int64, error)
}

// FindOne runs stmt and returns its single row, or errors.NotFound when the
// statement produced none.
func FindOne[T any](ctx context.Context, q Querier, stmt sq.Sqlizer) (*T, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, errors.Database.Wrap(err).WithCode(CodeInvalidInput)
	}

	var item T
	n, err := q.Query(ctx, &item, query, args...)
	if err != nil {
		return nil, WrapError(err)
	}
	if n == 0 {
		return nil, errors.NotFound
	}
	return &item, nil
}

// FindAll runs stmt and returns every row. No rows is an empty, non-nil slice.
func FindAll[T any](ctx context.Context, q Querier, stmt sq.Sqlizer) ([]T, error) {
	query, args, err := stmt.ToSql()
	if err != nil {
		return nil, errors.Database.Wrap(err).WithCode(CodeInvalidInput)
	}

	items := make([]T, 0)
	if _, err := q.Query(ctx, &items, query, args...); err != nil {
		return nil, WrapError(err)
	}
	return items, nil
}
