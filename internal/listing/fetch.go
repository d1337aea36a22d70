package listing

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is the subset of pgxpool.Pool and pgx.Tx used by Fetch.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ScanFunc scans the current row into a T.
type ScanFunc[T any] func(row pgx.Row) (T, error)

// Fetch runs the count and page queries for q against t.
func Fetch[T any](ctx context.Context, db Querier, t Table, q Query, scan ScanFunc[T]) (Page[T], error) {
	q = q.Normalise()

	countSQL, countArgs, err := t.CountSQL(q)
	if err != nil {
		return Page[T]{}, err
	}
	var total int
	if err := db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return Page[T]{}, fmt.Errorf("failed to count %s: %w", t.Name, err)
	}

	selectSQL, args, err := t.SelectSQL(q)
	if err != nil {
		return Page[T]{}, err
	}

	rows, err := db.Query(ctx, selectSQL, args...)
	if err != nil {
		return Page[T]{}, fmt.Errorf("failed to query %s: %w", t.Name, err)
	}
	defer rows.Close()

	items := make([]T, 0, q.PageSize)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return Page[T]{}, fmt.Errorf("failed to scan %s row: %w", t.Name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return Page[T]{}, fmt.Errorf("error iterating %s rows: %w", t.Name, err)
	}

	return NewPage(items, total, q), nil
}
