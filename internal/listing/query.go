// Package listing implements the server-paged resource list shared by every
// management screen: search, filters, date range, sort and offset pagination
// over one table, plus the matching count query.
package listing

import (
	"time"
)

const (
	// DefaultPageSize is used when a query does not set one.
	DefaultPageSize = 20
	// MaxPageSize caps the rows returned by one page.
	MaxPageSize = 100
	// MaxPage caps the page number so the row offset cannot overflow.
	MaxPage = 1_000_000
)

// Query describes one page request.
type Query struct {
	Search   string
	Filters  map[string]any
	SortBy   string
	SortDesc bool
	From     *time.Time
	To       *time.Time
	Page     int // 1-based
	PageSize int
}

// Normalise clamps paging values into range.
func (q Query) Normalise() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Page > MaxPage {
		q.Page = MaxPage
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	return q
}

// Offset returns the row offset of the page.
func (q Query) Offset() int {
	q = q.Normalise()
	return (q.Page - 1) * q.PageSize
}

// WithFilter returns a copy of q with an extra equality filter.
func (q Query) WithFilter(key string, value any) Query {
	filters := make(map[string]any, len(q.Filters)+1)
	for k, v := range q.Filters {
		filters[k] = v
	}
	filters[key] = value
	q.Filters = filters
	return q
}

// Page is one page of results.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
}

// HasMore reports whether a further page exists.
func (p Page[T]) HasMore() bool {
	return p.Page < p.TotalPages
}

// NewPage assembles a page and derives TotalPages.
func NewPage[T any](items []T, total int, q Query) Page[T] {
	q = q.Normalise()
	if items == nil {
		items = []T{}
	}
	pages := 0
	if total > 0 {
		pages = (total + q.PageSize - 1) / q.PageSize
	}
	return Page[T]{
		Items:      items,
		Total:      total,
		Page:       q.Page,
		PageSize:   q.PageSize,
		TotalPages: pages,
	}
}
