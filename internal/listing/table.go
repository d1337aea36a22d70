package listing

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownFilter is returned for a filter key the table does not allow.
var ErrUnknownFilter = errors.New("unknown filter")

// ErrUnknownSort is returned for a sort key the table does not allow.
var ErrUnknownSort = errors.New("unknown sort field")

// Table describes what a listing may touch. Column names come only from
// here, never from the query, so user input only ever reaches SQL as args.
type Table struct {
	Name          string
	Columns       []string
	SearchColumns []string
	FilterColumns map[string]string // filter key -> column
	SortColumns   map[string]string // sort key -> column
	DefaultSort   string            // sort key
	DefaultDesc   bool
	DateColumn    string
	BaseWhere     string // fixed predicate without args, e.g. "is_archived = false"
	IDColumn      string // tiebreaker column, "id" when empty
}

// SelectSQL builds the page query.
func (t Table) SelectSQL(q Query) (string, []any, error) {
	q = q.Normalise()

	where, args, err := t.where(q)
	if err != nil {
		return "", nil, err
	}

	order, err := t.orderBy(q)
	if err != nil {
		return "", nil, err
	}

	args = append(args, q.PageSize, q.Offset())
	sql := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s LIMIT $%d OFFSET $%d",
		strings.Join(t.Columns, ", "), t.Name, where, order, len(args)-1, len(args))

	return sql, args, nil
}

// CountSQL builds the count query matching SelectSQL's predicate.
func (t Table) CountSQL(q Query) (string, []any, error) {
	where, args, err := t.where(q)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("SELECT COUNT(*) FROM %s%s", t.Name, where), args, nil
}

func (t Table) where(q Query) (string, []any, error) {
	var (
		clauses []string
		args    []any
	)
	next := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if t.BaseWhere != "" {
		clauses = append(clauses, t.BaseWhere)
	}

	// Sorted for stable SQL text.
	keys := make([]string, 0, len(q.Filters))
	for k := range q.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		col, ok := t.FilterColumns[k]
		if !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrUnknownFilter, k)
		}
		v := q.Filters[k]
		if v == nil {
			clauses = append(clauses, col+" IS NULL")
			continue
		}
		clauses = append(clauses, col+" = "+next(v))
	}

	if term := strings.TrimSpace(q.Search); term != "" && len(t.SearchColumns) > 0 {
		placeholder := next("%" + EscapeLike(term) + "%")
		ors := make([]string, len(t.SearchColumns))
		for i, col := range t.SearchColumns {
			ors[i] = col + " ILIKE " + placeholder
		}
		clauses = append(clauses, "("+strings.Join(ors, " OR ")+")")
	}

	if t.DateColumn != "" {
		if q.From != nil {
			clauses = append(clauses, t.DateColumn+" >= "+next(*q.From))
		}
		if q.To != nil {
			clauses = append(clauses, t.DateColumn+" < "+next(*q.To))
		}
	}

	if len(clauses) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func (t Table) orderBy(q Query) (string, error) {
	key := q.SortBy
	desc := q.SortDesc
	if key == "" {
		key = t.DefaultSort
		desc = t.DefaultDesc
	}
	col, ok := t.SortColumns[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownSort, key)
	}

	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	idCol := t.IDColumn
	if idCol == "" {
		idCol = "id"
	}
	// The id tiebreaker keeps offsets stable across pages.
	return fmt.Sprintf("%s %s, %s %s", col, dir, idCol, dir), nil
}

// EscapeLike escapes LIKE wildcards so the term matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
