// Package csvio reads and writes the spreadsheet-friendly CSV used for
// customer and product export and import.
package csvio

import (
	"context"
	"errors"
)

// BOM marks the output as UTF-8 for spreadsheet applications.
const BOM = "\uFEFF"

// DefaultDelimiter is used for exports unless the caller picks another.
const DefaultDelimiter = ';'

var (
	ErrEmptyFile        = errors.New("csv file is empty")
	ErrMissingHeader    = errors.New("csv header row is missing")
	ErrInvalidEncoding  = errors.New("csv file is not valid UTF-8")
	ErrInvalidDelimiter = errors.New("delimiter must be ';' or ','")
	ErrTooLarge         = errors.New("csv file exceeds the 10 MiB import limit")
)

// Row is one data row keyed by header name.
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the value for a column by header name.
func (r Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty reports whether every field of the row is blank.
func (r Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Document is a fully read CSV file.
type Document struct {
	Delimiter rune
	Headers   []string
	Rows      []Row
}

// Loader defines the interface for fetching CSV import sources by name.
type Loader interface {
	// Load reads and parses the named source. Names ending in .gz are
	// decompressed first.
	Load(ctx context.Context, name string) (*Document, error)
}
