package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Writer writes BOM-prefixed CSV through csv.Writer with CRLF line endings.
// Fields are quoted when they contain the delimiter, a quote, CR or LF, or
// start with a space; quotes inside fields are doubled.
type Writer struct {
	csv *csv.Writer
}

// NewWriter writes the BOM to w and returns a writer using delim.
func NewWriter(w io.Writer, delim rune) (*Writer, error) {
	if delim != ';' && delim != ',' {
		return nil, ErrInvalidDelimiter
	}
	if _, err := io.WriteString(w, BOM); err != nil {
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}
	cw := csv.NewWriter(w)
	cw.Comma = delim
	cw.UseCRLF = true
	return &Writer{csv: cw}, nil
}

// Write writes one record.
func (w *Writer) Write(record []string) error {
	return w.csv.Write(record)
}

// Flush flushes buffered records and reports any write error.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}

// Export writes header and rows in one go.
func Export(w io.Writer, delim rune, header []string, rows [][]string) error {
	cw, err := NewWriter(w, delim)
	if err != nil {
		return err
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	return cw.Flush()
}
