package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// MaxImportSize caps the bytes read from one import source.
const MaxImportSize = 10 << 20

// DetectDelimiter picks ';' or ',' for a header line by counting each
// outside quoted sections. Ties go to ','.
func DetectDelimiter(headerLine string) rune {
	var semicolons, commas int
	inQuotes := false
	for _, r := range headerLine {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				semicolons++
			}
		case ',':
			if !inQuotes {
				commas++
			}
		}
	}
	if semicolons > commas {
		return ';'
	}
	return ','
}

// Reader reads CSV with BOM stripping and delimiter detection.
type Reader struct {
	csv       *csv.Reader
	delimiter rune
	headers   []string
	line      int
}

// NewReader strips a leading BOM, detects the delimiter from the first line
// and reads the header row.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(&cappedReader{r: io.LimitReader(r, MaxImportSize+1), remaining: MaxImportSize})

	if b, err := br.Peek(3); err == nil && bytes.Equal(b, []byte(BOM)) {
		_, _ = br.Discard(3)
	}

	peek, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	if len(bytes.TrimSpace(peek)) == 0 {
		return nil, ErrEmptyFile
	}
	check := peek
	if len(peek) == 4096 {
		check = trimPartialRune(peek)
	}
	if !utf8.Valid(check) {
		return nil, ErrInvalidEncoding
	}

	first := string(peek)
	if i := strings.IndexAny(first, "\r\n"); i >= 0 {
		first = first[:i]
	}
	delim := DetectDelimiter(first)

	cr := csv.NewReader(br)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	return &Reader{csv: cr, delimiter: delim, headers: header, line: 1}, nil
}

// Delimiter returns the detected delimiter.
func (r *Reader) Delimiter() rune { return r.delimiter }

// Headers returns the trimmed header names.
func (r *Reader) Headers() []string { return r.headers }

// Next returns the next row, or io.EOF. Missing trailing fields are empty
// and extra fields are dropped.
func (r *Reader) Next() (Row, error) {
	record, err := r.csv.Read()
	if errors.Is(err, io.EOF) {
		return Row{}, io.EOF
	}
	r.line++
	if err != nil {
		return Row{}, fmt.Errorf("error reading line %d: %w", r.line, err)
	}

	data := make(map[string]string, len(r.headers))
	for i, h := range r.headers {
		if i < len(record) {
			data[h] = strings.TrimSpace(record[i])
		} else {
			data[h] = ""
		}
	}
	return Row{Line: r.line, Data: data}, nil
}

// ReadAll reads a whole document, skipping blank rows.
func ReadAll(r io.Reader) (*Document, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{Delimiter: reader.Delimiter(), Headers: reader.Headers()}
	for {
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}
		doc.Rows = append(doc.Rows, row)
	}
	return doc, nil
}

// cappedReader fails with ErrTooLarge once more than remaining bytes have
// been read, so an oversized source is rejected instead of cut short.
type cappedReader struct {
	r         io.Reader
	remaining int64
}

func (c *cappedReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.remaining -= int64(n)
	if c.remaining < 0 {
		return 0, ErrTooLarge
	}
	return n, err
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off by a peek.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}
			break
		}
	}
	return b
}
