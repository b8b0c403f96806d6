// Package ingest parses uploaded delimited text files into headers and rows.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"moleculehub/internal/domain"
)

// DefaultMaxRows caps the number of data rows accepted when Options.MaxRows is zero.
const DefaultMaxRows = 10000

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options controls Parse.
type Options struct {
	// Comma is the field delimiter. Zero selects one from Filename, falling
	// back to ','.
	Comma rune
	// Filename is used only to pick a delimiter (".tsv" and ".tab" are tab
	// separated).
	Filename string
	MaxRows  int
}

// DelimiterFor returns the field delimiter implied by a file name.
func DelimiterFor(filename string) rune {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tsv", ".tab":
		return '\t'
	default:
		return ','
	}
}

// Parse reads a header row followed by data rows.
//
// Headers are trimmed and must be non-blank and unique. The file must hold at
// least one data row and at most MaxRows. Rows shorter than the header are
// padded with empty values; longer rows are rejected. Fully blank lines are
// skipped.
func Parse(r io.Reader, opts Options) (*domain.Upload, error) {
	maxRows := opts.MaxRows
	if maxRows <= 0 {
		maxRows = DefaultMaxRows
	}
	comma := opts.Comma
	if comma == 0 {
		comma = DelimiterFor(opts.Filename)
	}

	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	cr := csv.NewReader(br)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	record, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, domain.ErrValidation("file is empty")
	}
	if err != nil {
		return nil, parseError(err)
	}

	headers, err := normalizeHeaders(record)
	if err != nil {
		return nil, err
	}

	var rows []domain.Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, parseError(err)
		}
		if blank(record) {
			continue
		}
		line, _ := cr.FieldPos(0)
		if len(record) > len(headers) {
			return nil, domain.ErrValidation("line %d has %d fields, header has %d", line, len(record), len(headers))
		}
		if len(rows) == maxRows {
			return nil, domain.ErrValidation("file has more than %d data rows", maxRows)
		}
		row := make(domain.Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = strings.TrimSpace(record[i])
			} else {
				row[h] = ""
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, domain.ErrValidation("file has a header row but no data rows")
	}
	return &domain.Upload{Headers: headers, Rows: rows}, nil
}

func normalizeHeaders(record []string) ([]string, error) {
	if blank(record) {
		return nil, domain.ErrValidation("header row is empty")
	}
	headers := make([]string, len(record))
	seen := make(map[string]int, len(record))
	for i, h := range record {
		h = strings.TrimSpace(h)
		if h == "" {
			return nil, domain.ErrValidation("column %d has an empty header", i+1)
		}
		if prev, dup := seen[h]; dup {
			return nil, domain.ErrValidation("header %q appears in columns %d and %d", h, prev, i+1)
		}
		seen[h] = i + 1
		headers[i] = h
	}
	return headers, nil
}

func blank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return domain.ErrValidation("malformed file at line %d: %v", pe.Line, pe.Err)
	}
	return fmt.Errorf("read upload: %w", err)
}
