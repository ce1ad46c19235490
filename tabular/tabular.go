// Package tabular decodes CSV input into field rows keyed by header name.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/daddykotex/pdf-edit-bulk/fields"
)

var (
	ErrNoHeader         = errors.New("tabular: input has no header line")
	ErrInvalidDelimiter = errors.New("tabular: invalid delimiter")
	ErrMalformed        = errors.New("tabular: malformed input")
)

// Options control how the input is split.
type Options struct {
	Delimiter rune // ';' when zero
}

// Reader yields one fields.Fields per data line.
type Reader struct {
	csv    *csv.Reader
	header []string
	row    int
}

// NewReader decodes the whole input and reads the header line.
//
// A UTF-8 or UTF-16 byte order mark selects the encoding. Input without a BOM
// that is not valid UTF-8 is decoded as Windows-1252, which is what
// spreadsheet software commonly exports.
func NewReader(r io.Reader, opts Options) (*Reader, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ';'
	}
	if !validDelimiter(delim) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDelimiter, delim)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("tabular: read input: %w", err)
	}
	text, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrMalformed, err)
	}

	cr := csv.NewReader(bytes.NewReader(text))
	cr.Comma = delim
	cr.FieldsPerRecord = -1 // ragged rows are fine, cells are matched by position
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = false

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %w", ErrMalformed, err)
	}
	for i, name := range header {
		header[i] = strings.TrimSpace(name)
	}
	return &Reader{csv: cr, header: header}, nil
}

// Header returns the column names, trimmed, in input order.
func (r *Reader) Header() []string {
	return append([]string(nil), r.header...)
}

// Next returns the next data row, or io.EOF after the last one.
// Lines whose cells are all blank are skipped.
// Columns with an empty header name are dropped; repeated header names
// give the field several values.
func (r *Reader) Next() (fields.Fields, error) {
	for {
		rec, err := r.csv.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("%w: row %d: %w", ErrMalformed, r.row+1, err)
		}
		if blank(rec) {
			continue
		}
		r.row++
		row := make(fields.Fields, len(r.header))
		for i, cell := range rec {
			if i >= len(r.header) || r.header[i] == "" {
				continue
			}
			row.Add(r.header[i], cell)
		}
		return row, nil
	}
}

// ReadAll reads every data row of the input.
// The result is never nil on success, even for a header-only input.
func ReadAll(r io.Reader, opts Options) ([]fields.Fields, error) {
	tr, err := NewReader(r, opts)
	if err != nil {
		return nil, err
	}
	rows := []fields.Fields{}
	for {
		row, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
}

// ParseDelimiter maps the delimiter choice of a form or flag to a rune.
// Accepted: ";", ",", "|", "\t" or "tab". Empty selects ';'.
func ParseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return ';', nil
	case "tab", `\t`:
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if size != len(s) || !validDelimiter(r) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDelimiter, s)
	}
	return r, nil
}

func validDelimiter(r rune) bool {
	switch r {
	case ';', ',', '|', '\t':
		return true
	}
	return false
}

func decodeText(raw []byte) ([]byte, error) {
	var fallback transform.Transformer = unicode.UTF8.NewDecoder()
	if !hasBOM(raw) && !utf8.Valid(raw) {
		fallback = charmap.Windows1252.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), raw)
	return out, err
}

func hasBOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0xEF, 0xBB, 0xBF}) ||
		bytes.HasPrefix(b, []byte{0xFE, 0xFF}) ||
		bytes.HasPrefix(b, []byte{0xFF, 0xFE})
}

func blank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
