package stamp

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/daddykotex/pdf-edit-bulk/fields"
)

// Record is one (identifier, quantity) pair of the tabular input.
type Record struct {
	Identifier string
	Quantity   int
}

// FieldNames selects the two columns a Table is built from.
type FieldNames struct {
	Identifier string `json:"identifier_field"`
	Quantity   string `json:"quantity_field"`
}

var DefaultFieldNames = FieldNames{Identifier: "identifier", Quantity: "quantity"}

// Table is an ordered, immutable collection of records.
//
// Identifiers are not required to be unique. Lookup returns the first
// record in table order, so later duplicates are never reached.
type Table struct {
	records []Record
	index   map[string]int // folded identifier -> position of first occurrence
}

// BuildTable converts raw rows into a Table.
// The first row whose quantity is absent or not a non-negative integer
// fails the whole build with a *MalformedRecordError.
func BuildTable(rows []fields.Fields, names FieldNames) (*Table, error) {
	t := &Table{
		records: make([]Record, 0, len(rows)),
		index:   make(map[string]int, len(rows)),
	}
	for i, row := range rows {
		rec, err := parseRecord(i+1, row, names)
		if err != nil {
			return nil, err
		}
		key := foldKey(rec.Identifier)
		if _, dup := t.index[key]; !dup {
			t.index[key] = len(t.records)
		}
		t.records = append(t.records, rec)
	}
	return t, nil
}

func parseRecord(rowNum int, row fields.Fields, names FieldNames) (Record, error) {
	raw := strings.TrimSpace(fields.Extract(row, names.Quantity))
	if raw == "" {
		return Record{}, &MalformedRecordError{Row: rowNum, Field: names.Quantity}
	}
	qty, err := strconv.Atoi(raw)
	if err != nil {
		return Record{}, &MalformedRecordError{Row: rowNum, Field: names.Quantity, Value: raw, Err: err}
	}
	if qty < 0 {
		return Record{}, &MalformedRecordError{Row: rowNum, Field: names.Quantity, Value: raw}
	}
	return Record{
		Identifier: strings.TrimSpace(fields.Extract(row, names.Identifier)),
		Quantity:   qty,
	}, nil
}

// NewTable builds a Table from records that are already typed.
func NewTable(records ...Record) *Table {
	t := &Table{
		records: append([]Record(nil), records...),
		index:   make(map[string]int, len(records)),
	}
	for i, rec := range t.records {
		key := foldKey(rec.Identifier)
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	return t
}

// Lookup finds the first record whose identifier equals id, ignoring case.
// A miss is a normal outcome, reported by ok == false.
func (t *Table) Lookup(id string) (rec Record, ok bool) {
	if t == nil {
		return Record{}, false
	}
	i, ok := t.index[foldKey(id)]
	if !ok {
		return Record{}, false
	}
	return t.records[i], true
}

// Len returns the number of records, duplicates included.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Records returns a copy of the records in table order.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	return append([]Record(nil), t.records...)
}

// foldKey lower-cases an identifier for comparison.
// A Caser is stateful, so every call gets its own.
func foldKey(s string) string {
	return cases.Lower(language.Und).String(s)
}
