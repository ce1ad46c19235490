package stamp

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/daddykotex/pdf-edit-bulk/fields"
)

func TestIdentifier(t *testing.T) {
	tests := []struct {
		project string
		page    int
		want    string
	}{
		{"PRJ", 1, "PRJ-001"},
		{"PRJ", 7, "PRJ-007"},
		{"PRJ", 42, "PRJ-042"},
		{"PRJ", 999, "PRJ-999"},
		{"PRJ", 1000, "PRJ-1000"},
		{"PRJ", 12345, "PRJ-12345"},
		{"", 3, "-003"},
	}
	for _, tt := range tests {
		if got := Identifier(tt.project, tt.page); got != tt.want {
			t.Errorf("Identifier(%q, %d) = %q, want %q", tt.project, tt.page, got, tt.want)
		}
	}
}

func TestIdentifierPadding(t *testing.T) {
	for i := 1; i <= 999; i++ {
		id := Identifier("P", i)
		suffix := strings.TrimPrefix(id, "P-")
		if len(suffix) != 3 {
			t.Fatalf("Identifier(P, %d) = %q, suffix not 3 digits", i, id)
		}
	}
}

func TestLookupCaseInsensitive(t *testing.T) {
	table := NewTable(Record{Identifier: "PRJ-007", Quantity: 3})
	rec, ok := table.Lookup("prj-007")
	if !ok {
		t.Fatal("prj-007 not found")
	}
	if rec.Quantity != 3 {
		t.Errorf("quantity = %d, want 3", rec.Quantity)
	}
	if _, ok := table.Lookup("PRJ-008"); ok {
		t.Error("PRJ-008 unexpectedly found")
	}
}

func TestLookupFirstMatch(t *testing.T) {
	table := NewTable(
		Record{Identifier: "PRJ-001", Quantity: 5},
		Record{Identifier: "PRJ-001", Quantity: 9},
		Record{Identifier: "prj-001", Quantity: 11},
	)
	rec, ok := table.Lookup("PRJ-001")
	if !ok || rec.Quantity != 5 {
		t.Errorf("Lookup = %v, %t; want quantity 5", rec, ok)
	}
	if table.Len() != 3 {
		t.Errorf("Len = %d, want 3", table.Len())
	}
}

func TestNilTableLookup(t *testing.T) {
	var table *Table
	if _, ok := table.Lookup("x"); ok {
		t.Error("nil table found a record")
	}
}

func TestBuildTable(t *testing.T) {
	rows := []fields.Fields{
		{"identifier": {"PRJ-001"}, "quantity": {"5"}},
		{"identifier": {" PRJ-002 "}, "quantity": {" 0 "}},
		{"identifier": {"PRJ-001"}, "quantity": {"9"}},
	}
	table, err := BuildTable(rows, DefaultFieldNames)
	if err != nil {
		t.Fatal(err)
	}
	want := []Record{
		{Identifier: "PRJ-001", Quantity: 5},
		{Identifier: "PRJ-002", Quantity: 0},
		{Identifier: "PRJ-001", Quantity: 9},
	}
	if d := cmp.Diff(want, table.Records()); d != "" {
		t.Errorf("records (-want +got):\n%s", d)
	}
	rec, _ := table.Lookup("PRJ-001")
	if rec.Quantity != 5 {
		t.Errorf("first match quantity = %d, want 5", rec.Quantity)
	}
}

func TestBuildTableMalformed(t *testing.T) {
	names := FieldNames{Identifier: "id", Quantity: "qty"}
	tests := []struct {
		name    string
		rows    []fields.Fields
		wantRow int
	}{
		{"not a number", []fields.Fields{
			{"id": {"A"}, "qty": {"1"}},
			{"id": {"B"}, "qty": {"abc"}},
		}, 2},
		{"missing field", []fields.Fields{
			{"id": {"A"}},
		}, 1},
		{"empty value", []fields.Fields{
			{"id": {"A"}, "qty": {"1"}},
			{"id": {"B"}, "qty": {"2"}},
			{"id": {"C"}, "qty": {"  "}},
		}, 3},
		{"negative", []fields.Fields{
			{"id": {"A"}, "qty": {"-4"}},
		}, 1},
		{"fraction", []fields.Fields{
			{"id": {"A"}, "qty": {"1.5"}},
		}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTable(tt.rows, names)
			if !errors.Is(err, ErrMalformedRecord) {
				t.Fatalf("err = %v, want ErrMalformedRecord", err)
			}
			var mre *MalformedRecordError
			if !errors.As(err, &mre) {
				t.Fatalf("err %T is not *MalformedRecordError", err)
			}
			if mre.Row != tt.wantRow {
				t.Errorf("row = %d, want %d", mre.Row, tt.wantRow)
			}
			if mre.Field != "qty" {
				t.Errorf("field = %q, want qty", mre.Field)
			}
		})
	}
}

func TestFormatLabel(t *testing.T) {
	rec := Record{Identifier: "PRJ-007", Quantity: 3}
	if got := FormatLabel("ULC", "PRJ-007", rec, true); got != "ULCPRJ-007 Qty: 3" {
		t.Errorf("found label = %q", got)
	}
	if got := FormatLabel("ULC", "PRJ-007", Record{}, false); got != "ULCPRJ-007" {
		t.Errorf("missing label = %q", got)
	}
	if got := FormatLabel("", "PRJ-002", Record{Quantity: 0}, true); got != "PRJ-002 Qty: 0" {
		t.Errorf("zero quantity label = %q", got)
	}
}

func TestComputePlacement(t *testing.T) {
	label := "0123456789" // 10 characters: toLeft = 5 + 100 = 105
	tests := []struct {
		name     string
		rotation int
		want     Placement
	}{
		{"rotated 90", 90, Placement{X: 15, Y: 195, Rotation: 90}},
		{"upright", 0, Placement{X: 95, Y: 285}},
		{"rotated 180", 180, Placement{X: 95, Y: 285}},
		{"rotated 270", 270, Placement{X: 95, Y: 285}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePlacement(200, 300, tt.rotation, label, DefaultFontSize)
			if d := cmp.Diff(tt.want, got); d != "" {
				t.Errorf("placement (-want +got):\n%s", d)
			}
		})
	}
}

func TestComputePlacementOffPage(t *testing.T) {
	got := ComputePlacement(50, 300, 0, strings.Repeat("x", 20), DefaultFontSize)
	if got.X != 50-205 {
		t.Errorf("X = %v, want %v", got.X, 50-205)
	}
}

func TestComputePlacementCountsRunes(t *testing.T) {
	got := ComputePlacement(200, 300, 0, "é", DefaultFontSize)
	if got.X != 200-15 {
		t.Errorf("X = %v, want 185", got.X)
	}
}
