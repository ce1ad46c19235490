package stamp

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/daddykotex/pdf-edit-bulk/fields"
)

type fakeDoc struct {
	pages   []PageInfo
	drawn   map[int][]Text
	failOn  int
	readErr error
}

func newFakeDoc(pages ...PageInfo) *fakeDoc {
	return &fakeDoc{pages: pages, drawn: map[int][]Text{}}
}

func (d *fakeDoc) NumPages() int { return len(d.pages) }

func (d *fakeDoc) Page(page int) (PageInfo, error) {
	if d.readErr != nil {
		return PageInfo{}, d.readErr
	}
	return d.pages[page-1], nil
}

func (d *fakeDoc) DrawText(page int, t Text) error {
	if page == d.failOn {
		return errors.New("disk full")
	}
	d.drawn[page] = append(d.drawn[page], t)
	return nil
}

func TestMergeEndToEnd(t *testing.T) {
	doc := newFakeDoc(
		PageInfo{Width: 200, Height: 300},
		PageInfo{Width: 300, Height: 200, Rotation: 90},
	)
	rows := []fields.Fields{
		{"identifier": {"PRJ-002"}, "quantity": {"4"}},
	}
	sum, err := MergeAnnotations(context.Background(), doc, rows, DefaultFieldNames, MergeOptions{Project: "PRJ"})
	if err != nil {
		t.Fatal(err)
	}

	want := &Summary{
		Pages:   2,
		Matched: 1,
		Missing: 1,
		Labels: []PageLabel{
			{Page: 1, Identifier: "PRJ-001", Label: "PRJ-001"},
			{Page: 2, Identifier: "PRJ-002", Label: "PRJ-002 Qty: 4", Quantity: 4, Found: true},
		},
	}
	if d := cmp.Diff(want, sum); d != "" {
		t.Errorf("summary (-want +got):\n%s", d)
	}

	// "PRJ-001": toLeft = 5 + 70 = 75
	// "PRJ-002 Qty: 4": toLeft = 5 + 140 = 145
	wantDrawn := map[int][]Text{
		1: {{X: 125, Y: 285, FontSize: 15, Color: Black, Value: "PRJ-001"}},
		2: {{X: 15, Y: 55, Rotation: 90, FontSize: 15, Color: Black, Value: "PRJ-002 Qty: 4"}},
	}
	if d := cmp.Diff(wantDrawn, doc.drawn); d != "" {
		t.Errorf("drawn (-want +got):\n%s", d)
	}
	if doc.NumPages() != 2 {
		t.Errorf("page count changed to %d", doc.NumPages())
	}
}

func TestMergeMalformedBeforeAnyPage(t *testing.T) {
	doc := newFakeDoc(PageInfo{Width: 200, Height: 300})
	rows := []fields.Fields{
		{"identifier": {"PRJ-001"}, "quantity": {"abc"}},
	}
	sum, err := MergeAnnotations(context.Background(), doc, rows, DefaultFieldNames, MergeOptions{Project: "PRJ"})
	if !errors.Is(err, ErrMalformedRecord) {
		t.Fatalf("err = %v, want ErrMalformedRecord", err)
	}
	if sum != nil {
		t.Error("summary returned on failure")
	}
	if len(doc.drawn) != 0 {
		t.Errorf("%d pages annotated before failure", len(doc.drawn))
	}
}

func TestMergeInputMissing(t *testing.T) {
	ctx := context.Background()
	if _, err := MergeAnnotations(ctx, nil, []fields.Fields{}, DefaultFieldNames, MergeOptions{}); !errors.Is(err, ErrInputMissing) {
		t.Errorf("nil document: err = %v", err)
	}
	if _, err := MergeAnnotations(ctx, newFakeDoc(), nil, DefaultFieldNames, MergeOptions{}); !errors.Is(err, ErrInputMissing) {
		t.Errorf("nil rows: err = %v", err)
	}
	if _, err := NewEngine().Merge(ctx, newFakeDoc(), nil, MergeOptions{}); !errors.Is(err, ErrInputMissing) {
		t.Errorf("nil table: err = %v", err)
	}
}

func TestMergeEmptyTable(t *testing.T) {
	doc := newFakeDoc(PageInfo{Width: 100, Height: 100})
	sum, err := MergeAnnotations(context.Background(), doc, []fields.Fields{}, DefaultFieldNames, MergeOptions{Project: "X", Prefix: "ULC"})
	if err != nil {
		t.Fatal(err)
	}
	if sum.Missing != 1 || sum.Labels[0].Label != "ULCX-001" {
		t.Errorf("summary = %+v", sum)
	}
}

func TestMergeDrawFailure(t *testing.T) {
	doc := newFakeDoc(
		PageInfo{Width: 200, Height: 300},
		PageInfo{Width: 200, Height: 300},
	)
	doc.failOn = 2
	_, err := NewEngine().Merge(context.Background(), doc, NewTable(), MergeOptions{Project: "P"})
	var de *DocumentError
	if !errors.As(err, &de) {
		t.Fatalf("err = %v, want *DocumentError", err)
	}
	if de.Page != 2 || de.Op != "draw label" {
		t.Errorf("DocumentError = %+v", de)
	}
}

func TestMergePageReadFailure(t *testing.T) {
	doc := newFakeDoc(PageInfo{Width: 200, Height: 300})
	doc.readErr = errors.New("broken page tree")
	_, err := NewEngine().Merge(context.Background(), doc, NewTable(), MergeOptions{Project: "P"})
	if !errors.Is(err, doc.readErr) {
		t.Errorf("err = %v, want wrapped read error", err)
	}
}

func TestMergeCanceled(t *testing.T) {
	doc := newFakeDoc(PageInfo{Width: 200, Height: 300})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine().Merge(ctx, doc, NewTable(), MergeOptions{Project: "P"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if len(doc.drawn) != 0 {
		t.Error("canceled merge drew on a page")
	}
}
