package stamp

import (
	"context"

	"github.com/daddykotex/pdf-edit-bulk/fields"
)

// MergeOptions are fixed for the duration of one merge.
type MergeOptions struct {
	Project string `json:"project"`
	Prefix  string `json:"prefix"`
}

// PageLabel records what was stamped on one page.
type PageLabel struct {
	Page       int    `json:"page"`
	Identifier string `json:"identifier"`
	Label      string `json:"label"`
	Quantity   int    `json:"quantity"`
	Found      bool   `json:"found"`
}

// Summary is the outcome of a successful merge.
type Summary struct {
	Pages   int         `json:"pages"`
	Matched int         `json:"matched"`
	Missing int         `json:"missing"`
	Labels  []PageLabel `json:"labels"`
}

// Engine runs merges. The zero value draws nothing visible; use NewEngine.
type Engine struct {
	Annotator Annotator
}

func NewEngine() *Engine {
	return &Engine{
		Annotator: Annotator{FontSize: DefaultFontSize, Color: Black},
	}
}

// Merge stamps every page of doc, in document order.
//
// ctx is checked between pages. On any error the merge stops and doc must be
// discarded by the caller: pages before the failing one are already stamped.
func (e *Engine) Merge(ctx context.Context, doc Document, table *Table, opts MergeOptions) (*Summary, error) {
	if doc == nil || table == nil {
		return nil, ErrInputMissing
	}
	n := doc.NumPages()
	sum := &Summary{
		Pages:  n,
		Labels: make([]PageLabel, 0, n),
	}
	for page := 1; page <= n; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pl, err := e.stampPage(doc, table, page, opts)
		if err != nil {
			return nil, err
		}
		if pl.Found {
			sum.Matched++
		} else {
			sum.Missing++
		}
		sum.Labels = append(sum.Labels, pl)
		logPage(pl)
	}
	return sum, nil
}

func (e *Engine) stampPage(doc Document, table *Table, page int, opts MergeOptions) (PageLabel, error) {
	info, err := doc.Page(page)
	if err != nil {
		return PageLabel{}, wrapPageError(OpReadPage, page, err)
	}
	id := Identifier(opts.Project, page)
	rec, found := table.Lookup(id)
	label := FormatLabel(opts.Prefix, id, rec, found)
	pl := ComputePlacement(info.Width, info.Height, info.Rotation, label, e.Annotator.FontSize)
	if err := e.Annotator.Annotate(doc, page, pl, label); err != nil {
		return PageLabel{}, err
	}
	return PageLabel{
		Page:       page,
		Identifier: id,
		Label:      label,
		Quantity:   rec.Quantity,
		Found:      found,
	}, nil
}

// MergeAnnotations builds the record table from rows and stamps doc.
// Malformed rows fail the call before any page is touched.
// rows may be empty but not nil.
func MergeAnnotations(ctx context.Context, doc Document, rows []fields.Fields, names FieldNames, opts MergeOptions) (*Summary, error) {
	if doc == nil || rows == nil {
		return nil, ErrInputMissing
	}
	table, err := BuildTable(rows, names)
	if err != nil {
		return nil, err
	}
	return NewEngine().Merge(ctx, doc, table, opts)
}
