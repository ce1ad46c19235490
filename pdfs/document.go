package pdfs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/pagetree"

	"github.com/daddykotex/pdf-edit-bulk/rw"
	"github.com/daddykotex/pdf-edit-bulk/stamp"
)

var (
	ErrPageOutOfRange   = errors.New("pdfs: page out of range")
	ErrInlinePageObject = errors.New("pdfs: page tree holds a direct page object")
)

// Document is an in-memory PDF whose pages can be stamped with text.
// Stamping only adds objects: existing content streams are referenced as-is.
// Document implements stamp.Document. It is safe for concurrent use,
// but one merge should own it at a time.
type Document struct {
	mu    sync.Mutex
	data  *pdf.Data
	pages []pdf.Reference

	font      pdf.Reference              // shared Helvetica font dict, 0 until first use
	fontNames map[pdf.Reference]pdf.Name // page -> resource name of the stamp font
	isolated  map[pdf.Reference]bool     // page content already wrapped in q ... Q
}

// Ensure Document implements stamp.Document
var _ stamp.Document = (*Document)(nil)

// Open reads a complete PDF into memory.
func Open(r io.ReadSeeker) (*Document, error) {
	data, err := pdf.Read(r, nil)
	if err != nil {
		return nil, fmt.Errorf("pdfs: read: %w", err)
	}
	pages, err := pagetree.FindPages(data)
	if err != nil {
		return nil, fmt.Errorf("pdfs: page tree: %w", err)
	}
	for _, ref := range pages {
		if ref == 0 {
			return nil, ErrInlinePageObject
		}
	}
	return &Document{
		data:      data,
		pages:     pages,
		fontNames: make(map[pdf.Reference]pdf.Name),
		isolated:  make(map[pdf.Reference]bool),
	}, nil
}

// OpenBytes is Open on an in-memory file
func OpenBytes(b []byte) (*Document, error) {
	return Open(bytes.NewReader(b))
}

// OpenFile is Open on a file path
func OpenFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Open(f)
}

func (d *Document) NumPages() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pages)
}

// Page returns the MediaBox size and the display rotation of a page.
// A page without a MediaBox gets the Letter size.
func (d *Document) Page(page int) (stamp.PageInfo, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ref, err := d.pageRef(page)
	if err != nil {
		return stamp.PageInfo{}, err
	}
	dict, err := d.pageDict(ref)
	if err != nil {
		return stamp.PageInfo{}, err
	}
	box, err := d.mediaBox(dict)
	if err != nil {
		return stamp.PageInfo{}, err
	}
	rotation, err := d.rotation(dict)
	if err != nil {
		return stamp.PageInfo{}, err
	}
	return stamp.PageInfo{
		Width:    box.URx - box.LLx,
		Height:   box.URy - box.LLy,
		Rotation: rotation,
	}, nil
}

// DrawText adds a text-showing content stream to a page.
//
// On the first call for a page the existing content is enclosed in q ... Q so
// that a graphics state it leaves behind cannot move or recolour the label.
// Coordinates are relative to the lower left corner of the MediaBox.
func (d *Document) DrawText(page int, t stamp.Text) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ref, err := d.pageRef(page)
	if err != nil {
		return err
	}
	dict, err := d.pageDict(ref)
	if err != nil {
		return err
	}
	dict = maps.Clone(dict)

	fontName, err := d.ensureFont(ref, dict)
	if err != nil {
		return err
	}
	box, err := d.mediaBox(dict)
	if err != nil {
		return err
	}
	t.X += box.LLx
	t.Y += box.LLy

	contents, err := d.contents(dict)
	if err != nil {
		return err
	}
	var ops bytes.Buffer
	if !d.isolated[ref] {
		openRef, err := d.putStream([]byte("q\n"))
		if err != nil {
			return err
		}
		contents = append(pdf.Array{openRef}, contents...)
		ops.WriteString("Q\n")
	}
	writeTextOps(&ops, fontName, t)
	labelRef, err := d.putStream(ops.Bytes())
	if err != nil {
		return err
	}
	dict["Contents"] = append(contents, labelRef)

	if err := d.data.Put(ref, dict); err != nil {
		return err
	}
	d.fontNames[ref] = fontName
	d.isolated[ref] = true
	return nil
}

// WriteTo serializes the document, implementing io.WriterTo
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	cw := rw.NewCountWriter(w)
	if err := d.data.Write(cw); err != nil {
		return cw.BytesWritten(), fmt.Errorf("pdfs: write: %w", err)
	}
	return cw.BytesWritten(), nil
}

func (d *Document) ProduceBytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteToFile writes the document next to path and renames it into place,
// so a failed write never leaves a truncated file at path.
func (d *Document) WriteToFile(path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if err = f.Chmod(0o644); err == nil {
		_, err = d.WriteTo(f)
	}
	if err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err = f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err = os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func (d *Document) pageRef(page int) (pdf.Reference, error) {
	if page < 1 || page > len(d.pages) {
		return 0, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, len(d.pages))
	}
	return d.pages[page-1], nil
}

func (d *Document) pageDict(ref pdf.Reference) (pdf.Dict, error) {
	obj, err := pdf.Resolve(d.data, ref)
	if err != nil {
		return nil, err
	}
	dict, ok := obj.(pdf.Dict)
	if !ok {
		return nil, fmt.Errorf("pdfs: page object %v is %T, not a dictionary", ref, obj)
	}
	return dict, nil
}

func (d *Document) putStream(content []byte) (pdf.Reference, error) {
	ref := d.data.Alloc()
	w, err := d.data.OpenStream(ref, nil, pdf.FilterCompress{})
	if err != nil {
		return 0, err
	}
	if _, err = w.Write(content); err != nil {
		return 0, err
	}
	if err = w.Close(); err != nil {
		return 0, err
	}
	return ref, nil
}

// contents returns the page's content streams as a fresh array
func (d *Document) contents(dict pdf.Dict) (pdf.Array, error) {
	obj, err := pdf.Resolve(d.data, dict["Contents"])
	if err != nil {
		return nil, err
	}
	switch obj := obj.(type) {
	case nil:
		return pdf.Array{}, nil
	case pdf.Array:
		return append(pdf.Array{}, obj...), nil
	default:
		// a single stream: keep the original reference, not the resolved object
		return pdf.Array{dict["Contents"]}, nil
	}
}
