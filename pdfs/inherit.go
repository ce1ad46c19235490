package pdfs

import (
	"errors"
	"fmt"

	"seehuhn.de/go/pdf"
)

var errParentLoop = errors.New("pdfs: loop in page tree parents")

// inherited looks up a page attribute, following Parent links up the tree.
// The returned object is resolved, nil if no node defines the key.
func (d *Document) inherited(dict pdf.Dict, key pdf.Name) (pdf.Object, error) {
	seen := make(map[pdf.Reference]bool)
	for dict != nil {
		if obj, ok := dict[key]; ok {
			return pdf.Resolve(d.data, obj)
		}
		parentRef, ok := dict["Parent"].(pdf.Reference)
		if !ok {
			return nil, nil
		}
		if seen[parentRef] {
			return nil, errParentLoop
		}
		seen[parentRef] = true

		parent, err := pdf.Resolve(d.data, parentRef)
		if err != nil {
			return nil, err
		}
		dict, _ = parent.(pdf.Dict)
	}
	return nil, nil
}

func (d *Document) mediaBox(dict pdf.Dict) (*pdf.Rectangle, error) {
	obj, err := d.inherited(dict, "MediaBox")
	if err != nil {
		return nil, err
	}
	if obj == nil {
		return &pdf.Rectangle{URx: LetterSize.Width, URy: LetterSize.Height}, nil
	}
	box, err := pdf.GetRectangle(d.data, obj)
	if err != nil {
		return nil, fmt.Errorf("pdfs: MediaBox: %w", err)
	}
	if box == nil {
		return &pdf.Rectangle{URx: LetterSize.Width, URy: LetterSize.Height}, nil
	}
	return box, nil
}

// rotation returns /Rotate normalized to 0, 90, 180 or 270.
// Values that are not a multiple of 90 count as 0.
func (d *Document) rotation(dict pdf.Dict) (int, error) {
	obj, err := d.inherited(dict, "Rotate")
	if err != nil {
		return 0, err
	}
	var r int
	switch x := obj.(type) {
	case pdf.Integer:
		r = int(x)
	case pdf.Real:
		r = int(x)
	default:
		return 0, nil
	}
	if r%90 != 0 {
		return 0, nil
	}
	return ((r % 360) + 360) % 360, nil
}

// resources returns a copy of the page's (possibly inherited) resource dict
func (d *Document) resources(dict pdf.Dict) (pdf.Dict, error) {
	obj, err := d.inherited(dict, "Resources")
	if err != nil {
		return nil, err
	}
	res, _ := obj.(pdf.Dict)
	out := pdf.Dict{}
	for k, v := range res {
		out[k] = v
	}
	return out, nil
}
