package pdfs

import (
	"fmt"

	"seehuhn.de/go/pdf"
)

const stampFontPrefix = "StampF"

// ensureFont makes the stamp font available in the page resources held by
// dict and returns its resource name. The font dict itself is shared by all
// pages. The caller records the name in fontNames once the page is stored.
func (d *Document) ensureFont(page pdf.Reference, dict pdf.Dict) (pdf.Name, error) {
	if name, ok := d.fontNames[page]; ok {
		return name, nil
	}
	if d.font == 0 {
		d.font = d.data.Alloc()
		err := d.data.Put(d.font, pdf.Dict{
			"Type":     pdf.Name("Font"),
			"Subtype":  pdf.Name("Type1"),
			"BaseFont": pdf.Name("Helvetica"),
			"Encoding": pdf.Name("WinAnsiEncoding"),
		})
		if err != nil {
			return "", err
		}
	}

	res, err := d.resources(dict)
	if err != nil {
		return "", err
	}
	fonts := pdf.Dict{}
	if obj, err := pdf.Resolve(d.data, res["Font"]); err != nil {
		return "", err
	} else if existing, ok := obj.(pdf.Dict); ok {
		for k, v := range existing {
			fonts[k] = v
		}
	}

	var name pdf.Name
	for i := 1; ; i++ {
		name = pdf.Name(fmt.Sprintf("%s%d", stampFontPrefix, i))
		if _, taken := fonts[name]; !taken {
			break
		}
	}
	fonts[name] = d.font
	res["Font"] = fonts
	dict["Resources"] = res
	return name, nil
}
