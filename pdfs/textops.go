package pdfs

import (
	"bytes"
	"math"
	"strconv"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"seehuhn.de/go/pdf"

	"github.com/daddykotex/pdf-edit-bulk/stamp"
)

// writeTextOps appends a self-contained text object:
//
//	q r g b rg BT /F size Tf a b c d x y Tm (label) Tj ET Q
func writeTextOps(buf *bytes.Buffer, font pdf.Name, t stamp.Text) {
	a, b, c, dd := rotationMatrix(t.Rotation)

	buf.WriteString("q\n")
	writeNums(buf, t.Color.R, t.Color.G, t.Color.B)
	buf.WriteString(" rg\nBT\n")
	buf.WriteString(pdf.Format(font))
	buf.WriteByte(' ')
	writeNums(buf, t.FontSize)
	buf.WriteString(" Tf\n")
	writeNums(buf, a, b, c, dd, t.X, t.Y)
	buf.WriteString(" Tm\n")
	buf.WriteString(pdf.Format(pdf.String(encodeLabel(t.Value))))
	buf.WriteString(" Tj\nET\nQ\n")
}

// rotationMatrix is exact for multiples of 90 degrees
func rotationMatrix(deg int) (a, b, c, d float64) {
	switch ((deg % 360) + 360) % 360 {
	case 0:
		return 1, 0, 0, 1
	case 90:
		return 0, 1, -1, 0
	case 180:
		return -1, 0, 0, -1
	case 270:
		return 0, -1, 1, 0
	}
	rad := float64(deg) * math.Pi / 180
	sin, cos := math.Sincos(rad)
	return cos, sin, -sin, cos
}

func writeNums(buf *bytes.Buffer, xs ...float64) {
	for i, x := range xs {
		if i > 0 {
			buf.WriteByte(' ')
		}
		if x == 0 {
			x = 0 // no "-0"
		}
		buf.WriteString(strconv.FormatFloat(x, 'f', -1, 64))
	}
}

// encodeLabel maps the label to WinAnsiEncoding, the encoding of the stamp font.
// Characters outside the code page become the SUB byte.
func encodeLabel(s string) []byte {
	enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
	out, err := enc.Bytes([]byte(s))
	if err != nil {
		return []byte(s)
	}
	return out
}
