package stamp

import "unicode/utf8"

const (
	// MinPadding is the gap kept between the label and the page edge.
	MinPadding = 5
	// CharWidthFactor approximates the advance width of one glyph.
	// It is not a font metric; existing output depends on this value.
	CharWidthFactor = 10
	// EdgeOffset is the distance of the baseline from the page edge.
	EdgeOffset = 15
)

// Placement is the anchor and orientation of a drawn label.
type Placement struct {
	X        float64
	Y        float64
	Rotation int // degrees the text itself is turned, 0 or 90
}

// ComputePlacement anchors a label in the top right corner of the page as
// it is displayed.
//
// Only a 90° page rotation gets its own branch: the label runs up the left
// edge and is turned by 90°. 0°, 180° and 270° are all laid out as an
// unrotated page. A label wider than the page yields a negative anchor and is
// drawn partly off-page. fontSize does not enter the computation.
func ComputePlacement(width, height float64, rotation int, label string, fontSize float64) Placement {
	toLeft := float64(MinPadding + utf8.RuneCountInString(label)*CharWidthFactor)
	if rotation == 90 {
		return Placement{X: EdgeOffset, Y: height - toLeft, Rotation: 90}
	}
	return Placement{X: width - toLeft, Y: height - EdgeOffset}
}
