package stamp

// DefaultFontSize is the size labels are drawn with.
const DefaultFontSize = 15

// Annotator draws labels onto pages.
type Annotator struct {
	FontSize float64
	Color    Color
}

// Annotate draws label at pl on the given page.
func (a Annotator) Annotate(doc Document, page int, pl Placement, label string) error {
	err := doc.DrawText(page, Text{
		X:        pl.X,
		Y:        pl.Y,
		Rotation: pl.Rotation,
		FontSize: a.FontSize,
		Color:    a.Color,
		Value:    label,
	})
	return wrapPageError(OpDrawLabel, page, err)
}
