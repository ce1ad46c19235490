package stamp

// PageInfo describes one page as the codec sees it.
type PageInfo struct {
	Width    float64
	Height   float64
	Rotation int // clockwise display rotation: 0, 90, 180 or 270
}

// Color is an RGB colour with components in [0, 1].
type Color struct {
	R, G, B float64
}

var Black = Color{}

// Text is one text-drawing operation.
type Text struct {
	X, Y     float64
	Rotation int // counter-clockwise rotation of the text, degrees
	FontSize float64
	Color    Color
	Value    string
}

// Document is the loaded document handle a merge works on.
// Page numbers are 1-based.
//
// DrawText must only add content: what the page showed before must still be
// shown, unchanged, after the call.
//
// A Document is owned by one merge at a time.
type Document interface {
	NumPages() int
	Page(page int) (PageInfo, error)
	DrawText(page int, t Text) error
}
