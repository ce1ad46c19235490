package pdfs

type PaperSize struct {
	Name   string
	Width  float64 // in `pt` (1" = 72pts)
	Height float64 // in `pt`
}

// LetterSize is the page size assumed when no MediaBox is found
var LetterSize = PaperSize{Name: "Letter", Width: 612, Height: 792} // 8.5" x 11"
