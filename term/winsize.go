package term

// WinSize is the terminal size in cells and, when the terminal reports it,
// in pixels.
type WinSize struct {
	Rows   int
	Cols   int
	Width  int
	Height int
}

// Aspect is the height/width ratio of one cell. Terminals that do not
// report pixel sizes get 2, which is close for most fonts.
func (w WinSize) Aspect() float64 {
	if w.Width == 0 || w.Height == 0 || w.Rows == 0 || w.Cols == 0 {
		return 2.0
	}
	return float64(w.Height) * float64(w.Cols) / float64(w.Rows) / float64(w.Width)
}
