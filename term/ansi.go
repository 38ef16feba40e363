package term

import (
	"fmt"
	"image/color"
	"io"
)

// ANSI writes terminal escape sequences to the wrapped writer.
type ANSI struct {
	io.Writer
}

func (a ANSI) csi(format string, args ...interface{}) {
	fmt.Fprintf(a.Writer, "\x1b["+format, args...)
}

// CursorPosition moves the cursor to a 1-based row and column.
func (a ANSI) CursorPosition(row, col int) { a.csi("%d;%dH", row, col) }

// Clear erases the screen.
func (a ANSI) Clear() { a.csi("2J") }

// ClearLine erases the line under the cursor.
func (a ANSI) ClearLine() { a.csi("2K") }

func (a ANSI) HideCursor() { a.csi("?25l") }
func (a ANSI) ShowCursor() { a.csi("?25h") }

// AltScreen switches to the alternate screen buffer, leaving the shell
// scrollback untouched.
func (a ANSI) AltScreen() { a.csi("?1049h") }
func (a ANSI) MainScreen() { a.csi("?1049l") }
func (a ANSI) Bold() { a.csi("1m") }
func (a ANSI) Normal() { a.csi("22m") }
func (a ANSI) Blink() { a.csi("5m") }
func (a ANSI) BlinkOff() { a.csi("25m") }
func (a ANSI) Reverse() { a.csi("7m") }
func (a ANSI) ReverseOff() { a.csi("27m") }
func (a ANSI) Reset() { a.csi("0m") }
func (a ANSI) ForegroundReset() { a.csi("39m") }
func (a ANSI) BackgroundReset() { a.csi("49m") }

// Foreground sets a 24 bit text color.
func (a ANSI) Foreground(c color.Color) {
	r, g, b := rgb(c)
	a.csi("38;2;%d;%d;%dm", r, g, b)
}

// Background sets a 24 bit cell color.
func (a ANSI) Background(c color.Color) {
	r, g, b := rgb(c)
	a.csi("48;2;%d;%d;%dm", r, g, b)
}

func rgb(c color.Color) (r, g, b uint8) {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return rgba.R, rgba.G, rgba.B
}

// ANSIPalette is the color cube and gray ramp of xterm's 256 color mode.
// Images are quantized to it before being drawn as characters.
var ANSIPalette = func() color.Palette {
	levels := []uint8{0x00, 0x5f, 0x87, 0xaf, 0xd7, 0xff}

	p := make(color.Palette, 0, 216+24)
	for _, r := range levels {
		for _, g := range levels {
			for _, b := range levels {
				p = append(p, color.RGBA{r, g, b, 0xff})
			}
		}
	}
	for i := 0; i < 24; i++ {
		v := uint8(8 + i*10)
		p = append(p, color.RGBA{v, v, v, 0xff})
	}
	return p
}()
