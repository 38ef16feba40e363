package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	"github.com/nfnt/resize"

	"github.com/dialup-inc/kinect/term"
)

// ramp orders characters from empty to dense.
var ramp = []byte(" .,:;i1tfLCG08@")

// fitRect returns where an image of size b lands when scaled to fit a
// cols x rows block of cells whose height is aspect times their width.
func fitRect(b image.Rectangle, cols, rows int, aspect float64) image.Rectangle {
	imgW, imgH := float64(b.Dx())*aspect, float64(b.Dy())
	if imgW == 0 || imgH == 0 {
		return image.Rectangle{}
	}
	scale := float64(cols) / imgW
	if s := float64(rows) / imgH; s < scale {
		scale = s
	}
	w, h := int(imgW*scale), int(imgH*scale)
	x, y := (cols-w)/2, (rows-h)/2
	return image.Rect(x, y, x+w, y+h)
}

func rampChar(luma uint8, invert bool) byte {
	i := int(luma) * (len(ramp) - 1) / 0xff
	if invert {
		i = len(ramp) - 1 - i
	}
	return ramp[i]
}

// Image2ANSI draws img centered in a cols x rows block of colored
// characters. aspect is the height/width ratio of a terminal cell.
// Single channel images (depth, IR) keep their gray level as the color.
func Image2ANSI(img image.Image, cols, rows int, aspect float64, lightBackground bool) []byte {
	buf := bytes.NewBuffer(nil)
	a := term.ANSI{Writer: buf}

	var dst draw.Image
	var palette color.Palette
	if _, gray := img.(*image.Gray); gray {
		dst = image.NewGray(image.Rect(0, 0, cols, rows))
	} else {
		palette = term.ANSIPalette
		dst = image.NewPaletted(image.Rect(0, 0, cols, rows), palette)
	}

	if img != nil {
		r := fitRect(img.Bounds(), cols, rows, aspect)
		if !r.Empty() {
			scaled := resize.Resize(uint(r.Dx()), uint(r.Dy()), img, resize.Bilinear)
			draw.Draw(dst, r, scaled, scaled.Bounds().Min, draw.Over)
		}
	}

	switch canvas := dst.(type) {
	case *image.Gray:
		last := -1
		for _, v := range canvas.Pix {
			if int(v) != last {
				a.Foreground(color.Gray{Y: v})
				last = int(v)
			}
			buf.WriteByte(rampChar(v, lightBackground))
		}

	case *image.Paletted:
		last := -1
		for _, p := range canvas.Pix {
			c := palette[p]
			if int(p) != last {
				a.Foreground(c)
				last = int(p)
			}
			luma := color.GrayModel.Convert(c).(color.Gray).Y
			buf.WriteByte(rampChar(luma, lightBackground))
		}
	}

	return buf.Bytes()
}
