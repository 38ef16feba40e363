// Package pixel decodes SDK image buffers into Go images.
package pixel

import (
	"bytes"
	"image"
	"image/jpeg"

	"github.com/pkg/errors"

	"github.com/dialup-inc/kinect/k4a"
)

// ErrUnsupportedFormat is returned by Decode for formats without a known
// layout, such as CUSTOM.
var ErrUnsupportedFormat = errors.New("pixel: unsupported image format")

func checkLen(frame []byte, want int) error {
	if want > len(frame) {
		return errors.Errorf("frame length (%d) less than expected (%d)", len(frame), want)
	}
	return nil
}

// FromBGRA32 decodes a BGRA32 buffer into a new RGBA image.
func FromBGRA32(frame []byte, width, height, stride int) (*image.RGBA, error) {
	if err := checkLen(frame, stride*(height-1)+width*4); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := frame[y*stride : y*stride+width*4]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width*4; x += 4 {
			dst[x] = src[x+2]
			dst[x+1] = src[x+1]
			dst[x+2] = src[x]
			dst[x+3] = src[x+3]
		}
	}
	return img, nil
}

// FromNV12 decodes an NV12 buffer: a full resolution Y plane followed by
// one interleaved CbCr plane at half resolution. The Y plane is shared with
// frame.
//
// See https://www.fourcc.org/pixel-format/yuv-nv12/
func FromNV12(frame []byte, width, height, stride int) (*image.YCbCr, error) {
	yi := stride * height
	ci := yi + stride*height/2

	if err := checkLen(frame, ci); err != nil {
		return nil, err
	}

	cw, ch := (width+1)/2, (height+1)/2
	cb := make([]byte, 0, cw*ch)
	cr := make([]byte, 0, cw*ch)
	for y := 0; y < ch; y++ {
		row := frame[yi+y*stride:]
		for x := 0; x < cw; x++ {
			cb = append(cb, row[2*x])
			cr = append(cr, row[2*x+1])
		}
	}

	return &image.YCbCr{
		Y:              frame[:yi],
		YStride:        stride,
		Cb:             cb,
		Cr:             cr,
		CStride:        cw,
		SubsampleRatio: image.YCbCrSubsampleRatio420,
		Rect:           image.Rect(0, 0, width, height),
	}, nil
}

// FromYUY2 decodes a packed YUY2 (Y0 Cb Y1 Cr) buffer.
//
// See https://www.fourcc.org/pixel-format/yuv-yuy2/
func FromYUY2(frame []byte, width, height, stride int) (*image.YCbCr, error) {
	if err := checkLen(frame, stride*(height-1)+width*2); err != nil {
		return nil, err
	}

	img := image.NewYCbCr(image.Rect(0, 0, width, height), image.YCbCrSubsampleRatio422)
	for y := 0; y < height; y++ {
		row := frame[y*stride:]
		for x := 0; x+1 < width; x += 2 {
			p := row[2*x : 2*x+4]
			img.Y[y*img.YStride+x] = p[0]
			img.Y[y*img.YStride+x+1] = p[2]
			ci := img.COffset(x, y)
			img.Cb[ci] = p[1]
			img.Cr[ci] = p[3]
		}
	}
	return img, nil
}

// FromGray16 decodes a little endian 16 bit buffer (DEPTH16, IR16,
// CUSTOM16) into a new Gray16 image.
func FromGray16(frame []byte, width, height, stride int) (*image.Gray16, error) {
	if err := checkLen(frame, stride*(height-1)+width*2); err != nil {
		return nil, err
	}
	img := image.NewGray16(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := frame[y*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width*2; x += 2 {
			dst[x], dst[x+1] = src[x+1], src[x]
		}
	}
	return img, nil
}

// FromGray8 wraps an 8 bit buffer without copying.
func FromGray8(frame []byte, width, height, stride int) (*image.Gray, error) {
	if err := checkLen(frame, stride*(height-1)+width); err != nil {
		return nil, err
	}
	return &image.Gray{
		Pix:    frame,
		Stride: stride,
		Rect:   image.Rect(0, 0, width, height),
	}, nil
}

// FromMJPG decodes a motion JPEG frame.
func FromMJPG(frame []byte) (image.Image, error) {
	img, err := jpeg.Decode(bytes.NewReader(frame))
	return img, errors.Wrap(err, "decoding MJPG frame")
}

// Decode converts img into a Go image. The result never references img's
// buffer, so img can be closed right after.
func Decode(img *k4a.Image) (image.Image, error) {
	if img == nil {
		return nil, errors.New("pixel: nil image")
	}
	buf := img.Buffer()
	w, h, stride := img.Width(), img.Height(), img.Stride()

	switch f := img.Format(); f {
	case k4a.ImageFormatColorMJPG:
		return FromMJPG(buf)
	case k4a.ImageFormatColorNV12:
		return FromNV12(append([]byte(nil), buf...), w, h, stride)
	case k4a.ImageFormatColorYUY2:
		return FromYUY2(buf, w, h, stride)
	case k4a.ImageFormatColorBGRA32:
		return FromBGRA32(buf, w, h, stride)
	case k4a.ImageFormatDepth16, k4a.ImageFormatIR16, k4a.ImageFormatCustom16:
		return FromGray16(buf, w, h, stride)
	case k4a.ImageFormatCustom8:
		return FromGray8(append([]byte(nil), buf...), w, h, stride)
	default:
		return nil, errors.Wrap(ErrUnsupportedFormat, f.String())
	}
}

// Normalize16 maps src onto 8 bits, stretching [lo, hi] to the full range
// and clamping values outside it.
func Normalize16(src *image.Gray16, lo, hi uint16) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	span := int(hi) - int(lo)
	if span <= 0 {
		span = 1
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := int(src.Gray16At(x, y).Y)
			switch {
			case v <= int(lo):
				v = 0
			case v >= int(hi):
				v = 255
			default:
				v = (v - int(lo)) * 255 / span
			}
			dst.Pix[dst.PixOffset(x, y)] = uint8(v)
		}
	}
	return dst
}
