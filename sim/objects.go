package sim

import (
	"github.com/dialup-inc/kinect/k4a"
)

type kind int

const (
	kindCapture kind = iota
	kindImage
)

const (
	slotColor = iota
	slotDepth
	slotIR
)

type object struct {
	kind kind
	refs int

	// captures
	images      [3]uintptr
	temperature float32

	// images
	format       k4a.ImageFormat
	width        int32
	height       int32
	stride       int32
	buf          []byte
	deviceTS     uint64
	systemTS     uint64
	exposure     uint64
	whiteBalance uint32
	iso          uint32
}

func (p *Provider) newCaptureLocked() uintptr {
	h := p.newHandleLocked()
	p.objects[h] = &object{kind: kindCapture, refs: 1, temperature: nan32()}
	return h
}

func imageSize(format k4a.ImageFormat, width, height, stride int32) int {
	switch format {
	case k4a.ImageFormatColorNV12:
		return int(stride) * int(height) * 3 / 2
	default:
		return int(stride) * int(height)
	}
}

func (p *Provider) newImageLocked(format k4a.ImageFormat, width, height, stride int32) (uintptr, bool) {
	if width <= 0 || height <= 0 {
		return 0, false
	}
	if stride == 0 {
		stride = int32(format.Stride(int(width)))
	}
	if stride <= 0 {
		return 0, false
	}
	h := p.newHandleLocked()
	p.objects[h] = &object{
		kind:   kindImage,
		refs:   1,
		format: format,
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, imageSize(format, width, height, stride)),
	}
	return h, true
}

func (p *Provider) objectLocked(h uintptr, k kind) *object {
	o, ok := p.objects[h]
	if !ok || o.kind != k {
		return nil
	}
	return o
}

func (p *Provider) refLocked(h uintptr) {
	if o, ok := p.objects[h]; ok {
		o.refs++
	}
}

func (p *Provider) releaseLocked(h uintptr) {
	o, ok := p.objects[h]
	if !ok {
		return
	}
	o.refs--
	if o.refs > 0 {
		return
	}
	delete(p.objects, h)
	if o.kind == kindCapture {
		for _, img := range o.images {
			if img != 0 {
				p.releaseLocked(img)
			}
		}
	}
}

// captureImageLocked returns a new reference to an image of a capture.
func (p *Provider) captureImageLocked(c uintptr, slot int) uintptr {
	o := p.objectLocked(c, kindCapture)
	if o == nil || o.images[slot] == 0 {
		return 0
	}
	p.refLocked(o.images[slot])
	return o.images[slot]
}

func (p *Provider) setCaptureImageLocked(c uintptr, slot int, img uintptr) {
	o := p.objectLocked(c, kindCapture)
	if o == nil {
		return
	}
	if img != 0 && p.objectLocked(img, kindImage) == nil {
		return
	}
	if img != 0 {
		p.refLocked(img)
	}
	if old := o.images[slot]; old != 0 {
		p.releaseLocked(old)
	}
	o.images[slot] = img
}
