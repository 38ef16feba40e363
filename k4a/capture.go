package k4a

import "github.com/dialup-inc/kinect/native"

// Capture is one reference to a set of images taken together. Captures are
// reference counted by the native layer: Clone adds a reference and Close
// drops the wrapper's own. A Capture may be passed between goroutines; a
// single Capture should be closed by one owner.
type Capture struct {
	api *API
	h   *native.Handle
}

// Handle returns the native handle, or 0 after Close.
func (c *Capture) Handle() CaptureHandle { return CaptureHandle(c.h.Load()) }

// Close releases this reference. Calling it again does nothing.
func (c *Capture) Close() error {
	if h := CaptureHandle(c.h.Take()); h != 0 {
		c.api.fn.CaptureRelease(h)
	}
	return nil
}

// Clone returns a second owner of the same capture.
func (c *Capture) Clone() *Capture {
	h := c.Handle()
	if h == 0 {
		return nil
	}
	c.api.fn.CaptureReference(h)
	return c.api.WrapCapture(h)
}

// ColorImage returns the color image, or nil if the capture has none. The
// image is a separate reference the caller must Close.
func (c *Capture) ColorImage() *Image {
	return c.api.WrapImage(c.api.fn.CaptureGetColorImage(c.Handle()))
}

// DepthImage returns the depth image, or nil.
func (c *Capture) DepthImage() *Image {
	return c.api.WrapImage(c.api.fn.CaptureGetDepthImage(c.Handle()))
}

// IRImage returns the IR image, or nil.
func (c *Capture) IRImage() *Image {
	return c.api.WrapImage(c.api.fn.CaptureGetIRImage(c.Handle()))
}

// SetColorImage attaches img, replacing any color image. The capture takes
// its own reference; the caller still owns img. A nil img detaches.
func (c *Capture) SetColorImage(img *Image) {
	c.api.fn.CaptureSetColorImage(c.Handle(), img.handleOrZero())
}

// SetDepthImage attaches img as the depth image.
func (c *Capture) SetDepthImage(img *Image) {
	c.api.fn.CaptureSetDepthImage(c.Handle(), img.handleOrZero())
}

// SetIRImage attaches img as the IR image.
func (c *Capture) SetIRImage(img *Image) {
	c.api.fn.CaptureSetIRImage(c.Handle(), img.handleOrZero())
}

// Temperature returns the device temperature in °C at capture time, NaN
// if unknown.
func (c *Capture) Temperature() float32 {
	return c.api.fn.CaptureGetTemperatureC(c.Handle())
}

func (c *Capture) SetTemperature(celsius float32) {
	c.api.fn.CaptureSetTemperatureC(c.Handle(), celsius)
}
