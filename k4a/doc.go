// Package k4a wraps the depth camera core SDK, loaded at runtime.
//
// Every native object is owned by exactly one Go wrapper per reference:
// a Device, Capture or Image is released by its Close method, and Close is
// safe to call more than once. Captures and images are reference counted by
// the SDK; Clone hands out another owner of the same object.
//
// Blocking calls take a time.Duration. They return ErrTimedOut when the
// timeout elapsed and ErrFailed when the SDK reported an error; check with
// errors.Is.
//
//	api, err := k4a.Load()
//	dev, err := api.OpenDevice(0)
//	defer dev.Close()
//	err = dev.StartCameras(k4a.DefaultDeviceConfiguration)
//	capture, err := dev.GetCapture(time.Second)
//	defer capture.Close()
package k4a
