package sim

import (
	"unsafe"

	"github.com/dialup-inc/kinect/k4a"
)

func (p *Provider) coreFunctions() *k4a.Functions {
	return &k4a.Functions{
		DeviceGetInstalledCount: func() uint32 {
			p.call("k4a_device_get_installed_count")
			p.mu.Lock()
			defer p.mu.Unlock()
			return uint32(len(p.devices))
		},
		SetDebugMessageHandler: func(cb, context uintptr, level k4a.LogLevel) k4a.Result {
			if p.call("k4a_set_debug_message_handler") {
				return k4a.ResultFailed
			}
			p.mu.Lock()
			defer p.mu.Unlock()
			p.debugCallback, p.debugContext, p.debugLevel = cb, context, level
			return k4a.ResultSucceeded
		},

		DeviceOpen:                        p.deviceOpen,
		DeviceClose:                       p.deviceClose,
		DeviceGetCapture:                  p.deviceGetCapture,
		DeviceGetIMUSample:                p.deviceGetIMUSample,
		DeviceStartCameras:                p.deviceStartCameras,
		DeviceStopCameras:                 p.deviceStopCameras,
		DeviceStartIMU:                    p.deviceStartIMU,
		DeviceStopIMU:                     p.deviceStopIMU,
		DeviceGetSerialnum:                p.deviceGetSerialnum,
		DeviceGetVersion:                  p.deviceGetVersion,
		DeviceGetColorControlCapabilities: p.deviceGetColorControlCapabilities,
		DeviceGetColorControl:             p.deviceGetColorControl,
		DeviceSetColorControl:             p.deviceSetColorControl,
		DeviceGetRawCalibration:           p.deviceGetRawCalibration,
		DeviceGetCalibration:              p.deviceGetCalibration,
		DeviceGetSyncJack:                 p.deviceGetSyncJack,

		CalibrationGetFromRaw: func(raw *byte, size uintptr, depth k4a.DepthMode, color k4a.ColorResolution, cal *k4a.Calibration) k4a.Result {
			if p.call("k4a_calibration_get_from_raw") || raw == nil || size == 0 {
				return k4a.ResultFailed
			}
			if depth == k4a.DepthModeOff && color == k4a.ColorResolutionOff {
				return k4a.ResultFailed
			}
			*cal = syntheticCalibration(depth, color)
			return k4a.ResultSucceeded
		},

		CaptureCreate: func(out *k4a.CaptureHandle) k4a.Result {
			if p.call("k4a_capture_create") {
				return k4a.ResultFailed
			}
			p.mu.Lock()
			defer p.mu.Unlock()
			*out = k4a.CaptureHandle(p.newCaptureLocked())
			return k4a.ResultSucceeded
		},
		CaptureRelease: func(c k4a.CaptureHandle) {
			p.call("k4a_capture_release")
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.objectLocked(uintptr(c), kindCapture) != nil {
				p.releaseLocked(uintptr(c))
			}
		},
		CaptureReference: func(c k4a.CaptureHandle) {
			p.call("k4a_capture_reference")
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.objectLocked(uintptr(c), kindCapture) != nil {
				p.refLocked(uintptr(c))
			}
		},
		CaptureGetColorImage: func(c k4a.CaptureHandle) k4a.ImageHandle { return p.captureImage("k4a_capture_get_color_image", c, slotColor) },
		CaptureGetDepthImage: func(c k4a.CaptureHandle) k4a.ImageHandle { return p.captureImage("k4a_capture_get_depth_image", c, slotDepth) },
		CaptureGetIRImage:    func(c k4a.CaptureHandle) k4a.ImageHandle { return p.captureImage("k4a_capture_get_ir_image", c, slotIR) },
		CaptureSetColorImage: func(c k4a.CaptureHandle, img k4a.ImageHandle) {
			p.setCaptureImage("k4a_capture_set_color_image", c, slotColor, img)
		},
		CaptureSetDepthImage: func(c k4a.CaptureHandle, img k4a.ImageHandle) {
			p.setCaptureImage("k4a_capture_set_depth_image", c, slotDepth, img)
		},
		CaptureSetIRImage: func(c k4a.CaptureHandle, img k4a.ImageHandle) {
			p.setCaptureImage("k4a_capture_set_ir_image", c, slotIR, img)
		},
		CaptureSetTemperatureC: func(c k4a.CaptureHandle, t float32) {
			p.call("k4a_capture_set_temperature_c")
			p.mu.Lock()
			defer p.mu.Unlock()
			if o := p.objectLocked(uintptr(c), kindCapture); o != nil {
				o.temperature = t
			}
		},
		CaptureGetTemperatureC: func(c k4a.CaptureHandle) float32 {
			p.call("k4a_capture_get_temperature_c")
			p.mu.Lock()
			defer p.mu.Unlock()
			if o := p.objectLocked(uintptr(c), kindCapture); o != nil {
				return o.temperature
			}
			return nan32()
		},

		ImageCreate: func(format k4a.ImageFormat, w, h, stride int32, out *k4a.ImageHandle) k4a.Result {
			if p.call("k4a_image_create") {
				return k4a.ResultFailed
			}
			p.mu.Lock()
			defer p.mu.Unlock()
			img, ok := p.newImageLocked(format, w, h, stride)
			if !ok {
				return k4a.ResultFailed
			}
			*out = k4a.ImageHandle(img)
			return k4a.ResultSucceeded
		},
		ImageGetBuffer: func(img k4a.ImageHandle) unsafe.Pointer {
			return imageValue(p, "k4a_image_get_buffer", img, unsafe.Pointer(nil), func(o *object) unsafe.Pointer {
				if len(o.buf) == 0 {
					return nil
				}
				return unsafe.Pointer(&o.buf[0])
			})
		},
		ImageGetSize: func(img k4a.ImageHandle) uintptr {
			return imageValue(p, "k4a_image_get_size", img, 0, func(o *object) uintptr { return uintptr(len(o.buf)) })
		},
		ImageGetFormat: func(img k4a.ImageHandle) k4a.ImageFormat {
			return imageValue(p, "k4a_image_get_format", img, k4a.ImageFormatCustom, func(o *object) k4a.ImageFormat { return o.format })
		},
		ImageGetWidthPixels: func(img k4a.ImageHandle) int32 {
			return imageValue(p, "k4a_image_get_width_pixels", img, 0, func(o *object) int32 { return o.width })
		},
		ImageGetHeightPixels: func(img k4a.ImageHandle) int32 {
			return imageValue(p, "k4a_image_get_height_pixels", img, 0, func(o *object) int32 { return o.height })
		},
		ImageGetStrideBytes: func(img k4a.ImageHandle) int32 {
			return imageValue(p, "k4a_image_get_stride_bytes", img, 0, func(o *object) int32 { return o.stride })
		},
		ImageGetDeviceTimestampUsec: func(img k4a.ImageHandle) uint64 {
			return imageValue(p, "k4a_image_get_device_timestamp_usec", img, 0, func(o *object) uint64 { return o.deviceTS })
		},
		ImageGetSystemTimestampNsec: func(img k4a.ImageHandle) uint64 {
			return imageValue(p, "k4a_image_get_system_timestamp_nsec", img, 0, func(o *object) uint64 { return o.systemTS })
		},
		ImageGetExposureUsec: func(img k4a.ImageHandle) uint64 {
			return imageValue(p, "k4a_image_get_exposure_usec", img, 0, func(o *object) uint64 { return o.exposure })
		},
		ImageGetWhiteBalance: func(img k4a.ImageHandle) uint32 {
			return imageValue(p, "k4a_image_get_white_balance", img, 0, func(o *object) uint32 { return o.whiteBalance })
		},
		ImageGetISOSpeed: func(img k4a.ImageHandle) uint32 {
			return imageValue(p, "k4a_image_get_iso_speed", img, 0, func(o *object) uint32 { return o.iso })
		},
		ImageSetDeviceTimestampUsec: func(img k4a.ImageHandle, v uint64) {
			p.setImage("k4a_image_set_device_timestamp_usec", img, func(o *object) { o.deviceTS = v })
		},
		ImageSetSystemTimestampNsec: func(img k4a.ImageHandle, v uint64) {
			p.setImage("k4a_image_set_system_timestamp_nsec", img, func(o *object) { o.systemTS = v })
		},
		ImageSetExposureUsec: func(img k4a.ImageHandle, v uint64) {
			p.setImage("k4a_image_set_exposure_usec", img, func(o *object) { o.exposure = v })
		},
		ImageSetWhiteBalance: func(img k4a.ImageHandle, v uint32) {
			p.setImage("k4a_image_set_white_balance", img, func(o *object) { o.whiteBalance = v })
		},
		ImageSetISOSpeed: func(img k4a.ImageHandle, v uint32) {
			p.setImage("k4a_image_set_iso_speed", img, func(o *object) { o.iso = v })
		},
		ImageReference: func(img k4a.ImageHandle) {
			p.call("k4a_image_reference")
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.objectLocked(uintptr(img), kindImage) != nil {
				p.refLocked(uintptr(img))
			}
		},
		ImageRelease: func(img k4a.ImageHandle) {
			p.call("k4a_image_release")
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.objectLocked(uintptr(img), kindImage) != nil {
				p.releaseLocked(uintptr(img))
			}
		},
	}
}

func (p *Provider) captureImage(symbol string, c k4a.CaptureHandle, slot int) k4a.ImageHandle {
	p.call(symbol)
	p.mu.Lock()
	defer p.mu.Unlock()
	return k4a.ImageHandle(p.captureImageLocked(uintptr(c), slot))
}

func (p *Provider) setCaptureImage(symbol string, c k4a.CaptureHandle, slot int, img k4a.ImageHandle) {
	p.call(symbol)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setCaptureImageLocked(uintptr(c), slot, uintptr(img))
}

// imageValue reads an image field, or returns def for an unknown handle.
func imageValue[T any](p *Provider, symbol string, img k4a.ImageHandle, def T, get func(*object) T) T {
	p.call(symbol)
	p.mu.Lock()
	defer p.mu.Unlock()
	if o := p.objectLocked(uintptr(img), kindImage); o != nil {
		return get(o)
	}
	return def
}

func (p *Provider) setImage(symbol string, img k4a.ImageHandle, set func(*object)) {
	p.call(symbol)
	p.mu.Lock()
	defer p.mu.Unlock()
	if o := p.objectLocked(uintptr(img), kindImage); o != nil {
		set(o)
	}
}
