package k4a

import "unsafe"

// Functions is the k4a function table. Each field is bound to the exported
// symbol named by its tag. Sizes are size_t and travel as uintptr.
type Functions struct {
	DeviceGetInstalledCount func() uint32                                        `sym:"k4a_device_get_installed_count"`
	SetDebugMessageHandler  func(cb uintptr, context uintptr, level LogLevel) Result `sym:"k4a_set_debug_message_handler"`

	DeviceOpen         func(index uint32, device *DeviceHandle) Result                           `sym:"k4a_device_open"`
	DeviceClose        func(device DeviceHandle)                                                 `sym:"k4a_device_close"`
	DeviceGetCapture   func(device DeviceHandle, capture *CaptureHandle, timeoutMS int32) WaitResult `sym:"k4a_device_get_capture"`
	DeviceGetIMUSample func(device DeviceHandle, sample *IMUSample, timeoutMS int32) WaitResult      `sym:"k4a_device_get_imu_sample"`
	DeviceStartCameras func(device DeviceHandle, config *DeviceConfiguration) Result              `sym:"k4a_device_start_cameras"`
	DeviceStopCameras  func(device DeviceHandle)                                                 `sym:"k4a_device_stop_cameras"`
	DeviceStartIMU     func(device DeviceHandle) Result                                          `sym:"k4a_device_start_imu"`
	DeviceStopIMU      func(device DeviceHandle)                                                 `sym:"k4a_device_stop_imu"`
	DeviceGetSerialnum func(device DeviceHandle, buf *byte, size *uintptr) BufferResult           `sym:"k4a_device_get_serialnum"`
	DeviceGetVersion   func(device DeviceHandle, version *HardwareVersion) Result                 `sym:"k4a_device_get_version"`

	DeviceGetColorControlCapabilities func(device DeviceHandle, command ColorControlCommand, supportsAuto *bool,
		minValue, maxValue, step, defaultValue *int32, defaultMode *ColorControlMode) Result `sym:"k4a_device_get_color_control_capabilities"`
	DeviceGetColorControl func(device DeviceHandle, command ColorControlCommand, mode *ColorControlMode, value *int32) Result `sym:"k4a_device_get_color_control"`
	DeviceSetColorControl func(device DeviceHandle, command ColorControlCommand, mode ColorControlMode, value int32) Result  `sym:"k4a_device_set_color_control"`

	DeviceGetRawCalibration func(device DeviceHandle, buf *byte, size *uintptr) BufferResult                                `sym:"k4a_device_get_raw_calibration"`
	DeviceGetCalibration    func(device DeviceHandle, depth DepthMode, color ColorResolution, cal *Calibration) Result       `sym:"k4a_device_get_calibration"`
	DeviceGetSyncJack       func(device DeviceHandle, syncIn *bool, syncOut *bool) Result                                  `sym:"k4a_device_get_sync_jack"`
	CalibrationGetFromRaw   func(raw *byte, size uintptr, depth DepthMode, color ColorResolution, cal *Calibration) Result `sym:"k4a_calibration_get_from_raw"`

	CaptureCreate          func(capture *CaptureHandle) Result              `sym:"k4a_capture_create"`
	CaptureRelease         func(capture CaptureHandle)                      `sym:"k4a_capture_release"`
	CaptureReference       func(capture CaptureHandle)                      `sym:"k4a_capture_reference"`
	CaptureGetColorImage   func(capture CaptureHandle) ImageHandle          `sym:"k4a_capture_get_color_image"`
	CaptureGetDepthImage   func(capture CaptureHandle) ImageHandle          `sym:"k4a_capture_get_depth_image"`
	CaptureGetIRImage      func(capture CaptureHandle) ImageHandle          `sym:"k4a_capture_get_ir_image"`
	CaptureSetColorImage   func(capture CaptureHandle, image ImageHandle)   `sym:"k4a_capture_set_color_image"`
	CaptureSetDepthImage   func(capture CaptureHandle, image ImageHandle)   `sym:"k4a_capture_set_depth_image"`
	CaptureSetIRImage      func(capture CaptureHandle, image ImageHandle)   `sym:"k4a_capture_set_ir_image"`
	CaptureSetTemperatureC func(capture CaptureHandle, temperature float32) `sym:"k4a_capture_set_temperature_c"`
	CaptureGetTemperatureC func(capture CaptureHandle) float32              `sym:"k4a_capture_get_temperature_c"`

	ImageCreate                 func(format ImageFormat, width, height, stride int32, image *ImageHandle) Result `sym:"k4a_image_create"`
	ImageGetBuffer              func(image ImageHandle) unsafe.Pointer                                         `sym:"k4a_image_get_buffer"`
	ImageGetSize                func(image ImageHandle) uintptr                                                `sym:"k4a_image_get_size"`
	ImageGetFormat              func(image ImageHandle) ImageFormat                                            `sym:"k4a_image_get_format"`
	ImageGetWidthPixels         func(image ImageHandle) int32                                                  `sym:"k4a_image_get_width_pixels"`
	ImageGetHeightPixels        func(image ImageHandle) int32                                                  `sym:"k4a_image_get_height_pixels"`
	ImageGetStrideBytes         func(image ImageHandle) int32                                                  `sym:"k4a_image_get_stride_bytes"`
	ImageGetDeviceTimestampUsec func(image ImageHandle) uint64                                                 `sym:"k4a_image_get_device_timestamp_usec"`
	ImageGetSystemTimestampNsec func(image ImageHandle) uint64                                                 `sym:"k4a_image_get_system_timestamp_nsec"`
	ImageGetExposureUsec        func(image ImageHandle) uint64                                                 `sym:"k4a_image_get_exposure_usec"`
	ImageGetWhiteBalance        func(image ImageHandle) uint32                                                 `sym:"k4a_image_get_white_balance"`
	ImageGetISOSpeed            func(image ImageHandle) uint32                                                 `sym:"k4a_image_get_iso_speed"`
	ImageSetDeviceTimestampUsec func(image ImageHandle, usec uint64)                                           `sym:"k4a_image_set_device_timestamp_usec"`
	ImageSetSystemTimestampNsec func(image ImageHandle, nsec uint64)                                           `sym:"k4a_image_set_system_timestamp_nsec"`
	ImageSetExposureUsec        func(image ImageHandle, usec uint64)                                           `sym:"k4a_image_set_exposure_usec"`
	ImageSetWhiteBalance        func(image ImageHandle, kelvin uint32)                                         `sym:"k4a_image_set_white_balance"`
	ImageSetISOSpeed            func(image ImageHandle, iso uint32)                                            `sym:"k4a_image_set_iso_speed"`
	ImageReference              func(image ImageHandle)                                                        `sym:"k4a_image_reference"`
	ImageRelease                func(image ImageHandle)                                                        `sym:"k4a_image_release"`
}
