package k4a

import (
	"fmt"
	"strings"
)

// Handles are the opaque native object pointers.
type (
	DeviceHandle  uintptr
	CaptureHandle uintptr
	ImageHandle   uintptr
)

// LogLevel is k4a_log_level_t.
type LogLevel int32

const (
	LogLevelCritical LogLevel = iota
	LogLevelError
	LogLevelWarning
	LogLevelInfo
	LogLevelTrace
	LogLevelOff
)

var logLevelNames = []string{"CRITICAL", "ERROR", "WARNING", "INFO", "TRACE", "OFF"}

func (l LogLevel) String() string               { return enumName(logLevelNames, int(l), "LogLevel") }
func (l LogLevel) MarshalText() ([]byte, error) { return enumText(logLevelNames, int(l), "log level") }
func (l *LogLevel) UnmarshalText(b []byte) error {
	return parseEnum(logLevelNames, b, "log level", (*int32)(l))
}

// DepthMode is k4a_depth_mode_t.
type DepthMode int32

const (
	DepthModeOff DepthMode = iota
	DepthModeNFOV2x2Binned
	DepthModeNFOVUnbinned
	DepthModeWFOV2x2Binned
	DepthModeWFOVUnbinned
	DepthModePassiveIR
)

var depthModeNames = []string{"OFF", "NFOV_2X2BINNED", "NFOV_UNBINNED", "WFOV_2X2BINNED", "WFOV_UNBINNED", "PASSIVE_IR"}

func (m DepthMode) String() string               { return enumName(depthModeNames, int(m), "DepthMode") }
func (m DepthMode) MarshalText() ([]byte, error) { return enumText(depthModeNames, int(m), "depth mode") }
func (m *DepthMode) UnmarshalText(b []byte) error {
	return parseEnum(depthModeNames, b, "depth mode", (*int32)(m))
}

// ColorResolution is k4a_color_resolution_t.
type ColorResolution int32

const (
	ColorResolutionOff ColorResolution = iota
	ColorResolution720P
	ColorResolution1080P
	ColorResolution1440P
	ColorResolution1536P
	ColorResolution2160P
	ColorResolution3072P
)

var colorResolutionNames = []string{"OFF", "720P", "1080P", "1440P", "1536P", "2160P", "3072P"}

func (r ColorResolution) String() string {
	return enumName(colorResolutionNames, int(r), "ColorResolution")
}
func (r ColorResolution) MarshalText() ([]byte, error) {
	return enumText(colorResolutionNames, int(r), "color resolution")
}
func (r *ColorResolution) UnmarshalText(b []byte) error {
	return parseEnum(colorResolutionNames, b, "color resolution", (*int32)(r))
}

// ImageFormat is k4a_image_format_t.
type ImageFormat int32

const (
	ImageFormatColorMJPG ImageFormat = iota
	ImageFormatColorNV12
	ImageFormatColorYUY2
	ImageFormatColorBGRA32
	ImageFormatDepth16
	ImageFormatIR16
	ImageFormatCustom8
	ImageFormatCustom16
	ImageFormatCustom
)

var imageFormatNames = []string{"MJPG", "NV12", "YUY2", "BGRA32", "DEPTH16", "IR16", "CUSTOM8", "CUSTOM16", "CUSTOM"}

func (f ImageFormat) String() string { return enumName(imageFormatNames, int(f), "ImageFormat") }
func (f ImageFormat) MarshalText() ([]byte, error) {
	return enumText(imageFormatNames, int(f), "image format")
}
func (f *ImageFormat) UnmarshalText(b []byte) error {
	return parseEnum(imageFormatNames, b, "image format", (*int32)(f))
}

// FPS is k4a_fps_t.
type FPS int32

const (
	FPS5 FPS = iota
	FPS15
	FPS30
)

var fpsNames = []string{"5", "15", "30"}

func (f FPS) String() string               { return enumName(fpsNames, int(f), "FPS") }
func (f FPS) MarshalText() ([]byte, error) { return enumText(fpsNames, int(f), "frame rate") }
func (f *FPS) UnmarshalText(b []byte) error {
	return parseEnum(fpsNames, b, "frame rate", (*int32)(f))
}

// Hz returns the frame rate in frames per second.
func (f FPS) Hz() int {
	switch f {
	case FPS5:
		return 5
	case FPS15:
		return 15
	default:
		return 30
	}
}

// ColorControlCommand is k4a_color_control_command_t.
type ColorControlCommand int32

const (
	ColorControlExposureTimeAbsolute ColorControlCommand = iota
	ColorControlAutoExposurePriority
	ColorControlBrightness
	ColorControlContrast
	ColorControlSaturation
	ColorControlSharpness
	ColorControlWhitebalance
	ColorControlBacklightCompensation
	ColorControlGain
	ColorControlPowerlineFrequency
)

var colorControlNames = []string{
	"EXPOSURE_TIME_ABSOLUTE", "AUTO_EXPOSURE_PRIORITY", "BRIGHTNESS", "CONTRAST", "SATURATION",
	"SHARPNESS", "WHITEBALANCE", "BACKLIGHT_COMPENSATION", "GAIN", "POWERLINE_FREQUENCY",
}

func (c ColorControlCommand) String() string {
	return enumName(colorControlNames, int(c), "ColorControlCommand")
}
func (c ColorControlCommand) MarshalText() ([]byte, error) {
	return enumText(colorControlNames, int(c), "color control")
}
func (c *ColorControlCommand) UnmarshalText(b []byte) error {
	return parseEnum(colorControlNames, b, "color control", (*int32)(c))
}

// ColorControlMode is k4a_color_control_mode_t.
type ColorControlMode int32

const (
	ColorControlModeAuto ColorControlMode = iota
	ColorControlModeManual
)

var colorControlModeNames = []string{"AUTO", "MANUAL"}

func (m ColorControlMode) String() string {
	return enumName(colorControlModeNames, int(m), "ColorControlMode")
}

// WiredSyncMode is k4a_wired_sync_mode_t.
type WiredSyncMode int32

const (
	WiredSyncModeStandalone WiredSyncMode = iota
	WiredSyncModeMaster
	WiredSyncModeSubordinate
)

var wiredSyncModeNames = []string{"STANDALONE", "MASTER", "SUBORDINATE"}

func (m WiredSyncMode) String() string { return enumName(wiredSyncModeNames, int(m), "WiredSyncMode") }
func (m WiredSyncMode) MarshalText() ([]byte, error) {
	return enumText(wiredSyncModeNames, int(m), "wired sync mode")
}
func (m *WiredSyncMode) UnmarshalText(b []byte) error {
	return parseEnum(wiredSyncModeNames, b, "wired sync mode", (*int32)(m))
}

// CalibrationType is k4a_calibration_type_t.
type CalibrationType int32

const (
	CalibrationTypeUnknown CalibrationType = iota - 1
	CalibrationTypeDepth
	CalibrationTypeColor
	CalibrationTypeGyro
	CalibrationTypeAccel
	CalibrationTypeNum
)

// CalibrationModelType is k4a_calibration_model_type_t.
type CalibrationModelType int32

const (
	CalibrationModelUnknown CalibrationModelType = iota
	CalibrationModelTheta
	CalibrationModelPolynomial3K
	CalibrationModelRational6KCT
	CalibrationModelBrownConrady
)

// FirmwareBuild is k4a_firmware_build_t.
type FirmwareBuild int32

const (
	FirmwareBuildRelease FirmwareBuild = iota
	FirmwareBuildDebug
)

func (b FirmwareBuild) String() string { return enumName([]string{"release", "debug"}, int(b), "FirmwareBuild") }

// FirmwareSignature is k4a_firmware_signature_t.
type FirmwareSignature int32

const (
	FirmwareSignatureMSFT FirmwareSignature = iota
	FirmwareSignatureTest
	FirmwareSignatureUnsigned
)

func (s FirmwareSignature) String() string {
	return enumName([]string{"msft", "test", "unsigned"}, int(s), "FirmwareSignature")
}

func enumName(names []string, v int, typ string) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", typ, v)
}

func enumText(names []string, v int, what string) ([]byte, error) {
	if v >= 0 && v < len(names) {
		return []byte(names[v]), nil
	}
	return nil, fmt.Errorf("k4a: invalid %s %d", what, v)
}

func parseEnum(names []string, b []byte, what string, dst *int32) error {
	s := strings.ToUpper(strings.TrimSpace(string(b)))
	for i, n := range names {
		if n == s {
			*dst = int32(i)
			return nil
		}
	}
	return fmt.Errorf("k4a: unknown %s %q (want one of %s)", what, string(b), strings.Join(names, ", "))
}
