package k4a

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// DeviceConfiguration is k4a_device_configuration_t. Field order and sizes
// match the C layout.
type DeviceConfiguration struct {
	ColorFormat                   ImageFormat     `yaml:"color_format"`
	ColorResolution               ColorResolution `yaml:"color_resolution"`
	DepthMode                     DepthMode       `yaml:"depth_mode"`
	CameraFPS                     FPS             `yaml:"camera_fps"`
	SynchronizedImagesOnly        bool            `yaml:"synchronized_images_only"`
	DepthDelayOffColorUsec        int32           `yaml:"depth_delay_off_color_usec"`
	WiredSyncMode                 WiredSyncMode   `yaml:"wired_sync_mode"`
	SubordinateDelayOffMasterUsec uint32          `yaml:"subordinate_delay_off_master_usec"`
	DisableStreamingIndicator     bool            `yaml:"disable_streaming_indicator"`
}

// DefaultDeviceConfiguration streams BGRA color at 720p and binned narrow
// field of view depth at 30 frames per second.
var DefaultDeviceConfiguration = DeviceConfiguration{
	ColorFormat:     ImageFormatColorBGRA32,
	ColorResolution: ColorResolution720P,
	DepthMode:       DepthModeNFOV2x2Binned,
	CameraFPS:       FPS30,
	WiredSyncMode:   WiredSyncModeStandalone,
}

// DisableAll is k4a_device_configuration_t with every stream off.
var DisableAll = DeviceConfiguration{
	ColorFormat:     ImageFormatColorMJPG,
	ColorResolution: ColorResolutionOff,
	DepthMode:       DepthModeOff,
	CameraFPS:       FPS30,
	WiredSyncMode:   WiredSyncModeStandalone,
}

// IMUSample is k4a_imu_sample_t. Accelerometer readings are in m/s²,
// gyroscope readings in rad/s.
type IMUSample struct {
	Temperature       float32
	Acc               mgl32.Vec3
	AccTimestampUsec  uint64
	Gyro              mgl32.Vec3
	GyroTimestampUsec uint64
}

// Version is k4a_version_t.
type Version struct {
	Major     uint32
	Minor     uint32
	Iteration uint32
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Iteration)
}

// HardwareVersion is k4a_hardware_version_t.
type HardwareVersion struct {
	RGB               Version
	Depth             Version
	Audio             Version
	DepthSensor       Version
	FirmwareBuild     FirmwareBuild
	FirmwareSignature FirmwareSignature
}

// CalibrationExtrinsics is k4a_calibration_extrinsics_t: a row major
// rotation and a translation in millimeters.
type CalibrationExtrinsics struct {
	Rotation    [9]float32
	Translation [3]float32
}

// IntrinsicParameters is the named view of k4a_calibration_intrinsic_parameters_t.
type IntrinsicParameters struct {
	Cx, Cy       float32
	Fx, Fy       float32
	K1, K2, K3   float32
	K4, K5, K6   float32
	Codx, Cody   float32
	P2, P1       float32
	MetricRadius float32
}

// CalibrationIntrinsics is k4a_calibration_intrinsics_t.
type CalibrationIntrinsics struct {
	Type           CalibrationModelType
	ParameterCount uint32
	Parameters     IntrinsicParameters
}

// CalibrationCamera is k4a_calibration_camera_t.
type CalibrationCamera struct {
	Extrinsics       CalibrationExtrinsics
	Intrinsics       CalibrationIntrinsics
	ResolutionWidth  int32
	ResolutionHeight int32
	MetricRadius     float32
}

// Calibration is k4a_calibration_t. It is a plain value; copying it is
// cheap and needs no release.
type Calibration struct {
	DepthCameraCalibration CalibrationCamera
	ColorCameraCalibration CalibrationCamera
	// Extrinsics[source][target] transforms from one sensor to another.
	Extrinsics      [CalibrationTypeNum][CalibrationTypeNum]CalibrationExtrinsics
	DepthMode       DepthMode
	ColorResolution ColorResolution
}

// ColorControlCapabilities describes the range a color control accepts.
type ColorControlCapabilities struct {
	SupportsAuto bool
	Min          int32
	Max          int32
	Step         int32
	Default      int32
	DefaultMode  ColorControlMode
}
