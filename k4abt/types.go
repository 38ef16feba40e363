package k4abt

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

type (
	TrackerHandle uintptr
	FrameHandle   uintptr
)

const (
	// BodyIndexMapBackground marks body index map pixels that belong to no
	// body.
	BodyIndexMapBackground = 255
	// InvalidBodyID is returned for a body index out of range.
	InvalidBodyID = 0xFFFFFFFF
	// DefaultSmoothingFactor is the temporal smoothing a new tracker uses.
	DefaultSmoothingFactor float32 = 0
)

// SensorOrientation is k4abt_sensor_orientation_t.
type SensorOrientation int32

const (
	SensorOrientationDefault SensorOrientation = iota
	SensorOrientationClockwise90
	SensorOrientationCounterClockwise90
	SensorOrientationFlip180
)

var orientationNames = []string{"DEFAULT", "CLOCKWISE90", "COUNTERCLOCKWISE90", "FLIP180"}

func (o SensorOrientation) String() string { return name(orientationNames, int(o), "SensorOrientation") }
func (o SensorOrientation) MarshalText() ([]byte, error) {
	return text(orientationNames, int(o), "sensor orientation")
}
func (o *SensorOrientation) UnmarshalText(b []byte) error {
	return parse(orientationNames, b, "sensor orientation", (*int32)(o))
}

// ProcessingMode is k4abt_tracker_processing_mode_t.
type ProcessingMode int32

const (
	ProcessingModeGPU ProcessingMode = iota
	ProcessingModeCPU
	ProcessingModeGPUCUDA
	ProcessingModeGPUTensorRT
	ProcessingModeGPUDirectML
)

var processingNames = []string{"GPU", "CPU", "GPU_CUDA", "GPU_TENSORRT", "GPU_DIRECTML"}

func (m ProcessingMode) String() string { return name(processingNames, int(m), "ProcessingMode") }
func (m ProcessingMode) MarshalText() ([]byte, error) {
	return text(processingNames, int(m), "processing mode")
}
func (m *ProcessingMode) UnmarshalText(b []byte) error {
	return parse(processingNames, b, "processing mode", (*int32)(m))
}

// TrackerConfiguration selects how a tracker runs. An empty ModelPath uses
// the SDK's default model.
type TrackerConfiguration struct {
	SensorOrientation SensorOrientation `yaml:"sensor_orientation"`
	ProcessingMode    ProcessingMode    `yaml:"processing_mode"`
	GPUDeviceID       int32             `yaml:"gpu_device_id"`
	ModelPath         string            `yaml:"model_path"`
}

// DefaultTrackerConfiguration runs on the first GPU with the default model.
var DefaultTrackerConfiguration = TrackerConfiguration{
	SensorOrientation: SensorOrientationDefault,
	ProcessingMode:    ProcessingModeGPU,
	GPUDeviceID:       0,
}

// RawTrackerConfiguration is k4abt_tracker_configuration_t as passed to the
// SDK. ModelPath is a NUL terminated string or nil.
type RawTrackerConfiguration struct {
	SensorOrientation SensorOrientation
	ProcessingMode    ProcessingMode
	GPUDeviceID       int32
	ModelPath         *byte
}

// JointID indexes Skeleton.Joints.
type JointID int

const (
	JointPelvis JointID = iota
	JointSpineNavel
	JointSpineChest
	JointNeck
	JointClavicleLeft
	JointShoulderLeft
	JointElbowLeft
	JointWristLeft
	JointHandLeft
	JointHandtipLeft
	JointThumbLeft
	JointClavicleRight
	JointShoulderRight
	JointElbowRight
	JointWristRight
	JointHandRight
	JointHandtipRight
	JointThumbRight
	JointHipLeft
	JointKneeLeft
	JointAnkleLeft
	JointFootLeft
	JointHipRight
	JointKneeRight
	JointAnkleRight
	JointFootRight
	JointHead
	JointNose
	JointEyeLeft
	JointEarLeft
	JointEyeRight
	JointEarRight

	JointCount
)

var jointNames = [JointCount]string{
	"PELVIS", "SPINE_NAVEL", "SPINE_CHEST", "NECK",
	"CLAVICLE_LEFT", "SHOULDER_LEFT", "ELBOW_LEFT", "WRIST_LEFT", "HAND_LEFT", "HANDTIP_LEFT", "THUMB_LEFT",
	"CLAVICLE_RIGHT", "SHOULDER_RIGHT", "ELBOW_RIGHT", "WRIST_RIGHT", "HAND_RIGHT", "HANDTIP_RIGHT", "THUMB_RIGHT",
	"HIP_LEFT", "KNEE_LEFT", "ANKLE_LEFT", "FOOT_LEFT",
	"HIP_RIGHT", "KNEE_RIGHT", "ANKLE_RIGHT", "FOOT_RIGHT",
	"HEAD", "NOSE", "EYE_LEFT", "EAR_LEFT", "EYE_RIGHT", "EAR_RIGHT",
}

func (j JointID) String() string { return name(jointNames[:], int(j), "JointID") }

// JointConfidence is k4abt_joint_confidence_level_t.
type JointConfidence int32

const (
	JointConfidenceNone JointConfidence = iota
	JointConfidenceLow
	JointConfidenceMedium
	JointConfidenceHigh
)

func (c JointConfidence) String() string {
	return name([]string{"none", "low", "medium", "high"}, int(c), "JointConfidence")
}

// Joint is k4abt_joint_t. Position is in millimeters in the depth camera's
// coordinate system; Orientation is a normalized quaternion.
type Joint struct {
	Position        mgl32.Vec3      `json:"position"`
	Orientation     mgl32.Quat      `json:"orientation"`
	ConfidenceLevel JointConfidence `json:"confidence"`
}

// Skeleton is k4abt_skeleton_t.
type Skeleton struct {
	Joints [JointCount]Joint `json:"joints"`
}

// Joint returns the joint with id j.
func (s *Skeleton) Joint(j JointID) Joint { return s.Joints[j] }

// Body is k4abt_body_t, a tracked person copied out of a frame.
type Body struct {
	ID       uint32   `json:"id"`
	Skeleton Skeleton `json:"skeleton"`
}

func name(names []string, v int, typ string) string {
	if v >= 0 && v < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%s(%d)", typ, v)
}

func text(names []string, v int, what string) ([]byte, error) {
	if v >= 0 && v < len(names) {
		return []byte(names[v]), nil
	}
	return nil, fmt.Errorf("k4abt: invalid %s %d", what, v)
}

func parse(names []string, b []byte, what string, dst *int32) error {
	s := strings.ToUpper(strings.TrimSpace(string(b)))
	for i, n := range names {
		if n == s {
			*dst = int32(i)
			return nil
		}
	}
	return fmt.Errorf("k4abt: unknown %s %q (want one of %s)", what, string(b), strings.Join(names, ", "))
}
