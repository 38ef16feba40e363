package k4arecord

import "github.com/dialup-inc/kinect/k4a"

type (
	RecordingHandle uintptr
	PlaybackHandle  uintptr
	DataBlockHandle uintptr
)

// RecordConfiguration is k4a_record_configuration_t, the device
// configuration a recording was made with.
type RecordConfiguration struct {
	ColorFormat                   k4a.ImageFormat
	ColorResolution               k4a.ColorResolution
	DepthMode                     k4a.DepthMode
	CameraFPS                     k4a.FPS
	ColorTrackEnabled             bool
	DepthTrackEnabled             bool
	IRTrackEnabled                bool
	IMUTrackEnabled               bool
	DepthDelayOffColorUsec        int32
	WiredSyncMode                 k4a.WiredSyncMode
	SubordinateDelayOffMasterUsec uint32
	StartTimestampOffsetUsec      uint32
}

// VideoSettings is k4a_record_video_settings_t.
type VideoSettings struct {
	Width     uint64
	Height    uint64
	FrameRate uint64
}

// SubtitleSettings is k4a_record_subtitle_settings_t. HighFreqData packs
// samples into blocks instead of writing one block each.
type SubtitleSettings struct {
	HighFreqData bool
}

// SeekOrigin is k4a_playback_seek_origin_t.
type SeekOrigin int32

const (
	SeekBegin SeekOrigin = iota
	SeekEnd
	SeekDeviceTime
)

func (o SeekOrigin) String() string {
	switch o {
	case SeekBegin:
		return "begin"
	case SeekEnd:
		return "end"
	case SeekDeviceTime:
		return "device time"
	default:
		return "unknown"
	}
}
