package k4arecord

import (
	"unsafe"

	"github.com/dialup-inc/kinect/k4a"
)

// Functions is the k4arecord function table.
type Functions struct {
	RecordCreate                 func(path string, device k4a.DeviceHandle, config k4a.DeviceConfiguration, recording *RecordingHandle) k4a.Result `sym:"k4a_record_create"`
	RecordAddTag                 func(recording RecordingHandle, name string, value string) k4a.Result                                             `sym:"k4a_record_add_tag"`
	RecordAddIMUTrack            func(recording RecordingHandle) k4a.Result                                                                         `sym:"k4a_record_add_imu_track"`
	RecordAddAttachment          func(recording RecordingHandle, name string, buf *byte, size uintptr) k4a.Result                                    `sym:"k4a_record_add_attachment"`
	RecordAddCustomVideoTrack    func(recording RecordingHandle, track string, codecID string, codecContext *byte, size uintptr, settings *VideoSettings) k4a.Result       `sym:"k4a_record_add_custom_video_track"`
	RecordAddCustomSubtitleTrack func(recording RecordingHandle, track string, codecID string, codecContext *byte, size uintptr, settings *SubtitleSettings) k4a.Result    `sym:"k4a_record_add_custom_subtitle_track"`
	RecordWriteHeader            func(recording RecordingHandle) k4a.Result                                                                         `sym:"k4a_record_write_header"`
	RecordWriteCapture           func(recording RecordingHandle, capture k4a.CaptureHandle) k4a.Result                                              `sym:"k4a_record_write_capture"`
	RecordWriteIMUSample         func(recording RecordingHandle, sample k4a.IMUSample) k4a.Result                                                   `sym:"k4a_record_write_imu_sample"`
	RecordWriteCustomTrackData   func(recording RecordingHandle, track string, timestampUsec uint64, buf *byte, size uintptr) k4a.Result             `sym:"k4a_record_write_custom_track_data"`
	RecordFlush                  func(recording RecordingHandle) k4a.Result                                                                         `sym:"k4a_record_flush"`
	RecordClose                  func(recording RecordingHandle)                                                                                    `sym:"k4a_record_close"`

	PlaybackOpen                    func(path string, playback *PlaybackHandle) k4a.Result                                         `sym:"k4a_playback_open"`
	PlaybackClose                   func(playback PlaybackHandle)                                                                  `sym:"k4a_playback_close"`
	PlaybackGetRawCalibration       func(playback PlaybackHandle, buf *byte, size *uintptr) k4a.BufferResult                       `sym:"k4a_playback_get_raw_calibration"`
	PlaybackGetCalibration          func(playback PlaybackHandle, cal *k4a.Calibration) k4a.Result                                 `sym:"k4a_playback_get_calibration"`
	PlaybackGetRecordConfiguration  func(playback PlaybackHandle, config *RecordConfiguration) k4a.Result                          `sym:"k4a_playback_get_record_configuration"`
	PlaybackCheckTrackExists        func(playback PlaybackHandle, track string) bool                                               `sym:"k4a_playback_check_track_exists"`
	PlaybackGetTrackCount           func(playback PlaybackHandle) uintptr                                                          `sym:"k4a_playback_get_track_count"`
	PlaybackGetTrackName            func(playback PlaybackHandle, index uintptr, buf *byte, size *uintptr) k4a.BufferResult        `sym:"k4a_playback_get_track_name"`
	PlaybackTrackIsBuiltin          func(playback PlaybackHandle, track string) bool                                               `sym:"k4a_playback_track_is_builtin"`
	PlaybackTrackGetVideoSettings   func(playback PlaybackHandle, track string, settings *VideoSettings) k4a.Result                `sym:"k4a_playback_track_get_video_settings"`
	PlaybackTrackGetCodecID         func(playback PlaybackHandle, track string, buf *byte, size *uintptr) k4a.BufferResult         `sym:"k4a_playback_track_get_codec_id"`
	PlaybackTrackGetCodecContext    func(playback PlaybackHandle, track string, buf *byte, size *uintptr) k4a.BufferResult         `sym:"k4a_playback_track_get_codec_context"`
	PlaybackGetTag                  func(playback PlaybackHandle, name string, buf *byte, size *uintptr) k4a.BufferResult          `sym:"k4a_playback_get_tag"`
	PlaybackSetColorConversion      func(playback PlaybackHandle, format k4a.ImageFormat) k4a.Result                               `sym:"k4a_playback_set_color_conversion"`
	PlaybackGetAttachment           func(playback PlaybackHandle, name string, buf *byte, size *uintptr) k4a.BufferResult          `sym:"k4a_playback_get_attachment"`
	PlaybackGetNextCapture          func(playback PlaybackHandle, capture *k4a.CaptureHandle) k4a.StreamResult                     `sym:"k4a_playback_get_next_capture"`
	PlaybackGetPreviousCapture      func(playback PlaybackHandle, capture *k4a.CaptureHandle) k4a.StreamResult                     `sym:"k4a_playback_get_previous_capture"`
	PlaybackGetNextIMUSample        func(playback PlaybackHandle, sample *k4a.IMUSample) k4a.StreamResult                          `sym:"k4a_playback_get_next_imu_sample"`
	PlaybackGetPreviousIMUSample    func(playback PlaybackHandle, sample *k4a.IMUSample) k4a.StreamResult                          `sym:"k4a_playback_get_previous_imu_sample"`
	PlaybackGetNextDataBlock        func(playback PlaybackHandle, track string, block *DataBlockHandle) k4a.StreamResult           `sym:"k4a_playback_get_next_data_block"`
	PlaybackGetPreviousDataBlock    func(playback PlaybackHandle, track string, block *DataBlockHandle) k4a.StreamResult           `sym:"k4a_playback_get_previous_data_block"`
	PlaybackSeekTimestamp           func(playback PlaybackHandle, offsetUsec int64, origin SeekOrigin) k4a.Result                  `sym:"k4a_playback_seek_timestamp"`
	PlaybackGetRecordingLengthUsec  func(playback PlaybackHandle) uint64                                                           `sym:"k4a_playback_get_recording_length_usec"`

	DataBlockGetDeviceTimestampUsec func(block DataBlockHandle) uint64         `sym:"k4a_playback_data_block_get_device_timestamp_usec"`
	DataBlockGetBufferSize          func(block DataBlockHandle) uintptr        `sym:"k4a_playback_data_block_get_buffer_size"`
	DataBlockGetBuffer              func(block DataBlockHandle) unsafe.Pointer `sym:"k4a_playback_data_block_get_buffer"`
	DataBlockRelease                func(block DataBlockHandle)                `sym:"k4a_playback_data_block_release"`
}
