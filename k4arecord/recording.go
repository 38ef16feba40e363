package k4arecord

import (
	"time"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/native"
)

// Recording writes captures, IMU samples and custom tracks to a file.
// Tags, tracks and attachments must be added before WriteHeader; data may
// only be written after it. A Recording is not safe for concurrent use.
type Recording struct {
	api *API
	h   *native.Handle
}

func (r *Recording) Handle() RecordingHandle { return RecordingHandle(r.h.Load()) }

// Close flushes and closes the file. Calling it again does nothing.
func (r *Recording) Close() error {
	if h := RecordingHandle(r.h.Take()); h != 0 {
		r.api.fn.RecordClose(h)
	}
	return nil
}

func (r *Recording) AddTag(name, value string) error {
	return r.api.fn.RecordAddTag(r.Handle(), name, value).Err("k4a_record_add_tag")
}

// AddIMUTrack adds the built-in IMU track.
func (r *Recording) AddIMUTrack() error {
	return r.api.fn.RecordAddIMUTrack(r.Handle()).Err("k4a_record_add_imu_track")
}

// AddAttachment stores a named blob in the file.
func (r *Recording) AddAttachment(name string, data []byte) error {
	return r.api.fn.RecordAddAttachment(r.Handle(), name, bytePtr(data), uintptr(len(data))).
		Err("k4a_record_add_attachment")
}

func (r *Recording) AddCustomVideoTrack(track, codecID string, codecContext []byte, settings VideoSettings) error {
	return r.api.fn.RecordAddCustomVideoTrack(r.Handle(), track, codecID,
		bytePtr(codecContext), uintptr(len(codecContext)), &settings).Err("k4a_record_add_custom_video_track")
}

func (r *Recording) AddCustomSubtitleTrack(track, codecID string, codecContext []byte, settings SubtitleSettings) error {
	return r.api.fn.RecordAddCustomSubtitleTrack(r.Handle(), track, codecID,
		bytePtr(codecContext), uintptr(len(codecContext)), &settings).Err("k4a_record_add_custom_subtitle_track")
}

func (r *Recording) WriteHeader() error {
	return r.api.fn.RecordWriteHeader(r.Handle()).Err("k4a_record_write_header")
}

// WriteCapture appends the images of c. The caller still owns c.
func (r *Recording) WriteCapture(c *k4a.Capture) error {
	return r.api.fn.RecordWriteCapture(r.Handle(), c.Handle()).Err("k4a_record_write_capture")
}

func (r *Recording) WriteIMUSample(s k4a.IMUSample) error {
	return r.api.fn.RecordWriteIMUSample(r.Handle(), s).Err("k4a_record_write_imu_sample")
}

// WriteCustomTrackData appends a block to a custom track.
func (r *Recording) WriteCustomTrackData(track string, ts time.Duration, data []byte) error {
	return r.api.fn.RecordWriteCustomTrackData(r.Handle(), track, uint64(ts/time.Microsecond),
		bytePtr(data), uintptr(len(data))).Err("k4a_record_write_custom_track_data")
}

// Flush writes buffered data to disk.
func (r *Recording) Flush() error {
	return r.api.fn.RecordFlush(r.Handle()).Err("k4a_record_flush")
}
