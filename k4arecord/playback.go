package k4arecord

import (
	"time"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/native"
)

// Playback reads a recording. Reads move a cursor through the file: Next
// calls return what follows it, Previous calls what precedes it, and both
// return k4a.ErrEOF past either end. A Playback is not safe for concurrent
// use.
type Playback struct {
	api *API
	h   *native.Handle
}

func (p *Playback) Handle() PlaybackHandle { return PlaybackHandle(p.h.Load()) }

// Close closes the file. Calling it again does nothing.
func (p *Playback) Close() error {
	if h := PlaybackHandle(p.h.Take()); h != 0 {
		p.api.fn.PlaybackClose(h)
	}
	return nil
}

// RawCalibration returns the calibration blob stored in the file.
func (p *Playback) RawCalibration() ([]byte, error) {
	h := p.Handle()
	return k4a.FetchBytes(func(buf *byte, size *uintptr) k4a.BufferResult {
		return p.api.fn.PlaybackGetRawCalibration(h, buf, size)
	})
}

func (p *Playback) Calibration() (k4a.Calibration, error) {
	var cal k4a.Calibration
	err := p.api.fn.PlaybackGetCalibration(p.Handle(), &cal).Err("k4a_playback_get_calibration")
	return cal, err
}

func (p *Playback) RecordConfiguration() (RecordConfiguration, error) {
	var cfg RecordConfiguration
	err := p.api.fn.PlaybackGetRecordConfiguration(p.Handle(), &cfg).Err("k4a_playback_get_record_configuration")
	return cfg, err
}

// Tag returns the value of a tag.
func (p *Playback) Tag(name string) (string, error) {
	h := p.Handle()
	return k4a.FetchString(func(buf *byte, size *uintptr) k4a.BufferResult {
		return p.api.fn.PlaybackGetTag(h, name, buf, size)
	})
}

// Attachment returns the contents of an attached file.
func (p *Playback) Attachment(name string) ([]byte, error) {
	h := p.Handle()
	return k4a.FetchBytes(func(buf *byte, size *uintptr) k4a.BufferResult {
		return p.api.fn.PlaybackGetAttachment(h, name, buf, size)
	})
}

// SetColorConversion makes later captures carry color images in format.
func (p *Playback) SetColorConversion(format k4a.ImageFormat) error {
	return p.api.fn.PlaybackSetColorConversion(p.Handle(), format).Err("k4a_playback_set_color_conversion")
}

// NextCapture returns the capture after the cursor.
func (p *Playback) NextCapture() (*k4a.Capture, error) {
	var h k4a.CaptureHandle
	if err := p.api.fn.PlaybackGetNextCapture(p.Handle(), &h).Err("k4a_playback_get_next_capture"); err != nil {
		return nil, err
	}
	return p.api.core.WrapCapture(h), nil
}

// PreviousCapture returns the capture before the cursor.
func (p *Playback) PreviousCapture() (*k4a.Capture, error) {
	var h k4a.CaptureHandle
	if err := p.api.fn.PlaybackGetPreviousCapture(p.Handle(), &h).Err("k4a_playback_get_previous_capture"); err != nil {
		return nil, err
	}
	return p.api.core.WrapCapture(h), nil
}

// GetCapture returns the next capture. The timeout is ignored; it lets a
// Playback stand in for a live device.
func (p *Playback) GetCapture(time.Duration) (*k4a.Capture, error) {
	return p.NextCapture()
}

func (p *Playback) NextIMUSample() (k4a.IMUSample, error) {
	var s k4a.IMUSample
	err := p.api.fn.PlaybackGetNextIMUSample(p.Handle(), &s).Err("k4a_playback_get_next_imu_sample")
	return s, err
}

func (p *Playback) PreviousIMUSample() (k4a.IMUSample, error) {
	var s k4a.IMUSample
	err := p.api.fn.PlaybackGetPreviousIMUSample(p.Handle(), &s).Err("k4a_playback_get_previous_imu_sample")
	return s, err
}

// NextDataBlock returns the next block of a custom track.
func (p *Playback) NextDataBlock(track string) (*DataBlock, error) {
	var h DataBlockHandle
	if err := p.api.fn.PlaybackGetNextDataBlock(p.Handle(), track, &h).Err("k4a_playback_get_next_data_block"); err != nil {
		return nil, err
	}
	return p.api.wrapDataBlock(h), nil
}

func (p *Playback) PreviousDataBlock(track string) (*DataBlock, error) {
	var h DataBlockHandle
	if err := p.api.fn.PlaybackGetPreviousDataBlock(p.Handle(), track, &h).Err("k4a_playback_get_previous_data_block"); err != nil {
		return nil, err
	}
	return p.api.wrapDataBlock(h), nil
}

// Seek moves the cursor of every stream to offset from origin.
func (p *Playback) Seek(offset time.Duration, origin SeekOrigin) error {
	return p.api.fn.PlaybackSeekTimestamp(p.Handle(), int64(offset/time.Microsecond), origin).
		Err("k4a_playback_seek_timestamp")
}

// Length returns the duration of the recording.
func (p *Playback) Length() time.Duration {
	return time.Duration(p.api.fn.PlaybackGetRecordingLengthUsec(p.Handle())) * time.Microsecond
}

func (p *Playback) TrackCount() int {
	return int(p.api.fn.PlaybackGetTrackCount(p.Handle()))
}

// Track returns the track at index.
func (p *Playback) Track(index int) (Track, error) {
	h := p.Handle()
	name, err := k4a.FetchString(func(buf *byte, size *uintptr) k4a.BufferResult {
		return p.api.fn.PlaybackGetTrackName(h, uintptr(index), buf, size)
	})
	if err != nil {
		return Track{}, err
	}
	return Track{p: p, Name: name}, nil
}

// Tracks returns every track in the file.
func (p *Playback) Tracks() ([]Track, error) {
	n := p.TrackCount()
	tracks := make([]Track, 0, n)
	for i := 0; i < n; i++ {
		t, err := p.Track(i)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}

// TrackByName returns a track handle for name without checking it exists.
func (p *Playback) TrackByName(name string) Track {
	return Track{p: p, Name: name}
}
