package k4arecord

import "github.com/dialup-inc/kinect/k4a"

// Track names one track of a Playback. It is only valid while the Playback
// is open.
type Track struct {
	p    *Playback
	Name string
}

func (t Track) Exists() bool {
	return t.p.api.fn.PlaybackCheckTrackExists(t.p.Handle(), t.Name)
}

// IsBuiltin reports whether the track is one of the color, depth, IR or IMU
// tracks the SDK writes itself.
func (t Track) IsBuiltin() bool {
	return t.p.api.fn.PlaybackTrackIsBuiltin(t.p.Handle(), t.Name)
}

func (t Track) VideoSettings() (VideoSettings, error) {
	var s VideoSettings
	err := t.p.api.fn.PlaybackTrackGetVideoSettings(t.p.Handle(), t.Name, &s).Err("k4a_playback_track_get_video_settings")
	return s, err
}

func (t Track) CodecID() (string, error) {
	h := t.p.Handle()
	return k4a.FetchString(func(buf *byte, size *uintptr) k4a.BufferResult {
		return t.p.api.fn.PlaybackTrackGetCodecID(h, t.Name, buf, size)
	})
}

func (t Track) CodecContext() ([]byte, error) {
	h := t.p.Handle()
	return k4a.FetchBytes(func(buf *byte, size *uintptr) k4a.BufferResult {
		return t.p.api.fn.PlaybackTrackGetCodecContext(h, t.Name, buf, size)
	})
}
