package sim

import (
	"sort"
	"unsafe"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/k4arecord"
)

type storedImage struct {
	format                     k4a.ImageFormat
	width, height, stride      int32
	data                       []byte
	deviceTS, systemTS, expose uint64
	whiteBalance, iso          uint32
}

type storedCapture struct {
	ts          uint64
	images      [3]*storedImage
	temperature float32
}

type storedBlock struct {
	ts   uint64
	data []byte
}

type track struct {
	name         string
	codecID      string
	codecContext []byte
	builtin      bool
	video        *k4arecord.VideoSettings
	blocks       []storedBlock
}

type tag struct{ name, value string }

type file struct {
	config      k4arecord.RecordConfiguration
	raw         []byte
	tags        []tag
	attachments map[string][]byte
	tracks      []*track
	captures    []storedCapture
	imu         []k4a.IMUSample
	started     bool
}

func (f *file) track(name string) *track {
	for _, t := range f.tracks {
		if t.name == name {
			return t
		}
	}
	return nil
}

func (f *file) stamp(ts uint64) {
	if !f.started {
		f.config.StartTimestampOffsetUsec = uint32(ts)
		f.started = true
	}
}

func (f *file) end() uint64 {
	var end uint64
	for _, c := range f.captures {
		end = max(end, c.ts)
	}
	for _, s := range f.imu {
		end = max(end, s.AccTimestampUsec)
	}
	for _, t := range f.tracks {
		for _, b := range t.blocks {
			end = max(end, b.ts)
		}
	}
	return end
}

type recording struct {
	path   string
	f      *file
	header bool
}

type playback struct {
	f          *file
	capturePos int
	imuPos     int
	blockPos   map[string]int
	conversion k4a.ImageFormat
	converted  bool
}

type block struct {
	ts   uint64
	data []byte
}

// Recordings returns the paths of recordings closed so far.
func (p *Provider) Recordings() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	paths := make([]string, 0, len(p.files))
	for path := range p.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

func (p *Provider) recordingLocked(h k4arecord.RecordingHandle) *recording {
	return p.recordings[uintptr(h)]
}

func (p *Provider) playbackLocked(h k4arecord.PlaybackHandle) *playback {
	return p.playbacks[uintptr(h)]
}

func builtinTrack(name, codec string, w, h int, fps k4a.FPS) *track {
	return &track{
		name:    name,
		codecID: codec,
		builtin: true,
		video:   &k4arecord.VideoSettings{Width: uint64(w), Height: uint64(h), FrameRate: uint64(fps.Hz())},
	}
}

func (p *Provider) recordFunctions() *k4arecord.Functions {
	return &k4arecord.Functions{
		RecordCreate: func(path string, dev k4a.DeviceHandle, cfg k4a.DeviceConfiguration, out *k4arecord.RecordingHandle) k4a.Result {
			if p.call("k4a_record_create") || path == "" {
				return k4a.ResultFailed
			}
			p.mu.Lock()
			defer p.mu.Unlock()

			f := &file{attachments: make(map[string][]byte)}
			if dev != 0 {
				d := p.deviceLocked(dev)
				if d == nil {
					return k4a.ResultFailed
				}
				f.raw = append([]byte(nil), d.spec.RawCalibration...)
			}
			f.config = k4arecord.RecordConfiguration{
				ColorFormat:                   cfg.ColorFormat,
				ColorResolution:               cfg.ColorResolution,
				DepthMode:                     cfg.DepthMode,
				CameraFPS:                     cfg.CameraFPS,
				ColorTrackEnabled:             cfg.ColorResolution != k4a.ColorResolutionOff,
				DepthTrackEnabled:             cfg.DepthMode != k4a.DepthModeOff && cfg.DepthMode != k4a.DepthModePassiveIR,
				IRTrackEnabled:                cfg.DepthMode != k4a.DepthModeOff,
				DepthDelayOffColorUsec:        cfg.DepthDelayOffColorUsec,
				WiredSyncMode:                 cfg.WiredSyncMode,
				SubordinateDelayOffMasterUsec: cfg.SubordinateDelayOffMasterUsec,
			}
			if f.config.ColorTrackEnabled {
				w, h := cfg.ColorResolution.Dimensions()
				codec := "V_MS/VFW/FOURCC"
				if cfg.ColorFormat == k4a.ImageFormatColorMJPG {
					codec = "V_MJPEG"
				}
				f.tracks = append(f.tracks, builtinTrack("COLOR", codec, w, h, cfg.CameraFPS))
			}
			if f.config.DepthTrackEnabled {
				w, h := cfg.DepthMode.Dimensions()
				f.tracks = append(f.tracks, builtinTrack("DEPTH", "V_MS/VFW/FOURCC", w, h, cfg.CameraFPS))
			}
			if f.config.IRTrackEnabled {
				w, h := cfg.DepthMode.Dimensions()
				f.tracks = append(f.tracks, builtinTrack("IR", "V_MS/VFW/FOURCC", w, h, cfg.CameraFPS))
			}

			h := p.newHandleLocked()
			p.recordings[h] = &recording{path: path, f: f}
			*out = k4arecord.RecordingHandle(h)
			return k4a.ResultSucceeded
		},
		RecordAddTag: func(h k4arecord.RecordingHandle, name, value string) k4a.Result {
			return p.beforeHeader("k4a_record_add_tag", h, func(r *recording) bool {
				r.f.tags = append(r.f.tags, tag{name, value})
				return true
			})
		},
		RecordAddIMUTrack: func(h k4arecord.RecordingHandle) k4a.Result {
			return p.beforeHeader("k4a_record_add_imu_track", h, func(r *recording) bool {
				if r.f.config.IMUTrackEnabled {
					return false
				}
				r.f.config.IMUTrackEnabled = true
				r.f.tracks = append(r.f.tracks, &track{name: "IMU", codecID: "S_K4A/IMU", builtin: true})
				return true
			})
		},
		RecordAddAttachment: func(h k4arecord.RecordingHandle, name string, buf *byte, size uintptr) k4a.Result {
			data := copyBytes(buf, size)
			return p.beforeHeader("k4a_record_add_attachment", h, func(r *recording) bool {
				if _, dup := r.f.attachments[name]; dup || name == "" {
					return false
				}
				r.f.attachments[name] = data
				return true
			})
		},
		RecordAddCustomVideoTrack: func(h k4arecord.RecordingHandle, name, codec string, ctx *byte, size uintptr, settings *k4arecord.VideoSettings) k4a.Result {
			data := copyBytes(ctx, size)
			return p.beforeHeader("k4a_record_add_custom_video_track", h, func(r *recording) bool {
				if name == "" || r.f.track(name) != nil || settings == nil {
					return false
				}
				v := *settings
				r.f.tracks = append(r.f.tracks, &track{name: name, codecID: codec, codecContext: data, video: &v})
				return true
			})
		},
		RecordAddCustomSubtitleTrack: func(h k4arecord.RecordingHandle, name, codec string, ctx *byte, size uintptr, settings *k4arecord.SubtitleSettings) k4a.Result {
			data := copyBytes(ctx, size)
			return p.beforeHeader("k4a_record_add_custom_subtitle_track", h, func(r *recording) bool {
				if name == "" || r.f.track(name) != nil {
					return false
				}
				r.f.tracks = append(r.f.tracks, &track{name: name, codecID: codec, codecContext: data})
				return true
			})
		},
		RecordWriteHeader: func(h k4arecord.RecordingHandle) k4a.Result {
			return p.beforeHeader("k4a_record_write_header", h, func(r *recording) bool {
				r.header = true
				return true
			})
		},
		RecordWriteCapture: func(h k4arecord.RecordingHandle, c k4a.CaptureHandle) k4a.Result {
			return p.afterHeader("k4a_record_write_capture", h, func(r *recording) bool {
				o := p.objectLocked(uintptr(c), kindCapture)
				if o == nil {
					return false
				}
				sc := storedCapture{temperature: o.temperature}
				for slot, img := range o.images {
					im := p.objectLocked(img, kindImage)
					if im == nil {
						continue
					}
					sc.images[slot] = &storedImage{
						format: im.format, width: im.width, height: im.height, stride: im.stride,
						data:     append([]byte(nil), im.buf...),
						deviceTS: im.deviceTS, systemTS: im.systemTS, expose: im.exposure,
						whiteBalance: im.whiteBalance, iso: im.iso,
					}
					sc.ts = max(sc.ts, im.deviceTS)
				}
				r.f.stamp(sc.ts)
				r.f.captures = append(r.f.captures, sc)
				return true
			})
		},
		RecordWriteIMUSample: func(h k4arecord.RecordingHandle, s k4a.IMUSample) k4a.Result {
			return p.afterHeader("k4a_record_write_imu_sample", h, func(r *recording) bool {
				if !r.f.config.IMUTrackEnabled {
					return false
				}
				r.f.stamp(s.AccTimestampUsec)
				r.f.imu = append(r.f.imu, s)
				return true
			})
		},
		RecordWriteCustomTrackData: func(h k4arecord.RecordingHandle, name string, ts uint64, buf *byte, size uintptr) k4a.Result {
			data := copyBytes(buf, size)
			return p.afterHeader("k4a_record_write_custom_track_data", h, func(r *recording) bool {
				t := r.f.track(name)
				if t == nil || t.builtin {
					return false
				}
				t.blocks = append(t.blocks, storedBlock{ts: ts, data: data})
				return true
			})
		},
		RecordFlush: func(h k4arecord.RecordingHandle) k4a.Result {
			if p.call("k4a_record_flush") {
				return k4a.ResultFailed
			}
			p.mu.Lock()
			defer p.mu.Unlock()
			if p.recordingLocked(h) == nil {
				return k4a.ResultFailed
			}
			return k4a.ResultSucceeded
		},
		RecordClose: func(h k4arecord.RecordingHandle) {
			p.call("k4a_record_close")
			p.mu.Lock()
			defer p.mu.Unlock()
			r := p.recordingLocked(h)
			if r == nil {
				return
			}
			delete(p.recordings, uintptr(h))
			if r.header {
				p.files[r.path] = r.f
			}
		},

		PlaybackOpen: func(path string, out *k4arecord.PlaybackHandle) k4a.Result {
			if p.call("k4a_playback_open") {
				return k4a.ResultFailed
			}
			p.mu.Lock()
			defer p.mu.Unlock()
			f, ok := p.files[path]
			if !ok {
				return k4a.ResultFailed
			}
			h := p.newHandleLocked()
			p.playbacks[h] = &playback{f: f, blockPos: make(map[string]int)}
			*out = k4arecord.PlaybackHandle(h)
			return k4a.ResultSucceeded
		},
		PlaybackClose: func(h k4arecord.PlaybackHandle) {
			p.call("k4a_playback_close")
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.playbacks, uintptr(h))
		},
		PlaybackGetRawCalibration: func(h k4arecord.PlaybackHandle, buf *byte, size *uintptr) k4a.BufferResult {
			return p.playbackBuffer("k4a_playback_get_raw_calibration", h, buf, size, func(pb *playback) ([]byte, bool) {
				return pb.f.raw, len(pb.f.raw) > 0
			})
		},
		PlaybackGetCalibration: func(h k4arecord.PlaybackHandle, cal *k4a.Calibration) k4a.Result {
			return p.withPlayback("k4a_playback_get_calibration", h, func(pb *playback) bool {
				if len(pb.f.raw) == 0 {
					return false
				}
				*cal = syntheticCalibration(pb.f.config.DepthMode, pb.f.config.ColorResolution)
				return true
			})
		},
		PlaybackGetRecordConfiguration: func(h k4arecord.PlaybackHandle, cfg *k4arecord.RecordConfiguration) k4a.Result {
			return p.withPlayback("k4a_playback_get_record_configuration", h, func(pb *playback) bool {
				*cfg = pb.f.config
				return true
			})
		},
		PlaybackCheckTrackExists: func(h k4arecord.PlaybackHandle, name string) bool {
			return p.withPlayback("k4a_playback_check_track_exists", h, func(pb *playback) bool {
				return pb.f.track(name) != nil
			}) == k4a.ResultSucceeded
		},
		PlaybackGetTrackCount: func(h k4arecord.PlaybackHandle) uintptr {
			var n uintptr
			p.withPlayback("k4a_playback_get_track_count", h, func(pb *playback) bool {
				n = uintptr(len(pb.f.tracks))
				return true
			})
			return n
		},
		PlaybackGetTrackName: func(h k4arecord.PlaybackHandle, index uintptr, buf *byte, size *uintptr) k4a.BufferResult {
			return p.playbackBuffer("k4a_playback_get_track_name", h, buf, size, func(pb *playback) ([]byte, bool) {
				if int(index) >= len(pb.f.tracks) {
					return nil, false
				}
				return append([]byte(pb.f.tracks[index].name), 0), true
			})
		},
		PlaybackTrackIsBuiltin: func(h k4arecord.PlaybackHandle, name string) bool {
			return p.withPlayback("k4a_playback_track_is_builtin", h, func(pb *playback) bool {
				t := pb.f.track(name)
				return t != nil && t.builtin
			}) == k4a.ResultSucceeded
		},
		PlaybackTrackGetVideoSettings: func(h k4arecord.PlaybackHandle, name string, out *k4arecord.VideoSettings) k4a.Result {
			return p.withPlayback("k4a_playback_track_get_video_settings", h, func(pb *playback) bool {
				t := pb.f.track(name)
				if t == nil || t.video == nil {
					return false
				}
				*out = *t.video
				return true
			})
		},
		PlaybackTrackGetCodecID: func(h k4arecord.PlaybackHandle, name string, buf *byte, size *uintptr) k4a.BufferResult {
			return p.playbackBuffer("k4a_playback_track_get_codec_id", h, buf, size, func(pb *playback) ([]byte, bool) {
				t := pb.f.track(name)
				if t == nil {
					return nil, false
				}
				return append([]byte(t.codecID), 0), true
			})
		},
		PlaybackTrackGetCodecContext: func(h k4arecord.PlaybackHandle, name string, buf *byte, size *uintptr) k4a.BufferResult {
			return p.playbackBuffer("k4a_playback_track_get_codec_context", h, buf, size, func(pb *playback) ([]byte, bool) {
				t := pb.f.track(name)
				if t == nil {
					return nil, false
				}
				return t.codecContext, true
			})
		},
		PlaybackGetTag: func(h k4arecord.PlaybackHandle, name string, buf *byte, size *uintptr) k4a.BufferResult {
			return p.playbackBuffer("k4a_playback_get_tag", h, buf, size, func(pb *playback) ([]byte, bool) {
				for _, t := range pb.f.tags {
					if t.name == name {
						return append([]byte(t.value), 0), true
					}
				}
				return nil, false
			})
		},
		PlaybackGetAttachment: func(h k4arecord.PlaybackHandle, name string, buf *byte, size *uintptr) k4a.BufferResult {
			return p.playbackBuffer("k4a_playback_get_attachment", h, buf, size, func(pb *playback) ([]byte, bool) {
				data, ok := pb.f.attachments[name]
				return data, ok
			})
		},
		PlaybackSetColorConversion: func(h k4arecord.PlaybackHandle, format k4a.ImageFormat) k4a.Result {
			return p.withPlayback("k4a_playback_set_color_conversion", h, func(pb *playback) bool {
				if format != k4a.ImageFormatColorBGRA32 && format != pb.f.config.ColorFormat {
					return false
				}
				pb.conversion, pb.converted = format, true
				return true
			})
		},
		PlaybackGetNextCapture: func(h k4arecord.PlaybackHandle, out *k4a.CaptureHandle) k4a.StreamResult {
			return p.step("k4a_playback_get_next_capture", h, func(pb *playback) bool {
				if pb.capturePos >= len(pb.f.captures) {
					return false
				}
				*out = k4a.CaptureHandle(p.restoreCaptureLocked(pb.f.captures[pb.capturePos]))
				pb.capturePos++
				return true
			})
		},
		PlaybackGetPreviousCapture: func(h k4arecord.PlaybackHandle, out *k4a.CaptureHandle) k4a.StreamResult {
			return p.step("k4a_playback_get_previous_capture", h, func(pb *playback) bool {
				if pb.capturePos <= 0 {
					return false
				}
				pb.capturePos--
				*out = k4a.CaptureHandle(p.restoreCaptureLocked(pb.f.captures[pb.capturePos]))
				return true
			})
		},
		PlaybackGetNextIMUSample: func(h k4arecord.PlaybackHandle, out *k4a.IMUSample) k4a.StreamResult {
			return p.step("k4a_playback_get_next_imu_sample", h, func(pb *playback) bool {
				if pb.imuPos >= len(pb.f.imu) {
					return false
				}
				*out = pb.f.imu[pb.imuPos]
				pb.imuPos++
				return true
			})
		},
		PlaybackGetPreviousIMUSample: func(h k4arecord.PlaybackHandle, out *k4a.IMUSample) k4a.StreamResult {
			return p.step("k4a_playback_get_previous_imu_sample", h, func(pb *playback) bool {
				if pb.imuPos <= 0 {
					return false
				}
				pb.imuPos--
				*out = pb.f.imu[pb.imuPos]
				return true
			})
		},
		PlaybackGetNextDataBlock: func(h k4arecord.PlaybackHandle, name string, out *k4arecord.DataBlockHandle) k4a.StreamResult {
			return p.stepBlock("k4a_playback_get_next_data_block", h, name, out, 1)
		},
		PlaybackGetPreviousDataBlock: func(h k4arecord.PlaybackHandle, name string, out *k4arecord.DataBlockHandle) k4a.StreamResult {
			return p.stepBlock("k4a_playback_get_previous_data_block", h, name, out, -1)
		},
		PlaybackSeekTimestamp: func(h k4arecord.PlaybackHandle, offset int64, origin k4arecord.SeekOrigin) k4a.Result {
			return p.withPlayback("k4a_playback_seek_timestamp", h, func(pb *playback) bool {
				start := int64(pb.f.config.StartTimestampOffsetUsec)
				var target int64
				switch origin {
				case k4arecord.SeekBegin:
					target = start + offset
				case k4arecord.SeekEnd:
					target = int64(pb.f.end()) + offset
				case k4arecord.SeekDeviceTime:
					target = offset
				default:
					return false
				}
				pb.capturePos = sort.Search(len(pb.f.captures), func(i int) bool { return int64(pb.f.captures[i].ts) >= target })
				pb.imuPos = sort.Search(len(pb.f.imu), func(i int) bool { return int64(pb.f.imu[i].AccTimestampUsec) >= target })
				for _, t := range pb.f.tracks {
					blocks := t.blocks
					pb.blockPos[t.name] = sort.Search(len(blocks), func(i int) bool { return int64(blocks[i].ts) >= target })
				}
				return true
			})
		},
		PlaybackGetRecordingLengthUsec: func(h k4arecord.PlaybackHandle) uint64 {
			var n uint64
			p.withPlayback("k4a_playback_get_recording_length_usec", h, func(pb *playback) bool {
				if end, start := pb.f.end(), uint64(pb.f.config.StartTimestampOffsetUsec); end > start {
					n = end - start
				}
				return true
			})
			return n
		},

		DataBlockGetDeviceTimestampUsec: func(h k4arecord.DataBlockHandle) uint64 {
			p.call("k4a_playback_data_block_get_device_timestamp_usec")
			p.mu.Lock()
			defer p.mu.Unlock()
			if b, ok := p.blocks[uintptr(h)]; ok {
				return b.ts
			}
			return 0
		},
		DataBlockGetBufferSize: func(h k4arecord.DataBlockHandle) uintptr {
			p.call("k4a_playback_data_block_get_buffer_size")
			p.mu.Lock()
			defer p.mu.Unlock()
			if b, ok := p.blocks[uintptr(h)]; ok {
				return uintptr(len(b.data))
			}
			return 0
		},
		DataBlockGetBuffer: func(h k4arecord.DataBlockHandle) unsafe.Pointer {
			p.call("k4a_playback_data_block_get_buffer")
			p.mu.Lock()
			defer p.mu.Unlock()
			if b, ok := p.blocks[uintptr(h)]; ok && len(b.data) > 0 {
				return unsafe.Pointer(&b.data[0])
			}
			return nil
		},
		DataBlockRelease: func(h k4arecord.DataBlockHandle) {
			p.call("k4a_playback_data_block_release")
			p.mu.Lock()
			defer p.mu.Unlock()
			delete(p.blocks, uintptr(h))
		},
	}
}

func copyBytes(buf *byte, size uintptr) []byte {
	if buf == nil || size == 0 {
		return nil
	}
	return append([]byte(nil), unsafe.Slice(buf, size)...)
}

func (p *Provider) beforeHeader(symbol string, h k4arecord.RecordingHandle, do func(*recording) bool) k4a.Result {
	if p.call(symbol) {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	r := p.recordingLocked(h)
	if r == nil || r.header || !do(r) {
		return k4a.ResultFailed
	}
	return k4a.ResultSucceeded
}

func (p *Provider) afterHeader(symbol string, h k4arecord.RecordingHandle, do func(*recording) bool) k4a.Result {
	if p.call(symbol) {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	r := p.recordingLocked(h)
	if r == nil || !r.header || !do(r) {
		return k4a.ResultFailed
	}
	return k4a.ResultSucceeded
}

func (p *Provider) withPlayback(symbol string, h k4arecord.PlaybackHandle, do func(*playback) bool) k4a.Result {
	if p.call(symbol) {
		return k4a.ResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	pb := p.playbackLocked(h)
	if pb == nil || !do(pb) {
		return k4a.ResultFailed
	}
	return k4a.ResultSucceeded
}

func (p *Provider) playbackBuffer(symbol string, h k4arecord.PlaybackHandle, buf *byte, size *uintptr, get func(*playback) ([]byte, bool)) k4a.BufferResult {
	if p.call(symbol) {
		return k4a.BufferResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	pb := p.playbackLocked(h)
	if pb == nil {
		return k4a.BufferResultFailed
	}
	data, ok := get(pb)
	if !ok {
		return k4a.BufferResultFailed
	}
	return fill(data, buf, size)
}

// step runs a cursor move; a false return from do means the cursor is at
// the end.
func (p *Provider) step(symbol string, h k4arecord.PlaybackHandle, do func(*playback) bool) k4a.StreamResult {
	if p.call(symbol) {
		return k4a.StreamResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	pb := p.playbackLocked(h)
	if pb == nil {
		return k4a.StreamResultFailed
	}
	if !do(pb) {
		return k4a.StreamResultEOF
	}
	return k4a.StreamResultSucceeded
}

func (p *Provider) stepBlock(symbol string, h k4arecord.PlaybackHandle, name string, out *k4arecord.DataBlockHandle, dir int) k4a.StreamResult {
	if p.call(symbol) {
		return k4a.StreamResultFailed
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	pb := p.playbackLocked(h)
	if pb == nil {
		return k4a.StreamResultFailed
	}
	t := pb.f.track(name)
	if t == nil || t.builtin {
		return k4a.StreamResultFailed
	}
	pos := pb.blockPos[name]
	var b storedBlock
	if dir > 0 {
		if pos >= len(t.blocks) {
			return k4a.StreamResultEOF
		}
		b = t.blocks[pos]
		pos++
	} else {
		if pos <= 0 {
			return k4a.StreamResultEOF
		}
		pos--
		b = t.blocks[pos]
	}
	pb.blockPos[name] = pos

	bh := p.newHandleLocked()
	p.blocks[bh] = &block{ts: b.ts, data: append([]byte(nil), b.data...)}
	*out = k4arecord.DataBlockHandle(bh)
	return k4a.StreamResultSucceeded
}

// restoreCaptureLocked rebuilds a native capture from a recorded one.
func (p *Provider) restoreCaptureLocked(sc storedCapture) uintptr {
	c := p.newCaptureLocked()
	p.objects[c].temperature = sc.temperature
	for slot, si := range sc.images {
		if si == nil {
			continue
		}
		h := p.newHandleLocked()
		p.objects[h] = &object{
			kind: kindImage, refs: 1,
			format: si.format, width: si.width, height: si.height, stride: si.stride,
			buf:      append([]byte(nil), si.data...),
			deviceTS: si.deviceTS, systemTS: si.systemTS, exposure: si.expose,
			whiteBalance: si.whiteBalance, iso: si.iso,
		}
		p.objects[c].images[slot] = h
	}
	return c
}
