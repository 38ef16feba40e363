package sim

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"time"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/k4abt"
)

func nan32() float32 { return float32(math.NaN()) }

// fill implements the native size probe convention over data.
func fill(data []byte, buf *byte, size *uintptr) k4a.BufferResult {
	if size == nil {
		return k4a.BufferResultFailed
	}
	need := uintptr(len(data))
	if buf == nil || *size < need {
		*size = need
		return k4a.BufferResultTooSmall
	}
	copy(unsafe.Slice(buf, *size), data)
	*size = need
	return k4a.BufferResultSucceeded
}

func framePeriodUsec(fps k4a.FPS) uint64 {
	return uint64(time.Second/time.Microsecond) / uint64(fps.Hz())
}

// syntheticCaptureLocked builds a capture holding the images cfg enables.
// The pictures move with seq so a viewer shows something alive.
func (p *Provider) syntheticCaptureLocked(cfg k4a.DeviceConfiguration, seq uint64) uintptr {
	c := p.newCaptureLocked()
	capture := p.objects[c]
	capture.temperature = 31.5

	ts := seq * framePeriodUsec(cfg.CameraFPS)
	now := uint64(time.Now().UnixNano())

	if cfg.ColorResolution != k4a.ColorResolutionOff {
		w, h := cfg.ColorResolution.Dimensions()
		if img := p.colorImageLocked(cfg.ColorFormat, w, h, seq); img != 0 {
			o := p.objects[img]
			o.deviceTS, o.systemTS = ts, now
			o.exposure, o.whiteBalance, o.iso = 16670, 4500, 100
			capture.images[slotColor] = img
		}
	}
	if cfg.DepthMode != k4a.DepthModeOff {
		w, h := cfg.DepthMode.Dimensions()
		if cfg.DepthMode != k4a.DepthModePassiveIR {
			near, far := cfg.DepthMode.Range()
			img, _ := p.newImageLocked(k4a.ImageFormatDepth16, int32(w), int32(h), 0)
			o := p.objects[img]
			fill16(o, func(x, y int) uint16 {
				return near + uint16((x+y+int(seq)*4)%int(far-near))
			})
			o.deviceTS, o.systemTS = ts, now
			capture.images[slotDepth] = img
		}
		_, hi := cfg.DepthMode.IRRange()
		img, _ := p.newImageLocked(k4a.ImageFormatIR16, int32(w), int32(h), 0)
		o := p.objects[img]
		fill16(o, func(x, y int) uint16 {
			return uint16((x*y + int(seq)) % int(hi))
		})
		o.deviceTS, o.systemTS = ts, now
		capture.images[slotIR] = img
	}
	return c
}

func fill16(o *object, f func(x, y int) uint16) {
	for y := 0; y < int(o.height); y++ {
		row := o.buf[y*int(o.stride):]
		for x := 0; x < int(o.width); x++ {
			v := f(x, y)
			row[2*x] = byte(v)
			row[2*x+1] = byte(v >> 8)
		}
	}
}

func (p *Provider) colorImageLocked(format k4a.ImageFormat, w, h int, seq uint64) uintptr {
	shift := int(seq * 8)
	switch format {
	case k4a.ImageFormatColorBGRA32:
		img, _ := p.newImageLocked(format, int32(w), int32(h), 0)
		o := p.objects[img]
		for y := 0; y < h; y++ {
			row := o.buf[y*int(o.stride):]
			for x := 0; x < w; x++ {
				row[4*x] = byte(y * 255 / h)
				row[4*x+1] = byte((x + shift) * 255 / w)
				row[4*x+2] = byte(255 - y*255/h)
				row[4*x+3] = 0xff
			}
		}
		return img
	case k4a.ImageFormatColorNV12, k4a.ImageFormatColorYUY2:
		img, _ := p.newImageLocked(format, int32(w), int32(h), 0)
		o := p.objects[img]
		for i := range o.buf {
			o.buf[i] = 0x80
		}
		if format == k4a.ImageFormatColorNV12 {
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					o.buf[y*w+x] = byte((x + shift) * 255 / w)
				}
			}
		} else {
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					o.buf[y*w*2+2*x] = byte((x + shift) * 255 / w)
				}
			}
		}
		return img
	case k4a.ImageFormatColorMJPG:
		pic := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				pic.SetGray(x, y, color.Gray{Y: byte((x + shift) * 255 / w)})
			}
		}
		var b bytes.Buffer
		if err := jpeg.Encode(&b, pic, &jpeg.Options{Quality: 60}); err != nil {
			return 0
		}
		hnd := p.newHandleLocked()
		p.objects[hnd] = &object{kind: kindImage, refs: 1, format: format, width: int32(w), height: int32(h), buf: b.Bytes()}
		return hnd
	default:
		return 0
	}
}

func syntheticIMUSample(seq uint64, fps k4a.FPS) k4a.IMUSample {
	ts := seq * framePeriodUsec(fps)
	phase := float32(seq%360) * math.Pi / 180
	return k4a.IMUSample{
		Temperature:       31.5,
		Acc:               mgl32.Vec3{0.05 * float32(math.Sin(float64(phase))), -9.81, 0.1},
		AccTimestampUsec:  ts,
		Gyro:              mgl32.Vec3{0, 0.01 * float32(math.Cos(float64(phase))), 0},
		GyroTimestampUsec: ts,
	}
}

func syntheticCamera(w, h int) k4a.CalibrationCamera {
	return k4a.CalibrationCamera{
		Extrinsics: identityExtrinsics(),
		Intrinsics: k4a.CalibrationIntrinsics{
			Type:           k4a.CalibrationModelBrownConrady,
			ParameterCount: 14,
			Parameters: k4a.IntrinsicParameters{
				Cx: float32(w) / 2, Cy: float32(h) / 2,
				Fx: float32(w) / 2, Fy: float32(w) / 2,
				MetricRadius: 1.7,
			},
		},
		ResolutionWidth:  int32(w),
		ResolutionHeight: int32(h),
		MetricRadius:     1.7,
	}
}

func identityExtrinsics() k4a.CalibrationExtrinsics {
	return k4a.CalibrationExtrinsics{Rotation: [9]float32{1, 0, 0, 0, 1, 0, 0, 0, 1}}
}

func syntheticCalibration(depth k4a.DepthMode, color k4a.ColorResolution) k4a.Calibration {
	dw, dh := depth.Dimensions()
	cw, ch := color.Dimensions()
	cal := k4a.Calibration{
		DepthCameraCalibration: syntheticCamera(dw, dh),
		ColorCameraCalibration: syntheticCamera(cw, ch),
		DepthMode:              depth,
		ColorResolution:        color,
	}
	for i := range cal.Extrinsics {
		for j := range cal.Extrinsics[i] {
			cal.Extrinsics[i][j] = identityExtrinsics()
		}
	}
	// color sits 32mm to the side of depth
	cal.Extrinsics[k4a.CalibrationTypeDepth][k4a.CalibrationTypeColor].Translation = [3]float32{-32, -2, 4}
	cal.Extrinsics[k4a.CalibrationTypeColor][k4a.CalibrationTypeDepth].Translation = [3]float32{32, 2, -4}
	return cal
}

// syntheticBodies places n people side by side two meters from the sensor.
func syntheticBodies(n int, seq uint64) []k4abt.Body {
	bodies := make([]k4abt.Body, n)
	sway := float32(seq%20) - 10
	for i := range bodies {
		bodies[i].ID = uint32(i + 1)
		x0 := float32(i)*700 - float32(n-1)*350
		for j := range bodies[i].Skeleton.Joints {
			bodies[i].Skeleton.Joints[j] = k4abt.Joint{
				Position:        mgl32.Vec3{x0 + sway + float32(j%4)*30, 600 - float32(j)*40, 2000},
				Orientation:     mgl32.QuatIdent(),
				ConfidenceLevel: k4abt.JointConfidenceMedium,
			}
		}
	}
	return bodies
}
