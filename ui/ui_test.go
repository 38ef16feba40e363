package ui

import (
	"bytes"
	"image"
	"strings"
	"testing"

	"go.viam.com/test"

	"github.com/dialup-inc/kinect/stream"
	"github.com/dialup-inc/kinect/term"
)

func TestStateReducer(t *testing.T) {
	var s State
	img := image.NewGray(image.Rect(0, 0, 4, 4))

	s = StateReducer(s, FrameEvent{Image: img})
	test.That(t, s.Page, test.ShouldEqual, ViewPage)
	test.That(t, s.Mode, test.ShouldEqual, ColorMode)
	test.That(t, s.Image, test.ShouldEqual, img)

	s = StateReducer(s, SetModeEvent(DepthMode))
	test.That(t, s.Mode, test.ShouldEqual, DepthMode)
	test.That(t, s.Image, test.ShouldBeNil)

	s = StateReducer(s, ResizeEvent{WinSize: term.WinSize{Rows: 30, Cols: 100}})
	test.That(t, s.WinSize.Cols, test.ShouldEqual, 100)

	s = StateReducer(s, ErrorEvent{Text: "device unplugged"})
	test.That(t, s.Page, test.ShouldEqual, ErrorPage)
	test.That(t, s.Error, test.ShouldEqual, "device unplugged")

	// frames do not leave the error page
	s = StateReducer(s, FrameEvent{Image: img})
	test.That(t, s.Page, test.ShouldEqual, ErrorPage)

	s = StateReducer(s, SetPageEvent(WaitingPage))
	test.That(t, s.Page, test.ShouldEqual, WaitingPage)
	test.That(t, s.Error, test.ShouldEqual, "")
}

func TestMessagesReducer(t *testing.T) {
	var msgs []Message
	msgs = messagesReducer(msgs, LogEvent{Text: "\x1b[31mred\x1b[0m\a", Level: LogLevelError})
	test.That(t, msgs, test.ShouldResemble, []Message{{Level: LogLevelError, Text: "red"}})

	for i := 0; i < maxMessages+10; i++ {
		msgs = messagesReducer(msgs, LogEvent{Text: "x"})
	}
	test.That(t, len(msgs), test.ShouldEqual, maxMessages)
	test.That(t, msgs[0].Level, test.ShouldEqual, LogLevelInfo)
}

func TestWordWrap(t *testing.T) {
	test.That(t, wordWrap("plug in a camera", 8), test.ShouldResemble, []string{"plug in", "a camera"})
	test.That(t, wordWrap("", 8), test.ShouldBeNil)
}

func TestImage2ANSI(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	out := string(Image2ANSI(img, 8, 4, 2.0, false))

	test.That(t, strings.Count(out, "@"), test.ShouldEqual, 32)

	// without an image the canvas is blank
	out = string(Image2ANSI(nil, 3, 2, 2.0, false))
	test.That(t, strings.Count(out, " "), test.ShouldEqual, 6)

	// gray images keep their level as the color
	depth := image.NewGray(image.Rect(0, 0, 4, 2))
	for i := range depth.Pix {
		depth.Pix[i] = 0xff
	}
	out = string(Image2ANSI(depth, 4, 1, 2.0, false))
	test.That(t, out, test.ShouldEqual, "\x1b[38;2;255;255;255m@@@@")
	out = string(Image2ANSI(depth, 4, 1, 2.0, true))
	test.That(t, out, test.ShouldEqual, "\x1b[38;2;255;255;255m    ")
}

func TestFitRect(t *testing.T) {
	// a frame in a wide block is centered with bars at the sides
	r := fitRect(image.Rect(0, 0, 160, 80), 80, 10, 2.0)
	test.That(t, r, test.ShouldResemble, image.Rect(20, 0, 60, 10))
	test.That(t, fitRect(image.Rectangle{}, 80, 20, 2.0).Empty(), test.ShouldBeTrue)
}

func TestRendererDrawsStatus(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)

	r.Dispatch(ResizeEvent{WinSize: term.WinSize{Rows: 12, Cols: 80}})
	white := image.NewGray(image.Rect(0, 0, 16, 9))
	for i := range white.Pix {
		white.Pix[i] = 0xff
	}
	r.Dispatch(FrameEvent{Image: white})
	r.Dispatch(StatusEvent{
		Serial:      "000123192912",
		Temperature: 31.5,
		Stats:       stream.Stats{Captures: 42, Drops: 3},
	})
	r.Dispatch(LogEvent{Text: "cameras started"})

	buf.Reset()
	r.Draw()
	out := buf.String()
	test.That(t, out, test.ShouldContainSubstring, "[c]olor")
	test.That(t, out, test.ShouldContainSubstring, "cameras started")
	test.That(t, out, test.ShouldContainSubstring, "000123192912  31.5°C  captures 42  timeouts 0  drops 3")

	// too small to draw anything
	r.Dispatch(ResizeEvent{WinSize: term.WinSize{Rows: 3, Cols: 80}})
	buf.Reset()
	r.Draw()
	test.That(t, buf.Len(), test.ShouldEqual, 0)

	r.Stop()
}

func TestRendererStartStop(t *testing.T) {
	var buf bytes.Buffer
	r := NewRenderer(&buf)
	r.Start()
	r.Dispatch(SetPageEvent(WaitingPage))
	r.Stop()
	r.Stop()

	test.That(t, buf.String(), test.ShouldStartWith, "\x1b[?1049h\x1b[?25l")
	test.That(t, buf.String(), test.ShouldEndWith, "\x1b[?1049l")
}
