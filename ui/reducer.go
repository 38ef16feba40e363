package ui

import (
	"image"
	"regexp"
	"strings"

	"github.com/dialup-inc/kinect/term"
)

// maxMessages bounds the log kept in the state.
const maxMessages = 50

func StateReducer(s State, event Event) State {
	s.Image = imageReducer(s.Image, event)
	s.Messages = messagesReducer(s.Messages, event)
	s.Mode = modeReducer(s.Mode, event)
	s.Page = pageReducer(s.Page, event)
	s.Status = statusReducer(s.Status, event)
	s.WinSize = winSizeReducer(s.WinSize, event)
	s.Error = errorReducer(s.Error, event)

	return s
}

func pageReducer(s Page, event Event) Page {
	switch e := event.(type) {
	case SetPageEvent:
		return Page(e)
	case ErrorEvent:
		return ErrorPage
	case FrameEvent:
		if s == WaitingPage || s == "" {
			return ViewPage
		}
		return s
	default:
		return s
	}
}

func modeReducer(s Mode, event Event) Mode {
	switch e := event.(type) {
	case SetModeEvent:
		return Mode(e)
	default:
		if s == "" {
			return ColorMode
		}
		return s
	}
}

func winSizeReducer(s term.WinSize, event Event) term.WinSize {
	switch e := event.(type) {
	case ResizeEvent:
		return e.WinSize
	default:
		return s
	}
}

func statusReducer(s Status, event Event) Status {
	switch e := event.(type) {
	case StatusEvent:
		return Status(e)
	default:
		return s
	}
}

func errorReducer(s string, event Event) string {
	switch e := event.(type) {
	case ErrorEvent:
		return e.Text
	case SetPageEvent:
		return ""
	default:
		return s
	}
}

func imageReducer(s image.Image, event Event) image.Image {
	switch e := event.(type) {
	case FrameEvent:
		return e.Image

	case SetModeEvent:
		return nil

	default:
		return s
	}
}

var ansiRegex = regexp.MustCompile("[\u001B\u009B][[\\]()#;?]*(?:(?:(?:[a-zA-Z\\d]*(?:;[a-zA-Z\\d]*)*)?\u0007)|(?:(?:\\d{1,4}(?:;\\d{0,4})*)?[\\dA-PRZcf-ntqry=><~]))")

func messagesReducer(s []Message, event Event) []Message {
	switch e := event.(type) {
	case LogEvent:
		// SDK messages can carry escape codes that would corrupt the screen
		text := ansiRegex.ReplaceAllString(e.Text, "")
		text = strings.Replace(text, "\a", "", -1)

		s = append(s, Message{Level: e.Level, Text: text})
		if len(s) > maxMessages {
			s = s[len(s)-maxMessages:]
		}
		return s

	default:
		return s
	}
}
