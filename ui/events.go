package ui

import (
	"image"

	"github.com/dialup-inc/kinect/term"
)

// An Event represents something that changes the UI state.
//
// They're processed by Renderer's Dispatch method.
type Event interface{}

// FrameEvent is sent when a new image has been decoded for the current mode
type FrameEvent struct {
	Image image.Image
}

// ResizeEvent indicates that the terminal window's size has changed to the specified dimensions
type ResizeEvent struct {
	WinSize term.WinSize
}

// SetModeEvent switches between color, depth and IR images
type SetModeEvent Mode

// SetPageEvent transitions to the specified page
type SetPageEvent Page

// StatusEvent replaces the status bar contents
type StatusEvent Status

// ErrorEvent shows the error page with the given text
type ErrorEvent struct {
	Text string
}

// LogLevel indicates the severity of a LogEvent message
type LogLevel int

const (
	// LogLevelInfo is for non-urgent, informational logs
	LogLevelInfo LogLevel = iota
	// LogLevelError is for logs that indicate problems
	LogLevelError
)

// A LogEvent prints a message to the console
type LogEvent struct {
	Text  string
	Level LogLevel
}
