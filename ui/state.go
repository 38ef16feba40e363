package ui

import (
	"image"

	"github.com/dialup-inc/kinect/stream"
	"github.com/dialup-inc/kinect/term"
)

type Page string

var (
	WaitingPage Page = "waiting"
	ViewPage    Page = "view"
	ErrorPage   Page = "error"
)

// Mode selects which image of a capture is shown.
type Mode string

var (
	ColorMode Mode = "color"
	DepthMode Mode = "depth"
	IRMode    Mode = "ir"
)

type State struct {
	Page Page
	Mode Mode

	Image    image.Image
	Messages []Message
	Status   Status
	WinSize  term.WinSize

	// Error is shown on ErrorPage.
	Error string
}

// Status is the device summary drawn at the bottom of the view.
type Status struct {
	Serial      string
	Temperature float32
	Stats       stream.Stats
}

type Message struct {
	Level LogLevel
	Text  string
}
