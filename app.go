package kinect

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"runtime/debug"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/pixel"
	"github.com/dialup-inc/kinect/stream"
	"github.com/dialup-inc/kinect/term"
	"github.com/dialup-inc/kinect/ui"
)

// retryDelay is how long the viewer waits before reopening a device that
// could not be opened or stopped streaming.
const retryDelay = 1500 * time.Millisecond

// App is the terminal viewer. It streams one device and draws the selected
// image of each capture as colored characters.
type App struct {
	API         *k4a.API
	DeviceIndex uint32
	Config      k4a.DeviceConfiguration
	Timeout     time.Duration
	Logger      zerolog.Logger
	Metrics     *stream.Metrics

	mode *atomic.String

	cancelMu sync.Mutex
	quit     context.CancelFunc

	renderer *ui.Renderer
}

// NewApp returns a viewer drawing to out.
func NewApp(api *k4a.API, index uint32, cfg k4a.DeviceConfiguration, out io.Writer) *App {
	return &App{
		API:         api,
		DeviceIndex: index,
		Config:      cfg,
		mode:        atomic.NewString(string(ui.ColorMode)),
		renderer:    ui.NewRenderer(out),
	}
}

// Renderer returns the viewer's renderer, mostly for inspecting its state.
func (a *App) Renderer() *ui.Renderer { return a.renderer }

func (a *App) start(ctx context.Context) (context.Context, error) {
	a.cancelMu.Lock()
	defer a.cancelMu.Unlock()
	if a.quit != nil {
		return nil, errors.New("app can only be run once")
	}
	ctx, cancel := context.WithCancel(ctx)
	a.quit = cancel
	return ctx, nil
}

// Quit stops a running viewer.
func (a *App) Quit() {
	a.cancelMu.Lock()
	defer a.cancelMu.Unlock()
	if a.quit != nil {
		a.quit()
	}
}

func (a *App) run(ctx context.Context) error {
	ctx, err := a.start(ctx)
	if err != nil {
		return err
	}

	restore, err := term.CaptureStdin(a.onKeypress)
	if err != nil {
		return err
	}
	defer restore()

	go a.watchWinSize(ctx)

	a.renderer.Start()
	defer a.renderer.Stop()

	return a.watchDevice(ctx)
}

// watchDevice streams the device until ctx is done, reopening it after
// errors.
func (a *App) watchDevice(ctx context.Context) error {
	a.renderer.Dispatch(ui.SetPageEvent(ui.WaitingPage))

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		err := a.stream(ctx)
		if err == nil {
			continue
		}
		a.Logger.Warn().Err(err).Uint32("device", a.DeviceIndex).Msg("device error")
		a.renderer.Dispatch(ui.LogEvent{
			Level: ui.LogLevelError,
			Text:  fmt.Sprintf("device error: %v", err),
		})

		select {
		case <-time.After(retryDelay):
			continue
		case <-ctx.Done():
			return nil
		}
	}
}

func (a *App) stream(ctx context.Context) error {
	dev, err := a.API.OpenDevice(a.DeviceIndex)
	if err != nil {
		return err
	}
	defer dev.Close()

	serial, err := dev.SerialNumber()
	if err != nil {
		return err
	}
	if err := dev.StartCameras(a.Config); err != nil {
		return err
	}
	defer dev.StopCameras()

	a.Logger.Info().Str("serial", serial).Msg("cameras started")
	a.renderer.Dispatch(ui.LogEvent{Text: "streaming from " + serial})

	pump := &stream.CapturePump{
		Source:      dev,
		Timeout:     a.Timeout,
		MaxFailures: 3,
		RetryDelay:  100 * time.Millisecond,
		Logger:      a.Logger,
		Metrics:     a.Metrics,
	}
	captures := make(chan *k4a.Capture, 1)
	errc := make(chan error, 1)
	go func() { errc <- pump.Run(ctx, captures) }()

	for c := range captures {
		a.show(c)
		a.renderer.Dispatch(ui.StatusEvent{
			Serial:      serial,
			Temperature: c.Temperature(),
			Stats:       pump.Stats(),
		})
		c.Close()
	}

	return <-errc
}

// show draws the image of c selected by the current mode.
func (a *App) show(c *k4a.Capture) {
	img, err := displayImage(c, ui.Mode(a.mode.Load()), a.Config.DepthMode)
	if err != nil {
		a.renderer.Dispatch(ui.LogEvent{Level: ui.LogLevelError, Text: err.Error()})
		return
	}
	if img != nil {
		a.renderer.Dispatch(ui.FrameEvent{Image: img})
	}
}

// displayImage decodes one image of c for the terminal. Depth and IR are
// stretched over the range the depth mode produces. A capture without the
// requested image yields nil.
func displayImage(c *k4a.Capture, mode ui.Mode, depthMode k4a.DepthMode) (image.Image, error) {
	var src *k4a.Image
	switch mode {
	case ui.DepthMode:
		src = c.DepthImage()
	case ui.IRMode:
		src = c.IRImage()
	default:
		src = c.ColorImage()
	}
	if src == nil {
		return nil, nil
	}
	defer src.Close()

	img, err := pixel.Decode(src)
	if err != nil {
		return nil, err
	}

	gray, ok := img.(*image.Gray16)
	if !ok {
		return img, nil
	}
	switch mode {
	case ui.DepthMode:
		near, far := depthMode.Range()
		return pixel.Normalize16(gray, near, far), nil
	case ui.IRMode:
		lo, hi := depthMode.IRRange()
		return pixel.Normalize16(gray, lo, hi), nil
	default:
		return img, nil
	}
}

func (a *App) onKeypress(r rune) {
	switch r {
	case 3, 'q': // ctrl-c
		a.Quit()

	case 'c':
		a.setMode(ui.ColorMode)

	case 'd':
		a.setMode(ui.DepthMode)

	case 'i':
		a.setMode(ui.IRMode)
	}
}

func (a *App) setMode(m ui.Mode) {
	a.mode.Store(string(m))
	a.renderer.Dispatch(ui.SetModeEvent(m))
}

func (a *App) catchError(msg interface{}, stack []byte) {
	buf := bytes.NewBuffer(nil)
	ansi := term.ANSI{Writer: buf}

	ansi.CursorPosition(1, 1)
	ansi.Reset()

	ansi.Bold()
	ansi.Foreground(color.RGBA{0xFF, 0x00, 0x00, 0xFF})
	buf.WriteString("The viewer crashed.\n")
	ansi.Normal()
	ansi.ForegroundReset()

	buf.WriteString("\n")
	buf.WriteString(fmt.Sprintf("[panic] %v\n", msg))
	buf.WriteString("\n")
	buf.Write(stack)
	buf.WriteString("\n")

	// the terminal may still be raw, which needs explicit carriage returns
	data := bytes.ReplaceAll(buf.Bytes(), []byte("\n"), []byte("\r\n"))
	os.Stderr.Write(data)
}

// Run shows the viewer until ctx is done or the user quits.
func (a *App) Run(ctx context.Context) error {
	// Show the panic and stack instead of a garbled screen
	defer func() {
		if r := recover(); r != nil {
			a.catchError(r, debug.Stack())
		}
	}()

	return a.run(ctx)
}

func (a *App) watchWinSize(ctx context.Context) error {
	checkWinSize := func() {
		winSize, err := term.GetWinSize()
		if err != nil {
			return
		}
		a.renderer.Dispatch(ui.ResizeEvent{WinSize: winSize})
	}

	checkWinSize()

	tick := time.NewTicker(500 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			checkWinSize()
		}
	}
}
