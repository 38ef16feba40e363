package ui

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dialup-inc/kinect/term"
)

// statusHeight is the number of rows below the image: a title bar, the last
// log lines and the device status.
const statusHeight = 5

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{
		out:          out,
		requestFrame: make(chan struct{}),
		stop:         make(chan struct{}),
		done:         make(chan struct{}),
	}
}

// Renderer redraws the terminal whenever the state changes, and at least
// five times a second.
type Renderer struct {
	out io.Writer

	requestFrame chan struct{}
	stop         chan struct{}
	done         chan struct{}
	stopOnce     sync.Once
	started      bool

	stateMu sync.Mutex
	state   State

	start time.Time
}

func (r *Renderer) GetState() State {
	r.stateMu.Lock()
	defer r.stateMu.Unlock()

	return r.state
}

func (r *Renderer) Dispatch(e Event) {
	r.stateMu.Lock()
	newState := StateReducer(r.state, e)
	var changed bool
	if !reflect.DeepEqual(r.state, newState) {
		changed = true
	}
	r.state = newState
	r.stateMu.Unlock()

	if changed {
		r.RequestFrame()
	}
}

func (r *Renderer) RequestFrame() {
	select {
	case r.requestFrame <- struct{}{}:
	default:
	}
}

func (r *Renderer) drawVideo(buf *bytes.Buffer, s State) {
	a := term.ANSI{Writer: buf}

	vidW, vidH := s.WinSize.Cols, s.WinSize.Rows-statusHeight

	a.CursorPosition(1, 1)
	a.Background(color.Black)
	a.Bold()

	imgANSI := Image2ANSI(s.Image, vidW, vidH, s.WinSize.Aspect(), false)
	buf.Write(imgANSI)
}

func padLine(buf *bytes.Buffer, text string, width int) {
	n := utf8.RuneCountInString(text)
	if n > width {
		text = string([]rune(text)[:width])
		n = width
	}
	buf.WriteString(text)
	if width > n {
		buf.WriteString(strings.Repeat(" ", width-n))
	}
}

func (r *Renderer) drawStatus(buf *bytes.Buffer, s State) {
	a := term.ANSI{Writer: buf}

	width := s.WinSize.Cols
	top := s.WinSize.Rows - statusHeight + 1

	// Title bar with the mode tabs
	a.CursorPosition(top, 1)
	a.Normal()
	a.Background(color.RGBA{0x12, 0x12, 0x12, 0xFF})
	used := 0
	for _, tab := range []struct {
		mode  Mode
		label string
	}{{ColorMode, " [c]olor "}, {DepthMode, " [d]epth "}, {IRMode, " [i]r "}} {
		if tab.mode == s.Mode {
			a.Foreground(color.RGBA{0x00, 0xff, 0xff, 0xff})
			a.Bold()
		} else {
			a.Foreground(color.RGBA{0x66, 0x66, 0x66, 0xff})
			a.Normal()
		}
		buf.WriteString(tab.label)
		used += len(tab.label)
	}
	a.Normal()
	a.Foreground(color.RGBA{0x66, 0x66, 0x66, 0xff})
	if width > used {
		padLine(buf, " [q]uit", width-used)
	}

	// Log lines
	a.Background(color.RGBA{0x22, 0x22, 0x22, 0xFF})
	msgs := s.Messages
	if len(msgs) > 3 {
		msgs = msgs[len(msgs)-3:]
	}
	for i := 0; i < 3; i++ {
		a.CursorPosition(top+1+i, 1)
		if i >= len(msgs) {
			buf.WriteString(strings.Repeat(" ", width))
			continue
		}
		if msgs[i].Level == LogLevelError {
			a.Foreground(color.RGBA{0xFF, 0x44, 0x44, 0xFF})
		} else {
			a.Foreground(color.RGBA{0x99, 0x99, 0x99, 0xFF})
		}
		padLine(buf, " "+msgs[i].Text, width)
	}

	// Device status
	a.CursorPosition(top+4, 1)
	a.Background(color.RGBA{0x12, 0x12, 0x12, 0xFF})
	a.Foreground(color.White)
	padLine(buf, statusLine(s.Status), width)
}

func statusLine(st Status) string {
	var b strings.Builder
	b.WriteString(" ")
	if st.Serial != "" {
		b.WriteString(st.Serial)
		b.WriteString("  ")
	}
	if !math.IsNaN(float64(st.Temperature)) && st.Temperature != 0 {
		fmt.Fprintf(&b, "%.1f°C  ", st.Temperature)
	}
	fmt.Fprintf(&b, "captures %d  timeouts %d  drops %d", st.Stats.Captures, st.Stats.Timeouts, st.Stats.Drops)
	if st.Stats.Failures > 0 {
		fmt.Fprintf(&b, "  failures %d", st.Stats.Failures)
	}
	return b.String()
}

func (r *Renderer) drawTitle(buf *bytes.Buffer, s State, line1, line2 string) {
	a := term.ANSI{Writer: buf}

	r.drawBlank(buf, s)

	a.Bold()
	timeOffset := float64(time.Since(r.start)/time.Millisecond) / 2000.0
	a.CursorPosition(s.WinSize.Rows/2, (s.WinSize.Cols-utf8.RuneCountInString(line1))/2+1)
	for i, c := range line1 {
		t := float64(i)/float64(len(line1)) + timeOffset
		a.Foreground(rainbow(t))
		buf.WriteRune(c)
	}

	a.Normal()
	a.Foreground(color.RGBA{0xAA, 0xAA, 0xAA, 0xFF})
	for i, line := range wordWrap(line2, s.WinSize.Cols-2) {
		a.CursorPosition(s.WinSize.Rows/2+2+i, (s.WinSize.Cols-utf8.RuneCountInString(line))/2+1)
		buf.WriteString(line)
	}
}

func (r *Renderer) drawBlank(buf *bytes.Buffer, s State) {
	a := term.ANSI{Writer: buf}

	a.Background(color.RGBA{0x00, 0x00, 0x00, 0xFF})

	a.CursorPosition(1, 1)
	buf.WriteString(strings.Repeat(" ", s.WinSize.Cols*s.WinSize.Rows))
}

func wordWrap(s string, lineLen int) []string {
	var lines []string

	var line string
	for _, word := range strings.Split(s, " ") {
		if len(line) > 0 && len(line)+len(word)+1 > lineLen {
			lines = append(lines, line)
			line = ""
		}
		if len(line) > 0 {
			line += " "
		}
		line += word
	}
	if len(line) > 0 {
		lines = append(lines, line)
	}

	return lines
}

func rainbow(t float64) *color.RGBA {
	const freq = math.Pi
	r := math.Sin(freq*t)*127 + 128
	g := math.Sin(freq*t+2*math.Pi/3)*127 + 128
	b := math.Sin(freq*t+4*math.Pi/3)*127 + 128

	return &color.RGBA{uint8(r), uint8(g), uint8(b), 0xFF}
}

// Draw writes one frame of the current state.
func (r *Renderer) Draw() {
	buf := bytes.NewBuffer(nil)
	s := r.GetState()

	if s.WinSize.Rows <= statusHeight || s.WinSize.Cols == 0 {
		return
	}

	switch s.Page {
	case ViewPage:
		r.drawVideo(buf, s)
		r.drawStatus(buf, s)

	case ErrorPage:
		r.drawTitle(buf, s, "Something went wrong", s.Error)

	case WaitingPage:
		r.drawTitle(buf, s, "Waiting for device", "Plug in a camera or press q to quit")

	default:
		r.drawBlank(buf, s)
	}

	io.Copy(r.out, buf)
}

func (r *Renderer) loop() {
	defer close(r.done)

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		r.Draw()

		select {
		case <-r.requestFrame:
		case <-ticker.C:
		case <-r.stop:
			return
		}
	}
}

func (r *Renderer) Start() {
	r.start = time.Now()
	r.started = true

	a := term.ANSI{Writer: r.out}
	a.AltScreen()
	a.HideCursor()

	go r.loop()
}

// Stop ends the draw loop and hands the terminal back in a usable state.
// It must be called from the goroutine that called Start.
func (r *Renderer) Stop() {
	r.stopOnce.Do(func() {
		close(r.stop)
		if !r.started {
			return
		}
		<-r.done

		buf := bytes.NewBuffer(nil)
		a := term.ANSI{Writer: buf}

		a.ShowCursor()
		a.Reset()
		a.BackgroundReset()
		a.ForegroundReset()
		a.Normal()
		a.MainScreen()

		io.Copy(r.out, buf)
	})
}
