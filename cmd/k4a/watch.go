package main

import (
	"context"
	"encoding/json"
	"fmt"
	"image/color"
	"io"
	"math"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/dialup-inc/kinect/term"
)

var (
	green = color.RGBA{0x00, 0xff, 0x00, 0xff}
	blue  = color.RGBA{0x00, 0x00, 0xff, 0xff}
)

type wsMsg struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type watchedFrame struct {
	Seq    uint64 `json:"seq"`
	Bodies []struct {
		ID uint32 `json:"id"`
	} `json:"bodies"`
}

type watchResult struct {
	Frames int
	Bodies int
	Gaps   []float64
	Err    error
}

// WatchAction connects clients to a running serve command and summarizes
// what they received.
func WatchAction(c *cli.Context) error {
	clients := c.Int(flagClients)
	if clients < 1 {
		return errors.New("need at least one client")
	}
	ctx, stop := signalContext(c)
	defer stop()
	if d := c.Duration(flagDuration); d > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}

	url := c.String(flagURL)
	results := make([]watchResult, clients)
	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = watchOnce(ctx, url)
		}(i)
	}
	wg.Wait()

	summarize(c.App.Writer, url, results)
	for _, r := range results {
		if r.Err == nil {
			return nil
		}
	}
	return errors.Wrap(results[0].Err, "no client finished cleanly")
}

// watchOnce reads frames from url until ctx is done. Running out the
// context is a clean finish.
func watchOnce(ctx context.Context, url string) watchResult {
	var res watchResult

	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		res.Err = err
		return res
	}
	defer func() {
		deadline := time.Now().Add(100 * time.Millisecond)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		ws.WriteControl(websocket.CloseMessage, msg, deadline)

		ws.Close()
	}()

	stop := context.AfterFunc(ctx, func() { ws.SetReadDeadline(time.Now()) })
	defer stop()

	var last time.Time
	greeted := false
	for {
		var msg wsMsg
		if err := ws.ReadJSON(&msg); err != nil {
			if ctx.Err() == nil {
				res.Err = err
			}
			return res
		}

		switch msg.Type {
		case "hello":
			greeted = true

		case "bodies":
			if !greeted {
				res.Err = errors.New("bodies before hello")
				return res
			}
			var f watchedFrame
			if err := json.Unmarshal(msg.Payload, &f); err != nil {
				res.Err = errors.Wrap(err, "decoding body frame")
				return res
			}
			now := time.Now()
			if !last.IsZero() {
				res.Gaps = append(res.Gaps, float64(now.Sub(last)))
			}
			last = now
			res.Frames++
			res.Bodies += len(f.Bodies)

		default:
			res.Err = errors.Errorf("unknown message type %q", msg.Type)
			return res
		}
	}
}

func summarize(w io.Writer, url string, results []watchResult) {
	ansiOut := term.ANSI{Writer: w}
	title := func(s string, c color.Color) {
		ansiOut.Bold()
		ansiOut.Foreground(c)
		fmt.Fprintln(w, s)
		ansiOut.ForegroundReset()
		ansiOut.Normal()
	}

	var frames, bodies int
	var gaps []float64
	var errs []error
	for _, r := range results {
		frames += r.Frames
		bodies += r.Bodies
		gaps = append(gaps, r.Gaps...)
		errs = append(errs, r.Err)
	}

	title("Watched "+url, green)
	fmt.Fprintln(w, "")

	title("Clients:", blue)
	fmt.Fprintln(w, "Connected = ", len(results))
	fmt.Fprintln(w, "Frames    = ", frames)
	fmt.Fprintln(w, "Bodies    = ", bodies)
	fmt.Fprintln(w, "")

	if len(gaps) > 0 {
		title("Frame gap:", blue)
		fmt.Fprintln(w, "median = ", time.Duration(percentile(gaps, 0.5)))
		fmt.Fprintln(w, "95%    = ", time.Duration(percentile(gaps, 0.95)))
		fmt.Fprintln(w, "")
	}

	var errRate float64
	for _, e := range errs {
		if e != nil {
			errRate++
		}
	}
	errRate /= float64(len(errs))

	title("Errors:", blue)
	fmt.Fprintf(w, "rate = %.02f%%\n", errRate*100)
	for _, e := range topErrs(errs) {
		if e.Err == nil {
			continue
		}
		fmt.Fprintf(w, "%d  | %v\n", e.Count, e.Err)
	}
}

type errCount struct {
	Err   error
	Count int
}

// topErrs groups errs by message, most frequent first.
func topErrs(errs []error) []errCount {
	counts := map[string]errCount{}

	for _, e := range errs {
		msg := "<nil>"
		if ne, ok := e.(net.Error); ok && ne.Timeout() {
			msg = "i/o timeout" // the address makes every one unique
		} else if e != nil {
			msg = e.Error()
		}

		c, exist := counts[msg]
		if !exist {
			c.Err = e
		}
		c.Count++
		counts[msg] = c
	}

	slice := make([]errCount, 0, len(counts))
	for _, c := range counts {
		slice = append(slice, c)
	}
	sort.Slice(slice, func(i, j int) bool {
		if slice[i].Count != slice[j].Count {
			return slice[i].Count > slice[j].Count
		}
		return fmt.Sprint(slice[i].Err) < fmt.Sprint(slice[j].Err)
	})
	return slice
}

func percentile(xs []float64, perc float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}

	size := float64(len(xs))
	sort.Float64s(xs)

	i := perc * size
	switch {
	case i < 1.0:
		return xs[0]
	case i >= size:
		return xs[len(xs)-1]
	default:
		frac := i - math.Floor(i)
		a := xs[int(i)-1]
		b := xs[int(i)]
		return a + frac*(b-a)
	}
}
