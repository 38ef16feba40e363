package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/dialup-inc/kinect/k4arecord"
)

// Tags written by the recorder that are worth showing.
var defaultTags = []string{"K4A_DEVICE_SERIAL_NUMBER", "K4A_COLOR_FIRMWARE_VERSION", "K4A_DEPTH_FIRMWARE_VERSION", "K4A_TOOL"}

// InfoAction describes a recording: its length, configuration, tracks and
// tags.
func InfoAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("info needs exactly one recording")
	}
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	rec, err := e.record()
	if err != nil {
		return err
	}
	p, err := rec.Open(c.Args().First())
	if err != nil {
		return err
	}
	defer p.Close()

	return describe(c.App.Writer, p, append(defaultTags, c.StringSlice(flagTag)...))
}

func describe(out io.Writer, p *k4arecord.Playback, tags []string) error {
	cfg, err := p.RecordConfiguration()
	if err != nil {
		return err
	}
	tracks, err := p.Tracks()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Length:\t%v\n", p.Length())
	fmt.Fprintf(w, "Start offset:\t%dus\n", cfg.StartTimestampOffsetUsec)
	if cfg.ColorTrackEnabled {
		fmt.Fprintf(w, "Color:\t%s %s\n", cfg.ColorFormat, cfg.ColorResolution)
	} else {
		fmt.Fprintf(w, "Color:\tdisabled\n")
	}
	if cfg.DepthTrackEnabled || cfg.IRTrackEnabled {
		fmt.Fprintf(w, "Depth:\t%s (depth %t, IR %t)\n", cfg.DepthMode, cfg.DepthTrackEnabled, cfg.IRTrackEnabled)
	} else {
		fmt.Fprintf(w, "Depth:\tdisabled\n")
	}
	fmt.Fprintf(w, "Frame rate:\t%s fps\n", cfg.CameraFPS)
	fmt.Fprintf(w, "IMU:\t%t\n", cfg.IMUTrackEnabled)
	fmt.Fprintf(w, "Sync mode:\t%s\n", cfg.WiredSyncMode)

	fmt.Fprintf(w, "\nTracks:\n")
	for _, t := range tracks {
		codec, err := t.CodecID()
		if err != nil {
			codec = "?"
		}
		kind := "custom"
		if t.IsBuiltin() {
			kind = "builtin"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\n", t.Name, kind, codec)
	}

	fmt.Fprintf(w, "\nTags:\n")
	for _, name := range tags {
		v, err := p.Tag(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(w, "  %s\t%s\n", name, v)
	}
	return w.Flush()
}
