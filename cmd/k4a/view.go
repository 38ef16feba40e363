package main

import (
	"os"

	"github.com/urfave/cli/v2"

	kinect "github.com/dialup-inc/kinect"
)

// ViewAction runs the terminal viewer on the configured device.
func ViewAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	api, err := e.core()
	if err != nil {
		return err
	}

	ctx, stop := signalContext(c)
	defer stop()

	app := kinect.NewApp(api, e.cfg.DeviceIndex, e.cfg.Device, os.Stdout)
	app.Timeout = e.cfg.CaptureTimeout
	// the viewer owns the terminal; logs would tear the picture
	if c.Bool(flagDebug) {
		app.Logger = e.log
	}
	return app.Run(ctx)
}
