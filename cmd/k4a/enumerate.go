package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// EnumerateAction prints every installed device. A device that cannot be
// opened is reported and skipped.
func EnumerateAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	api, err := e.core()
	if err != nil {
		return err
	}

	w := c.App.Writer
	n := api.InstalledCount()
	fmt.Fprintf(w, "Found %d connected devices:\n", n)

	for i := uint32(0); i < n; i++ {
		dev, err := api.OpenDevice(i)
		if err != nil {
			fmt.Fprintf(w, "%d: failed to open: %v\n", i, err)
			continue
		}

		serial, err := dev.SerialNumber()
		if err != nil {
			fmt.Fprintf(w, "%d: failed to read serial number: %v\n", i, err)
			dev.Close()
			continue
		}
		fmt.Fprintf(w, "%d: Device \"%s\"\n", i, serial)

		if v, err := dev.Version(); err == nil {
			fmt.Fprintf(w, "   RGB %s, depth %s, audio %s, depth sensor %s (%s)\n",
				v.RGB, v.Depth, v.Audio, v.DepthSensor, v.FirmwareBuild)
		}
		if in, out, err := dev.SyncJack(); err == nil {
			fmt.Fprintf(w, "   sync in %t, sync out %t\n", in, out)
		}
		dev.Close()
	}
	return nil
}
