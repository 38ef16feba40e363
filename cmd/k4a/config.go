package main

import (
	"github.com/urfave/cli/v2"
)

// ConfigAction prints the configuration after the file and flags are
// applied, as a starting point for a config file.
func ConfigAction(c *cli.Context) error {
	e, err := newEnv(c)
	if err != nil {
		return err
	}
	out, err := e.cfg.Marshal()
	if err != nil {
		return err
	}
	_, err = c.App.Writer.Write(out)
	return err
}
