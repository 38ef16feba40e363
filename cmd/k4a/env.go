package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/dialup-inc/kinect/config"
	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/k4abt"
	"github.com/dialup-inc/kinect/k4arecord"
	"github.com/dialup-inc/kinect/logging"
	"github.com/dialup-inc/kinect/native"
	"github.com/dialup-inc/kinect/sim"
)

var (
	simOnce     sync.Once
	simProvider *sim.Provider
)

// simulated returns the process wide simulated provider, so a recording
// written by one command can be read by the next.
func simulated() *sim.Provider {
	simOnce.Do(func() {
		simProvider = sim.New(
			sim.WithDevices(sim.DefaultDevice()),
			sim.WithBodies(2),
			sim.WithStreaming(),
		)
	})
	return simProvider
}

// env is what every command needs: the configuration, a logger and access
// to the three SDK libraries.
type env struct {
	cfg config.Config
	log zerolog.Logger
	sim bool
}

func newEnv(c *cli.Context) (*env, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return nil, err
		}
	}

	if v := c.String(flagK4ALib); v != "" {
		cfg.Libraries.K4A = v
	}
	if v := c.String(flagK4ABTLib); v != "" {
		cfg.Libraries.K4ABT = v
	}
	if v := c.String(flagK4ARecordLib); v != "" {
		cfg.Libraries.K4ARecord = v
	}
	if c.IsSet(flagDevice) {
		cfg.DeviceIndex = uint32(c.Uint(flagDevice))
	}
	if v := c.String(flagListen); v != "" {
		cfg.Listen = v
	}
	if c.Bool(flagDebug) {
		cfg.LogLevel = "debug"
		cfg.SDKLogLevel = k4a.LogLevelInfo
	}

	logger, err := logging.New(c.App.ErrWriter, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: logger, sim: c.Bool(flagSim)}, nil
}

func (e *env) core() (*k4a.API, error) {
	if e.sim {
		return simulated().K4A(), nil
	}
	api, err := k4a.Load(native.WithPath(e.cfg.Libraries.K4A))
	if err != nil {
		return nil, err
	}
	if err := logging.Forward(api, e.log, e.cfg.SDKLogLevel); err != nil {
		e.log.Warn().Err(err).Msg("SDK messages will not be logged")
	}
	return api, nil
}

func (e *env) tracking() (*k4abt.API, error) {
	if e.sim {
		return simulated().Tracking(), nil
	}
	core, err := e.core()
	if err != nil {
		return nil, err
	}
	return k4abt.Load(core, native.WithPath(e.cfg.Libraries.K4ABT))
}

func (e *env) record() (*k4arecord.API, error) {
	if e.sim {
		return simulated().Record(), nil
	}
	core, err := e.core()
	if err != nil {
		return nil, err
	}
	return k4arecord.Load(core, native.WithPath(e.cfg.Libraries.K4ARecord))
}

// openDevice opens the configured device and starts its cameras. The
// returned func stops and closes it.
func (e *env) openDevice() (*k4a.Device, func(), error) {
	api, err := e.core()
	if err != nil {
		return nil, nil, err
	}
	dev, err := api.OpenDevice(e.cfg.DeviceIndex)
	if err != nil {
		return nil, nil, err
	}
	if err := dev.StartCameras(e.cfg.Device); err != nil {
		dev.Close()
		return nil, nil, err
	}
	return dev, func() {
		dev.StopCameras()
		dev.Close()
	}, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}
