// Package config reads the YAML file shared by the k4a commands.
package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/k4abt"
)

// Libraries holds explicit shared library paths. Empty entries fall back to
// the SDK path environment variables and the platform default names.
type Libraries struct {
	K4A       string `yaml:"k4a"`
	K4ABT     string `yaml:"k4abt"`
	K4ARecord string `yaml:"k4arecord"`
}

// Config is the whole configuration file.
type Config struct {
	Libraries Libraries `yaml:"libraries"`

	DeviceIndex uint32                    `yaml:"device_index"`
	Device      k4a.DeviceConfiguration   `yaml:"device"`
	Tracker     k4abt.TrackerConfiguration `yaml:"tracker"`

	// CaptureTimeout bounds each blocking read.
	CaptureTimeout time.Duration `yaml:"capture_timeout"`
	// Buffer is the capacity of the channels between pumps.
	Buffer int `yaml:"buffer"`
	// MaxFailures ends a capture pump after that many failed reads in a
	// row. 0 retries forever.
	MaxFailures int `yaml:"max_failures"`

	// Listen is the address of the HTTP server started by "k4a serve".
	Listen string `yaml:"listen"`
	// LogLevel is the zerolog level name for the command's own logs.
	LogLevel string `yaml:"log_level"`
	// SDKLogLevel selects which SDK debug messages are forwarded.
	SDKLogLevel k4a.LogLevel `yaml:"sdk_log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Device:         k4a.DefaultDeviceConfiguration,
		Tracker:        k4abt.DefaultTrackerConfiguration,
		CaptureTimeout: time.Second,
		Buffer:         4,
		MaxFailures:    10,
		Listen:         ":8080",
		LogLevel:       "info",
		SDKLogLevel:    k4a.LogLevelWarning,
	}
}

// Load reads path over the defaults, so a file only needs the keys it
// changes.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "reading config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "parsing %s", path)
	}
	return cfg, cfg.Validate()
}

// Validate rejects values no command can run with.
func (c Config) Validate() error {
	if c.CaptureTimeout < 0 && c.CaptureTimeout != k4a.WaitInfinite {
		return errors.Errorf("config: capture_timeout %v is negative", c.CaptureTimeout)
	}
	if c.Buffer < 1 {
		return errors.Errorf("config: buffer must be at least 1, got %d", c.Buffer)
	}
	if c.MaxFailures < 0 {
		return errors.Errorf("config: max_failures must not be negative, got %d", c.MaxFailures)
	}
	if c.Device.ColorResolution == k4a.ColorResolutionOff && c.Device.DepthMode == k4a.DepthModeOff {
		return errors.New("config: both color and depth are off")
	}
	return nil
}

// Marshal renders c as YAML, as written by "k4a config".
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
