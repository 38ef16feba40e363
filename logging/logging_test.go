package logging_test

import (
	"bytes"
	"encoding/json"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"go.viam.com/test"

	"github.com/dialup-inc/kinect/k4a"
	"github.com/dialup-inc/kinect/logging"
	"github.com/dialup-inc/kinect/sim"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(&buf, "warn")
	test.That(t, err, test.ShouldBeNil)

	logger.Info().Msg("hidden")
	logger.Warn().Str("serial", "000123192912").Msg("shown")
	test.That(t, buf.String(), test.ShouldNotContainSubstring, "hidden")
	test.That(t, buf.String(), test.ShouldContainSubstring, "shown")
	test.That(t, buf.String(), test.ShouldContainSubstring, "000123192912")

	_, err = logging.New(&buf, "loud")
	test.That(t, err, test.ShouldNotBeNil)

	logger, err = logging.New(&buf, "")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, logger.GetLevel(), test.ShouldEqual, zerolog.InfoLevel)
}

func TestDebugHandler(t *testing.T) {
	var buf bytes.Buffer
	h := logging.DebugHandler(zerolog.New(&buf))

	h(k4a.LogLevelCritical, "dynlib.c", 42, "depth engine lost")

	var entry map[string]interface{}
	test.That(t, json.Unmarshal(buf.Bytes(), &entry), test.ShouldBeNil)
	test.That(t, entry["level"], test.ShouldEqual, "fatal")
	test.That(t, entry["component"], test.ShouldEqual, "sdk")
	test.That(t, entry["file"], test.ShouldEqual, "dynlib.c")
	test.That(t, entry["line"], test.ShouldEqual, 42.0)
	test.That(t, entry["message"], test.ShouldEqual, "depth engine lost")
}

func TestSDKLevel(t *testing.T) {
	for in, want := range map[k4a.LogLevel]zerolog.Level{
		k4a.LogLevelError:   zerolog.ErrorLevel,
		k4a.LogLevelWarning: zerolog.WarnLevel,
		k4a.LogLevelInfo:    zerolog.InfoLevel,
		k4a.LogLevelTrace:   zerolog.TraceLevel,
		k4a.LogLevelOff:     zerolog.NoLevel,
	} {
		test.That(t, logging.SDKLevel(in), test.ShouldEqual, want)
	}
}

func TestForward(t *testing.T) {
	if runtime.GOARCH != "amd64" && runtime.GOARCH != "arm64" {
		t.Skip("callbacks need amd64 or arm64")
	}
	p := sim.New()
	test.That(t, logging.Forward(p.K4A(), zerolog.Nop(), k4a.LogLevelWarning), test.ShouldBeNil)

	callback, _, level := p.DebugHandler()
	test.That(t, callback, test.ShouldNotEqual, 0)
	test.That(t, level, test.ShouldEqual, k4a.LogLevelWarning)

	test.That(t, p.K4A().SetDebugMessageHandler(k4a.LogLevelOff, nil), test.ShouldBeNil)
}
