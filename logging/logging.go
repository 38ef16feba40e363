// Package logging sets up the zerolog loggers used by the k4a commands and
// forwards the SDK's own log messages into them.
package logging

import (
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dialup-inc/kinect/k4a"
)

// New returns a human readable logger writing to w. level is a zerolog
// level name such as "debug" or "warn"; empty means info.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(level)
		if err != nil {
			return zerolog.Nop(), errors.Wrapf(err, "log level %q", level)
		}
	}
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(lvl).With().Timestamp().Logger(), nil
}

// SDKLevel maps an SDK message severity onto zerolog.
func SDKLevel(l k4a.LogLevel) zerolog.Level {
	switch l {
	case k4a.LogLevelCritical:
		return zerolog.FatalLevel
	case k4a.LogLevelError:
		return zerolog.ErrorLevel
	case k4a.LogLevelWarning:
		return zerolog.WarnLevel
	case k4a.LogLevelInfo:
		return zerolog.InfoLevel
	case k4a.LogLevelTrace:
		return zerolog.TraceLevel
	default:
		return zerolog.NoLevel
	}
}

// DebugHandler logs SDK messages to logger. Critical messages are logged
// at fatal level without exiting.
func DebugHandler(logger zerolog.Logger) k4a.DebugMessageHandler {
	logger = logger.With().Str("component", "sdk").Logger()
	return func(level k4a.LogLevel, file string, line int, message string) {
		logger.WithLevel(SDKLevel(level)).
			Str("file", file).
			Int("line", line).
			Msg(message)
	}
}

// Forward installs DebugHandler on api for messages at level or more
// severe.
func Forward(api *k4a.API, logger zerolog.Logger, level k4a.LogLevel) error {
	return api.SetDebugMessageHandler(level, DebugHandler(logger))
}
