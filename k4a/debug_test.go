package k4a

import (
	"testing"

	"go.viam.com/test"
)

type debugMessage struct {
	level   LogLevel
	file    string
	line    int
	message string
}

func cstr(s string) *byte {
	b := append([]byte(s), 0)
	return &b[0]
}

func TestDebugMessageDispatch(t *testing.T) {
	var (
		gotCallback, gotContext uintptr
		gotLevel                LogLevel
		failNext                bool
	)
	api := NewAPI(&Functions{
		SetDebugMessageHandler: func(cb, context uintptr, level LogLevel) Result {
			if failNext {
				return ResultFailed
			}
			gotCallback, gotContext, gotLevel = cb, context, level
			return ResultSucceeded
		},
	})

	var got []debugMessage
	err := api.SetDebugMessageHandler(LogLevelWarning, func(level LogLevel, file string, line int, message string) {
		got = append(got, debugMessage{level, file, line, message})
	})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gotCallback, test.ShouldNotEqual, uintptr(0))
	test.That(t, gotContext, test.ShouldNotEqual, uintptr(0))
	test.That(t, gotLevel, test.ShouldEqual, LogLevelWarning)

	onDebugMessage(gotContext, LogLevelError, cstr("k4a.c"), 12, cstr("depth engine lost"))
	test.That(t, got, test.ShouldResemble, []debugMessage{{LogLevelError, "k4a.c", 12, "depth engine lost"}})

	// a failed replacement keeps the current handler
	first := gotContext
	failNext = true
	test.That(t, api.SetDebugMessageHandler(LogLevelInfo, func(LogLevel, string, int, string) {}), test.ShouldNotBeNil)
	test.That(t, lookup(first), test.ShouldNotBeNil)
	failNext = false

	test.That(t, api.SetDebugMessageHandler(LogLevelOff, nil), test.ShouldBeNil)
	test.That(t, gotCallback, test.ShouldEqual, uintptr(0))
	test.That(t, lookup(first), test.ShouldBeNil)

	// late messages for a removed handler are dropped
	onDebugMessage(first, LogLevelError, cstr("k4a.c"), 13, cstr("ignored"))
	test.That(t, len(got), test.ShouldEqual, 1)
}
