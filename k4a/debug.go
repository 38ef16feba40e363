package k4a

import (
	"sync"

	"github.com/ebitengine/purego"

	"github.com/dialup-inc/kinect/native"
)

// DebugMessageHandler receives the SDK's internal log messages.
type DebugMessageHandler func(level LogLevel, file string, line int, message string)

var (
	mu       sync.Mutex
	index    uintptr
	handlers = make(map[uintptr]DebugMessageHandler)

	trampolineOnce sync.Once
	trampoline     uintptr
)

func onDebugMessage(context uintptr, level LogLevel, file *byte, line int32, message *byte) uintptr {
	fn := lookup(context)
	if fn == nil {
		return 0
	}
	fn(level, native.GoString(file), int(line), native.GoString(message))
	return 0
}

func register(fn DebugMessageHandler) uintptr {
	mu.Lock()
	defer mu.Unlock()
	index++
	for handlers[index] != nil {
		index++
	}
	handlers[index] = fn
	return index
}

func lookup(i uintptr) DebugMessageHandler {
	mu.Lock()
	defer mu.Unlock()
	return handlers[i]
}

func unregister(i uintptr) {
	mu.Lock()
	defer mu.Unlock()
	delete(handlers, i)
}

// SetDebugMessageHandler routes SDK messages at level or more severe to fn.
// The SDK keeps a single handler per process, so this replaces any earlier
// one. A nil fn removes the handler.
func (a *API) SetDebugMessageHandler(level LogLevel, fn DebugMessageHandler) error {
	a.debugMu.Lock()
	defer a.debugMu.Unlock()

	if fn == nil {
		err := a.fn.SetDebugMessageHandler(0, 0, level).Err("k4a_set_debug_message_handler")
		if err == nil && a.debugID != 0 {
			unregister(a.debugID)
			a.debugID = 0
		}
		return err
	}

	trampolineOnce.Do(func() {
		trampoline = purego.NewCallback(onDebugMessage)
	})
	id := register(fn)
	if err := a.fn.SetDebugMessageHandler(trampoline, id, level).Err("k4a_set_debug_message_handler"); err != nil {
		unregister(id)
		return err
	}
	if a.debugID != 0 {
		unregister(a.debugID)
	}
	a.debugID = id
	return nil
}
