// Package native loads vendor shared libraries at runtime and binds their
// exported entry points into typed Go function tables.
//
// A function table is a struct whose func fields carry a `sym` tag naming
// the C symbol they are bound to:
//
//	type Functions struct {
//		DeviceOpen  func(index uint32, h *uintptr) int32 `sym:"k4a_device_open"`
//		DeviceClose func(h uintptr)                      `sym:"k4a_device_close"`
//	}
//
// Bind resolves every symbol before registering any of them, so a missing
// entry point is reported as a *LoadError rather than a panic. Libraries and
// bound tables are cached by path; resolution happens once per process.
//
// No cgo is required. Calls go through github.com/ebitengine/purego.
package native
