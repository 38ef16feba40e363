// Package k4abt wraps the body tracking SDK. A Tracker consumes captures
// from the core SDK and produces Frames holding the bodies found in them.
package k4abt
