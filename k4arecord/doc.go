// Package k4arecord wraps the recording SDK: Recording writes device
// streams to a file and Playback reads them back.
package k4arecord
