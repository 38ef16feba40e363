// Package stream moves captures and body frames between goroutines.
//
// The k4a packages never start goroutines of their own; blocking reads
// block their caller. A CapturePump owns the goroutine that reads a device
// or a playback and hands captures to consumers over a channel, and a
// BodyPump feeds those captures through a tracker and emits plain
// BodyFrame values that can be sent anywhere.
package stream
