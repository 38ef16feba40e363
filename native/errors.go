package native

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrLibraryNotFound is returned when none of the candidate paths could
	// be loaded.
	ErrLibraryNotFound = errors.New("library not found")
	// ErrSymbolMissing is returned when a required entry point is not
	// exported by a loaded library.
	ErrSymbolMissing = errors.New("symbol missing")
)

// LoadError describes a failure to load a library or resolve one of its
// symbols. It unwraps to ErrLibraryNotFound or ErrSymbolMissing.
type LoadError struct {
	Library string
	Symbol  string
	Err     error
	// Reason carries the platform loader's own message, if any.
	Reason error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("native: %s", e.Library)
	if e.Symbol != "" {
		msg += ": " + e.Symbol
	}
	msg += ": " + e.Err.Error()
	if e.Reason != nil {
		msg += " (" + e.Reason.Error() + ")"
	}
	return msg
}

func (e *LoadError) Unwrap() error { return e.Err }

// Cause lets github.com/pkg/errors.Cause reach the sentinel.
func (e *LoadError) Cause() error { return e.Err }
