package k4a

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrFailed is returned when a native call reports failure.
	ErrFailed = errors.New("k4a: native call failed")
	// ErrTimedOut is returned when a blocking call's timeout elapsed with no
	// result.
	ErrTimedOut = errors.New("k4a: timed out")
	// ErrEOF is returned by playback reads past either end of a recording.
	ErrEOF = errors.New("k4a: end of stream")
	// ErrSizeProbeFailed is returned when a size probe failed or reported an
	// empty value.
	ErrSizeProbeFailed = errors.New("k4a: buffer size probe failed")
	// ErrMalformedString is returned for a native string without a NUL.
	ErrMalformedString = errors.New("k4a: string is not NUL terminated")
	// ErrInvalidUTF8 is returned for a native string that is not UTF-8.
	ErrInvalidUTF8 = errors.New("k4a: string is not valid UTF-8")
)

// Result is k4a_result_t.
type Result int32

const (
	ResultSucceeded Result = iota
	ResultFailed
)

func (r Result) String() string {
	switch r {
	case ResultSucceeded:
		return "succeeded"
	case ResultFailed:
		return "failed"
	default:
		return fmt.Sprintf("result %d", int32(r))
	}
}

// Err converts r into nil or ErrFailed annotated with op.
func (r Result) Err(op string) error {
	if r == ResultSucceeded {
		return nil
	}
	return errors.Wrap(ErrFailed, op)
}

// BufferResult is k4a_buffer_result_t.
type BufferResult int32

const (
	BufferResultSucceeded BufferResult = iota
	BufferResultFailed
	BufferResultTooSmall
)

func (r BufferResult) String() string {
	switch r {
	case BufferResultSucceeded:
		return "succeeded"
	case BufferResultFailed:
		return "failed"
	case BufferResultTooSmall:
		return "too small"
	default:
		return fmt.Sprintf("buffer result %d", int32(r))
	}
}

// WaitResult is k4a_wait_result_t.
type WaitResult int32

const (
	WaitResultSucceeded WaitResult = iota
	WaitResultFailed
	WaitResultTimeout
)

func (r WaitResult) String() string {
	switch r {
	case WaitResultSucceeded:
		return "succeeded"
	case WaitResultFailed:
		return "failed"
	case WaitResultTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("wait result %d", int32(r))
	}
}

// Err converts r into nil, ErrTimedOut or ErrFailed annotated with op.
func (r WaitResult) Err(op string) error {
	switch r {
	case WaitResultSucceeded:
		return nil
	case WaitResultTimeout:
		return errors.Wrap(ErrTimedOut, op)
	default:
		return errors.Wrap(ErrFailed, op)
	}
}

// StreamResult is k4a_stream_result_t.
type StreamResult int32

const (
	StreamResultSucceeded StreamResult = iota
	StreamResultFailed
	StreamResultEOF
)

func (r StreamResult) String() string {
	switch r {
	case StreamResultSucceeded:
		return "succeeded"
	case StreamResultFailed:
		return "failed"
	case StreamResultEOF:
		return "eof"
	default:
		return fmt.Sprintf("stream result %d", int32(r))
	}
}

// Err converts r into nil, ErrEOF or ErrFailed annotated with op.
func (r StreamResult) Err(op string) error {
	switch r {
	case StreamResultSucceeded:
		return nil
	case StreamResultEOF:
		return errors.Wrap(ErrEOF, op)
	default:
		return errors.Wrap(ErrFailed, op)
	}
}
