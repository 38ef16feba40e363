package k4a

import (
	"bytes"
	"unicode/utf8"

	"github.com/pkg/errors"
)

// FillFunc is a native call using the size-probe convention: called with a
// nil buffer it stores the required size; called with a large enough buffer
// it fills it.
type FillFunc func(buf *byte, size *uintptr) BufferResult

// FetchBytes reads a variable length value with two calls to fill. Nothing
// is cached; every call probes again.
func FetchBytes(fill FillFunc) ([]byte, error) {
	var size uintptr
	if res := fill(nil, &size); res == BufferResultFailed || size == 0 {
		return nil, ErrSizeProbeFailed
	}

	buf := make([]byte, size)
	n := size
	if res := fill(&buf[0], &n); res != BufferResultSucceeded {
		return nil, errors.Wrapf(ErrFailed, "fill returned %v", res)
	}
	if n < size {
		buf = buf[:n]
	}
	return buf, nil
}

// FetchString reads a NUL terminated string with FetchBytes. Bytes after the
// first NUL are ignored.
func FetchString(fill FillFunc) (string, error) {
	b, err := FetchBytes(fill)
	if err != nil {
		return "", err
	}
	i := bytes.IndexByte(b, 0)
	if i < 0 {
		return "", ErrMalformedString
	}
	b = b[:i]
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}
