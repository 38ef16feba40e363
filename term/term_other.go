//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package term

import "github.com/pkg/errors"

var errUnsupported = errors.New("term: raw terminal not supported on this platform")

func GetWinSize() (WinSize, error) {
	return WinSize{}, errUnsupported
}

func makeRaw(fd int) (func() error, error) {
	return nil, errUnsupported
}
