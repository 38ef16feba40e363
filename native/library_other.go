//go:build !darwin && !freebsd && !linux && !windows

package native

import "github.com/pkg/errors"

var errUnsupported = errors.New("dynamic loading unsupported on this platform")

func open(path string) (uintptr, error) { return 0, errUnsupported }

func lookup(handle uintptr, name string) (uintptr, error) { return 0, errUnsupported }
