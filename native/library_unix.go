//go:build darwin || freebsd || linux

package native

import (
	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
)

func open(path string) (uintptr, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return 0, errors.Wrap(err, path)
	}
	return h, nil
}

func lookup(handle uintptr, name string) (uintptr, error) {
	return purego.Dlsym(handle, name)
}
