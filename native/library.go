package native

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/multierr"
)

// Library is a loaded shared library.
type Library struct {
	path   string
	handle uintptr
}

// Path returns the path the library was loaded from.
func (l *Library) Path() string { return l.path }

// Lookup returns the address of an exported symbol.
func (l *Library) Lookup(name string) (uintptr, error) {
	return lookup(l.handle, name)
}

var (
	libsMu sync.Mutex
	libs   = make(map[string]*Library)
)

// Open loads the first candidate accepted by the platform loader. Loaded
// libraries are cached by path and never unloaded.
func Open(candidates ...string) (*Library, error) {
	libsMu.Lock()
	defer libsMu.Unlock()

	var reasons error
	var tried []string
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if lib, ok := libs[c]; ok {
			return lib, nil
		}
		tried = append(tried, c)

		h, err := open(c)
		if err != nil {
			reasons = multierr.Append(reasons, err)
			continue
		}
		lib := &Library{path: c, handle: h}
		libs[c] = lib
		return lib, nil
	}
	return nil, &LoadError{
		Library: strings.Join(tried, ", "),
		Err:     ErrLibraryNotFound,
		Reason:  reasons,
	}
}

// Option adjusts how Locate searches for a library.
type Option func(*locateOptions)

type locateOptions struct {
	paths []string
}

// WithPath puts path ahead of the environment and default names. It may name
// a file or a directory holding the library.
func WithPath(path string) Option {
	return func(o *locateOptions) {
		if path != "" {
			o.paths = append(o.paths, path)
		}
	}
}

// Locate opens the library called base (without prefix or suffix). Explicit
// paths from opts are tried first, then the directory or file named by the
// env variable, then the platform default names.
func Locate(env, base string, versions []string, opts ...Option) (*Library, error) {
	var o locateOptions
	for _, opt := range opts {
		opt(&o)
	}
	if v := os.Getenv(env); v != "" {
		o.paths = append(o.paths, v)
	}

	names := FileNames(base, versions...)
	var candidates []string
	for _, p := range o.paths {
		if fi, err := os.Stat(p); err == nil && fi.IsDir() {
			for _, n := range names {
				candidates = append(candidates, filepath.Join(p, n))
			}
			continue
		}
		candidates = append(candidates, p)
	}
	candidates = append(candidates, names...)
	return Open(candidates...)
}

// FileNames returns the platform file names for a library, most specific
// version first.
func FileNames(base string, versions ...string) []string {
	switch runtime.GOOS {
	case "windows":
		return []string{base + ".dll"}
	case "darwin":
		names := make([]string, 0, len(versions)+1)
		for _, v := range versions {
			names = append(names, "lib"+base+"."+v+".dylib")
		}
		return append(names, "lib"+base+".dylib")
	default:
		names := make([]string, 0, len(versions)+1)
		for _, v := range versions {
			names = append(names, "lib"+base+".so."+v)
		}
		return append(names, "lib"+base+".so")
	}
}
