package native

import (
	"reflect"
	"strings"
	"sync"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
)

// Resolver finds exported symbols. *Library implements it.
type Resolver interface {
	Lookup(name string) (uintptr, error)
}

type binding struct {
	field reflect.Value
	addr  uintptr
}

// Bind fills every `sym`-tagged func field of the struct table points to.
// A tag of the form `sym:"name,optional"` leaves the field nil when the
// symbol is absent; any other missing symbol fails the whole bind and leaves
// table untouched.
func Bind(r Resolver, table interface{}) error {
	v := reflect.ValueOf(table)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return errors.Errorf("native: Bind needs a pointer to a struct, got %T", table)
	}
	v = v.Elem()
	t := v.Type()

	var pending []binding
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup("sym")
		if !ok {
			continue
		}
		if f.Type.Kind() != reflect.Func {
			return errors.Errorf("native: field %s tagged %q is not a func", f.Name, tag)
		}
		if f.PkgPath != "" {
			return errors.Errorf("native: field %s must be exported", f.Name)
		}
		name, optional := parseTag(tag)

		addr, err := r.Lookup(name)
		if err != nil || addr == 0 {
			if optional {
				continue
			}
			return &LoadError{Library: resolverName(r), Symbol: name, Err: ErrSymbolMissing, Reason: err}
		}
		pending = append(pending, binding{field: v.Field(i), addr: addr})
	}

	for _, b := range pending {
		purego.RegisterFunc(b.field.Addr().Interface(), b.addr)
	}
	return nil
}

func parseTag(tag string) (name string, optional bool) {
	parts := strings.Split(tag, ",")
	for _, p := range parts[1:] {
		if p == "optional" {
			optional = true
		}
	}
	return parts[0], optional
}

func resolverName(r Resolver) string {
	if l, ok := r.(*Library); ok {
		return l.path
	}
	return reflect.TypeOf(r).String()
}

type tableKey struct {
	path string
	typ  reflect.Type
}

var (
	tablesMu sync.Mutex
	tables   = make(map[tableKey]interface{})
)

// Table binds a function table of type T against lib once and returns the
// same pointer on every later call for that library.
func Table[T any](lib *Library) (*T, error) {
	tablesMu.Lock()
	defer tablesMu.Unlock()

	key := tableKey{path: lib.path, typ: reflect.TypeOf((*T)(nil)).Elem()}
	if t, ok := tables[key]; ok {
		return t.(*T), nil
	}
	t := new(T)
	if err := Bind(lib, t); err != nil {
		return nil, err
	}
	tables[key] = t
	return t, nil
}
