package native_test

import (
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/dialup-inc/kinect/native"
)

type fakeResolver map[string]uintptr

func (f fakeResolver) Lookup(name string) (uintptr, error) {
	if addr, ok := f[name]; ok {
		return addr, nil
	}
	return 0, errors.Errorf("undefined symbol: %s", name)
}

type table struct {
	Open    func(index uint32, h *uintptr) int32 `sym:"dev_open"`
	Close   func(h uintptr)                      `sym:"dev_close"`
	Extra   func() uint32                        `sym:"dev_extra,optional"`
}

func TestBindResolvesEverySymbol(t *testing.T) {
	var tbl table
	err := native.Bind(fakeResolver{"dev_open": 1, "dev_close": 2, "dev_extra": 3}, &tbl)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tbl.Open, test.ShouldNotBeNil)
	test.That(t, tbl.Close, test.ShouldNotBeNil)
	test.That(t, tbl.Extra, test.ShouldNotBeNil)
}

func TestBindMissingSymbol(t *testing.T) {
	var tbl table
	err := native.Bind(fakeResolver{"dev_open": 1}, &tbl)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, native.ErrSymbolMissing), test.ShouldBeTrue)

	var le *native.LoadError
	test.That(t, errors.As(err, &le), test.ShouldBeTrue)
	test.That(t, le.Symbol, test.ShouldEqual, "dev_close")
	test.That(t, err.Error(), test.ShouldContainSubstring, "dev_close")

	// nothing is registered when any required symbol is missing
	test.That(t, tbl.Open, test.ShouldBeNil)
}

func TestBindSkipsOptional(t *testing.T) {
	var tbl table
	err := native.Bind(fakeResolver{"dev_open": 1, "dev_close": 2}, &tbl)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tbl.Extra, test.ShouldBeNil)
	test.That(t, tbl.Close, test.ShouldNotBeNil)
}

func TestBindRejectsNonStruct(t *testing.T) {
	var tbl table
	test.That(t, native.Bind(fakeResolver{}, tbl), test.ShouldNotBeNil)

	n := 3
	test.That(t, native.Bind(fakeResolver{}, &n), test.ShouldNotBeNil)

	type badField struct {
		Count int `sym:"count"`
	}
	test.That(t, native.Bind(fakeResolver{"count": 1}, &badField{}), test.ShouldNotBeNil)
}
