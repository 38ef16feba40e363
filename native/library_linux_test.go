package native_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/dialup-inc/kinect/native"
)

type libc struct {
	Strlen func(s string) uintptr `sym:"strlen"`
}

func TestTableBindsRealLibrary(t *testing.T) {
	lib, err := native.Open("libc.so.6")
	if err != nil {
		t.Skipf("libc not loadable: %v", err)
	}

	tbl, err := native.Table[libc](lib)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, tbl.Strlen("kinect"), test.ShouldEqual, uintptr(6))

	again, err := native.Table[libc](lib)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again, test.ShouldEqual, tbl)

	reopened, err := native.Open("libc.so.6")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, reopened, test.ShouldEqual, lib)
}
