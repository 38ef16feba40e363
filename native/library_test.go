package native_test

import (
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/dialup-inc/kinect/native"
)

func TestOpenNotFound(t *testing.T) {
	_, err := native.Open("", "libdoes-not-exist-k4a.so.9")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, errors.Is(err, native.ErrLibraryNotFound), test.ShouldBeTrue)
	test.That(t, err.Error(), test.ShouldContainSubstring, "libdoes-not-exist-k4a.so.9")

	_, err = native.Open()
	test.That(t, errors.Is(err, native.ErrLibraryNotFound), test.ShouldBeTrue)
}

func TestLocateSearchesDirectoryFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("KINECT_TEST_SDK_PATH", dir)

	_, err := native.Locate("KINECT_TEST_SDK_PATH", "nosuchsdk", []string{"1.4"})
	test.That(t, errors.Is(err, native.ErrLibraryNotFound), test.ShouldBeTrue)

	var le *native.LoadError
	test.That(t, errors.As(err, &le), test.ShouldBeTrue)
	first := native.FileNames("nosuchsdk", "1.4")[0]
	test.That(t, le.Library, test.ShouldContainSubstring, filepath.Join(dir, first))
}

func TestLocatePrefersExplicitPath(t *testing.T) {
	_, err := native.Locate("", "nosuchsdk", nil, native.WithPath("/opt/explicit/libnosuchsdk.so"))
	var le *native.LoadError
	test.That(t, errors.As(err, &le), test.ShouldBeTrue)
	test.That(t, le.Library, test.ShouldStartWith, "/opt/explicit/libnosuchsdk.so")
}

func TestFileNames(t *testing.T) {
	names := native.FileNames("k4a", "1.4")
	switch runtime.GOOS {
	case "windows":
		test.That(t, names, test.ShouldResemble, []string{"k4a.dll"})
	case "darwin":
		test.That(t, names, test.ShouldResemble, []string{"libk4a.1.4.dylib", "libk4a.dylib"})
	default:
		test.That(t, names, test.ShouldResemble, []string{"libk4a.so.1.4", "libk4a.so"})
	}
}

func TestHandleTakeOnce(t *testing.T) {
	h := native.NewHandle(42)
	test.That(t, h.Load(), test.ShouldEqual, uintptr(42))

	var wg sync.WaitGroup
	got := make(chan uintptr, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got <- h.Take()
		}()
	}
	wg.Wait()
	close(got)

	taken := 0
	for v := range got {
		if v != 0 {
			taken++
			test.That(t, v, test.ShouldEqual, uintptr(42))
		}
	}
	test.That(t, taken, test.ShouldEqual, 1)
	test.That(t, h.Load(), test.ShouldEqual, uintptr(0))
}

func TestGoString(t *testing.T) {
	b := []byte("serial\x00junk")
	test.That(t, native.GoString(&b[0]), test.ShouldEqual, "serial")
	test.That(t, native.GoString(nil), test.ShouldEqual, "")
}
