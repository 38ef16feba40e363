package term

import (
	"bufio"
	"io"
	"os"
)

// CaptureStdin switches stdin to raw mode and calls onRune for every key
// from a background goroutine. The returned func restores the terminal.
func CaptureStdin(onRune func(rune)) (restore func() error, err error) {
	restore, err = makeRaw(int(os.Stdin.Fd()))
	if err != nil {
		return nil, err
	}

	go ReadRunes(os.Stdin, onRune)

	return restore, nil
}

// ReadRunes calls onRune for each rune read from r until r fails or is
// exhausted.
func ReadRunes(r io.Reader, onRune func(rune)) {
	reader := bufio.NewReader(r)
	for {
		c, _, err := reader.ReadRune()
		if err != nil {
			return
		}
		onRune(c)
	}
}
