// Package writers holds output writers for the CLI.
package writers

import (
	"io"
	"os"
)

// LazyWriteCloser delays initialization until the first write, so a report
// that fails to encode leaves no empty output file behind.
type LazyWriteCloser struct {
	init   func() (io.WriteCloser, error)
	writer io.WriteCloser
}

func NewLazyWriteCloser(init func() (io.WriteCloser, error)) *LazyWriteCloser {
	return &LazyWriteCloser{init: init}
}

// NewLazyFile opens path for writing, truncating it, on the first write.
func NewLazyFile(path string) *LazyWriteCloser {
	return NewLazyWriteCloser(func() (io.WriteCloser, error) {
		return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	})
}

func (w *LazyWriteCloser) Write(p []byte) (int, error) {
	if w.writer == nil {
		var err error
		w.writer, err = w.init()
		if err != nil {
			return 0, err
		}
	}
	return w.writer.Write(p)
}

func (w *LazyWriteCloser) Close() error {
	if w.writer != nil {
		return w.writer.Close()
	}
	return nil
}

// Opened reports whether the underlying writer was created.
func (w *LazyWriteCloser) Opened() bool {
	return w.writer != nil
}
