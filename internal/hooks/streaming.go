package hooks

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// PrefixWriter writes complete lines to target, each preceded by prefix.
// A trailing partial line is held until Flush.
type PrefixWriter struct {
	prefix string
	target io.Writer
	buf    bytes.Buffer
}

func NewPrefixWriter(prefix string, target io.Writer) *PrefixWriter {
	return &PrefixWriter{prefix: prefix, target: target}
}

func (w *PrefixWriter) Write(p []byte) (n int, err error) {
	n, _ = w.buf.Write(p)

	for {
		idx := bytes.IndexByte(w.buf.Bytes(), '\n')
		if idx < 0 {
			return n, nil
		}
		line := w.buf.Next(idx + 1)
		if _, err := fmt.Fprintf(w.target, "%s %s", w.prefix, line); err != nil {
			return n, err
		}
	}
}

// Flush writes any buffered partial line, terminated with a newline.
func (w *PrefixWriter) Flush() error {
	if w.buf.Len() == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w.target, "%s %s\n", w.prefix, w.buf.String())
	w.buf.Reset()
	return err
}

// syncWriter serializes writes from the stdout and stderr copiers.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
