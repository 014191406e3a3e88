// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"
)

type flusher interface{ Flush() }

type errFlusher interface{ Flush() error }

// sectionWriter pushes every write through to the caller immediately,
// flushing writers that buffer.
type sectionWriter struct {
	w io.Writer
}

func (s *sectionWriter) write(text string) error {
	if _, err := io.WriteString(s.w, text); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	switch f := s.w.(type) {
	case flusher:
		f.Flush()
	case errFlusher:
		if err := f.Flush(); err != nil {
			return fmt.Errorf("flushing output: %w", err)
		}
	}
	return nil
}

func (s *sectionWriter) printf(format string, args ...any) error {
	return s.write(fmt.Sprintf(format, args...))
}
