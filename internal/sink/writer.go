// Package sink provides result consumers for the scan pipeline.
package sink

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/probeworks/aemscan/internal/probe"
)

// WriterSink prints each matched target on its own line. It is the
// operator-facing output of a run: target string only, nothing else, so
// the stream pipes cleanly into other tools.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink wires an io.Writer (normally os.Stdout) to the sink
// interface.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Accept writes the matched target as a single line.
func (s *WriterSink) Accept(_ context.Context, result probe.JobResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.w, result.Target); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

// Close implements the Sink interface; it performs no action.
func (s *WriterSink) Close(context.Context) error {
	return nil
}
