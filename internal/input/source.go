// Package input supplies host lists and target normalization for the
// scanner. The pipeline itself never touches files or flags; it only
// consumes the line stream produced here.
package input

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// StdinPath selects standard input as the host source.
const StdinPath = "-"

const maxLineBytes = 1 << 20

// Open resolves the hosts argument into a reader. A path that cannot be
// opened is a fatal input error, reported before any job is dispatched.
func Open(path string) (io.ReadCloser, error) {
	if path == StdinPath {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open hosts file: %w", err)
	}
	return f, nil
}

// Lines streams trimmed, non-empty lines from r until EOF or ctx ends.
// The returned channel is closed when the source is exhausted; the stream
// is finite, single pass, and not restartable.
func Lines(ctx context.Context, r io.Reader) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			select {
			case <-ctx.Done():
				return
			case out <- line:
			}
		}
	}()
	return out
}
