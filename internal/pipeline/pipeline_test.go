package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/probeworks/aemscan/internal/probe"
	"github.com/probeworks/aemscan/internal/sink"
)

func compile(t *testing.T) *probe.PatternSet {
	t.Helper()
	ps, err := probe.CompilePatterns(probe.DefaultPatternSources())
	require.NoError(t, err)
	return ps
}

func feed(lines ...string) <-chan string {
	ch := make(chan string, len(lines))
	for _, l := range lines {
		ch <- l
	}
	close(ch)
	return ch
}

func newBodyServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestPipelineMatchesExpectedTargets(t *testing.T) {
	t.Parallel()

	matching := newBodyServer(t, `<html><a href="/content/dam/foo"></a></html>`)
	clientlibs := newBodyServer(t, `<link href="/etc.clientlibs/site/main.css">`)
	plain := newBodyServer(t, `<html>nothing of note</html>`)

	results := sink.NewChannelSink(64, zap.NewNop())
	p := New(Config{
		Concurrency: 4,
		Rate:        1000,
		Timeout:     2 * time.Second,
	}, compile(t), results, zap.NewNop())

	err := p.Run(context.Background(), feed(
		matching.URL,
		clientlibs.URL,
		plain.URL,
		"not a url at all ://",
	))
	require.NoError(t, err)

	var matched []string
	for r := range results.Results() {
		matched = append(matched, r.Target)
	}
	sort.Strings(matched)

	want := []string{matching.URL, clientlibs.URL}
	sort.Strings(want)
	require.Equal(t, want, matched)
}

func TestPipelineToleratesUnreachableTargets(t *testing.T) {
	t.Parallel()

	dead := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	deadURL := dead.URL
	dead.Close()

	alive := newBodyServer(t, `href="/content/dam/x"`)

	results := sink.NewChannelSink(64, zap.NewNop())
	p := New(Config{
		Concurrency: 2,
		Rate:        1000,
		Timeout:     time.Second,
	}, compile(t), results, zap.NewNop())

	require.NoError(t, p.Run(context.Background(), feed(deadURL, alive.URL)))

	var matched []string
	for r := range results.Results() {
		matched = append(matched, r.Target)
	}
	require.Equal(t, []string{alive.URL}, matched)
}

func TestPipelineIsRepeatable(t *testing.T) {
	t.Parallel()

	srv := newBodyServer(t, `<a href="/content/dam/asset.png">x</a>`)

	run := func() []string {
		results := sink.NewChannelSink(16, zap.NewNop())
		p := New(Config{Concurrency: 3, Rate: 1000, Timeout: time.Second}, compile(t), results, zap.NewNop())
		require.NoError(t, p.Run(context.Background(), feed(srv.URL)))
		var matched []string
		for r := range results.Results() {
			matched = append(matched, r.Target)
		}
		return matched
	}

	first := run()
	second := run()
	require.Equal(t, first, second)
	require.Equal(t, []string{srv.URL}, first)
}

func TestPipelineStopsOnCancel(t *testing.T) {
	t.Parallel()

	stall := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	t.Cleanup(stall.Close)

	results := sink.NewChannelSink(16, zap.NewNop())
	p := New(Config{Concurrency: 1, Rate: 1000, Timeout: 30 * time.Second}, compile(t), results, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx, feed(stall.URL)) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err, "cancellation is a normal early stop")
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not stop after cancel")
	}
}
