package fetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestClientSendsBrowserUserAgent(t *testing.T) {
	t.Parallel()

	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		fmt.Fprint(w, "hello")
	}))
	defer srv.Close()

	c := New(Config{})
	body, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "hello", string(body))
	require.Equal(t, DefaultUserAgent, gotUA)
}

func TestClientAcceptsSelfSignedCertificates(t *testing.T) {
	t.Parallel()

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "tls ok")
	}))
	defer srv.Close()

	c := New(Config{})
	body, err := c.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "tls ok", string(body))
}

func TestClientFollowsRedirectsUpToCap(t *testing.T) {
	t.Parallel()

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Redirect forever; the client must give up at the cap instead
		// of looping.
		http.Redirect(w, r, srv.URL+r.URL.Path+"x", http.StatusFound)
	}))
	defer srv.Close()

	c := New(Config{})
	_, err := c.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "stopped after 10 redirects")
}

func TestClientTimesOutSlowTargets(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		fmt.Fprint(w, "too late")
	}))
	defer srv.Close()
	defer close(release)

	c := New(Config{Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := c.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	require.Less(t, time.Since(start), 2*time.Second)
}

func TestClientRejectsUnreachableTarget(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	target := srv.URL
	srv.Close() // connection refused from here on

	c := New(Config{Timeout: time.Second})
	_, err := c.Fetch(context.Background(), target)
	require.Error(t, err)
}
