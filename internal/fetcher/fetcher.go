// Package fetcher implements the HTTP client used by scan workers.
package fetcher

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultUserAgent mimics a desktop browser; probe targets frequently
// reject unrecognized agents.
const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:95.0) Gecko/20100101 Firefox/95.0"

const (
	// maxRedirects caps redirect chains to protect against loops.
	maxRedirects = 10
	// maxBodyBytes caps how much of a response body is read for matching.
	maxBodyBytes = 5 << 20

	defaultTimeout = 5 * time.Second
)

// Config controls client behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Client issues single GET requests against probe targets. Certificate and
// hostname verification are disabled on purpose: misconfigured TLS is
// common on the hosts this tool exists to find. The insecure transport is
// confined to this client and must never be reused for anything that
// handles trusted data.
type Client struct {
	cfg  Config
	http *http.Client
}

// New builds a Client. Each worker owns its own instance, so connection
// pools are never contended across workers; the transport is kept small to
// keep a large pool of clients cheap.
func New(cfg Config) *Client {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true, // #nosec G402 -- reconnaissance client, see type doc
		},
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	}

	return &Client{
		cfg: cfg,
		http: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
			CheckRedirect: func(_ *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
}

// Fetch issues one GET against the target and returns up to maxBodyBytes
// of the response body.
func (c *Client) Fetch(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}
