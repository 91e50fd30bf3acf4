package input

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// NormalizeTarget canonicalizes a raw host line into scheme://host. Lines
// without a scheme default to http. Path, query, and fragment are dropped:
// the probe only ever requests the root document.
func NormalizeTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.New("empty target")
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse target: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.New("target has no host")
	}
	return u.Scheme + "://" + strings.ToLower(u.Host), nil
}
