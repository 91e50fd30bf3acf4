// Package config resolves scanner options from flags, environment
// variables, and an optional config file via Viper.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/probeworks/aemscan/internal/probe"
)

// Documented defaults, reachable whenever a knob is missing or fails to
// parse. A bad value is never coerced to zero.
const (
	DefaultRate        = 1000
	DefaultConcurrency = 500
	DefaultTimeoutSec  = 5
	DefaultThreads     = 10
)

// Config holds everything a scan run needs.
type Config struct {
	HostsPath   string
	Rate        int
	Concurrency int
	Timeout     time.Duration
	Threads     int
	MetricsAddr string
	Deadline    time.Duration
	Verbose     bool
	Patterns    map[string]string
}

// Load wires environment variables (AEMSCAN_*) and the optional config
// file into v. Flag bindings are the caller's concern. A config file that
// is named but unreadable is an error; no file at all is fine.
func Load(v *viper.Viper, path string) error {
	v.SetEnvPrefix("AEMSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

// Resolve turns raw option values into a validated Config. Numeric knobs
// are parsed from strings so that non-numeric input can fall back to the
// documented default with a visible warning, matching how a missing value
// behaves.
func Resolve(v *viper.Viper, logger *zap.Logger) Config {
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := Config{
		HostsPath:   v.GetString("hosts"),
		MetricsAddr: v.GetString("metrics-addr"),
		Deadline:    v.GetDuration("deadline"),
		Verbose:     v.GetBool("verbose"),
		Patterns:    v.GetStringMapString("patterns"),
	}
	cfg.Rate = positiveInt(v.GetString("rate"), "rate", DefaultRate, logger)
	cfg.Concurrency = positiveInt(v.GetString("concurrency"), "concurrency", DefaultConcurrency, logger)
	cfg.Timeout = time.Duration(positiveInt(v.GetString("timeout"), "timeout", DefaultTimeoutSec, logger)) * time.Second
	cfg.Threads = positiveInt(v.GetString("threads"), "threads", DefaultThreads, logger)

	if len(cfg.Patterns) == 0 {
		cfg.Patterns = probe.DefaultPatternSources()
	}
	return cfg
}

func positiveInt(raw, name string, fallback int, logger *zap.Logger) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		logger.Warn("could not parse option, using default",
			zap.String("option", name),
			zap.String("value", raw),
			zap.Int("default", fallback),
		)
		return fallback
	}
	if n <= 0 {
		logger.Warn("option must be positive, using default",
			zap.String("option", name),
			zap.Int("value", n),
			zap.Int("default", fallback),
		)
		return fallback
	}
	return n
}
