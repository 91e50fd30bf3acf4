package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/probeworks/aemscan/internal/config"
	"github.com/probeworks/aemscan/internal/input"
	"github.com/probeworks/aemscan/internal/logging"
	"github.com/probeworks/aemscan/internal/metrics"
	"github.com/probeworks/aemscan/internal/pipeline"
	"github.com/probeworks/aemscan/internal/probe"
	"github.com/probeworks/aemscan/internal/sink"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "aemscan",
		Short: "Fast concurrent AEM detection probe",
		Long: `aemscan reads a list of hosts, issues rate-limited HTTP requests
against each through a fixed worker pool, and prints every host whose
response body matches one of the configured detection patterns.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd, v, cfgFile)
		},
	}

	flags := cmd.Flags()
	flags.StringP("hosts", "u", "", `file with hosts to test, or "-" for stdin`)
	flags.StringP("rate", "r", strconv.Itoa(config.DefaultRate), "maximum admitted requests per second")
	flags.StringP("concurrency", "c", strconv.Itoa(config.DefaultConcurrency), "worker pool size")
	flags.StringP("timeout", "t", strconv.Itoa(config.DefaultTimeoutSec), "per-request timeout in seconds")
	flags.StringP("threads", "w", strconv.Itoa(config.DefaultThreads), "scheduler threads (GOMAXPROCS)")
	flags.String("metrics-addr", "", "serve Prometheus metrics on this address (disabled when empty)")
	flags.Duration("deadline", 0, "overall run deadline (0 disables)")
	flags.Bool("verbose", false, "development logging")
	flags.StringVar(&cfgFile, "config", "", "config file path")
	_ = cmd.MarkFlagRequired("hosts")
	_ = v.BindPFlags(flags)

	return cmd
}

func runScan(cmd *cobra.Command, v *viper.Viper, cfgFile string) error {
	if err := config.Load(v, cfgFile); err != nil {
		return err
	}

	logger, err := logging.New(v.GetBool("verbose"))
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Resolve(v, logger)

	// An invalid pattern is a programming/configuration error; fail here,
	// never mid-run inside a worker.
	patterns, err := probe.CompilePatterns(cfg.Patterns)
	if err != nil {
		return fmt.Errorf("validate patterns: %w", err)
	}

	src, err := input.Open(cfg.HostsPath)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	if cfg.Threads > 0 {
		runtime.GOMAXPROCS(cfg.Threads)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Deadline)
		defer cancel()
	}

	if cfg.MetricsAddr != "" {
		srv := metrics.NewServer(cfg.MetricsAddr)
		go func() {
			if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				logger.Warn("metrics server failed", zap.Error(serveErr))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	out := sink.NewWriterSink(os.Stdout)
	var results probe.Sink = out
	if cfg.Verbose {
		results = sink.Multi{out, sink.NewLogSink(logger.Named("results"))}
	}

	p := pipeline.New(pipeline.Config{
		Concurrency: cfg.Concurrency,
		Rate:        cfg.Rate,
		Timeout:     cfg.Timeout,
	}, patterns, results, logger)

	if err := p.Run(ctx, input.Lines(ctx, src)); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	return nil
}
