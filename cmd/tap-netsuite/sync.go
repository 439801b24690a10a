package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/tap-netsuite/internal/runner"
	"github.com/ajitpratap0/tap-netsuite/pkg/compression"
	"github.com/ajitpratap0/tap-netsuite/pkg/errors"
	"github.com/ajitpratap0/tap-netsuite/pkg/metrics"
	"github.com/ajitpratap0/tap-netsuite/pkg/singer"
)

type syncFlags struct {
	statePath   string
	outputPath  string
	compression string
	streams     []string
	metricsAddr string
	timeout     time.Duration
}

func newSyncCommand(a *app) *cobra.Command {
	f := &syncFlags{}
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Extract the selected streams",
		Long: `Extract the selected streams and write Singer messages to stdout, or to
--output. A .gz, .zst, .lz4, .s2 or .sz suffix on --output compresses it.

Example:
  tap-netsuite sync --config netsuite.yaml --state state.json --streams Invoice,Customer`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(true); err != nil {
				return err
			}
			defer a.close()
			return a.sync(cmd.Context(), f, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&f.statePath, "state", "s", "", "Path to a state file to resume from")
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "", "Write messages to this file instead of stdout")
	cmd.Flags().StringVar(&f.compression, "compression", "", "Output compression (gzip, zstd, lz4, s2, snappy); defaults to the --output suffix")
	cmd.Flags().StringSliceVar(&f.streams, "streams", nil, "Streams to sync; overrides the config")
	cmd.Flags().StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 0, "Abort the sync after this long (0 disables)")
	return cmd
}

func (a *app) sync(ctx context.Context, f *syncFlags, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	state, err := singer.LoadState(f.statePath)
	if err != nil {
		return err
	}
	start, err := a.cfg.StartTime()
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeConfig, "invalid start date")
	}

	out, err := openOutput(f, stdout)
	if err != nil {
		return err
	}
	w := singer.NewWriter(out, a.cfg.Performance.BufferSize)

	collector := metrics.Default()
	addr := f.metricsAddr
	if addr == "" && a.cfg.Observability.EnableMetrics {
		addr = a.cfg.Observability.MetricsAddr
	}
	if addr != "" {
		srv := serveMetrics(addr, a.log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	streams := a.cfg.Streams
	if len(f.streams) > 0 {
		streams = f.streams
	}

	r := runner.New(a.opener(collector), credentials(a.cfg), runner.Config{
		Streams:        streams,
		MaxConcurrency: a.cfg.Performance.MaxConcurrency,
		FailFast:       a.cfg.Reliability.FailFast,
		PageSize:       a.cfg.Performance.PageSize,
		Caching:        a.cfg.Caching,
		StartDate:      start,
	}, w, state, runner.WithMetrics(collector), runner.WithLogger(a.log))

	results, runErr := r.Run(ctx)
	for _, res := range results {
		a.log.Info("stream summary",
			zap.String("stream", res.Stream),
			zap.Int("records", res.Records),
			zap.Duration("duration", res.Duration),
			zap.Error(res.Err))
	}

	if err := w.Flush(); err != nil && runErr == nil {
		runErr = err
	}
	if err := out.Close(); err != nil && runErr == nil {
		runErr = errors.Wrap(err, errors.ErrorTypeFile, "failed to close output")
	}
	return runErr
}

// openOutput returns the message sink: stdout, or a file optionally
// wrapped in a compressor. Closing it never closes stdout.
func openOutput(f *syncFlags, stdout io.Writer) (io.WriteCloser, error) {
	if f.outputPath == "" || f.outputPath == "-" {
		return nopWriteCloser{stdout}, nil
	}

	alg := compression.FromPath(f.outputPath)
	if f.compression != "" {
		parsed, err := compression.Parse(f.compression)
		if err != nil {
			return nil, err
		}
		alg = parsed
	}

	file, err := os.Create(f.outputPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to create output").WithDetail("path", f.outputPath)
	}
	cw, err := compression.NewWriter(file, alg, compression.Default)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &fileOutput{WriteCloser: cw, file: file}, nil
}

type fileOutput struct {
	io.WriteCloser
	file *os.File
}

func (o *fileOutput) Close() error {
	if err := o.WriteCloser.Close(); err != nil {
		_ = o.file.Close()
		return err
	}
	return o.file.Close()
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func serveMetrics(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
