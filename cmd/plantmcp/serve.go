package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nwater/plantmcp/internal/journal"
	"github.com/nwater/plantmcp/internal/logging"
	plantserver "github.com/nwater/plantmcp/internal/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Start the MCP server on stdin/stdout. Logs go to stderr.

When metrics_addr is configured, Prometheus metrics are served on
http://<metrics_addr>/metrics for the lifetime of the server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runServe(ctx context.Context, opts *rootOptions, in io.Reader, out io.Writer) error {
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	log, err := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := loadStore(cfg)
	if err != nil {
		return err
	}
	source := cfg.DataFile
	if source == "" {
		source = "embedded"
	}
	log.Info("plant loaded",
		zap.String(logging.FieldSource, source),
		zap.Int(logging.FieldCount, store.Summary().Total()))

	// The journal is best-effort: the plant tools work without it.
	var jr *journal.Store
	if cfg.Journal {
		jr, err = openJournal(ctx, cfg.JournalConfig())
		if err != nil {
			log.Warn("tool-call journal disabled", zap.Error(err))
			jr = nil
		} else {
			defer func() {
				if err := jr.EndSession(context.Background()); err != nil {
					log.Warn("ending journal session", zap.Error(err))
				}
				_ = jr.Close()
			}()
			log.Info("tool-call journal open", zap.String(logging.FieldSession, jr.SessionID()))
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s, interceptor := plantserver.New(plantserver.Deps{
		Store:      store,
		Logger:     log,
		Registerer: reg,
		Journal:    jr,
	})

	// Stdin closing ends the whole group, metrics server included.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		stdio := mcpserver.NewStdioServer(s)
		stdio.SetErrorLogger(zap.NewStdLog(log))
		err := stdio.Listen(gctx, in, out)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return errors.Wrap(err, "stdio server")
	})

	if cfg.MetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("metrics listening", zap.String(logging.FieldAddress, cfg.MetricsAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return errors.Wrap(err, "metrics server")
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
			defer done()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()
	log.Info("server stopped", zap.Int(logging.FieldCount, interceptor.Count()))
	return err
}

func openJournal(ctx context.Context, cfg journal.Config) (*journal.Store, error) {
	jr, err := journal.New(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := jr.StartSession(ctx, plantserver.Name+" "+plantserver.Version); err != nil {
		_ = jr.Close()
		return nil, err
	}
	return jr, nil
}
