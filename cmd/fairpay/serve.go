package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fairpay/award-engine/api"
	"github.com/fairpay/award-engine/ingest"
)

var (
	servePort   int
	serveStrict bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the HTTP API on the configured port.

The AI assistant (award matching, live document search, questions and
pay guide ingestion) is enabled when a Gemini API key is configured.
Without one those endpoints answer 503 and everything else works.

On SIGINT/SIGTERM the server stops accepting connections, waits for
active requests, cancels running ingestion jobs and closes the store.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (overrides config)")
	serveCmd.Flags().BoolVar(&serveStrict, "strict", false, "Reject ingested awards with validation problems")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveStrict {
		cfg.Ingest.Strict = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg, store, err := openRegistry(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	handler := api.NewHandler(reg, logger)
	handler.Parser = ingest.Parser{Strict: cfg.Ingest.Strict}
	handler.History = store

	if cfg.HasAssistant() {
		gemini, err := newAssistant(ctx)
		if err != nil {
			return fmt.Errorf("failed to initialize assistant: %w", err)
		}
		handler.Assistant = gemini

		queue := ingest.NewQueue(&ingest.Ingester{
			Extractor: gemini,
			Registry:  reg,
			Parser:    handler.Parser,
		}, logger, ingest.QueueOptions{
			Workers:    cfg.Ingest.Workers,
			Buffer:     cfg.Ingest.Buffer,
			JobTimeout: cfg.GetJobTimeout(),
		})
		queue.Start()
		defer queue.Stop()
		handler.Queue = queue
	} else {
		logger.Warn("no Gemini API key configured, assistant endpoints disabled")
	}

	server := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewRouter(handler, api.RouterOptions{
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.Int("awards", reg.Len()),
			zap.Bool("assistant", handler.Assistant != nil),
			zap.Bool("strict_ingest", cfg.Ingest.Strict))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}
