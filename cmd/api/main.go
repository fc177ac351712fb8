package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/financeflow/internal/api/handlers"
	"github.com/dvloznov/financeflow/internal/api/middleware"
	"github.com/dvloznov/financeflow/internal/config"
	"github.com/dvloznov/financeflow/internal/export"
	"github.com/dvloznov/financeflow/internal/insights"
	"github.com/dvloznov/financeflow/internal/jobs/inmemory"
	"github.com/dvloznov/financeflow/internal/ledger"
	"github.com/dvloznov/financeflow/internal/logger"
)

func main() {
	// Parse command-line flags
	var (
		configFile = flag.String("config", "", "Path to a config file (default: ./config.yaml or $HOME/.financeflow/config.yaml)")
		port       = flag.Int("port", 0, "HTTP server port (overrides server.port)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Initialize logger
	log, err := logger.NewFromConfig(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithContext(context.Background(), log)

	// Ledger lives for the lifetime of the process only.
	store := ledger.NewStore()
	if cfg.Ledger.SeedDemo {
		store.Seed(ledger.DemoEntries()...)
	}

	if cfg.AI.APIKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set - insight requests will return fallback insights")
	}
	client, err := insights.NewGeminiClient(ctx, cfg.AI.APIKey,
		insights.WithModel(cfg.AI.Model),
		insights.WithTimeout(cfg.AITimeout()),
		insights.WithLogger(log),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create insight client")
	}

	exports, err := export.FromConfig(ctx, cfg.Export, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to configure export sinks")
	}
	defer exports.Close()

	// Initialize job infrastructure
	jobStore := inmemory.NewStore(inmemory.DefaultRetain)
	jobQueue := inmemory.NewQueue(cfg.Insights.QueueSize, cfg.Insights.Workers, jobStore)
	panel := insights.NewPanel(store, client, jobQueue, log)

	workerCtx, cancelWorker := context.WithCancel(ctx)
	defer cancelWorker()

	log.Info().Int("workers", cfg.Insights.Workers).Msg("Starting insight workers")
	if err := jobQueue.Start(workerCtx, panel.HandleJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to start insight workers")
	}

	// Initial insights for the seeded ledger.
	if _, err := panel.Trigger(ctx); err != nil && !errors.Is(err, insights.ErrEmptyLedger) {
		log.Error().Err(err).Msg("Failed to request initial insights")
	}

	router := &handlers.Router{
		Transactions: handlers.NewTransactionsHandler(store),
		Dashboard:    handlers.NewDashboardHandler(store),
		Insights:     handlers.NewInsightsHandler(panel),
		Export:       handlers.NewExportHandler(store, exports.Exporters),
		Jobs:         handlers.NewJobsHandler(jobStore, log),
	}

	// Create HTTP server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      middleware.Chain(router.Mux(), log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop job queue and wait for in-flight jobs
	if err := jobQueue.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping job queue")
	}
	cancelWorker()

	log.Info().Msg("Server exited")
}
