// Package main provides the swath extraction API HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"go.osat.io/swath-api/internal/adapter/store"
	"go.osat.io/swath-api/internal/adapter/store/he5"
	"go.osat.io/swath-api/internal/adapter/store/nc"
	"go.osat.io/swath-api/internal/config"
	httpapi "go.osat.io/swath-api/internal/http"
	"go.osat.io/swath-api/internal/observability"
	"go.osat.io/swath-api/internal/usecase"
)

const version = "0.1.0"

func main() {
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("swath-api version %s\n", version)
		return
	}

	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	loader := &store.ExtLoader{
		Hierarchical: he5.NewReader(),
		Flat:         nc.NewReader(),
	}
	extractor := usecase.NewExtractor(loader)

	router := httpapi.SetupRouter(extractor, cfg, metrics)

	srv := &nethttp.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening",
			"addr", cfg.HTTPAddr,
			"data_dir", cfg.DataDir,
			"version", version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Swath API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  swath-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  HTTP_ADDR               Listen address (default: :8080)")
	fmt.Println("  DATA_DIR                Swath file directory (default: ./data)")
	fmt.Println("  LOG_LEVEL               debug, info, warn or error (default: info)")
	fmt.Println("  LOG_FORMAT              json or text (default: json)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  DEFAULT_RADII           Comma-separated window radii (default: 1,2)")
	fmt.Println("  SHUTDOWN_TIMEOUT        Graceful shutdown timeout (default: 10s)")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health            Health check")
	fmt.Println("  GET /metrics           Prometheus metrics")
	fmt.Println("  GET /v1/products       List known products")
	fmt.Println("  GET /v1/extract        Extract a value at a point")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  swath-api")
	fmt.Println()
	fmt.Println("  # Query a swath file under DATA_DIR")
	fmt.Println("  curl 'localhost:8080/v1/extract?file=OMI-Aura_L2-OMNO2_2016.he5&lat=61.2&lon=-149.9'")
	fmt.Println()
}
