package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/snailsfinance/snails-contracts/config"
	"github.com/snailsfinance/snails-contracts/native/exchange"
	"github.com/snailsfinance/snails-contracts/observability/logging"
	telemetry "github.com/snailsfinance/snails-contracts/observability/otel"
	"github.com/snailsfinance/snails-contracts/storage"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv("EXCHANGED_ENV"))
	logger := logging.Setup("exchanged", env)

	otlpEndpoint := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	otlpHeaders := telemetry.ParseHeaders(os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"))
	insecure := true
	if value := strings.TrimSpace(os.Getenv("OTEL_EXPORTER_OTLP_INSECURE")); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			insecure = parsed
		}
	}
	shutdownTelemetry, err := telemetry.Init(context.Background(), telemetry.Config{
		ServiceName: "exchanged",
		Environment: env,
		Endpoint:    otlpEndpoint,
		Insecure:    insecure,
		Headers:     otlpHeaders,
		Metrics:     true,
		Traces:      true,
	})
	if err != nil {
		logger.Error("failed to initialise telemetry", "err", err)
		os.Exit(1)
	}
	defer func() {
		if shutdownTelemetry != nil {
			_ = shutdownTelemetry(context.Background())
		}
	}()

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(cfg); err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	db, err := storage.NewLevelDB(cfg.DataDir)
	if err != nil {
		logger.Error("failed to open storage", "err", err, "data_dir", cfg.DataDir)
		os.Exit(1)
	}
	defer db.Close()

	ex, err := loadOrInitExchange(db, cfg)
	if err != nil {
		logger.Error("failed to initialise exchange state", "err", err)
		os.Exit(1)
	}

	server := &http.Server{
		Addr:    cfg.ListenAddress,
		Handler: newRouter(ex, logger),
	}

	go func() {
		logger.Info("exchanged view server listening", "addr", cfg.ListenAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("view server exited", "err", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down exchanged")
	if err := ex.Save(db); err != nil {
		logger.Error("failed to persist exchange state on shutdown", "err", err)
	}
	_ = server.Shutdown(context.Background())
}

// loadOrInitExchange loads a previously persisted Exchange from db, or
// bootstraps a fresh one owned by cfg's configured owner address on first
// boot.
func loadOrInitExchange(db storage.Database, cfg *config.Config) (*exchange.Exchange, error) {
	ex, err := exchange.Load(db)
	if err == nil {
		return ex, nil
	}

	owner, err := cfg.Owner()
	if err != nil {
		return nil, fmt.Errorf("decode owner address: %w", err)
	}
	ex = exchange.New(owner)
	if cfg.StartPaused {
		if err := ex.ChangeState(owner, exchange.Paused); err != nil {
			return nil, err
		}
	}
	return ex, nil
}
