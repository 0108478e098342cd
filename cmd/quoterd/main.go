package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidepool-labs/swapquote/config"
	"github.com/tidepool-labs/swapquote/marketdata"
	"github.com/tidepool-labs/swapquote/nodestatus"
	"github.com/tidepool-labs/swapquote/pool"
	"github.com/tidepool-labs/swapquote/quote"
	"github.com/tidepool-labs/swapquote/rpc"
	"github.com/tidepool-labs/swapquote/tracker"
)

var log zerolog.Logger

func init() {
	// Initialize zerolog with console writer
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Logger()

	// Share the logger with the RPC package
	rpc.SetLogger(log)
}

func main() {
	configPath := flag.String("config", "", "toml config file; env vars are used when empty")
	flag.Parse()

	var pathArg *string
	if *configPath != "" {
		pathArg = configPath
	}

	log.Info().Str("config", *configPath).Msg("Starting swap quote service")

	cfg, err := config.LoadServiceConfig(pathArg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	market, err := marketdata.NewClient(cfg.MarketDataURLs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build market data client")
	}
	node, err := nodestatus.NewClient(cfg.NodeStatusURLs)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build node status client")
	}

	poolCache := pool.NewCache(market, time.Duration(cfg.PoolCacheTTLMillis)*time.Millisecond)
	estimator := quote.NewEstimator(poolCache, market)
	txTracker := tracker.New(node)

	serverConfig := &rpc.ServerConfig{
		Address:               fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		AllowedOrigins:        cfg.AllowedOrigins,
		EnableMetrics:         cfg.EnableMetrics,
		RatePerMinute:         &cfg.RatePerMinute,
		MaxConcurrentRequests: &cfg.MaxConcurrentRequests,
	}

	server, err := rpc.NewServer(serverConfig, estimator, poolCache, txTracker)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build server")
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("Server failed")
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}
