// Command server runs the governance metrics JSON API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/hernandoagf/governance-metrics-dashboard/internal/config"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/governance"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/logging"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/server"
	"github.com/hernandoagf/governance-metrics-dashboard/internal/upstream"
)

func main() {
	cfg := config.New()

	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.EthRPCURL == "" {
		logger.Fatal("GOV_METRICS_ETH_RPC_URL is required")
	}

	minBalance, err := decimal.NewFromString(cfg.MinBalance)
	if err != nil {
		logger.Fatal("invalid GOV_METRICS_MIN_BALANCE", zap.Error(err))
	}
	largeMin, err := decimal.NewFromString(cfg.LargeDelegatorMin)
	if err != nil {
		logger.Fatal("invalid GOV_METRICS_LARGE_DELEGATOR_MIN", zap.Error(err))
	}

	httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}
	polling := upstream.NewPollingClient(cfg.PollingAPIURL, httpClient)
	metadata := upstream.NewMetadataClient(cfg.MetadataURL, httpClient)
	blocks := upstream.NewBlocksClient(cfg.BlocksAPIURL, httpClient)

	dialCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPClientTimeout)
	chief, err := upstream.DialChiefClient(dialCtx, cfg.EthRPCURL, cfg.ChiefAddress)
	cancel()
	if err != nil {
		logger.Fatal("connecting to ethereum rpc", zap.Error(err))
	}

	svc := governance.New(polling, metadata, chief, blocks, polling, logger, governance.Config{
		FetchWorkers:      cfg.FetchWorkers,
		MinBalance:        minBalance,
		LargeDelegatorMin: largeMin,
	})

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.New(svc, logger).Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.ListenAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
