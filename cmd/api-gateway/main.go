package main

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	gateway "github.com/radieske/bet-simulator/internal/api-gateway"
	"github.com/radieske/bet-simulator/internal/shared/config"
	"github.com/radieske/bet-simulator/internal/shared/logger"
	"github.com/radieske/bet-simulator/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogFile)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	// targets
	router, err := gateway.NewRouter(log, gateway.Targets{
		Odds: cfg.OddsURL,
		Slip: cfg.SlipURL,
	}, gateway.NewIPLimiter(cfg.GatewayRPS, cfg.GatewayBurst))
	if err != nil {
		log.Fatal("gateway routes", zap.Error(err))
	}

	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, nil)
	defer metricsSrv.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Info("api-gateway listening",
		zap.String("addr", srv.Addr),
		zap.Float64("rps", cfg.GatewayRPS),
		zap.Int("burst", cfg.GatewayBurst))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("gateway failed", zap.Error(err))
	}
}
