package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/radieske/bet-simulator/internal/betslip"
	"github.com/radieske/bet-simulator/internal/shared/cache"
	"github.com/radieske/bet-simulator/internal/shared/config"
	"github.com/radieske/bet-simulator/internal/shared/kafka"
	"github.com/radieske/bet-simulator/internal/shared/logger"
	"github.com/radieske/bet-simulator/internal/shared/metrics"
	"github.com/radieske/bet-simulator/internal/shared/oddsmath"
	shttp "github.com/radieske/bet-simulator/internal/slip-service/http"
	"github.com/radieske/bet-simulator/internal/slip-service/identity"
	"github.com/radieske/bet-simulator/internal/slip-service/odds"
	kpub "github.com/radieske/bet-simulator/internal/slip-service/producer"
	"github.com/radieske/bet-simulator/internal/slip-service/session"
	"github.com/radieske/bet-simulator/internal/slip-service/wallet"
	"github.com/radieske/bet-simulator/internal/slip-service/ws"
)

func main() {
	cfg := config.Load()
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogFile)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()
	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Redis: fan-out das atualizações do cupom entre réplicas
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	hub := ws.NewHub(func(*http.Request) bool { return true })
	ws.StartRedisSubscriber(ctx, rdb, cfg.RedisPubSubChannel, hub, log)

	// Kafka writer (topic slip_placed)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicSlipPlaced)
	defer writer.Close()

	// identidade: Supabase quando configurado, senão provedor em memória
	var auth identity.Provider
	if cfg.SupabaseURL != "" {
		auth = identity.NewSupabase(cfg.SupabaseURL, cfg.SupabaseAnonKey)
		log.Info("identity provider", zap.String("provider", "supabase"))
	} else {
		auth = identity.NewMemory()
		log.Warn("SUPABASE_URL not set, using in-memory identity provider")
	}

	store := session.NewStore(betslip.WithDefaultParlayStake(oddsmath.ParseAmount(cfg.DefaultParlayStake)))

	api := shttp.NewServer(shttp.Deps{
		Log:      log,
		Store:    store,
		Auth:     auth,
		Odds:     odds.New(cfg.OddsURL),
		Wallet:   wallet.New(cfg.WalletURL),
		Publ:     kpub.NewKafkaPublisher(writer),
		Notifier: ws.NewRedisBroadcaster(rdb, cfg.RedisPubSubChannel),
		Hub:      hub,
		Registry: prometheus.DefaultRegisterer,
	})
	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// metrics/health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	defer metricsSrv.Close()
	log.Info("metrics/health", zap.String("addr", metricsSrv.Addr))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = apiSrv.Shutdown(shutdownCtx)
	}()

	log.Info("slip-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
