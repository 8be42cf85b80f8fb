package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-simulator/internal/odds-service/board"
	ocache "github.com/radieske/bet-simulator/internal/odds-service/cache"
	ohttp "github.com/radieske/bet-simulator/internal/odds-service/http"
	"github.com/radieske/bet-simulator/internal/odds-service/repo"
	"github.com/radieske/bet-simulator/internal/shared/cache"
	"github.com/radieske/bet-simulator/internal/shared/config"
	"github.com/radieske/bet-simulator/internal/shared/db"
	"github.com/radieske/bet-simulator/internal/shared/logger"
	"github.com/radieske/bet-simulator/internal/shared/metrics"
)

func main() {
	// carrega config
	cfg := config.Load()

	// inicia logger
	log, err := logger.New(cfg.ServiceName, cfg.Env, cfg.LogFile)
	if err != nil {
		panic(fmt.Errorf("logger init: %w", err))
	}
	defer log.Sync()

	log.Info("starting service", zap.String("service", cfg.ServiceName), zap.String("env", cfg.Env))

	// conecta com db Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	log.Info("postgres connected")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.EnsureSchema(ctx, pg); err != nil {
		log.Fatal("schema", zap.Error(err))
	}

	// conecta com cache Redis
	redisClient, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()
	log.Info("redis connected")

	// semeia o quadro a partir do catálogo embutido
	catalog, err := board.Default()
	if err != nil {
		log.Fatal("catalog", zap.Error(err))
	}
	games := repo.NewPostgres(pg)
	n, err := games.Seed(ctx, catalog)
	if err != nil {
		log.Fatal("seed", zap.Error(err))
	}
	log.Info("board seeded", zap.Int("games", n))

	// o quadro mudou: derruba o que estiver em cache
	gc := ocache.New(redisClient)
	keys := []string{ocache.KeyLeagues(), ocache.KeyBoard(board.AllLeagues)}
	for _, l := range catalog.Leagues() {
		keys = append(keys, ocache.KeyBoard(l.League))
	}
	for _, g := range catalog.Games(board.AllLeagues) {
		keys = append(keys, ocache.KeyGame(g.ID))
	}
	if err := gc.Invalidate(ctx, keys...); err != nil {
		log.Warn("cache invalidate", zap.Error(err))
	}

	// sobe servidor de métricas e health
	metricsSrv := metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		return nil
	})
	defer metricsSrv.Close()
	log.Info("metrics/health server starting", zap.String("addr", metricsSrv.Addr))

	api := &ohttp.API{Log: log, Repo: games, Cache: gc, TTL: 30 * time.Second}
	apiSrv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           api.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info("odds-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
