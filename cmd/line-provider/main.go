package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	lpcache "github.com/radieske/bet-line-platform/internal/line-provider/cache"
	lphttp "github.com/radieske/bet-line-platform/internal/line-provider/http"
	kpub "github.com/radieske/bet-line-platform/internal/line-provider/producer"
	"github.com/radieske/bet-line-platform/internal/line-provider/repo"
	"github.com/radieske/bet-line-platform/internal/line-provider/service"
	"github.com/radieske/bet-line-platform/internal/shared/cache"
	"github.com/radieske/bet-line-platform/internal/shared/config"
	"github.com/radieske/bet-line-platform/internal/shared/db"
	"github.com/radieske/bet-line-platform/internal/shared/kafka"
	"github.com/radieske/bet-line-platform/internal/shared/logger"
	"github.com/radieske/bet-line-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New("line-provider", cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Redis
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	// Kafka writer (topic event_resolved)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEventResolved)
	defer writer.Close()

	// deps
	store := repo.NewPostgres(pg, repo.RandomOutcome)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicEventResolved)
	events := service.NewEvents(log, store, publ)

	api := &lphttp.API{
		Log:    log,
		Events: events,
		Cache:  lpcache.New(rdb),
	}
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		if err := pg.PingContext(ctx); err != nil {
			return err
		}
		return rdb.Ping(ctx).Err()
	})

	log.Info("line-provider listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
