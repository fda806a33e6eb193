package main

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	bmhttp "github.com/radieske/bet-line-platform/internal/bet-maker/http"
	"github.com/radieske/bet-line-platform/internal/bet-maker/lineprovider"
	kpub "github.com/radieske/bet-line-platform/internal/bet-maker/producer"
	"github.com/radieske/bet-line-platform/internal/bet-maker/repo"
	"github.com/radieske/bet-line-platform/internal/bet-maker/service"
	"github.com/radieske/bet-line-platform/internal/shared/config"
	"github.com/radieske/bet-line-platform/internal/shared/db"
	"github.com/radieske/bet-line-platform/internal/shared/kafka"
	"github.com/radieske/bet-line-platform/internal/shared/logger"
	"github.com/radieske/bet-line-platform/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New("bet-maker", cfg.Env)
	defer log.Sync()

	// Postgres
	pg, err := db.ConnectPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("pg", zap.Error(err))
	}
	defer pg.Close()

	// Kafka writer (topic bet_placed)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer writer.Close()

	// deps
	store := repo.NewPostgres(pg)
	feed := lineprovider.New(cfg.LineProviderURL)
	publ := kpub.NewKafkaPublisher(writer, cfg.TopicBetPlaced)
	bets := service.NewBets(log, store, feed, publ)

	api := bmhttp.NewServer(log, bets)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return pg.PingContext(ctx)
	})

	log.Info("bet-maker listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
