package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/go-store-orders/internal/config"
	kafkax "github.com/example/go-store-orders/internal/kafka"
	"github.com/example/go-store-orders/internal/orders"
	"github.com/example/go-store-orders/internal/postgres"
	"github.com/example/go-store-orders/internal/redisx"
	"github.com/example/go-store-orders/internal/replenish"
	"github.com/example/go-store-orders/internal/stock"
)

func main() {
	_ = godotenv.Load()

	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// the producer outlives the signal context so workers can still publish
	// while the consumer drains; Close flushes what is left
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
	prod.Start(context.Background())

	svc := &replenish.Service{
		Stocks:      &stock.Repo{DB: db},
		Redis:       rdb,
		Producer:    prod,
		Log:         log,
		ServiceName: cfg.ServiceName + "-replenisher",
	}

	group := getenv("REPLENISHER_GROUP", "replenisher-svc")
	workers := atoi(os.Getenv("REPLENISHER_WORKERS"), 8)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, orders.TopicOrderShipped, workers, log)

	log.Info("replenisher consumer started",
		zap.String("group", group),
		zap.String("topic", orders.TopicOrderShipped),
		zap.Int("workers", workers))
	if err := cons.Start(ctx, svc.HandleOrderShipped); err != nil {
		log.Error("consumer exit", zap.Error(err))
	}

	log.Info("shutting down")
	prod.Close()
	prod.WaitClosed()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
