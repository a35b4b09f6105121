package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/example/go-store-orders/internal/auth"
	"github.com/example/go-store-orders/internal/catalog"
	"github.com/example/go-store-orders/internal/config"
	"github.com/example/go-store-orders/internal/httpx"
	kafkax "github.com/example/go-store-orders/internal/kafka"
	"github.com/example/go-store-orders/internal/orders"
	"github.com/example/go-store-orders/internal/postgres"
	"github.com/example/go-store-orders/internal/redisx"
	"github.com/example/go-store-orders/internal/stock"
	"github.com/example/go-store-orders/internal/warehouse"
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
	cache := &redisx.Cache{C: rdb}

	// the producer outlives the signal context so in-flight handlers can
	// still publish while the server drains; Close flushes what is left
	prod := kafkax.NewProducer(cfg.KafkaBrokers, 1024, log)
	prod.Start(context.Background())

	catalogRepo := &catalog.Repo{DB: db}
	stockRepo := &stock.Repo{DB: db}
	warehouseRepo := &warehouse.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}

	svc := &orders.Service{
		Orders: orderRepo,
		Ledger: stockRepo,
		Refs:   catalogRepo,
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	mw := &httpx.Auth{Tokens: tokens, Log: log}

	router := httpx.NewRouter()
	(&httpx.OrdersHandler{
		Svc:     svc,
		Events:  prod,
		Cache:   cache,
		Log:     log,
		Service: cfg.ServiceName,
	}).Register(router, mw)
	(&httpx.StocksHandler{Repo: stockRepo, Log: log}).Register(router, mw)
	(&httpx.CatalogHandler{Repo: catalogRepo, Cache: cache, Log: log}).Register(router, mw)
	(&httpx.WarehousesHandler{Repo: warehouseRepo, Log: log}).Register(router, mw)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exit", zap.Error(err))
	}

	log.Info("shutting down")
	prod.Close()
	prod.WaitClosed()
}
