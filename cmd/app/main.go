package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smartswiggy/internal/app"
	"smartswiggy/internal/database/memory"
	"smartswiggy/internal/database/psql"
	"smartswiggy/internal/metrics"
	"smartswiggy/internal/pricing"
	"smartswiggy/pkg/config"
	"smartswiggy/pkg/lib/logger"
	"smartswiggy/pkg/lib/logger/sl"
)

const shutdownTimeout = 10 * time.Second

type storage interface {
	app.Storage
	io.Closer
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.SetupLogger(cfg.HTTP.Env)
	if err != nil {
		panic(err)
	}

	store, err := openStorage(log, cfg)
	if err != nil {
		log.Error("Failed to open storage", sl.Err(err))
		os.Exit(1)
	}

	application := app.New(log, store, metrics.New(), app.Options{
		Port:            cfg.HTTP.Port,
		Rules:           pricing.Rules{DeliveryFee: cfg.Pricing.DeliveryFee, TaxRate: cfg.Pricing.Rate()},
		RequestInterval: cfg.Payments.RequestInterval,
	})

	go func() {
		if err := application.Run(); err != nil {
			log.Error("Application failed to start", sl.Err(err))
			panic(err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGTERM, syscall.SIGINT)
	<-done

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := application.Stop(ctx); err != nil {
		log.Error("Failed to stop gracefully", sl.Err(err))
	}

	log.Info("Closing storage")
	if err := store.Close(); err != nil {
		log.Error("Failed to close storage", sl.Err(err))
	}
}

func openStorage(log *slog.Logger, cfg *config.Config) (storage, error) {
	switch cfg.Storage.Driver {
	case config.StoragePostgres:
		return psql.New(log, cfg.ConnectionString())
	default:
		return memory.New(log), nil
	}
}
