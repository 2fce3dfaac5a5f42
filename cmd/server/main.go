package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/crownhub/crowns-be/internal/config"
	"github.com/crownhub/crowns-be/internal/logging"
	"github.com/crownhub/crowns-be/internal/objectstore"
	"github.com/crownhub/crowns-be/internal/server"
	"github.com/crownhub/crowns-be/internal/storage"
	"github.com/crownhub/crowns-be/internal/storage/memory"
	postgres "github.com/crownhub/crowns-be/internal/storage/postgres"
)

func main() {
	loadLocalEnv()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("init storage: %v", err)
	}
	defer store.Close()

	blobs, err := objectstore.NewLocal(cfg.MediaDir, cfg.MediaBaseURL)
	if err != nil {
		log.Fatalf("init media storage: %v", err)
	}

	srv := server.New(cfg, store, blobs, log)

	go func() {
		log.WithFields(logrus.Fields{
			"addr":    cfg.HTTPAddress(),
			"storage": cfg.StorageDriver,
		}).Info("crowns backend listening")
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.WithError(err).Warn("graceful shutdown error")
	}
}

func openStore(ctx context.Context, cfg config.Config) (storage.Store, error) {
	if cfg.StorageDriver == config.DriverMemory {
		return memory.New(), nil
	}
	return postgres.NewStore(ctx, cfg.DatabaseURL)
}

func loadLocalEnv() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("no .env file found; relying on existing environment")
	}
}
