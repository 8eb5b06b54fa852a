package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kunotice/notice-backend/internal/config"
	"github.com/kunotice/notice-backend/internal/database"
	"github.com/kunotice/notice-backend/internal/ingest"
	"github.com/kunotice/notice-backend/internal/migration"
	"github.com/kunotice/notice-backend/internal/repository"
	pkglogger "github.com/kunotice/notice-backend/pkg/logger"
)

func main() {
	env := os.Getenv("APP_ENV")
	configPath := flag.String("config", config.Path(env), "config file path")
	once := flag.Bool("once", false, "run a single ingestion pass and exit")
	flag.Parse()

	config.LoadDotEnv(env)
	pkglogger.Init(env)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ingester := ingest.New(
		repository.NewCategoryRepository(db),
		repository.NewNoticeRepository(db),
		time.Duration(cfg.Ingest.TimeoutSeconds)*time.Second,
		ingest.DefaultFetchInterval,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *once {
		res, err := ingester.RunOnce(ctx)
		if err != nil {
			log.Fatalf("Ingest failed: %v", err)
		}
		pkglogger.Info("Ingested %d new notices from %d feeds (%d failed)", res.Inserted, res.Feeds, res.Failed)
		return
	}

	interval := time.Duration(cfg.Ingest.IntervalMinutes) * time.Minute
	pkglogger.Info("Ingesting every %s", interval)
	if err := ingester.Run(ctx, interval); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Ingest stopped: %v", err)
	}
	pkglogger.Info("Ingest stopped")
}
