package main

import (
	"flag"
	"log"
	"os"

	"github.com/kunotice/notice-backend/internal/config"
	"github.com/kunotice/notice-backend/internal/database"
	"github.com/kunotice/notice-backend/internal/migration"
	pkglogger "github.com/kunotice/notice-backend/pkg/logger"
)

func main() {
	env := os.Getenv("APP_ENV")
	configPath := flag.String("config", config.Path(env), "config file path")
	verbose := flag.Bool("verbose", false, "verbose SQL logging")
	flag.Parse()

	config.LoadDotEnv(env)
	pkglogger.Init(env)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *verbose {
		cfg.Database.LogLevel = "info"
	}

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get underlying DB: %v", err)
	}
	defer sqlDB.Close()

	if err := migration.Run(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	pkglogger.Info("Migration complete (%s)", cfg.Database.Driver)
}
