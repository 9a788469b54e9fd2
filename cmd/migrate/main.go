package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Rrens/smartchat/internal/config"
	"github.com/Rrens/smartchat/internal/logger"
	"github.com/Rrens/smartchat/internal/repository/postgres"
)

func main() {
	down := flag.Bool("down", false, "roll back every migration")
	source := flag.String("source", "", "migration source URL (default: migrations built into the binary)")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCloser, err := logger.Setup(cfg.Logging, os.Getenv("ENV"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	dsn := cfg.Widget.Store.DSN
	if dsn == "" {
		log.Fatal().Msg("widget.store.dsn (SMARTCHAT_STORE_DSN) is required")
	}

	if *down {
		err = postgres.RollbackMigrations(dsn, *source)
	} else {
		err = postgres.RunMigrations(dsn, *source)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
