package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Rrens/mika-travel/internal/config"
	"github.com/Rrens/mika-travel/internal/repository/postgres"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	down := flag.Int("down", 0, "number of migrations to roll back instead of migrating up")
	source := flag.String("source", "", "migration source URL (defaults to database.migrations_url)")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if cfg.Storage.Driver != config.StoragePostgres {
		log.Info().Str("driver", cfg.Storage.Driver).Msg("Schema is created on startup for this storage driver; nothing to migrate")
		return
	}

	sourceURL := *source
	if sourceURL == "" {
		sourceURL = cfg.Database.MigrationsURL
	}

	fmt.Printf("Migrating database at %s:%d from %s\n", cfg.Database.Host, cfg.Database.Port, sourceURL)

	if *down > 0 {
		err = postgres.RollbackMigrations(cfg.Database.DSN(), sourceURL, *down)
	} else {
		err = postgres.RunMigrations(cfg.Database.DSN(), sourceURL)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Migration failed")
	}
}
