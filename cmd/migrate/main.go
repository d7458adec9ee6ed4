// Command migrate applies or rolls back the PostgreSQL schema.
package main

import (
	"flag"

	"github.com/blogchain/internal/config"
	"github.com/blogchain/internal/database"
	"github.com/blogchain/pkg/logger"
)

func main() {
	var direction string
	var version uint
	flag.StringVar(&direction, "direction", "up", "up | down | to")
	flag.UintVar(&version, "version", 0, "target version for -direction=to")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log := logger.New(config.LogConfig{Level: "info", Format: "pretty"})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New(cfg.Log)

	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	path := cfg.Database.MigrationsPath
	switch direction {
	case "up":
		err = db.RunMigrations(path)
	case "down":
		err = db.MigrateDown(path)
	case "to":
		err = db.MigrateToVersion(path, version)
	default:
		log.Fatal().Str("direction", direction).Msg("Unknown migration direction")
	}
	if err != nil {
		log.Fatal().Err(err).Str("direction", direction).Msg("Migration failed")
	}
	log.Info().Str("direction", direction).Msg("Migration complete")
}
