package main

import (
	"context"

	"custcrm/internal/config"
	"custcrm/internal/db"
	"custcrm/internal/repository"
	"custcrm/internal/service"
	"custcrm/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("configuration")
	}
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "crm-seed"})
	ctx := context.Background()

	log.Info().Str("file", cfg.SeedUsersFile).Msg("starting user seed")

	seeds, err := loadUsers(cfg.SeedUsersFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file")
	}

	gormDB, err := db.NewMySQL(ctx, cfg.Database.DSN, cfg.Database.ConnectAttempts, log)
	if err != nil {
		log.Fatal().Err(err).Msg("database init")
	}
	if err := db.Migrate(gormDB, false, log); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate")
	}

	users := service.NewUserService(repository.NewUserRepository(gormDB))
	created, skipped, err := seedUsers(ctx, users, seeds)
	if err != nil {
		log.Fatal().Err(err).Int("created", created).Msg("seed users")
	}

	log.Info().
		Int("created", created).
		Int("skipped", skipped).
		Int("total", len(seeds)).
		Msg("seed completed")
}
