package main

import (
	"context"

	"go.uber.org/zap"

	"catering-system/pkg/config"
	"catering-system/pkg/database/postgresql"
	"catering-system/pkg/logger"
	"catering-system/seeders"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg := config.New()

	storage := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer storage.Close()

	if err := postgresql.RunMigrations(storage, cfg.Postgres.MigrationsDir); err != nil {
		log.Fatal("Не удалось выполнить миграции", zap.Error(err))
	}

	if err := seeders.Seed(context.Background(), storage, log); err != nil {
		log.Fatal("Не удалось выполнить сидинг", zap.Error(err))
	}
	log.Info("Сидинг завершён")
}
