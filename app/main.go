package main

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"catering-system/internal/repositories"
	"catering-system/internal/routes"
	"catering-system/pkg/config"
	"catering-system/pkg/customvalidator"
	"catering-system/pkg/database/postgresql"
	"catering-system/pkg/logger"
	"catering-system/pkg/middleware"
	"catering-system/pkg/service"
	"catering-system/pkg/utils"
)

func main() {
	log := logger.NewLogger()
	defer log.Sync()

	cfg := config.New()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(middleware.RequestID(log))

	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		log.Fatal("Не удалось зарегистрировать правила валидации", zap.Error(err))
	}
	e.Validator = utils.NewValidator(v)

	storage := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer storage.Close()

	if err := postgresql.RunMigrations(storage, cfg.Postgres.MigrationsDir); err != nil {
		log.Fatal("Не удалось выполнить миграции", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
	})
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	jwtService := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	routes.InitRouter(e, storage, cacheRepo, jwtService, cfg, log)

	log.Info("Сервер запускается", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil {
		log.Fatal("Сервер остановлен", zap.Error(err))
	}
}
