package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"catering-system/internal/controllers"
	"catering-system/internal/repositories"
	"catering-system/internal/services"
	"catering-system/pkg/config"
	"catering-system/pkg/middleware"
	"catering-system/pkg/service"
)

func InitAuthRoutes(
	api *echo.Group,
	storage *pgxpool.Pool,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	cfg *config.Config,
	authMW *middleware.AuthMiddleware,
	logger *zap.Logger,
) {
	userRepo := repositories.NewUserRepository(storage, logger)
	authService := services.NewAuthService(userRepo, cacheRepo, jwtService, cfg.Auth, logger)
	authController := controllers.NewAuthController(authService, logger)

	auth := api.Group("/auth")
	auth.POST("/login", authController.Login)
	auth.POST("/refresh", authController.Refresh)
	auth.POST("/register", authController.Register, authMW.Auth, authMW.RequireRole("administrator"))
	auth.GET("/profile", authController.Profile, authMW.Auth)
}
