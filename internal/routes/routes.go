package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"catering-system/internal/repositories"
	"catering-system/pkg/config"
	"catering-system/pkg/middleware"
	"catering-system/pkg/service"
)

// InitRouter собирает все маршруты API: репозиторий -> сервис -> контроллер
// для каждого ресурса.
func InitRouter(
	e *echo.Echo,
	storage *pgxpool.Pool,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	cfg *config.Config,
	logger *zap.Logger,
) {
	api := e.Group("/api")

	authMW := middleware.NewAuthMiddleware(jwtService, logger)

	InitAuthRoutes(api, storage, cacheRepo, jwtService, cfg, authMW, logger)
	InitUserRoutes(api, storage, authMW, logger)
	InitDepartmentRoutes(api, storage, cacheRepo, cfg, authMW, logger)
	InitEmployeeRoutes(api, storage, authMW, logger)
	InitFoodRoutes(api, storage, authMW, logger)
	InitDailyMenuRoutes(api, storage, authMW, logger)
	InitOrderRoutes(api, storage, authMW, logger)
	InitFeedbackRoutes(api, storage, authMW, logger)
	InitScheduleRoutes(api, storage, authMW, logger)
	InitVoucherRoutes(api, storage, cfg, authMW, logger)
	InitReportRoutes(api, storage, authMW, logger)
}
