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
)

func InitDepartmentRoutes(
	api *echo.Group,
	storage *pgxpool.Pool,
	cacheRepo repositories.CacheRepositoryInterface,
	cfg *config.Config,
	authMW *middleware.AuthMiddleware,
	logger *zap.Logger,
) {
	departmentRepo := repositories.NewDepartmentRepository(storage, logger)
	departmentService := services.NewDepartmentService(departmentRepo, cacheRepo, cfg.Auth, logger)
	departmentController := controllers.NewDepartmentController(departmentService, logger)

	departments := api.Group("/departments")

	// Проверка PIN доступна без токена: ей пользуются киоски департаментов.
	departments.POST("/verify-pin", departmentController.VerifyPin)

	departments.GET("", departmentController.GetDepartments, authMW.Auth)
	departments.GET("/:id", departmentController.FindDepartment, authMW.Auth)
	departments.POST("", departmentController.CreateDepartment, authMW.Auth, authMW.RequireRole("administrator"))
	departments.PUT("/:id", departmentController.UpdateDepartment, authMW.Auth, authMW.RequireRole("administrator"))
	departments.DELETE("/:id", departmentController.DeleteDepartment, authMW.Auth, authMW.RequireRole("administrator"))
}
