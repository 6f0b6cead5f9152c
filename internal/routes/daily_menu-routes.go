package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"catering-system/internal/controllers"
	"catering-system/internal/repositories"
	"catering-system/internal/services"
	"catering-system/pkg/middleware"
)

func InitDailyMenuRoutes(api *echo.Group, storage *pgxpool.Pool, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	dailyMenuRepo := repositories.NewDailyMenuRepository(storage, logger)
	foodRepo := repositories.NewFoodRepository(storage, logger)
	dailyMenuService := services.NewDailyMenuService(dailyMenuRepo, foodRepo, logger)
	dailyMenuController := controllers.NewDailyMenuController(dailyMenuService, logger)

	menus := api.Group("/daily-menus", authMW.Auth)
	menus.GET("/:date", dailyMenuController.GetMenuForDate)
	menus.POST("", dailyMenuController.CreateMenu, authMW.RequireRole("administrator"))
	menus.PUT("/:id", dailyMenuController.UpdateMenuItem, authMW.RequireRole("administrator"))
	menus.DELETE("/:id", dailyMenuController.DeleteMenuItem, authMW.RequireRole("administrator"))
}
