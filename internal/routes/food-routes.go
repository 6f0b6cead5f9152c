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

func InitFoodRoutes(api *echo.Group, storage *pgxpool.Pool, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	foodRepo := repositories.NewFoodRepository(storage, logger)
	foodService := services.NewFoodService(foodRepo, logger)
	foodController := controllers.NewFoodController(foodService, logger)

	foods := api.Group("/foods", authMW.Auth)
	foods.GET("", foodController.GetFoods)
	foods.GET("/categories", foodController.GetCategories)
	foods.GET("/:id", foodController.FindFood)
	foods.POST("", foodController.CreateFood, authMW.RequireRole("administrator"))
	foods.PUT("/:id", foodController.UpdateFood, authMW.RequireRole("administrator"))
	foods.DELETE("/:id", foodController.DeleteFood, authMW.RequireRole("administrator"))
}
