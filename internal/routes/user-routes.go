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

func InitUserRoutes(api *echo.Group, storage *pgxpool.Pool, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	userRepo := repositories.NewUserRepository(storage, logger)
	userService := services.NewUserService(userRepo, logger)
	userController := controllers.NewUserController(userService, logger)

	users := api.Group("/users", authMW.Auth, authMW.RequireRole("administrator"))
	users.GET("", userController.GetUsers)
	users.GET("/:id", userController.FindUser)
	users.POST("", userController.CreateUser)
	users.PUT("/:id", userController.UpdateUser)
	users.DELETE("/:id", userController.DeleteUser)
}
