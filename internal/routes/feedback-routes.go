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

func InitFeedbackRoutes(api *echo.Group, storage *pgxpool.Pool, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	feedbackRepo := repositories.NewFeedbackRepository(storage, logger)
	orderRepo := repositories.NewOrderRepository(storage, logger)
	feedbackService := services.NewFeedbackService(feedbackRepo, orderRepo, logger)
	feedbackController := controllers.NewFeedbackController(feedbackService, logger)

	feedbacks := api.Group("/feedbacks", authMW.Auth)
	feedbacks.GET("", feedbackController.GetFeedbacks)
	feedbacks.GET("/stats", feedbackController.GetStats)
	feedbacks.GET("/:id", feedbackController.FindFeedback)
	feedbacks.POST("", feedbackController.CreateFeedback)
	feedbacks.PUT("/:id", feedbackController.UpdateFeedback)
	feedbacks.DELETE("/:id", feedbackController.DeleteFeedback, authMW.RequireRole("administrator"))
}
