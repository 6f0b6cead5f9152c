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

func InitReportRoutes(api *echo.Group, storage *pgxpool.Pool, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	reportRepo := repositories.NewReportRepository(storage, logger)
	departmentRepo := repositories.NewDepartmentRepository(storage, logger)
	reportService := services.NewReportService(reportRepo, departmentRepo, logger)
	reportController := controllers.NewReportController(reportService, logger)

	reports := api.Group("/reports", authMW.Auth, authMW.RequireRole("administrator"))
	reports.GET("/daily", reportController.GetDailyReport)
	reports.GET("/monthly", reportController.GetMonthlyReport)
	reports.GET("/monthly/export", reportController.ExportMonthlyReport)
	reports.GET("/yearly", reportController.GetYearlyReport)
	reports.GET("/department/:departmentId", reportController.GetDepartmentReport)
}
