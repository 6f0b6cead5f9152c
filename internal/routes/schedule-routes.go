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

func InitScheduleRoutes(api *echo.Group, storage *pgxpool.Pool, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	scheduleRepo := repositories.NewScheduleRepository(storage, logger)
	departmentRepo := repositories.NewDepartmentRepository(storage, logger)
	scheduleService := services.NewScheduleService(scheduleRepo, departmentRepo, logger)
	scheduleController := controllers.NewScheduleController(scheduleService, logger)

	schedules := api.Group("/schedules", authMW.Auth)
	schedules.GET("", scheduleController.ListWeeks)
	schedules.GET("/week/:date", scheduleController.GetWeekSchedule)
	schedules.GET("/:id", scheduleController.FindSchedule)
	schedules.GET("/department/:departmentId", scheduleController.GetDepartmentSchedule)
	schedules.POST("/generate", scheduleController.GenerateSchedules, authMW.RequireRole("administrator"))
	schedules.POST("/week/:date/regenerate", scheduleController.RegenerateWeek, authMW.RequireRole("administrator"))
	schedules.DELETE("/week/:date", scheduleController.DeleteWeek, authMW.RequireRole("administrator"))
	schedules.PUT("/:id", scheduleController.UpdateVoucherDay, authMW.RequireRole("administrator"))
}
