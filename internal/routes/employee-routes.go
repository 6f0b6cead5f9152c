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

func InitEmployeeRoutes(api *echo.Group, storage *pgxpool.Pool, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	employeeRepo := repositories.NewEmployeeRepository(storage, logger)
	departmentRepo := repositories.NewDepartmentRepository(storage, logger)
	employeeService := services.NewEmployeeService(employeeRepo, departmentRepo, logger)
	employeeController := controllers.NewEmployeeController(employeeService, logger)

	employees := api.Group("/employees", authMW.Auth)
	employees.GET("", employeeController.GetEmployees)
	employees.GET("/:id", employeeController.FindEmployee)
	employees.POST("", employeeController.CreateEmployee, authMW.RequireRole("administrator"))
	employees.PUT("/:id", employeeController.UpdateEmployee, authMW.RequireRole("administrator"))
	employees.DELETE("/:id", employeeController.DeleteEmployee, authMW.RequireRole("administrator"))
}
