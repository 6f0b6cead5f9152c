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

func InitOrderRoutes(api *echo.Group, storage *pgxpool.Pool, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	orderRepo := repositories.NewOrderRepository(storage, logger)
	departmentRepo := repositories.NewDepartmentRepository(storage, logger)
	foodRepo := repositories.NewFoodRepository(storage, logger)
	employeeRepo := repositories.NewEmployeeRepository(storage, logger)
	orderService := services.NewOrderService(orderRepo, departmentRepo, foodRepo, employeeRepo, logger)
	orderController := controllers.NewOrderController(orderService, logger)

	orders := api.Group("/orders", authMW.Auth)
	orders.GET("", orderController.GetOrders)
	orders.GET("/:id", orderController.FindOrder)
	orders.POST("", orderController.CreateOrder)
	orders.PUT("/:id/status", orderController.UpdateOrderStatus, authMW.RequireRole("administrator"))
	orders.PUT("/:id/items", orderController.ReplaceItems)
	orders.POST("/:id/edit-request", orderController.RequestEdit)
	orders.PUT("/:id/edit-request", orderController.ResolveEditRequest, authMW.RequireRole("administrator"))
	orders.DELETE("/:id", orderController.DeleteOrder, authMW.RequireRole("administrator"))
}
