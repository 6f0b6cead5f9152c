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

func InitVoucherRoutes(api *echo.Group, storage *pgxpool.Pool, cfg *config.Config, authMW *middleware.AuthMiddleware, logger *zap.Logger) {
	voucherRepo := repositories.NewVoucherRepository(storage, logger)
	scheduleRepo := repositories.NewScheduleRepository(storage, logger)
	departmentRepo := repositories.NewDepartmentRepository(storage, logger)
	voucherService := services.NewVoucherService(voucherRepo, scheduleRepo, departmentRepo, cfg.Voucher, logger)
	voucherController := controllers.NewVoucherController(voucherService, logger)

	vouchers := api.Group("/vouchers", authMW.Auth)
	vouchers.GET("", voucherController.GetVouchers)
	vouchers.GET("/:id", voucherController.FindVoucher)
	vouchers.GET("/code/:code", voucherController.FindVoucherByCode)
	vouchers.GET("/department/:departmentId", voucherController.GetDepartmentVouchers)
	vouchers.POST("/generate", voucherController.GenerateVouchers, authMW.RequireRole("administrator"))
	vouchers.POST("/code/:code/use", voucherController.UseVoucher)
	vouchers.PUT("/:id/status", voucherController.UpdateVoucherStatus, authMW.RequireRole("administrator"))
	vouchers.POST("/expire-old", voucherController.ExpireOldVouchers, authMW.RequireRole("administrator"))
}
