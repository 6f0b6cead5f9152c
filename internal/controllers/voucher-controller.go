package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/services"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/utils"
)

type VoucherController struct {
	voucherService services.VoucherServiceInterface
	logger         *zap.Logger
}

func NewVoucherController(voucherService services.VoucherServiceInterface, logger *zap.Logger) *VoucherController {
	return &VoucherController{voucherService: voucherService, logger: logger}
}

func (c *VoucherController) GetVouchers(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	vouchers, total, err := c.voucherService.GetVouchers(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, vouchers, "Список ваучеров", http.StatusOK, total)
}

func (c *VoucherController) FindVoucher(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	voucher, err := c.voucherService.FindVoucher(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, voucher, "Ваучер", http.StatusOK)
}

func (c *VoucherController) FindVoucherByCode(ctx echo.Context) error {
	code := ctx.Param("code")
	if code == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Код ваучера обязателен", nil), c.logger)
	}
	voucher, err := c.voucherService.FindVoucherByCode(ctx.Request().Context(), code)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, voucher, "Ваучер", http.StatusOK)
}

func (c *VoucherController) GenerateVouchers(ctx echo.Context) error {
	var payload dto.GenerateVouchersDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewUnauthorizedError("Требуется авторизация"), c.logger)
	}

	vouchers, err := c.voucherService.GenerateVouchersForWeek(ctx.Request().Context(), payload, userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, vouchers, "Ваучеры выпущены", http.StatusCreated)
}

func (c *VoucherController) UseVoucher(ctx echo.Context) error {
	code := ctx.Param("code")
	if code == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Код ваучера обязателен", nil), c.logger)
	}

	var payload dto.UseVoucherDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса", err), c.logger)
	}

	voucher, err := c.voucherService.UseVoucher(ctx.Request().Context(), code, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, voucher, "Ваучер погашен", http.StatusOK)
}

func (c *VoucherController) UpdateVoucherStatus(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateVoucherStatusDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	voucher, err := c.voucherService.UpdateVoucherStatus(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, voucher, "Статус ваучера обновлён", http.StatusOK)
}

func (c *VoucherController) GetDepartmentVouchers(ctx echo.Context) error {
	departmentID, err := parseIDParam(ctx, "departmentId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.voucherService.GetDepartmentVouchers(ctx.Request().Context(), departmentID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Ваучеры департамента", http.StatusOK)
}

func (c *VoucherController) ExpireOldVouchers(ctx echo.Context) error {
	result, err := c.voucherService.ExpireOldVouchers(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Просроченные ваучеры обработаны", http.StatusOK)
}
