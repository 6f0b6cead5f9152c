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

type DailyMenuController struct {
	dailyMenuService services.DailyMenuServiceInterface
	logger           *zap.Logger
}

func NewDailyMenuController(dailyMenuService services.DailyMenuServiceInterface, logger *zap.Logger) *DailyMenuController {
	return &DailyMenuController{dailyMenuService: dailyMenuService, logger: logger}
}

func (c *DailyMenuController) GetMenuForDate(ctx echo.Context) error {
	date := ctx.Param("date")
	items, err := c.dailyMenuService.GetMenuForDate(ctx.Request().Context(), date)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Меню дня", http.StatusOK)
}

func (c *DailyMenuController) CreateMenu(ctx echo.Context) error {
	var payload dto.CreateDailyMenuDTO
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

	items, err := c.dailyMenuService.CreateMenu(ctx.Request().Context(), payload, userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, items, "Меню дня сформировано", http.StatusCreated)
}

func (c *DailyMenuController) UpdateMenuItem(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateDailyMenuDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса", err), c.logger)
	}
	if payload.IsActive == nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Поле is_active обязательно", nil), c.logger)
	}

	item, err := c.dailyMenuService.SetActive(ctx.Request().Context(), id, *payload.IsActive)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, item, "Позиция меню обновлена", http.StatusOK)
}

func (c *DailyMenuController) DeleteMenuItem(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.dailyMenuService.DeleteMenuItem(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Позиция меню удалена", http.StatusOK)
}
