package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	"catering-system/internal/services"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/utils"
)

type FoodController struct {
	foodService services.FoodServiceInterface
	logger      *zap.Logger
}

func NewFoodController(foodService services.FoodServiceInterface, logger *zap.Logger) *FoodController {
	return &FoodController{foodService: foodService, logger: logger}
}

func (c *FoodController) GetCategories(ctx echo.Context) error {
	return utils.SuccessResponse(ctx, entities.FoodCategories, "Категории блюд", http.StatusOK)
}

func (c *FoodController) GetFoods(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	foods, total, err := c.foodService.GetFoods(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, foods, "Каталог блюд", http.StatusOK, total)
}

func (c *FoodController) FindFood(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	food, err := c.foodService.FindFood(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, food, "Блюдо", http.StatusOK)
}

func (c *FoodController) CreateFood(ctx echo.Context) error {
	var payload dto.CreateFoodDTO
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

	food, err := c.foodService.CreateFood(ctx.Request().Context(), payload, userID)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, food, "Блюдо создано", http.StatusCreated)
}

func (c *FoodController) UpdateFood(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateFoodDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	food, err := c.foodService.UpdateFood(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, food, "Блюдо обновлено", http.StatusOK)
}

func (c *FoodController) DeleteFood(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	markedUnavailable, err := c.foodService.DeleteFood(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	message := "Блюдо удалено"
	if markedUnavailable {
		message = "Блюдо помечено недоступным: есть история заказов"
	}
	return utils.SuccessResponse(ctx, nil, message, http.StatusOK)
}
