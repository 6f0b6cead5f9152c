package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/services"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/utils"
)

type FeedbackController struct {
	feedbackService services.FeedbackServiceInterface
	logger          *zap.Logger
}

func NewFeedbackController(feedbackService services.FeedbackServiceInterface, logger *zap.Logger) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService, logger: logger}
}

func (c *FeedbackController) GetFeedbacks(ctx echo.Context) error {
	filter := utils.ParseFilterFromQuery(ctx.Request().URL.Query())
	feedbacks, total, err := c.feedbackService.GetFeedbacks(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, feedbacks, "Список отзывов", http.StatusOK, total)
}

func (c *FeedbackController) FindFeedback(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	feedback, err := c.feedbackService.FindFeedback(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, feedback, "Отзыв", http.StatusOK)
}

func (c *FeedbackController) CreateFeedback(ctx echo.Context) error {
	var payload dto.CreateFeedbackDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	feedback, err := c.feedbackService.CreateFeedback(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, feedback, "Отзыв сохранён", http.StatusCreated)
}

func (c *FeedbackController) UpdateFeedback(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateFeedbackDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	feedback, err := c.feedbackService.UpdateFeedback(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, feedback, "Отзыв обновлён", http.StatusOK)
}

func (c *FeedbackController) DeleteFeedback(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.feedbackService.DeleteFeedback(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Отзыв удалён", http.StatusOK)
}

func (c *FeedbackController) GetStats(ctx echo.Context) error {
	var departmentID *uint64
	if raw := ctx.QueryParam("department_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный department_id", err), c.logger)
		}
		departmentID = &id
	}

	var from, to *time.Time
	if raw := ctx.QueryParam("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат start_date, ожидается YYYY-MM-DD", err), c.logger)
		}
		from = &parsed
	}
	if raw := ctx.QueryParam("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат end_date, ожидается YYYY-MM-DD", err), c.logger)
		}
		to = &parsed
	}

	stats, err := c.feedbackService.GetStats(ctx.Request().Context(), departmentID, from, to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, stats, "Статистика отзывов", http.StatusOK)
}
