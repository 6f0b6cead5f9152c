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

type ScheduleController struct {
	scheduleService services.ScheduleServiceInterface
	logger          *zap.Logger
}

func NewScheduleController(scheduleService services.ScheduleServiceInterface, logger *zap.Logger) *ScheduleController {
	return &ScheduleController{scheduleService: scheduleService, logger: logger}
}

func (c *ScheduleController) GenerateSchedules(ctx echo.Context) error {
	var payload dto.GenerateSchedulesDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	result, err := c.scheduleService.GenerateSchedules(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, result, "Расписания сгенерированы", http.StatusCreated)
}

func (c *ScheduleController) GetWeekSchedule(ctx echo.Context) error {
	week, err := c.scheduleService.GetWeekSchedule(ctx.Request().Context(), ctx.Param("date"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, week, "Расписание недели", http.StatusOK)
}

func (c *ScheduleController) FindSchedule(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	schedule, err := c.scheduleService.FindSchedule(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, schedule, "Строка расписания", http.StatusOK)
}

func (c *ScheduleController) ListWeeks(ctx echo.Context) error {
	from := ctx.QueryParam("start_date")
	to := ctx.QueryParam("end_date")

	weeks, err := c.scheduleService.ListWeeks(ctx.Request().Context(), &from, &to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, weeks, "Расписания", http.StatusOK)
}

func (c *ScheduleController) GetDepartmentSchedule(ctx echo.Context) error {
	departmentID, err := parseIDParam(ctx, "departmentId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	from := ctx.QueryParam("start_date")
	to := ctx.QueryParam("end_date")

	schedule, err := c.scheduleService.GetDepartmentSchedule(ctx.Request().Context(), departmentID, &from, &to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, schedule, "Расписание департамента", http.StatusOK)
}

func (c *ScheduleController) UpdateVoucherDay(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateScheduleDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Неверный формат запроса", err), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	schedule, err := c.scheduleService.UpdateVoucherDay(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, schedule, "День ваучера обновлён", http.StatusOK)
}

func (c *ScheduleController) DeleteWeek(ctx echo.Context) error {
	deleted, err := c.scheduleService.DeleteWeek(ctx.Request().Context(), ctx.Param("date"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]int64{"deleted": deleted}, "Расписание недели удалено", http.StatusOK)
}

func (c *ScheduleController) RegenerateWeek(ctx echo.Context) error {
	week, err := c.scheduleService.RegenerateWeek(ctx.Request().Context(), ctx.Param("date"))
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, week, "Расписание недели перегенерировано", http.StatusOK)
}
