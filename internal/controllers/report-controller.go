package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"catering-system/internal/services"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/utils"
)

type ReportController struct {
	reportService services.ReportServiceInterface
	logger        *zap.Logger
}

func NewReportController(reportService services.ReportServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{reportService: reportService, logger: logger}
}

func parseYearMonth(ctx echo.Context) (int, int, error) {
	year, err := strconv.Atoi(ctx.QueryParam("year"))
	if err != nil || year < 2000 || year > 2100 {
		return 0, 0, apperrors.NewBadRequestError("Некорректный параметр year", err)
	}
	month, err := strconv.Atoi(ctx.QueryParam("month"))
	if err != nil || month < 1 || month > 12 {
		return 0, 0, apperrors.NewBadRequestError("Некорректный параметр month", err)
	}
	return year, month, nil
}

func (c *ReportController) GetDailyReport(ctx echo.Context) error {
	date := ctx.QueryParam("date")
	if date == "" {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Параметр date обязателен", nil), c.logger)
	}

	report, err := c.reportService.GetDailyReport(ctx.Request().Context(), date)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Дневной отчёт", http.StatusOK)
}

func (c *ReportController) GetMonthlyReport(ctx echo.Context) error {
	year, month, err := parseYearMonth(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	report, err := c.reportService.GetMonthlyReport(ctx.Request().Context(), year, month)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Месячный отчёт", http.StatusOK)
}

func (c *ReportController) GetYearlyReport(ctx echo.Context) error {
	year, err := strconv.Atoi(ctx.QueryParam("year"))
	if err != nil || year < 2000 || year > 2100 {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Некорректный параметр year", err), c.logger)
	}

	report, err := c.reportService.GetYearlyReport(ctx.Request().Context(), year)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Годовой отчёт", http.StatusOK)
}

func (c *ReportController) GetDepartmentReport(ctx echo.Context) error {
	departmentID, err := parseIDParam(ctx, "departmentId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	from := ctx.QueryParam("start_date")
	to := ctx.QueryParam("end_date")

	report, err := c.reportService.GetDepartmentReport(ctx.Request().Context(), departmentID, &from, &to)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, report, "Отчёт по департаменту", http.StatusOK)
}

// ExportMonthlyReport отдаёт месячный отчёт файлом XLSX.
func (c *ReportController) ExportMonthlyReport(ctx echo.Context) error {
	year, month, err := parseYearMonth(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	content, filename, err := c.reportService.ExportMonthlyReportXLSX(ctx.Request().Context(), year, month)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))
	return ctx.Blob(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
}
