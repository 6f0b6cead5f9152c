package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/repositories"
	apperrors "catering-system/pkg/errors"
)

const topFoodsLimit = 10

type ReportServiceInterface interface {
	GetDailyReport(ctx context.Context, date string) (*dto.DailyReportDTO, error)
	GetMonthlyReport(ctx context.Context, year, month int) (*dto.MonthlyReportDTO, error)
	GetYearlyReport(ctx context.Context, year int) (*dto.YearlyReportDTO, error)
	GetDepartmentReport(ctx context.Context, departmentID uint64, from, to *string) (*dto.DepartmentReportDTO, error)
	ExportMonthlyReportXLSX(ctx context.Context, year, month int) ([]byte, string, error)
}

type ReportService struct {
	reportRepo     repositories.ReportRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	logger         *zap.Logger
}

func NewReportService(
	reportRepo repositories.ReportRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	logger *zap.Logger,
) ReportServiceInterface {
	return &ReportService{reportRepo: reportRepo, departmentRepo: departmentRepo, logger: logger}
}

func (s *ReportService) GetDailyReport(ctx context.Context, date string) (*dto.DailyReportDTO, error) {
	day, err := parseDateOnly(date)
	if err != nil {
		return nil, err
	}

	summary, err := s.reportRepo.GetSummary(ctx, nil, day, day)
	if err != nil {
		return nil, err
	}
	foodItems, err := s.reportRepo.GetFoodSummary(ctx, nil, day, day, 0)
	if err != nil {
		return nil, err
	}

	return &dto.DailyReportDTO{
		Date:      day.Format("2006-01-02"),
		Summary:   *summary,
		FoodItems: foodItems,
	}, nil
}

func monthRange(year, month int) (time.Time, time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, time.Time{}, apperrors.NewBadRequestError("Месяц должен быть в диапазоне 1-12", nil)
	}
	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to, nil
}

func (s *ReportService) GetMonthlyReport(ctx context.Context, year, month int) (*dto.MonthlyReportDTO, error) {
	from, to, err := monthRange(year, month)
	if err != nil {
		return nil, err
	}

	summary, err := s.reportRepo.GetSummary(ctx, nil, from, to)
	if err != nil {
		return nil, err
	}
	daily, err := s.reportRepo.GetDailyRows(ctx, from, to)
	if err != nil {
		return nil, err
	}
	topFoods, err := s.reportRepo.GetFoodSummary(ctx, nil, from, to, topFoodsLimit)
	if err != nil {
		return nil, err
	}

	return &dto.MonthlyReportDTO{
		Year:         year,
		Month:        month,
		Summary:      *summary,
		DailyReports: daily,
		TopFoods:     topFoods,
	}, nil
}

func (s *ReportService) GetYearlyReport(ctx context.Context, year int) (*dto.YearlyReportDTO, error) {
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	summary, err := s.reportRepo.GetSummary(ctx, nil, from, to)
	if err != nil {
		return nil, err
	}
	monthly, err := s.reportRepo.GetMonthlyRows(ctx, year)
	if err != nil {
		return nil, err
	}
	topFoods, err := s.reportRepo.GetFoodSummary(ctx, nil, from, to, topFoodsLimit)
	if err != nil {
		return nil, err
	}

	return &dto.YearlyReportDTO{
		Year:           year,
		Summary:        *summary,
		MonthlyReports: monthly,
		TopFoods:       topFoods,
	}, nil
}

func (s *ReportService) GetDepartmentReport(ctx context.Context, departmentID uint64, from, to *string) (*dto.DepartmentReportDTO, error) {
	department, err := s.departmentRepo.FindDepartment(ctx, departmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Департамент не найден")
		}
		return nil, err
	}

	// По умолчанию - последние 30 дней.
	toDate := time.Now().UTC().Truncate(24 * time.Hour)
	fromDate := toDate.AddDate(0, 0, -30)
	if from != nil && *from != "" {
		fromDate, err = parseDateOnly(*from)
		if err != nil {
			return nil, err
		}
	}
	if to != nil && *to != "" {
		toDate, err = parseDateOnly(*to)
		if err != nil {
			return nil, err
		}
	}

	summary, err := s.reportRepo.GetSummary(ctx, &departmentID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	topFoods, err := s.reportRepo.GetFoodSummary(ctx, &departmentID, fromDate, toDate, topFoodsLimit)
	if err != nil {
		return nil, err
	}

	return &dto.DepartmentReportDTO{
		Department: dto.ShortDepartmentDTO{ID: department.ID, Name: department.Name},
		StartDate:  fromDate.Format("2006-01-02"),
		EndDate:    toDate.Format("2006-01-02"),
		Summary:    *summary,
		TopFoods:   topFoods,
	}, nil
}

// ExportMonthlyReportXLSX собирает месячный отчёт в XLSX: лист сводки,
// лист дневной разбивки и лист топа блюд.
func (s *ReportService) ExportMonthlyReportXLSX(ctx context.Context, year, month int) ([]byte, string, error) {
	report, err := s.GetMonthlyReport(ctx, year, month)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Сводка"
	f.SetSheetName("Sheet1", summarySheet)
	summaryRows := [][]interface{}{
		{"Период", fmt.Sprintf("%04d-%02d", year, month)},
		{"Всего заказов", report.Summary.TotalOrders},
		{"Выручка", report.Summary.TotalRevenue},
		{"Всего отзывов", report.Summary.TotalFeedbacks},
		{"Средняя оценка", report.Summary.AverageRating},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, "", err
		}
	}

	const dailySheet = "По дням"
	if _, err := f.NewSheet(dailySheet); err != nil {
		return nil, "", err
	}
	header := []interface{}{"Дата", "Заказы", "Выручка", "Отзывы", "Средняя оценка"}
	if err := f.SetSheetRow(dailySheet, "A1", &header); err != nil {
		return nil, "", err
	}
	for i, row := range report.DailyReports {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{row.Date, row.Orders, row.Revenue, row.Feedbacks, row.AverageRating}
		if err := f.SetSheetRow(dailySheet, cell, &values); err != nil {
			return nil, "", err
		}
	}

	const foodsSheet = "Топ блюд"
	if _, err := f.NewSheet(foodsSheet); err != nil {
		return nil, "", err
	}
	foodsHeader := []interface{}{"Блюдо", "Категория", "Количество", "Выручка"}
	if err := f.SetSheetRow(foodsSheet, "A1", &foodsHeader); err != nil {
		return nil, "", err
	}
	for i, food := range report.TopFoods {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []interface{}{food.Name, food.Category, food.Quantity, food.Revenue}
		if err := f.SetSheetRow(foodsSheet, cell, &values); err != nil {
			return nil, "", err
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("не удалось сформировать XLSX: %w", err)
	}

	filename := fmt.Sprintf("catering-report-%04d-%02d.xlsx", year, month)
	return buffer.Bytes(), filename, nil
}
