package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	apperrors "catering-system/pkg/errors"
)

func testDepartments(count int) []entities.Department {
	names := []string{"Отдел разработки", "Бухгалтерия", "Отдел продаж", "Склад", "Администрация"}
	departments := make([]entities.Department, 0, count)
	for i := 0; i < count; i++ {
		departments = append(departments, entities.Department{
			ID:            uint64(i + 1),
			Name:          names[i%len(names)],
			CanOrder:      true,
			IsActive:      true,
			OrderSequence: i + 1,
		})
	}
	return departments
}

func newTestScheduleService(departments []entities.Department) (*ScheduleService, *fakeScheduleRepo) {
	scheduleRepo := &fakeScheduleRepo{}
	return &ScheduleService{
		scheduleRepo:   scheduleRepo,
		departmentRepo: &fakeDepartmentRepo{departments: departments},
		logger:         zap.NewNop(),
	}, scheduleRepo
}

func weekDays(t *testing.T, result dto.WeekScheduleDTO) []string {
	t.Helper()
	days := make([]string, 0, len(result.Departments))
	for _, d := range result.Departments {
		days = append(days, d.VoucherDay)
	}
	return days
}

func TestGenerateSchedulesColdStart(t *testing.T) {
	svc, _ := newTestScheduleService(testDepartments(5))

	result, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-07",
	})
	require.NoError(t, err)
	require.Len(t, result.Weeks, 1)
	assert.Equal(t, 5, result.Generated)

	week := result.Weeks[0]
	assert.Equal(t, "2024-01-01", week.WeekStartDate)
	assert.Equal(t, 1, week.WeekNumber)
	assert.Equal(t, 2024, week.Year)
	assert.Equal(t, []string{"monday", "tuesday", "wednesday", "thursday", "friday"}, weekDays(t, week))
}

func TestGenerateSchedulesRotatesAcrossWeeks(t *testing.T) {
	svc, _ := newTestScheduleService(testDepartments(5))

	result, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-21",
	})
	require.NoError(t, err)
	require.Len(t, result.Weeks, 3)
	assert.Equal(t, 15, result.Generated)

	assert.Equal(t, []string{"monday", "tuesday", "wednesday", "thursday", "friday"}, weekDays(t, result.Weeks[0]))
	assert.Equal(t, []string{"tuesday", "wednesday", "thursday", "friday", "saturday"}, weekDays(t, result.Weeks[1]))
	assert.Equal(t, []string{"wednesday", "thursday", "friday", "saturday", "sunday"}, weekDays(t, result.Weeks[2]))
}

func TestGenerateSchedulesSkipsExistingWeeks(t *testing.T) {
	svc, _ := newTestScheduleService(testDepartments(3))

	first, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-14",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, first.Generated)

	repeat, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-14",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, repeat.Generated)
	assert.Empty(t, repeat.Weeks)
}

func TestGenerateSchedulesContinuesRotationFromStoredWeek(t *testing.T) {
	svc, _ := newTestScheduleService(testDepartments(2))

	_, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-07",
	})
	require.NoError(t, err)

	// Новый вызов подхватывает дни уже сохранённой недели.
	result, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-08",
		EndDate:   "2024-01-14",
	})
	require.NoError(t, err)
	require.Len(t, result.Weeks, 1)
	assert.Equal(t, []string{"tuesday", "wednesday"}, weekDays(t, result.Weeks[0]))
}

func TestGenerateSchedulesContinuesAcrossGap(t *testing.T) {
	svc, _ := newTestScheduleService(testDepartments(2))

	_, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-07",
	})
	require.NoError(t, err)

	// Неделя 8-14 января пропущена: счёт продолжается от последней
	// сгенерированной недели, а не начинается заново.
	result, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-15",
		EndDate:   "2024-01-21",
	})
	require.NoError(t, err)
	require.Len(t, result.Weeks, 1)
	assert.Equal(t, []string{"tuesday", "wednesday"}, weekDays(t, result.Weeks[0]))
}

func TestGenerateSchedulesRotationWrapsWeek(t *testing.T) {
	scheduleRepo := &fakeScheduleRepo{}
	scheduleRepo.schedules = append(scheduleRepo.schedules, entities.WeeklySchedule{
		ID:            1,
		WeekStartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DepartmentID:  1,
		VoucherDay:    entities.Sunday,
	})
	svc := &ScheduleService{
		scheduleRepo:   scheduleRepo,
		departmentRepo: &fakeDepartmentRepo{departments: testDepartments(1)},
		logger:         zap.NewNop(),
	}

	result, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-08",
		EndDate:   "2024-01-14",
	})
	require.NoError(t, err)
	require.Len(t, result.Weeks, 1)
	assert.Equal(t, []string{"monday"}, weekDays(t, result.Weeks[0]))
}

func TestGenerateSchedulesNoEligibleDepartments(t *testing.T) {
	departments := testDepartments(2)
	departments[0].IsActive = false
	departments[1].CanOrder = false
	svc, _ := newTestScheduleService(departments)

	_, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-07",
	})
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestGenerateSchedulesEndBeforeStart(t *testing.T) {
	svc, _ := newTestScheduleService(testDepartments(1))

	_, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-08",
		EndDate:   "2024-01-01",
	})
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}

func TestRegenerateWeek(t *testing.T) {
	svc, scheduleRepo := newTestScheduleService(testDepartments(2))

	_, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-07",
	})
	require.NoError(t, err)

	// Ручная правка дня, после которой неделя перегенерируется заново.
	_, err = svc.UpdateVoucherDay(context.Background(), scheduleRepo.schedules[0].ID, dto.UpdateScheduleDTO{
		VoucherDay: "friday",
	})
	require.NoError(t, err)

	result, err := svc.RegenerateWeek(context.Background(), "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, []string{"monday", "tuesday"}, weekDays(t, *result))
}

func TestDeleteWeek(t *testing.T) {
	svc, scheduleRepo := newTestScheduleService(testDepartments(3))

	_, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-07",
	})
	require.NoError(t, err)

	deleted, err := svc.DeleteWeek(context.Background(), "2024-01-03")
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assert.Empty(t, scheduleRepo.schedules)

	_, err = svc.DeleteWeek(context.Background(), "2024-01-03")
	require.Error(t, err)
}

func TestRegenerateWeekNotFound(t *testing.T) {
	svc, _ := newTestScheduleService(testDepartments(1))

	_, err := svc.RegenerateWeek(context.Background(), "2024-01-01")
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestUpdateVoucherDayRejectsUnknownDay(t *testing.T) {
	svc, scheduleRepo := newTestScheduleService(testDepartments(1))

	_, err := svc.GenerateSchedules(context.Background(), dto.GenerateSchedulesDTO{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-07",
	})
	require.NoError(t, err)

	_, err = svc.UpdateVoucherDay(context.Background(), scheduleRepo.schedules[0].ID, dto.UpdateScheduleDTO{
		VoucherDay: "someday",
	})
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
}
