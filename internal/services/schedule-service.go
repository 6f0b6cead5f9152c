package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	"catering-system/internal/repositories"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/utils"
)

type ScheduleServiceInterface interface {
	GenerateSchedules(ctx context.Context, payload dto.GenerateSchedulesDTO) (*dto.GeneratedSchedulesDTO, error)
	GetWeekSchedule(ctx context.Context, weekDate string) (*dto.WeekScheduleDTO, error)
	FindSchedule(ctx context.Context, id uint64) (*entities.WeeklySchedule, error)
	ListWeeks(ctx context.Context, from, to *string) ([]dto.WeekScheduleDTO, error)
	GetDepartmentSchedule(ctx context.Context, departmentID uint64, from, to *string) ([]dto.DepartmentScheduleDTO, error)
	UpdateVoucherDay(ctx context.Context, id uint64, payload dto.UpdateScheduleDTO) (*entities.WeeklySchedule, error)
	DeleteWeek(ctx context.Context, weekDate string) (int64, error)
	RegenerateWeek(ctx context.Context, weekDate string) (*dto.WeekScheduleDTO, error)
}

type ScheduleService struct {
	scheduleRepo   repositories.ScheduleRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	logger         *zap.Logger
}

func NewScheduleService(
	scheduleRepo repositories.ScheduleRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	logger *zap.Logger,
) ScheduleServiceInterface {
	return &ScheduleService{
		scheduleRepo:   scheduleRepo,
		departmentRepo: departmentRepo,
		logger:         logger,
	}
}

// GenerateSchedules создаёт расписания для всех недель диапазона.
// Ротация: день каждого департамента сдвигается на один день недели вперёд
// относительно предыдущей недели, по полному 7-дневному циклу. При
// отсутствии истории департаменты распределяются по рабочим дням в порядке
// order_sequence. Неделя, для которой уже есть хоть одна строка,
// пропускается целиком, поэтому повторная генерация идемпотентна.
func (s *ScheduleService) GenerateSchedules(ctx context.Context, payload dto.GenerateSchedulesDTO) (*dto.GeneratedSchedulesDTO, error) {
	startDate, err := parseDateOnly(payload.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := parseDateOnly(payload.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, apperrors.NewBadRequestError("Дата окончания раньше даты начала", nil)
	}

	departments, err := s.departmentRepo.GetActiveDepartments(ctx)
	if err != nil {
		return nil, err
	}
	eligible := make([]entities.Department, 0, len(departments))
	for _, d := range departments {
		if d.CanOrder {
			eligible = append(eligible, d)
		}
	}
	if len(eligible) == 0 {
		return nil, apperrors.NewBadRequestError("Нет активных департаментов для генерации расписания", nil)
	}

	firstWeek := entities.MondayOf(startDate)
	lastWeek := entities.MondayOf(endDate)

	// Точка продолжения ротации - дни недели, предшествующей диапазону.
	// Если перед диапазоном разрыв, счёт продолжается от последней
	// сгенерированной недели.
	currentDays, err := s.scheduleRepo.GetVoucherDaysForWeek(ctx, firstWeek.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	if len(currentDays) == 0 {
		latest, err := s.scheduleRepo.GetLatestWeekStart(ctx)
		if err != nil {
			return nil, err
		}
		if latest != nil && latest.Before(firstWeek) {
			if currentDays, err = s.scheduleRepo.GetVoucherDaysForWeek(ctx, *latest); err != nil {
				return nil, err
			}
		}
	}

	result := &dto.GeneratedSchedulesDTO{Weeks: make([]dto.WeekScheduleDTO, 0)}

	for week := firstWeek; !week.After(lastWeek); week = week.AddDate(0, 0, 7) {
		exists, err := s.scheduleRepo.ExistsForWeek(ctx, week)
		if err != nil {
			return nil, err
		}
		if exists {
			// Уже сгенерированная неделя остаётся как есть, но её дни
			// становятся базой ротации для следующей недели.
			existingDays, err := s.scheduleRepo.GetVoucherDaysForWeek(ctx, week)
			if err != nil {
				return nil, err
			}
			currentDays = existingDays
			continue
		}

		weekNumber, year := entities.ISOWeek(week)
		rows := make([]entities.WeeklySchedule, 0, len(eligible))
		nextDays := make(map[uint64]entities.Weekday, len(eligible))
		for i, department := range eligible {
			var day entities.Weekday
			if prev, ok := currentDays[department.ID]; ok {
				day = entities.NextVoucherDay(prev)
			} else {
				day = entities.InitialVoucherDay(i)
			}
			nextDays[department.ID] = day
			rows = append(rows, entities.WeeklySchedule{
				WeekStartDate:      week,
				DepartmentID:       department.ID,
				VoucherDay:         day,
				WeekNumber:         weekNumber,
				Year:               year,
				DepartmentName:     department.Name,
				DepartmentSequence: department.OrderSequence,
			})
		}

		created, err := s.scheduleRepo.CreateMany(ctx, rows)
		if err != nil {
			return nil, err
		}
		currentDays = nextDays
		result.Generated += len(created)
		result.Weeks = append(result.Weeks, toWeekScheduleDTO(week, weekNumber, year, created))
	}

	s.logger.Info("Сгенерированы расписания",
		zap.String("start", payload.StartDate),
		zap.String("end", payload.EndDate),
		zap.Int("rows", result.Generated))
	return result, nil
}

func toWeekScheduleDTO(week time.Time, weekNumber, year int, rows []entities.WeeklySchedule) dto.WeekScheduleDTO {
	departments := make([]dto.ScheduleDepartmentDTO, 0, len(rows))
	for _, r := range rows {
		departments = append(departments, dto.ScheduleDepartmentDTO{
			ID:            r.DepartmentID,
			ScheduleID:    r.ID,
			Name:          r.DepartmentName,
			VoucherDay:    string(r.VoucherDay),
			OrderSequence: r.DepartmentSequence,
		})
	}
	return dto.WeekScheduleDTO{
		WeekStartDate: week.Format("2006-01-02"),
		WeekNumber:    weekNumber,
		Year:          year,
		Departments:   departments,
	}
}

// GetWeekSchedule возвращает расписание недели, содержащей переданную дату.
func (s *ScheduleService) GetWeekSchedule(ctx context.Context, weekDate string) (*dto.WeekScheduleDTO, error) {
	date, err := parseDateOnly(weekDate)
	if err != nil {
		return nil, err
	}
	week := entities.MondayOf(date)

	rows, err := s.scheduleRepo.GetByWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError("Расписание на эту неделю не сгенерировано")
	}

	weekNumber, year := entities.ISOWeek(week)
	result := toWeekScheduleDTO(week, weekNumber, year, rows)
	return &result, nil
}

func (s *ScheduleService) parseRange(from, to *string) (*time.Time, *time.Time, error) {
	var fromDate, toDate *time.Time
	if v := utils.SafeDeref(from); v != "" {
		parsed, err := parseDateOnly(v)
		if err != nil {
			return nil, nil, err
		}
		fromDate = utils.ToPtr(entities.MondayOf(parsed))
	}
	if v := utils.SafeDeref(to); v != "" {
		parsed, err := parseDateOnly(v)
		if err != nil {
			return nil, nil, err
		}
		toDate = utils.ToPtr(entities.MondayOf(parsed))
	}
	return fromDate, toDate, nil
}

func (s *ScheduleService) FindSchedule(ctx context.Context, id uint64) (*entities.WeeklySchedule, error) {
	schedule, err := s.scheduleRepo.FindSchedule(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Строка расписания не найдена")
		}
		return nil, err
	}
	return schedule, nil
}

func (s *ScheduleService) ListWeeks(ctx context.Context, from, to *string) ([]dto.WeekScheduleDTO, error) {
	fromDate, toDate, err := s.parseRange(from, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.scheduleRepo.ListWeeks(ctx, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	// Группировка по неделям с сохранением порядка.
	weeks := make([]dto.WeekScheduleDTO, 0)
	index := make(map[string]int)
	for _, r := range rows {
		key := r.WeekStartDate.Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			weeks = append(weeks, dto.WeekScheduleDTO{
				WeekStartDate: key,
				WeekNumber:    r.WeekNumber,
				Year:          r.Year,
				Departments:   make([]dto.ScheduleDepartmentDTO, 0),
			})
			i = len(weeks) - 1
			index[key] = i
		}
		weeks[i].Departments = append(weeks[i].Departments, dto.ScheduleDepartmentDTO{
			ID:            r.DepartmentID,
			ScheduleID:    r.ID,
			Name:          r.DepartmentName,
			VoucherDay:    string(r.VoucherDay),
			OrderSequence: r.DepartmentSequence,
		})
	}
	return weeks, nil
}

func (s *ScheduleService) GetDepartmentSchedule(ctx context.Context, departmentID uint64, from, to *string) ([]dto.DepartmentScheduleDTO, error) {
	if _, err := s.departmentRepo.FindDepartment(ctx, departmentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Департамент не найден")
		}
		return nil, err
	}

	fromDate, toDate, err := s.parseRange(from, to)
	if err != nil {
		return nil, err
	}

	rows, err := s.scheduleRepo.ListByDepartment(ctx, departmentID, fromDate, toDate)
	if err != nil {
		return nil, err
	}

	result := make([]dto.DepartmentScheduleDTO, 0, len(rows))
	for _, r := range rows {
		result = append(result, dto.DepartmentScheduleDTO{
			ID:            r.ID,
			WeekStartDate: r.WeekStartDate.Format("2006-01-02"),
			VoucherDay:    string(r.VoucherDay),
			VoucherDate:   r.VoucherDate().Format("2006-01-02"),
			WeekNumber:    r.WeekNumber,
			Year:          r.Year,
		})
	}
	return result, nil
}

// UpdateVoucherDay - ручная корректировка дня одной строки расписания.
// Корректировка не меняет базу ротации задним числом: следующие недели
// продолжают счёт от фактически записанных дней.
func (s *ScheduleService) UpdateVoucherDay(ctx context.Context, id uint64, payload dto.UpdateScheduleDTO) (*entities.WeeklySchedule, error) {
	day, err := entities.ParseWeekday(payload.VoucherDay)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Недопустимый день недели", err)
	}

	updated, err := s.scheduleRepo.UpdateVoucherDay(ctx, id, day)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Строка расписания не найдена")
	}
	return updated, err
}

// DeleteWeek удаляет все строки расписания недели, содержащей переданную дату.
func (s *ScheduleService) DeleteWeek(ctx context.Context, weekDate string) (int64, error) {
	date, err := parseDateOnly(weekDate)
	if err != nil {
		return 0, err
	}
	week := entities.MondayOf(date)

	deleted, err := s.scheduleRepo.DeleteByWeek(ctx, week)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, apperrors.NewNotFoundError("Расписание на эту неделю не сгенерировано")
	}
	s.logger.Info("Удалено расписание недели",
		zap.String("week_start_date", week.Format("2006-01-02")),
		zap.Int64("rows", deleted))
	return deleted, nil
}

// RegenerateWeek удаляет расписание недели и генерирует его заново.
func (s *ScheduleService) RegenerateWeek(ctx context.Context, weekDate string) (*dto.WeekScheduleDTO, error) {
	date, err := parseDateOnly(weekDate)
	if err != nil {
		return nil, err
	}
	week := entities.MondayOf(date)

	if _, err := s.DeleteWeek(ctx, weekDate); err != nil {
		return nil, err
	}

	weekStr := week.Format("2006-01-02")
	if _, err := s.GenerateSchedules(ctx, dto.GenerateSchedulesDTO{StartDate: weekStr, EndDate: weekStr}); err != nil {
		return nil, err
	}
	return s.GetWeekSchedule(ctx, weekStr)
}
