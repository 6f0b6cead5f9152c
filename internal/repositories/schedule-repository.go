package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"catering-system/internal/entities"
	apperrors "catering-system/pkg/errors"
)

const scheduleTable = "weekly_schedules"

const scheduleColumns = `s.id, s.week_start_date, s.department_id, s.voucher_day, s.week_number, s.year,
	d.name, d.order_sequence, s.created_at, s.updated_at`

type ScheduleRepositoryInterface interface {
	ExistsForWeek(ctx context.Context, weekStart time.Time) (bool, error)
	GetByWeek(ctx context.Context, weekStart time.Time) ([]entities.WeeklySchedule, error)
	GetLatestWeekStart(ctx context.Context) (*time.Time, error)
	GetVoucherDaysForWeek(ctx context.Context, weekStart time.Time) (map[uint64]entities.Weekday, error)
	FindSchedule(ctx context.Context, id uint64) (*entities.WeeklySchedule, error)
	CreateMany(ctx context.Context, schedules []entities.WeeklySchedule) ([]entities.WeeklySchedule, error)
	UpdateVoucherDay(ctx context.Context, id uint64, day entities.Weekday) (*entities.WeeklySchedule, error)
	DeleteByWeek(ctx context.Context, weekStart time.Time) (int64, error)
	ListWeeks(ctx context.Context, from, to *time.Time) ([]entities.WeeklySchedule, error)
	ListByDepartment(ctx context.Context, departmentID uint64, from, to *time.Time) ([]entities.WeeklySchedule, error)
}

type ScheduleRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewScheduleRepository(storage *pgxpool.Pool, logger *zap.Logger) ScheduleRepositoryInterface {
	return &ScheduleRepository{storage: storage, logger: logger}
}

func scanSchedule(row pgx.Row) (*entities.WeeklySchedule, error) {
	var s entities.WeeklySchedule
	var day string
	err := row.Scan(&s.ID, &s.WeekStartDate, &s.DepartmentID, &day, &s.WeekNumber, &s.Year,
		&s.DepartmentName, &s.DepartmentSequence, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования weekly_schedule: %w", err)
	}
	s.VoucherDay = entities.Weekday(day)
	return &s, nil
}

func (r *ScheduleRepository) collect(ctx context.Context, query string, args ...interface{}) ([]entities.WeeklySchedule, error) {
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := make([]entities.WeeklySchedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, *s)
	}
	return schedules, rows.Err()
}

// ExistsForWeek - есть ли хоть одна строка расписания на указанную неделю.
// Наличие хотя бы одной строки означает, что неделя уже сгенерирована и
// генератор должен её пропустить.
func (r *ScheduleRepository) ExistsForWeek(ctx context.Context, weekStart time.Time) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM weekly_schedules WHERE week_start_date = $1)`, weekStart).Scan(&exists)
	return exists, err
}

func (r *ScheduleRepository) GetByWeek(ctx context.Context, weekStart time.Time) ([]entities.WeeklySchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s s
		JOIN departments d ON d.id = s.department_id
		WHERE s.week_start_date = $1
		ORDER BY d.order_sequence ASC, d.id ASC`, scheduleColumns, scheduleTable)
	return r.collect(ctx, query, weekStart)
}

// GetLatestWeekStart возвращает начало самой поздней недели, для которой
// существует расписание, либо nil, если расписаний ещё нет (холодный старт).
func (r *ScheduleRepository) GetLatestWeekStart(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	err := r.storage.QueryRow(ctx, `SELECT MAX(week_start_date) FROM weekly_schedules`).Scan(&latest)
	if err != nil {
		return nil, err
	}
	return latest, nil
}

// GetVoucherDaysForWeek - дни ваучеров по департаментам для одной недели.
// Нужен генератору как точка продолжения ротации.
func (r *ScheduleRepository) GetVoucherDaysForWeek(ctx context.Context, weekStart time.Time) (map[uint64]entities.Weekday, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT department_id, voucher_day FROM weekly_schedules WHERE week_start_date = $1`, weekStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days := make(map[uint64]entities.Weekday)
	for rows.Next() {
		var departmentID uint64
		var day string
		if err := rows.Scan(&departmentID, &day); err != nil {
			return nil, err
		}
		days[departmentID] = entities.Weekday(day)
	}
	return days, rows.Err()
}

func (r *ScheduleRepository) FindSchedule(ctx context.Context, id uint64) (*entities.WeeklySchedule, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s s
		JOIN departments d ON d.id = s.department_id
		WHERE s.id = $1`, scheduleColumns, scheduleTable)
	return scanSchedule(r.storage.QueryRow(ctx, query, id))
}

// CreateMany вставляет пачку строк расписания в одной транзакции: неделя
// либо записывается целиком, либо не записывается вовсе.
func (r *ScheduleRepository) CreateMany(ctx context.Context, schedules []entities.WeeklySchedule) ([]entities.WeeklySchedule, error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created := make([]entities.WeeklySchedule, 0, len(schedules))
	for _, s := range schedules {
		var id uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO weekly_schedules (week_start_date, department_id, voucher_day, week_number, year)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			s.WeekStartDate, s.DepartmentID, string(s.VoucherDay), s.WeekNumber, s.Year).Scan(&id)
		if err != nil {
			if IsUniqueViolation(err) {
				return nil, apperrors.NewConflictError(
					fmt.Sprintf("Расписание для департамента %d на неделю %s уже существует",
						s.DepartmentID, s.WeekStartDate.Format("2006-01-02")), err)
			}
			return nil, err
		}
		s.ID = id
		created = append(created, s)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *ScheduleRepository) UpdateVoucherDay(ctx context.Context, id uint64, day entities.Weekday) (*entities.WeeklySchedule, error) {
	result, err := r.storage.Exec(ctx,
		`UPDATE weekly_schedules SET voucher_day = $1, updated_at = NOW() WHERE id = $2`, string(day), id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindSchedule(ctx, id)
}

func (r *ScheduleRepository) DeleteByWeek(ctx context.Context, weekStart time.Time) (int64, error) {
	result, err := r.storage.Exec(ctx, `DELETE FROM weekly_schedules WHERE week_start_date = $1`, weekStart)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func (r *ScheduleRepository) ListWeeks(ctx context.Context, from, to *time.Time) ([]entities.WeeklySchedule, error) {
	builder := sq.Select(scheduleColumns).
		From(scheduleTable + " s").
		Join("departments d ON d.id = s.department_id").
		PlaceholderFormat(sq.Dollar).
		OrderBy("s.week_start_date ASC", "d.order_sequence ASC", "d.id ASC")
	if from != nil {
		builder = builder.Where(sq.GtOrEq{"s.week_start_date": *from})
	}
	if to != nil {
		builder = builder.Where(sq.LtOrEq{"s.week_start_date": *to})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, query, args...)
}

func (r *ScheduleRepository) ListByDepartment(ctx context.Context, departmentID uint64, from, to *time.Time) ([]entities.WeeklySchedule, error) {
	builder := sq.Select(scheduleColumns).
		From(scheduleTable + " s").
		Join("departments d ON d.id = s.department_id").
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"s.department_id": departmentID}).
		OrderBy("s.week_start_date ASC")
	if from != nil {
		builder = builder.Where(sq.GtOrEq{"s.week_start_date": *from})
	}
	if to != nil {
		builder = builder.Where(sq.LtOrEq{"s.week_start_date": *to})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	return r.collect(ctx, query, args...)
}
