package services

import (
	"context"
	"sort"
	"time"

	"github.com/aarondl/null/v8"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/types"
)

// Фейковые репозитории в памяти для тестов сервисов.

type fakeDepartmentRepo struct {
	departments []entities.Department
}

func (f *fakeDepartmentRepo) GetDepartments(_ context.Context, _ types.Filter) ([]entities.Department, uint64, error) {
	return f.departments, uint64(len(f.departments)), nil
}

func (f *fakeDepartmentRepo) GetActiveDepartments(_ context.Context) ([]entities.Department, error) {
	active := make([]entities.Department, 0)
	for _, d := range f.departments {
		if d.IsActive {
			active = append(active, d)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].OrderSequence < active[j].OrderSequence
	})
	return active, nil
}

func (f *fakeDepartmentRepo) FindDepartment(_ context.Context, id uint64) (*entities.Department, error) {
	for i := range f.departments {
		if f.departments[i].ID == id {
			return &f.departments[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeDepartmentRepo) FindByNameOrPin(_ context.Context, name, pin string, excludeID uint64) (*entities.Department, error) {
	for i := range f.departments {
		d := &f.departments[i]
		if d.ID != excludeID && (d.Name == name || d.Pin == pin) {
			return d, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeDepartmentRepo) FindActiveByIDAndPin(_ context.Context, id uint64, pin string) (*entities.Department, error) {
	for i := range f.departments {
		d := &f.departments[i]
		if d.ID == id && d.Pin == pin && d.IsActive {
			return d, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeDepartmentRepo) MaxOrderSequence(_ context.Context) (int, error) {
	max := 0
	for _, d := range f.departments {
		if d.OrderSequence > max {
			max = d.OrderSequence
		}
	}
	return max, nil
}

func (f *fakeDepartmentRepo) HasOrders(_ context.Context, _ uint64) (bool, error) { return false, nil }

func (f *fakeDepartmentRepo) CreateDepartment(_ context.Context, department entities.Department) (*entities.Department, error) {
	department.ID = uint64(len(f.departments) + 1)
	f.departments = append(f.departments, department)
	return &department, nil
}

func (f *fakeDepartmentRepo) UpdateDepartment(_ context.Context, id uint64, _ dto.UpdateDepartmentDTO) (*entities.Department, error) {
	return f.FindDepartment(context.Background(), id)
}

func (f *fakeDepartmentRepo) DeleteDepartment(_ context.Context, id uint64) error {
	for i := range f.departments {
		if f.departments[i].ID == id {
			f.departments = append(f.departments[:i], f.departments[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (f *fakeDepartmentRepo) DeactivateDepartment(_ context.Context, id uint64) error {
	for i := range f.departments {
		if f.departments[i].ID == id {
			f.departments[i].IsActive = false
			return nil
		}
	}
	return apperrors.ErrNotFound
}

type fakeScheduleRepo struct {
	schedules []entities.WeeklySchedule
	nextID    uint64
}

func (f *fakeScheduleRepo) ExistsForWeek(_ context.Context, weekStart time.Time) (bool, error) {
	for _, s := range f.schedules {
		if s.WeekStartDate.Equal(weekStart) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeScheduleRepo) GetByWeek(_ context.Context, weekStart time.Time) ([]entities.WeeklySchedule, error) {
	rows := make([]entities.WeeklySchedule, 0)
	for _, s := range f.schedules {
		if s.WeekStartDate.Equal(weekStart) {
			rows = append(rows, s)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].DepartmentSequence < rows[j].DepartmentSequence
	})
	return rows, nil
}

func (f *fakeScheduleRepo) GetLatestWeekStart(_ context.Context) (*time.Time, error) {
	var latest *time.Time
	for i := range f.schedules {
		w := f.schedules[i].WeekStartDate
		if latest == nil || w.After(*latest) {
			latest = &w
		}
	}
	return latest, nil
}

func (f *fakeScheduleRepo) GetVoucherDaysForWeek(_ context.Context, weekStart time.Time) (map[uint64]entities.Weekday, error) {
	days := make(map[uint64]entities.Weekday)
	for _, s := range f.schedules {
		if s.WeekStartDate.Equal(weekStart) {
			days[s.DepartmentID] = s.VoucherDay
		}
	}
	return days, nil
}

func (f *fakeScheduleRepo) FindSchedule(_ context.Context, id uint64) (*entities.WeeklySchedule, error) {
	for i := range f.schedules {
		if f.schedules[i].ID == id {
			return &f.schedules[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeScheduleRepo) CreateMany(_ context.Context, schedules []entities.WeeklySchedule) ([]entities.WeeklySchedule, error) {
	created := make([]entities.WeeklySchedule, 0, len(schedules))
	for _, s := range schedules {
		for _, existing := range f.schedules {
			if existing.DepartmentID == s.DepartmentID && existing.WeekStartDate.Equal(s.WeekStartDate) {
				return nil, apperrors.NewConflictError("Расписание уже существует", nil)
			}
		}
		f.nextID++
		s.ID = f.nextID
		f.schedules = append(f.schedules, s)
		created = append(created, s)
	}
	return created, nil
}

func (f *fakeScheduleRepo) UpdateVoucherDay(_ context.Context, id uint64, day entities.Weekday) (*entities.WeeklySchedule, error) {
	for i := range f.schedules {
		if f.schedules[i].ID == id {
			f.schedules[i].VoucherDay = day
			return &f.schedules[i], nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeScheduleRepo) DeleteByWeek(_ context.Context, weekStart time.Time) (int64, error) {
	kept := f.schedules[:0]
	var deleted int64
	for _, s := range f.schedules {
		if s.WeekStartDate.Equal(weekStart) {
			deleted++
			continue
		}
		kept = append(kept, s)
	}
	f.schedules = kept
	return deleted, nil
}

func (f *fakeScheduleRepo) ListWeeks(_ context.Context, from, to *time.Time) ([]entities.WeeklySchedule, error) {
	rows := make([]entities.WeeklySchedule, 0)
	for _, s := range f.schedules {
		if from != nil && s.WeekStartDate.Before(*from) {
			continue
		}
		if to != nil && s.WeekStartDate.After(*to) {
			continue
		}
		rows = append(rows, s)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].WeekStartDate.Equal(rows[j].WeekStartDate) {
			return rows[i].WeekStartDate.Before(rows[j].WeekStartDate)
		}
		return rows[i].DepartmentSequence < rows[j].DepartmentSequence
	})
	return rows, nil
}

func (f *fakeScheduleRepo) ListByDepartment(_ context.Context, departmentID uint64, from, to *time.Time) ([]entities.WeeklySchedule, error) {
	rows := make([]entities.WeeklySchedule, 0)
	for _, s := range f.schedules {
		if s.DepartmentID != departmentID {
			continue
		}
		if from != nil && s.WeekStartDate.Before(*from) {
			continue
		}
		if to != nil && s.WeekStartDate.After(*to) {
			continue
		}
		rows = append(rows, s)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].WeekStartDate.Before(rows[j].WeekStartDate)
	})
	return rows, nil
}

type fakeVoucherRepo struct {
	vouchers []entities.Voucher
	nextID   uint64
}

func (f *fakeVoucherRepo) GetVouchers(_ context.Context, _ types.Filter) ([]entities.Voucher, uint64, error) {
	return f.vouchers, uint64(len(f.vouchers)), nil
}

func (f *fakeVoucherRepo) FindVoucher(_ context.Context, id uint64) (*entities.Voucher, error) {
	for i := range f.vouchers {
		if f.vouchers[i].ID == id {
			v := f.vouchers[i]
			return &v, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeVoucherRepo) FindVoucherByCode(_ context.Context, code string) (*entities.Voucher, error) {
	for i := range f.vouchers {
		if f.vouchers[i].VoucherCode == code {
			v := f.vouchers[i]
			return &v, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeVoucherRepo) ExistsForDepartmentDate(_ context.Context, departmentID uint64, date time.Time) (bool, error) {
	for _, v := range f.vouchers {
		if v.DepartmentID == departmentID && v.Date.Equal(date) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeVoucherRepo) ListByDepartment(_ context.Context, departmentID uint64) ([]entities.Voucher, error) {
	rows := make([]entities.Voucher, 0)
	for _, v := range f.vouchers {
		if v.DepartmentID == departmentID {
			rows = append(rows, v)
		}
	}
	return rows, nil
}

func (f *fakeVoucherRepo) CreateVoucher(_ context.Context, voucher entities.Voucher) (*entities.Voucher, error) {
	for _, existing := range f.vouchers {
		if existing.VoucherCode == voucher.VoucherCode {
			return nil, apperrors.NewConflictError("Код ваучера уже существует", nil)
		}
		if existing.DepartmentID == voucher.DepartmentID && existing.Date.Equal(voucher.Date) {
			return nil, apperrors.NewConflictError("Ваучер на эту дату уже существует", nil)
		}
	}
	f.nextID++
	voucher.ID = f.nextID
	f.vouchers = append(f.vouchers, voucher)
	return &voucher, nil
}

func (f *fakeVoucherRepo) MarkUsed(_ context.Context, id uint64, usedAt time.Time, notes *string) (*entities.Voucher, error) {
	for i := range f.vouchers {
		if f.vouchers[i].ID == id && f.vouchers[i].Status == entities.VoucherActive {
			f.vouchers[i].Status = entities.VoucherUsed
			f.vouchers[i].UsedAt = null.TimeFrom(usedAt)
			if notes != nil {
				combined := *notes
				if f.vouchers[i].Notes.Valid && f.vouchers[i].Notes.String != "" {
					combined = f.vouchers[i].Notes.String + "\n" + *notes
				}
				f.vouchers[i].Notes = null.StringFrom(combined)
			}
			v := f.vouchers[i]
			return &v, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeVoucherRepo) UpdateStatus(_ context.Context, id uint64, status entities.VoucherStatus, usedAt null.Time, notes *string) (*entities.Voucher, error) {
	for i := range f.vouchers {
		if f.vouchers[i].ID == id {
			f.vouchers[i].Status = status
			f.vouchers[i].UsedAt = usedAt
			if notes != nil {
				f.vouchers[i].Notes = null.StringFrom(*notes)
			}
			v := f.vouchers[i]
			return &v, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeVoucherRepo) MarkExpired(_ context.Context, id uint64) error {
	for i := range f.vouchers {
		if f.vouchers[i].ID == id && f.vouchers[i].Status == entities.VoucherActive {
			f.vouchers[i].Status = entities.VoucherExpired
		}
	}
	return nil
}

func (f *fakeVoucherRepo) ExpireOld(_ context.Context, today time.Time) (int64, error) {
	var count int64
	for i := range f.vouchers {
		if f.vouchers[i].Status == entities.VoucherActive && f.vouchers[i].ExpiryDate.Before(today) {
			f.vouchers[i].Status = entities.VoucherExpired
			count++
		}
	}
	return count, nil
}
