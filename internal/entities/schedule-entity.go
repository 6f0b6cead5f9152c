package entities

import (
	"time"

	"catering-system/pkg/types"
)

// WeeklySchedule - одна строка на пару (департамент, календарная неделя).
// WeekStartDate всегда понедельник; уникальность пары обеспечивает БД.
type WeeklySchedule struct {
	ID            uint64    `json:"id"`
	WeekStartDate time.Time `json:"week_start_date"`
	DepartmentID  uint64    `json:"department_id"`
	VoucherDay    Weekday   `json:"voucher_day"`
	WeekNumber    int       `json:"week_number"`
	Year          int       `json:"year"`

	DepartmentName     string `json:"department_name,omitempty"`
	DepartmentSequence int    `json:"department_sequence,omitempty"`

	types.BaseEntity
}

// VoucherDate - конкретная календарная дата ваучера внутри недели расписания.
func (s WeeklySchedule) VoucherDate() time.Time {
	return s.WeekStartDate.AddDate(0, 0, s.VoucherDay.DayOffset())
}
