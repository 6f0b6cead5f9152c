package dto

type GenerateSchedulesDTO struct {
	StartDate string `json:"start_date" validate:"required,dateonly"`
	EndDate   string `json:"end_date" validate:"required,dateonly"`
}

type UpdateScheduleDTO struct {
	VoucherDay string `json:"voucher_day" validate:"required,weekday"`
}

// ScheduleDepartmentDTO - строка департамента внутри сгруппированной недели.
type ScheduleDepartmentDTO struct {
	ID            uint64 `json:"id"`
	ScheduleID    uint64 `json:"schedule_id"`
	Name          string `json:"name"`
	VoucherDay    string `json:"voucher_day"`
	OrderSequence int    `json:"order_sequence"`
}

// WeekScheduleDTO - расписание одной календарной недели.
type WeekScheduleDTO struct {
	WeekStartDate string                  `json:"week_start_date"`
	WeekNumber    int                     `json:"week_number"`
	Year          int                     `json:"year"`
	Departments   []ScheduleDepartmentDTO `json:"departments"`
}

// DepartmentScheduleDTO - строка расписания департамента с вычисленной
// конкретной датой ваучера.
type DepartmentScheduleDTO struct {
	ID            uint64 `json:"id"`
	WeekStartDate string `json:"week_start_date"`
	VoucherDay    string `json:"voucher_day"`
	VoucherDate   string `json:"voucher_date"`
	WeekNumber    int    `json:"week_number"`
	Year          int    `json:"year"`
}

// GeneratedSchedulesDTO - результат генерации: количество и созданные строки.
type GeneratedSchedulesDTO struct {
	Generated int               `json:"generated"`
	Weeks     []WeekScheduleDTO `json:"weeks"`
}
