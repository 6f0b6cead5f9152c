package dto

import "catering-system/internal/entities"

type GenerateVouchersDTO struct {
	WeekStartDate string   `json:"week_start_date" validate:"required,dateonly"`
	VoucherAmount *float64 `json:"voucher_amount" validate:"omitempty,gt=0"`
}

type UseVoucherDTO struct {
	Notes *string `json:"notes"`
}

type UpdateVoucherStatusDTO struct {
	Status string  `json:"status" validate:"required,oneof=active used expired"`
	Notes  *string `json:"notes"`
}

// DepartmentVouchersDTO - ваучеры департамента вместе с агрегатами.
type DepartmentVouchersDTO struct {
	Vouchers   []entities.Voucher    `json:"vouchers"`
	Statistics entities.VoucherStats `json:"statistics"`
}

// ExpiredSweepDTO - результат пакетного перевода просроченных ваучеров.
type ExpiredSweepDTO struct {
	ExpiredCount int64 `json:"expired_count"`
}
