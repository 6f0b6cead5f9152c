package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"catering-system/pkg/types"
)

type VoucherStatus string

const (
	VoucherActive  VoucherStatus = "active"
	VoucherUsed    VoucherStatus = "used"
	VoucherExpired VoucherStatus = "expired"
)

var VoucherStatuses = []VoucherStatus{VoucherActive, VoucherUsed, VoucherExpired}

func (s VoucherStatus) Valid() bool {
	for _, k := range VoucherStatuses {
		if s == k {
			return true
		}
	}
	return false
}

// Voucher - денежная компенсация вместо кейтеринга для одного департамента
// на одну дату. Пара (department_id, date) уникальна, код ваучера уникален глобально.
type Voucher struct {
	ID           uint64        `json:"id"`
	VoucherCode  string        `json:"voucher_code"`
	DepartmentID uint64        `json:"department_id"`
	Date         time.Time     `json:"date"`
	Amount       float64       `json:"amount"`
	Status       VoucherStatus `json:"status"`
	UsedAt       null.Time     `json:"used_at,omitempty"`
	ExpiryDate   time.Time     `json:"expiry_date"`
	Notes        null.String   `json:"notes,omitempty"`
	CreatedBy    uint64        `json:"created_by"`

	DepartmentName string `json:"department_name,omitempty"`
	CreatorName    string `json:"creator_name,omitempty"`

	types.BaseEntity
}

// IsPastExpiry сообщает, прошла ли дата истечения относительно today
// (сравнение по календарным датам, без учета времени суток).
func (v Voucher) IsPastExpiry(today time.Time) bool {
	t := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(v.ExpiryDate.Year(), v.ExpiryDate.Month(), v.ExpiryDate.Day(), 0, 0, 0, 0, time.UTC)
	return e.Before(t)
}

// VoucherStats - агрегаты по ваучерам департамента.
type VoucherStats struct {
	Total      int     `json:"total"`
	Active     int     `json:"active"`
	Used       int     `json:"used"`
	Expired    int     `json:"expired"`
	TotalValue float64 `json:"total_value"`
	UsedValue  float64 `json:"used_value"`
}
