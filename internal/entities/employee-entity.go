package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"catering-system/pkg/types"
)

type Employee struct {
	ID           uint64      `json:"id"`
	EmployeeID   string      `json:"employee_id"`
	Name         string      `json:"name"`
	Email        null.String `json:"email,omitempty"`
	Phone        null.String `json:"phone,omitempty"`
	DepartmentID uint64      `json:"department_id"`
	Position     null.String `json:"position,omitempty"`
	IsActive     bool        `json:"is_active"`
	JoinDate     *time.Time  `json:"join_date,omitempty"`
	CreatedBy    uint64      `json:"created_by"`

	// Присоединяемое имя департамента, заполняется JOIN-ом.
	DepartmentName string `json:"department_name,omitempty"`

	types.BaseEntity
}
