package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"catering-system/pkg/types"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderCancelled OrderStatus = "cancelled"
	OrderCompleted OrderStatus = "completed"
)

var OrderStatuses = []OrderStatus{OrderPending, OrderConfirmed, OrderCancelled, OrderCompleted}

func (s OrderStatus) Valid() bool {
	for _, k := range OrderStatuses {
		if s == k {
			return true
		}
	}
	return false
}

type EditRequestStatus string

const (
	EditNone     EditRequestStatus = "none"
	EditPending  EditRequestStatus = "pending"
	EditApproved EditRequestStatus = "approved"
	EditRejected EditRequestStatus = "rejected"
)

type Order struct {
	ID                uint64            `json:"id"`
	DepartmentID      uint64            `json:"department_id"`
	CreatedBy         *uint64           `json:"created_by,omitempty"`
	Date              time.Time         `json:"date"`
	TotalAmount       float64           `json:"total_amount"`
	Status            OrderStatus       `json:"status"`
	EmployeeCount     int               `json:"employee_count"`
	Notes             null.String       `json:"notes,omitempty"`
	IsEditable        bool              `json:"is_editable"`
	EditRequestReason null.String       `json:"edit_request_reason,omitempty"`
	EditRequestStatus EditRequestStatus `json:"edit_request_status"`

	DepartmentName string      `json:"department_name,omitempty"`
	Items          []OrderItem `json:"items,omitempty"`

	types.BaseEntity
}

type OrderItem struct {
	ID       uint64  `json:"id"`
	OrderID  uint64  `json:"order_id"`
	FoodID   uint64  `json:"food_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Subtotal float64 `json:"subtotal"`

	FoodName     string       `json:"food_name,omitempty"`
	FoodCategory FoodCategory `json:"food_category,omitempty"`
}
