package entities

import (
	"time"

	"github.com/aarondl/null/v8"

	"catering-system/pkg/types"
)

type Feedback struct {
	ID             uint64      `json:"id"`
	OrderID        uint64      `json:"order_id"`
	DepartmentID   uint64      `json:"department_id"`
	Date           time.Time   `json:"date"`
	Rating         int         `json:"rating"`
	Comment        null.String `json:"comment,omitempty"`
	FoodQuality    *int        `json:"food_quality,omitempty"`
	ServiceQuality *int        `json:"service_quality,omitempty"`
	Suggestions    null.String `json:"suggestions,omitempty"`

	DepartmentName string `json:"department_name,omitempty"`

	types.BaseEntity
}
