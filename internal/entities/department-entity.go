package entities

import (
	"github.com/aarondl/null/v8"

	"catering-system/pkg/types"
)

type Department struct {
	ID            uint64      `json:"id"`
	Name          string      `json:"name"`
	Description   null.String `json:"description,omitempty"`
	PicName       null.String `json:"pic_name,omitempty"`
	CanOrder      bool        `json:"can_order"`
	IsActive      bool        `json:"is_active"`
	OrderSequence int         `json:"order_sequence"`
	Pin           string      `json:"-"`

	types.BaseEntity
}
