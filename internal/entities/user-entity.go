package entities

import (
	"github.com/aarondl/null/v8"

	"catering-system/pkg/types"
)

type UserRole string

const (
	RoleAdministrator UserRole = "administrator"
	RolePicCatering   UserRole = "pic_catering"
)

func (r UserRole) Valid() bool {
	return r == RoleAdministrator || r == RolePicCatering
}

type User struct {
	ID           uint64      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Password     string      `json:"-"`
	Pin          null.String `json:"pin,omitempty"`
	Role         UserRole    `json:"role"`
	DepartmentID *uint64     `json:"department_id,omitempty"`
	IsActive     bool        `json:"is_active"`

	types.BaseEntity
}
