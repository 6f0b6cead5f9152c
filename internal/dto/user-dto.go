package dto

type CreateUserDTO struct {
	Name         string  `json:"name" validate:"required"`
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=6"`
	Pin          *string `json:"pin" validate:"omitempty,pin"`
	Role         string  `json:"role" validate:"required,oneof=administrator pic_catering"`
	DepartmentID *uint64 `json:"department_id" validate:"omitempty,gt=0"`
}

type UpdateUserDTO struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Password     *string `json:"password" validate:"omitempty,min=6"`
	Pin          *string `json:"pin" validate:"omitempty,pin"`
	Role         *string `json:"role" validate:"omitempty,oneof=administrator pic_catering"`
	DepartmentID *uint64 `json:"department_id" validate:"omitempty,gt=0"`
	IsActive     *bool   `json:"is_active"`
}
