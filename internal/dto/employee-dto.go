package dto

type CreateEmployeeDTO struct {
	EmployeeID   string  `json:"employee_id" validate:"required"`
	Name         string  `json:"name" validate:"required"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	DepartmentID uint64  `json:"department_id" validate:"required,gt=0"`
	Position     *string `json:"position"`
	JoinDate     *string `json:"join_date" validate:"omitempty,dateonly"`
}

type UpdateEmployeeDTO struct {
	EmployeeID   *string `json:"employee_id" validate:"omitempty,min=1"`
	Name         *string `json:"name" validate:"omitempty,min=1"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone"`
	DepartmentID *uint64 `json:"department_id" validate:"omitempty,gt=0"`
	Position     *string `json:"position"`
	IsActive     *bool   `json:"is_active"`
	JoinDate     *string `json:"join_date" validate:"omitempty,dateonly"`
}
