package dto

type CreateDepartmentDTO struct {
	Name          string  `json:"name" validate:"required"`
	Description   *string `json:"description"`
	PicName       *string `json:"pic_name"`
	Pin           string  `json:"pin" validate:"required,pin"`
	OrderSequence *int    `json:"order_sequence" validate:"omitempty,gt=0"`
	CanOrder      *bool   `json:"can_order"`
}

type UpdateDepartmentDTO struct {
	Name          *string `json:"name" validate:"omitempty,min=1"`
	Description   *string `json:"description"`
	PicName       *string `json:"pic_name"`
	Pin           *string `json:"pin" validate:"omitempty,pin"`
	OrderSequence *int    `json:"order_sequence" validate:"omitempty,gt=0"`
	CanOrder      *bool   `json:"can_order"`
	IsActive      *bool   `json:"is_active"`
}

type VerifyPinDTO struct {
	DepartmentID uint64 `json:"department_id" validate:"required,gt=0"`
	Pin          string `json:"pin" validate:"required,pin"`
}

type ShortDepartmentDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
