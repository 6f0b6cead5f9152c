package dto

type OrderItemInput struct {
	FoodID   uint64 `json:"food_id" validate:"required,gt=0"`
	Quantity int    `json:"quantity" validate:"omitempty,gt=0"`
}

type CreateOrderDTO struct {
	DepartmentID  uint64           `json:"department_id" validate:"required,gt=0"`
	Date          string           `json:"date" validate:"required,dateonly"`
	Items         []OrderItemInput `json:"items" validate:"required,min=1,dive"`
	EmployeeCount int              `json:"employee_count" validate:"omitempty,gte=0"`
	Notes         *string          `json:"notes"`
}

type UpdateOrderStatusDTO struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

type RequestOrderEditDTO struct {
	Reason string `json:"reason" validate:"required"`
}

type ApproveOrderEditDTO struct {
	Approved bool `json:"approved"`
}
