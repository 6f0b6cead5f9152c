package dto

type CreateFoodDTO struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,oneof=main_course side_dish drink dessert"`
}

type UpdateFoodDTO struct {
	Name        *string  `json:"name" validate:"omitempty,min=1"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category" validate:"omitempty,oneof=main_course side_dish drink dessert"`
	IsAvailable *bool    `json:"is_available"`
}
