package dto

type CreateDailyMenuDTO struct {
	Date    string   `json:"date" validate:"required,dateonly"`
	FoodIDs []uint64 `json:"food_ids" validate:"required,min=1,dive,gt=0"`
}

type UpdateDailyMenuDTO struct {
	IsActive *bool `json:"is_active"`
}
