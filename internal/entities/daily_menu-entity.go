package entities

import (
	"time"

	"catering-system/pkg/types"
)

// DailyMenu - блюдо, доступное для заказа в конкретную дату.
// Уникальность по (date, food_id) не позволяет добавить блюдо в меню дважды.
type DailyMenu struct {
	ID        uint64    `json:"id"`
	Date      time.Time `json:"date"`
	FoodID    uint64    `json:"food_id"`
	IsActive  bool      `json:"is_active"`
	CreatedBy uint64    `json:"created_by"`

	FoodName     string       `json:"food_name,omitempty"`
	FoodPrice    float64      `json:"food_price,omitempty"`
	FoodCategory FoodCategory `json:"food_category,omitempty"`

	types.BaseEntity
}
