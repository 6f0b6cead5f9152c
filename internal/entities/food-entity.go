package entities

import (
	"github.com/aarondl/null/v8"

	"catering-system/pkg/types"
)

type FoodCategory string

const (
	CategoryMainCourse FoodCategory = "main_course"
	CategorySideDish   FoodCategory = "side_dish"
	CategoryDrink      FoodCategory = "drink"
	CategoryDessert    FoodCategory = "dessert"
)

// FoodCategories - допустимые категории блюд в порядке отображения.
var FoodCategories = []FoodCategory{CategoryMainCourse, CategorySideDish, CategoryDrink, CategoryDessert}

func (c FoodCategory) Valid() bool {
	for _, k := range FoodCategories {
		if c == k {
			return true
		}
	}
	return false
}

type Food struct {
	ID          uint64       `json:"id"`
	Name        string       `json:"name"`
	Description null.String  `json:"description,omitempty"`
	Price       float64      `json:"price"`
	Category    FoodCategory `json:"category"`
	IsAvailable bool         `json:"is_available"`
	CreatedBy   uint64       `json:"created_by"`

	types.BaseEntity
}
