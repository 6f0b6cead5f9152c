package dto

type CreateFeedbackDTO struct {
	OrderID        uint64  `json:"order_id" validate:"required,gt=0"`
	DepartmentID   uint64  `json:"department_id" validate:"required,gt=0"`
	Date           string  `json:"date" validate:"required,dateonly"`
	Rating         int     `json:"rating" validate:"required,gte=1,lte=5"`
	Comment        *string `json:"comment"`
	FoodQuality    *int    `json:"food_quality" validate:"omitempty,gte=1,lte=5"`
	ServiceQuality *int    `json:"service_quality" validate:"omitempty,gte=1,lte=5"`
	Suggestions    *string `json:"suggestions"`
}

type UpdateFeedbackDTO struct {
	Rating         *int    `json:"rating" validate:"omitempty,gte=1,lte=5"`
	Comment        *string `json:"comment"`
	FoodQuality    *int    `json:"food_quality" validate:"omitempty,gte=1,lte=5"`
	ServiceQuality *int    `json:"service_quality" validate:"omitempty,gte=1,lte=5"`
	Suggestions    *string `json:"suggestions"`
}

type FeedbackStatsDTO struct {
	TotalFeedbacks        int         `json:"total_feedbacks"`
	AverageRating         float64     `json:"average_rating"`
	AverageFoodQuality    float64     `json:"average_food_quality"`
	AverageServiceQuality float64     `json:"average_service_quality"`
	RatingDistribution    map[int]int `json:"rating_distribution"`
}
