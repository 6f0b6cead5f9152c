package dto

// ReportSummaryDTO - сводка по периоду: заказы, выручка, отзывы, средняя оценка.
type ReportSummaryDTO struct {
	TotalOrders    int     `json:"total_orders"`
	TotalRevenue   float64 `json:"total_revenue"`
	TotalFeedbacks int     `json:"total_feedbacks"`
	AverageRating  float64 `json:"average_rating"`
}

// FoodSummaryDTO - агрегат по одному блюду за период.
type FoodSummaryDTO struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Quantity   int     `json:"quantity"`
	Revenue    float64 `json:"revenue"`
	OrderCount int     `json:"order_count,omitempty"`
}

// DailyRowDTO - строка дневной разбивки месячного отчета.
type DailyRowDTO struct {
	Date          string  `json:"date"`
	Orders        int     `json:"orders"`
	Revenue       float64 `json:"revenue"`
	Feedbacks     int     `json:"feedbacks"`
	AverageRating float64 `json:"average_rating"`
}

// MonthlyRowDTO - строка помесячной разбивки годового отчета.
type MonthlyRowDTO struct {
	Month         int     `json:"month"`
	Orders        int     `json:"orders"`
	Revenue       float64 `json:"revenue"`
	Feedbacks     int     `json:"feedbacks"`
	AverageRating float64 `json:"average_rating"`
}

type DailyReportDTO struct {
	Date      string           `json:"date"`
	Summary   ReportSummaryDTO `json:"summary"`
	FoodItems []FoodSummaryDTO `json:"food_items"`
}

type MonthlyReportDTO struct {
	Year         int              `json:"year"`
	Month        int              `json:"month"`
	Summary      ReportSummaryDTO `json:"summary"`
	DailyReports []DailyRowDTO    `json:"daily_reports"`
	TopFoods     []FoodSummaryDTO `json:"top_foods"`
}

type YearlyReportDTO struct {
	Year           int              `json:"year"`
	Summary        ReportSummaryDTO `json:"summary"`
	MonthlyReports []MonthlyRowDTO  `json:"monthly_reports"`
	TopFoods       []FoodSummaryDTO `json:"top_foods"`
}

type DepartmentReportDTO struct {
	Department ShortDepartmentDTO `json:"department"`
	StartDate  string             `json:"start_date,omitempty"`
	EndDate    string             `json:"end_date,omitempty"`
	Summary    ReportSummaryDTO   `json:"summary"`
	TopFoods   []FoodSummaryDTO   `json:"top_foods"`
}
