package repositories

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"catering-system/internal/dto"
)

type ReportRepositoryInterface interface {
	GetSummary(ctx context.Context, departmentID *uint64, from, to time.Time) (*dto.ReportSummaryDTO, error)
	GetFoodSummary(ctx context.Context, departmentID *uint64, from, to time.Time, limit uint64) ([]dto.FoodSummaryDTO, error)
	GetDailyRows(ctx context.Context, from, to time.Time) ([]dto.DailyRowDTO, error)
	GetMonthlyRows(ctx context.Context, year int) ([]dto.MonthlyRowDTO, error)
}

type ReportRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewReportRepository(storage *pgxpool.Pool, logger *zap.Logger) ReportRepositoryInterface {
	return &ReportRepository{storage: storage, logger: logger}
}

// GetSummary - агрегат по заказам и отзывам за период. Отменённые заказы
// не входят ни в количество, ни в выручку.
func (r *ReportRepository) GetSummary(ctx context.Context, departmentID *uint64, from, to time.Time) (*dto.ReportSummaryDTO, error) {
	orderBuilder := sq.Select("COUNT(*)", "COALESCE(SUM(total_amount), 0)").
		From("orders").
		PlaceholderFormat(sq.Dollar).
		Where(sq.GtOrEq{"date": from}).
		Where(sq.LtOrEq{"date": to}).
		Where(sq.NotEq{"status": "cancelled"})
	feedbackBuilder := sq.Select("COUNT(*)", "COALESCE(AVG(rating), 0)").
		From("feedbacks").
		PlaceholderFormat(sq.Dollar).
		Where(sq.GtOrEq{"date": from}).
		Where(sq.LtOrEq{"date": to})
	if departmentID != nil {
		orderBuilder = orderBuilder.Where(sq.Eq{"department_id": *departmentID})
		feedbackBuilder = feedbackBuilder.Where(sq.Eq{"department_id": *departmentID})
	}

	summary := &dto.ReportSummaryDTO{}

	query, args, err := orderBuilder.ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&summary.TotalOrders, &summary.TotalRevenue); err != nil {
		return nil, err
	}

	query, args, err = feedbackBuilder.ToSql()
	if err != nil {
		return nil, err
	}
	if err := r.storage.QueryRow(ctx, query, args...).Scan(&summary.TotalFeedbacks, &summary.AverageRating); err != nil {
		return nil, err
	}
	return summary, nil
}

// GetFoodSummary - топ блюд за период по количеству. limit = 0 - без ограничения.
func (r *ReportRepository) GetFoodSummary(ctx context.Context, departmentID *uint64, from, to time.Time, limit uint64) ([]dto.FoodSummaryDTO, error) {
	builder := sq.Select(
		"f.name", "f.category",
		"COALESCE(SUM(i.quantity), 0)",
		"COALESCE(SUM(i.subtotal), 0)",
		"COUNT(DISTINCT o.id)",
	).
		From("order_items i").
		Join("orders o ON o.id = i.order_id").
		Join("foods f ON f.id = i.food_id").
		PlaceholderFormat(sq.Dollar).
		Where(sq.GtOrEq{"o.date": from}).
		Where(sq.LtOrEq{"o.date": to}).
		Where(sq.NotEq{"o.status": "cancelled"}).
		GroupBy("f.id", "f.name", "f.category").
		OrderBy("SUM(i.quantity) DESC")
	if departmentID != nil {
		builder = builder.Where(sq.Eq{"o.department_id": *departmentID})
	}
	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]dto.FoodSummaryDTO, 0)
	for rows.Next() {
		var item dto.FoodSummaryDTO
		if err := rows.Scan(&item.Name, &item.Category, &item.Quantity, &item.Revenue, &item.OrderCount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetDailyRows - дневная разбивка месячного отчета. Дни без заказов и
// отзывов в выборку не попадают.
func (r *ReportRepository) GetDailyRows(ctx context.Context, from, to time.Time) ([]dto.DailyRowDTO, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT d.day,
		       COALESCE(o.cnt, 0), COALESCE(o.revenue, 0),
		       COALESCE(fb.cnt, 0), COALESCE(fb.avg_rating, 0)
		FROM (
			SELECT DISTINCT day FROM (
				SELECT date AS day FROM orders WHERE date BETWEEN $1 AND $2 AND status != 'cancelled'
				UNION
				SELECT date AS day FROM feedbacks WHERE date BETWEEN $1 AND $2
			) u
		) d
		LEFT JOIN (
			SELECT date, COUNT(*) AS cnt, SUM(total_amount) AS revenue
			FROM orders WHERE date BETWEEN $1 AND $2 AND status != 'cancelled' GROUP BY date
		) o ON o.date = d.day
		LEFT JOIN (
			SELECT date, COUNT(*) AS cnt, AVG(rating) AS avg_rating
			FROM feedbacks WHERE date BETWEEN $1 AND $2 GROUP BY date
		) fb ON fb.date = d.day
		ORDER BY d.day ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	daily := make([]dto.DailyRowDTO, 0)
	for rows.Next() {
		var day time.Time
		var row dto.DailyRowDTO
		if err := rows.Scan(&day, &row.Orders, &row.Revenue, &row.Feedbacks, &row.AverageRating); err != nil {
			return nil, err
		}
		row.Date = day.Format("2006-01-02")
		daily = append(daily, row)
	}
	return daily, rows.Err()
}

// GetMonthlyRows - помесячная разбивка годового отчета.
func (r *ReportRepository) GetMonthlyRows(ctx context.Context, year int) ([]dto.MonthlyRowDTO, error) {
	rows, err := r.storage.Query(ctx, `
		SELECT m.month,
		       COALESCE(o.cnt, 0), COALESCE(o.revenue, 0),
		       COALESCE(fb.cnt, 0), COALESCE(fb.avg_rating, 0)
		FROM (
			SELECT DISTINCT month FROM (
				SELECT EXTRACT(MONTH FROM date)::int AS month FROM orders
				WHERE EXTRACT(YEAR FROM date) = $1 AND status != 'cancelled'
				UNION
				SELECT EXTRACT(MONTH FROM date)::int AS month FROM feedbacks
				WHERE EXTRACT(YEAR FROM date) = $1
			) u
		) m
		LEFT JOIN (
			SELECT EXTRACT(MONTH FROM date)::int AS month, COUNT(*) AS cnt, SUM(total_amount) AS revenue
			FROM orders WHERE EXTRACT(YEAR FROM date) = $1 AND status != 'cancelled'
			GROUP BY EXTRACT(MONTH FROM date)
		) o ON o.month = m.month
		LEFT JOIN (
			SELECT EXTRACT(MONTH FROM date)::int AS month, COUNT(*) AS cnt, AVG(rating) AS avg_rating
			FROM feedbacks WHERE EXTRACT(YEAR FROM date) = $1
			GROUP BY EXTRACT(MONTH FROM date)
		) fb ON fb.month = m.month
		ORDER BY m.month ASC`, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	monthly := make([]dto.MonthlyRowDTO, 0)
	for rows.Next() {
		var row dto.MonthlyRowDTO
		if err := rows.Scan(&row.Month, &row.Orders, &row.Revenue, &row.Feedbacks, &row.AverageRating); err != nil {
			return nil, err
		}
		monthly = append(monthly, row)
	}
	return monthly, rows.Err()
}
