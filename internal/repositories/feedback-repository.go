package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/types"
)

const feedbackTable = "feedbacks"

const feedbackColumns = `fb.id, fb.order_id, fb.department_id, fb.date, fb.rating, fb.comment,
	fb.food_quality, fb.service_quality, fb.suggestions, d.name, fb.created_at, fb.updated_at`

type FeedbackRepositoryInterface interface {
	GetFeedbacks(ctx context.Context, filter types.Filter) ([]entities.Feedback, uint64, error)
	FindFeedback(ctx context.Context, id uint64) (*entities.Feedback, error)
	ExistsForOrder(ctx context.Context, orderID uint64) (bool, error)
	CreateFeedback(ctx context.Context, feedback entities.Feedback) (*entities.Feedback, error)
	UpdateFeedback(ctx context.Context, id uint64, payload dto.UpdateFeedbackDTO) (*entities.Feedback, error)
	DeleteFeedback(ctx context.Context, id uint64) error
	GetStats(ctx context.Context, departmentID *uint64, from, to *time.Time) (*dto.FeedbackStatsDTO, error)
}

type FeedbackRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewFeedbackRepository(storage *pgxpool.Pool, logger *zap.Logger) FeedbackRepositoryInterface {
	return &FeedbackRepository{storage: storage, logger: logger}
}

func scanFeedback(row pgx.Row) (*entities.Feedback, error) {
	var f entities.Feedback
	err := row.Scan(&f.ID, &f.OrderID, &f.DepartmentID, &f.Date, &f.Rating, &f.Comment,
		&f.FoodQuality, &f.ServiceQuality, &f.Suggestions, &f.DepartmentName, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования feedback: %w", err)
	}
	return &f, nil
}

const feedbackFromClause = feedbackTable + ` fb JOIN departments d ON d.id = fb.department_id`

func (r *FeedbackRepository) GetFeedbacks(ctx context.Context, filter types.Filter) ([]entities.Feedback, uint64, error) {
	conditions := sq.And{}
	if departmentID, ok := filter.Filter["department_id"]; ok {
		conditions = append(conditions, sq.Eq{"fb.department_id": departmentID})
	}
	if rating, ok := filter.Filter["rating"]; ok {
		conditions = append(conditions, sq.Eq{"fb.rating": rating})
	}
	if from, ok := filter.Filter["date_from"]; ok {
		conditions = append(conditions, sq.GtOrEq{"fb.date": from})
	}
	if to, ok := filter.Filter["date_to"]; ok {
		conditions = append(conditions, sq.LtOrEq{"fb.date": to})
	}

	countBuilder := sq.Select("COUNT(*)").From(feedbackFromClause).PlaceholderFormat(sq.Dollar)
	listBuilder := sq.Select(feedbackColumns).From(feedbackFromClause).
		PlaceholderFormat(sq.Dollar).
		OrderBy("fb.date DESC", "fb.id DESC")
	if len(conditions) > 0 {
		countBuilder = countBuilder.Where(conditions)
		listBuilder = listBuilder.Where(conditions)
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []entities.Feedback{}, 0, nil
	}

	if filter.WithPagination {
		listBuilder = listBuilder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	query, args, err := listBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	feedbacks := make([]entities.Feedback, 0)
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, 0, err
		}
		feedbacks = append(feedbacks, *f)
	}
	return feedbacks, total, rows.Err()
}

func (r *FeedbackRepository) FindFeedback(ctx context.Context, id uint64) (*entities.Feedback, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE fb.id = $1`, feedbackColumns, feedbackFromClause)
	return scanFeedback(r.storage.QueryRow(ctx, query, id))
}

func (r *FeedbackRepository) ExistsForOrder(ctx context.Context, orderID uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM feedbacks WHERE order_id = $1)`, orderID).Scan(&exists)
	return exists, err
}

func (r *FeedbackRepository) CreateFeedback(ctx context.Context, feedback entities.Feedback) (*entities.Feedback, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO feedbacks (order_id, department_id, date, rating, comment, food_quality, service_quality, suggestions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		feedback.OrderID, feedback.DepartmentID, feedback.Date, feedback.Rating, feedback.Comment,
		feedback.FoodQuality, feedback.ServiceQuality, feedback.Suggestions).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("Отзыв на этот заказ уже оставлен", err)
		}
		return nil, err
	}
	return r.FindFeedback(ctx, id)
}

func (r *FeedbackRepository) UpdateFeedback(ctx context.Context, id uint64, payload dto.UpdateFeedbackDTO) (*entities.Feedback, error) {
	updateBuilder := sq.Update(feedbackTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))

	hasChanges := false
	if payload.Rating != nil {
		updateBuilder = updateBuilder.Set("rating", *payload.Rating)
		hasChanges = true
	}
	if payload.Comment != nil {
		updateBuilder = updateBuilder.Set("comment", *payload.Comment)
		hasChanges = true
	}
	if payload.FoodQuality != nil {
		updateBuilder = updateBuilder.Set("food_quality", *payload.FoodQuality)
		hasChanges = true
	}
	if payload.ServiceQuality != nil {
		updateBuilder = updateBuilder.Set("service_quality", *payload.ServiceQuality)
		hasChanges = true
	}
	if payload.Suggestions != nil {
		updateBuilder = updateBuilder.Set("suggestions", *payload.Suggestions)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindFeedback(ctx, id)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, err
	}
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindFeedback(ctx, id)
}

func (r *FeedbackRepository) DeleteFeedback(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM feedbacks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// GetStats считает агрегаты по отзывам одним запросом плюс распределение оценок.
func (r *FeedbackRepository) GetStats(ctx context.Context, departmentID *uint64, from, to *time.Time) (*dto.FeedbackStatsDTO, error) {
	conditions := sq.And{}
	if departmentID != nil {
		conditions = append(conditions, sq.Eq{"department_id": *departmentID})
	}
	if from != nil {
		conditions = append(conditions, sq.GtOrEq{"date": *from})
	}
	if to != nil {
		conditions = append(conditions, sq.LtOrEq{"date": *to})
	}

	summaryBuilder := sq.Select(
		"COUNT(*)",
		"COALESCE(AVG(rating), 0)",
		"COALESCE(AVG(food_quality), 0)",
		"COALESCE(AVG(service_quality), 0)",
	).From(feedbackTable).PlaceholderFormat(sq.Dollar)
	distBuilder := sq.Select("rating", "COUNT(*)").From(feedbackTable).
		PlaceholderFormat(sq.Dollar).GroupBy("rating")
	if len(conditions) > 0 {
		summaryBuilder = summaryBuilder.Where(conditions)
		distBuilder = distBuilder.Where(conditions)
	}

	stats := &dto.FeedbackStatsDTO{RatingDistribution: map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}}

	query, args, err := summaryBuilder.ToSql()
	if err != nil {
		return nil, err
	}
	err = r.storage.QueryRow(ctx, query, args...).Scan(
		&stats.TotalFeedbacks, &stats.AverageRating, &stats.AverageFoodQuality, &stats.AverageServiceQuality)
	if err != nil {
		return nil, err
	}

	query, args, err = distBuilder.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, err
		}
		stats.RatingDistribution[rating] = count
	}
	return stats, rows.Err()
}
