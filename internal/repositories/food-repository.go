package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/types"
)

const foodTable = "foods"

const foodColumns = `id, name, description, price, category, is_available, created_by, created_at, updated_at`

type FoodRepositoryInterface interface {
	GetFoods(ctx context.Context, filter types.Filter) ([]entities.Food, uint64, error)
	FindFood(ctx context.Context, id uint64) (*entities.Food, error)
	FindFoodsByIDs(ctx context.Context, ids []uint64) ([]entities.Food, error)
	CreateFood(ctx context.Context, food entities.Food) (*entities.Food, error)
	UpdateFood(ctx context.Context, id uint64, payload dto.UpdateFoodDTO) (*entities.Food, error)
	DeleteFood(ctx context.Context, id uint64) error
	IsOrdered(ctx context.Context, id uint64) (bool, error)
	MarkUnavailable(ctx context.Context, id uint64) error
}

type FoodRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewFoodRepository(storage *pgxpool.Pool, logger *zap.Logger) FoodRepositoryInterface {
	return &FoodRepository{storage: storage, logger: logger}
}

func scanFood(row pgx.Row) (*entities.Food, error) {
	var f entities.Food
	var category string
	err := row.Scan(&f.ID, &f.Name, &f.Description, &f.Price, &category, &f.IsAvailable, &f.CreatedBy, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования food: %w", err)
	}
	f.Category = entities.FoodCategory(category)
	return &f, nil
}

func (r *FoodRepository) GetFoods(ctx context.Context, filter types.Filter) ([]entities.Food, uint64, error) {
	conditions := sq.And{}
	if filter.Search != "" {
		conditions = append(conditions, sq.ILike{"name": "%" + filter.Search + "%"})
	}
	if category, ok := filter.Filter["category"]; ok {
		conditions = append(conditions, sq.Eq{"category": category})
	}
	if isAvailable, ok := filter.Filter["is_available"]; ok {
		conditions = append(conditions, sq.Eq{"is_available": isAvailable})
	}

	countBuilder := sq.Select("COUNT(*)").From(foodTable).PlaceholderFormat(sq.Dollar)
	listBuilder := sq.Select(foodColumns).From(foodTable).
		PlaceholderFormat(sq.Dollar).
		OrderBy("category ASC", "name ASC")
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
		return []entities.Food{}, 0, nil
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

	foods := make([]entities.Food, 0)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, 0, err
		}
		foods = append(foods, *f)
	}
	return foods, total, rows.Err()
}

func (r *FoodRepository) FindFood(ctx context.Context, id uint64) (*entities.Food, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, foodColumns, foodTable)
	return scanFood(r.storage.QueryRow(ctx, query, id))
}

func (r *FoodRepository) FindFoodsByIDs(ctx context.Context, ids []uint64) ([]entities.Food, error) {
	query, args, err := sq.Select(foodColumns).From(foodTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": ids}).ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	foods := make([]entities.Food, 0, len(ids))
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, err
		}
		foods = append(foods, *f)
	}
	return foods, rows.Err()
}

func (r *FoodRepository) CreateFood(ctx context.Context, food entities.Food) (*entities.Food, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name, description, price, category, is_available, created_by)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING %s`, foodTable, foodColumns)
	return scanFood(r.storage.QueryRow(ctx, query,
		food.Name, food.Description, food.Price, string(food.Category), food.IsAvailable, food.CreatedBy))
}

func (r *FoodRepository) UpdateFood(ctx context.Context, id uint64, payload dto.UpdateFoodDTO) (*entities.Food, error) {
	updateBuilder := sq.Update(foodTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))

	hasChanges := false
	if payload.Name != nil {
		updateBuilder = updateBuilder.Set("name", *payload.Name)
		hasChanges = true
	}
	if payload.Description != nil {
		updateBuilder = updateBuilder.Set("description", *payload.Description)
		hasChanges = true
	}
	if payload.Price != nil {
		updateBuilder = updateBuilder.Set("price", *payload.Price)
		hasChanges = true
	}
	if payload.Category != nil {
		updateBuilder = updateBuilder.Set("category", *payload.Category)
		hasChanges = true
	}
	if payload.IsAvailable != nil {
		updateBuilder = updateBuilder.Set("is_available", *payload.IsAvailable)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindFood(ctx, id)
	}

	query, args, err := updateBuilder.Suffix("RETURNING " + foodColumns).ToSql()
	if err != nil {
		return nil, err
	}
	return scanFood(r.storage.QueryRow(ctx, query, args...))
}

func (r *FoodRepository) DeleteFood(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM foods WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// IsOrdered - встречается ли блюдо хоть в одном заказе. Такие блюда не
// удаляются, а помечаются недоступными.
func (r *FoodRepository) IsOrdered(ctx context.Context, id uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM order_items WHERE food_id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *FoodRepository) MarkUnavailable(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx,
		`UPDATE foods SET is_available = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
