package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"catering-system/internal/entities"
	apperrors "catering-system/pkg/errors"
)

const dailyMenuColumns = `m.id, m.date, m.food_id, m.is_active, m.created_by,
	f.name, f.price, f.category, m.created_at, m.updated_at`

type DailyMenuRepositoryInterface interface {
	GetMenuForDate(ctx context.Context, date time.Time) ([]entities.DailyMenu, error)
	FindMenuItem(ctx context.Context, id uint64) (*entities.DailyMenu, error)
	CreateMenuItems(ctx context.Context, date time.Time, foodIDs []uint64, createdBy uint64) ([]entities.DailyMenu, error)
	SetActive(ctx context.Context, id uint64, isActive bool) (*entities.DailyMenu, error)
	DeleteMenuItem(ctx context.Context, id uint64) error
}

type DailyMenuRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDailyMenuRepository(storage *pgxpool.Pool, logger *zap.Logger) DailyMenuRepositoryInterface {
	return &DailyMenuRepository{storage: storage, logger: logger}
}

func scanDailyMenu(row pgx.Row) (*entities.DailyMenu, error) {
	var m entities.DailyMenu
	var category string
	err := row.Scan(&m.ID, &m.Date, &m.FoodID, &m.IsActive, &m.CreatedBy,
		&m.FoodName, &m.FoodPrice, &category, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования daily_menu: %w", err)
	}
	m.FoodCategory = entities.FoodCategory(category)
	return &m, nil
}

const dailyMenuFromClause = `daily_menus m JOIN foods f ON f.id = m.food_id`

func (r *DailyMenuRepository) GetMenuForDate(ctx context.Context, date time.Time) ([]entities.DailyMenu, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE m.date = $1 ORDER BY f.category ASC, f.name ASC`,
		dailyMenuColumns, dailyMenuFromClause)
	rows, err := r.storage.Query(ctx, query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.DailyMenu, 0)
	for rows.Next() {
		m, err := scanDailyMenu(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

func (r *DailyMenuRepository) FindMenuItem(ctx context.Context, id uint64) (*entities.DailyMenu, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE m.id = $1`, dailyMenuColumns, dailyMenuFromClause)
	return scanDailyMenu(r.storage.QueryRow(ctx, query, id))
}

// CreateMenuItems добавляет набор блюд в меню даты одной транзакцией.
// Дубликат (date, food_id) откатывает всю пачку.
func (r *DailyMenuRepository) CreateMenuItems(ctx context.Context, date time.Time, foodIDs []uint64, createdBy uint64) ([]entities.DailyMenu, error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uint64, 0, len(foodIDs))
	for _, foodID := range foodIDs {
		var id uint64
		err := tx.QueryRow(ctx,
			`INSERT INTO daily_menus (date, food_id, is_active, created_by) VALUES ($1, $2, TRUE, $3) RETURNING id`,
			date, foodID, createdBy).Scan(&id)
		if err != nil {
			if IsUniqueViolation(err) {
				return nil, apperrors.NewConflictError(
					fmt.Sprintf("Блюдо %d уже есть в меню на %s", foodID, date.Format("2006-01-02")), err)
			}
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	items := make([]entities.DailyMenu, 0, len(ids))
	for _, id := range ids {
		m, err := r.FindMenuItem(ctx, id)
		if err != nil {
			return nil, err
		}
		items = append(items, *m)
	}
	return items, nil
}

func (r *DailyMenuRepository) SetActive(ctx context.Context, id uint64, isActive bool) (*entities.DailyMenu, error) {
	result, err := r.storage.Exec(ctx,
		`UPDATE daily_menus SET is_active = $1, updated_at = NOW() WHERE id = $2`, isActive, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindMenuItem(ctx, id)
}

func (r *DailyMenuRepository) DeleteMenuItem(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM daily_menus WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
