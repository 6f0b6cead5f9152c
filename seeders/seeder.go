package seeders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"catering-system/pkg/utils"
)

// Seed наполняет пустую базу стартовыми данными: администратор,
// департаменты с порядком ротации и базовый каталог блюд.
// Повторный запуск ничего не дублирует.
func Seed(ctx context.Context, storage *pgxpool.Pool, logger *zap.Logger) error {
	adminID, err := seedAdmin(ctx, storage, logger)
	if err != nil {
		return err
	}
	if err := seedDepartments(ctx, storage, logger); err != nil {
		return err
	}
	return seedFoods(ctx, storage, adminID, logger)
}

func seedAdmin(ctx context.Context, storage *pgxpool.Pool, logger *zap.Logger) (uint64, error) {
	var id uint64
	err := storage.QueryRow(ctx, `SELECT id FROM users WHERE email = $1`, "admin@catering.local").Scan(&id)
	if err == nil {
		return id, nil
	}

	hashed, err := utils.HashPassword("admin123")
	if err != nil {
		return 0, err
	}
	err = storage.QueryRow(ctx,
		`INSERT INTO users (name, email, password, role, is_active) VALUES ($1, $2, $3, 'administrator', TRUE) RETURNING id`,
		"Администратор", "admin@catering.local", hashed).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("не удалось создать администратора: %w", err)
	}
	logger.Info("Создан администратор по умолчанию", zap.Uint64("user_id", id))
	return id, nil
}

func seedDepartments(ctx context.Context, storage *pgxpool.Pool, logger *zap.Logger) error {
	var count int
	if err := storage.QueryRow(ctx, `SELECT COUNT(*) FROM departments`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	departments := []struct {
		name string
		pin  string
	}{
		{"Производство", "100001"},
		{"Логистика", "100002"},
		{"Финансы", "100003"},
		{"Кадры", "100004"},
		{"ИТ", "100005"},
	}
	for i, d := range departments {
		_, err := storage.Exec(ctx,
			`INSERT INTO departments (name, pin, can_order, is_active, order_sequence) VALUES ($1, $2, TRUE, TRUE, $3)`,
			d.name, d.pin, i+1)
		if err != nil {
			return fmt.Errorf("не удалось создать департамент %q: %w", d.name, err)
		}
	}
	logger.Info("Созданы департаменты по умолчанию", zap.Int("count", len(departments)))
	return nil
}

func seedFoods(ctx context.Context, storage *pgxpool.Pool, adminID uint64, logger *zap.Logger) error {
	var count int
	if err := storage.QueryRow(ctx, `SELECT COUNT(*) FROM foods`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	foods := []struct {
		name     string
		price    float64
		category string
	}{
		{"Плов", 35000, "main_course"},
		{"Лагман", 32000, "main_course"},
		{"Курица с рисом", 30000, "main_course"},
		{"Овощной салат", 12000, "side_dish"},
		{"Картофель фри", 15000, "side_dish"},
		{"Чай", 3000, "drink"},
		{"Компот", 5000, "drink"},
		{"Фруктовая тарелка", 18000, "dessert"},
	}
	for _, f := range foods {
		_, err := storage.Exec(ctx,
			`INSERT INTO foods (name, price, category, is_available, created_by) VALUES ($1, $2, $3, TRUE, $4)`,
			f.name, f.price, f.category, adminID)
		if err != nil {
			return fmt.Errorf("не удалось создать блюдо %q: %w", f.name, err)
		}
	}
	logger.Info("Создан базовый каталог блюд", zap.Int("count", len(foods)))
	return nil
}
