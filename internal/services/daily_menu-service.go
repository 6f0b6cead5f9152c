package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	"catering-system/internal/repositories"
	apperrors "catering-system/pkg/errors"
)

type DailyMenuServiceInterface interface {
	GetMenuForDate(ctx context.Context, date string) ([]entities.DailyMenu, error)
	CreateMenu(ctx context.Context, payload dto.CreateDailyMenuDTO, createdBy uint64) ([]entities.DailyMenu, error)
	SetActive(ctx context.Context, id uint64, isActive bool) (*entities.DailyMenu, error)
	DeleteMenuItem(ctx context.Context, id uint64) error
}

type DailyMenuService struct {
	dailyMenuRepo repositories.DailyMenuRepositoryInterface
	foodRepo      repositories.FoodRepositoryInterface
	logger        *zap.Logger
}

func NewDailyMenuService(
	dailyMenuRepo repositories.DailyMenuRepositoryInterface,
	foodRepo repositories.FoodRepositoryInterface,
	logger *zap.Logger,
) DailyMenuServiceInterface {
	return &DailyMenuService{dailyMenuRepo: dailyMenuRepo, foodRepo: foodRepo, logger: logger}
}

func parseDateOnly(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, apperrors.NewBadRequestError("Неверный формат даты, ожидается YYYY-MM-DD", err)
	}
	return date, nil
}

func (s *DailyMenuService) GetMenuForDate(ctx context.Context, date string) ([]entities.DailyMenu, error) {
	parsed, err := parseDateOnly(date)
	if err != nil {
		return nil, err
	}
	return s.dailyMenuRepo.GetMenuForDate(ctx, parsed)
}

// CreateMenu добавляет набор блюд в меню даты. Все блюда обязаны
// существовать и быть доступными.
func (s *DailyMenuService) CreateMenu(ctx context.Context, payload dto.CreateDailyMenuDTO, createdBy uint64) ([]entities.DailyMenu, error) {
	date, err := parseDateOnly(payload.Date)
	if err != nil {
		return nil, err
	}

	foods, err := s.foodRepo.FindFoodsByIDs(ctx, payload.FoodIDs)
	if err != nil {
		return nil, err
	}
	found := make(map[uint64]entities.Food, len(foods))
	for _, f := range foods {
		found[f.ID] = f
	}
	for _, id := range payload.FoodIDs {
		food, ok := found[id]
		if !ok {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("Блюдо %d не существует", id), nil)
		}
		if !food.IsAvailable {
			return nil, apperrors.NewBadRequestError(fmt.Sprintf("Блюдо %q недоступно", food.Name), nil)
		}
	}

	items, err := s.dailyMenuRepo.CreateMenuItems(ctx, date, payload.FoodIDs, createdBy)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Сформировано меню дня",
		zap.String("date", payload.Date), zap.Int("items", len(items)))
	return items, nil
}

func (s *DailyMenuService) SetActive(ctx context.Context, id uint64, isActive bool) (*entities.DailyMenu, error) {
	item, err := s.dailyMenuRepo.SetActive(ctx, id, isActive)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Позиция меню не найдена")
	}
	return item, err
}

func (s *DailyMenuService) DeleteMenuItem(ctx context.Context, id uint64) error {
	err := s.dailyMenuRepo.DeleteMenuItem(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError("Позиция меню не найдена")
	}
	return err
}
