package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	"catering-system/internal/repositories"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/types"
)

type FoodServiceInterface interface {
	GetFoods(ctx context.Context, filter types.Filter) ([]entities.Food, uint64, error)
	FindFood(ctx context.Context, id uint64) (*entities.Food, error)
	CreateFood(ctx context.Context, payload dto.CreateFoodDTO, createdBy uint64) (*entities.Food, error)
	UpdateFood(ctx context.Context, id uint64, payload dto.UpdateFoodDTO) (*entities.Food, error)
	DeleteFood(ctx context.Context, id uint64) (markedUnavailable bool, err error)
}

type FoodService struct {
	foodRepo repositories.FoodRepositoryInterface
	logger   *zap.Logger
}

func NewFoodService(foodRepo repositories.FoodRepositoryInterface, logger *zap.Logger) FoodServiceInterface {
	return &FoodService{foodRepo: foodRepo, logger: logger}
}

func (s *FoodService) GetFoods(ctx context.Context, filter types.Filter) ([]entities.Food, uint64, error) {
	return s.foodRepo.GetFoods(ctx, filter)
}

func (s *FoodService) FindFood(ctx context.Context, id uint64) (*entities.Food, error) {
	food, err := s.foodRepo.FindFood(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Блюдо не найдено")
	}
	return food, err
}

func (s *FoodService) CreateFood(ctx context.Context, payload dto.CreateFoodDTO, createdBy uint64) (*entities.Food, error) {
	food := entities.Food{
		Name:        payload.Name,
		Price:       payload.Price,
		Category:    entities.FoodCategory(payload.Category),
		IsAvailable: true,
		CreatedBy:   createdBy,
	}
	if payload.Description != nil {
		food.Description.SetValid(*payload.Description)
	}
	return s.foodRepo.CreateFood(ctx, food)
}

func (s *FoodService) UpdateFood(ctx context.Context, id uint64, payload dto.UpdateFoodDTO) (*entities.Food, error) {
	if _, err := s.FindFood(ctx, id); err != nil {
		return nil, err
	}
	return s.foodRepo.UpdateFood(ctx, id, payload)
}

// DeleteFood удаляет блюдо без истории заказов; заказанное хоть раз блюдо
// вместо удаления помечается недоступным.
func (s *FoodService) DeleteFood(ctx context.Context, id uint64) (bool, error) {
	if _, err := s.FindFood(ctx, id); err != nil {
		return false, err
	}

	ordered, err := s.foodRepo.IsOrdered(ctx, id)
	if err != nil {
		return false, err
	}
	if ordered {
		if err := s.foodRepo.MarkUnavailable(ctx, id); err != nil {
			return false, err
		}
		s.logger.Info("Блюдо помечено недоступным (есть история заказов)", zap.Uint64("food_id", id))
		return true, nil
	}
	return false, s.foodRepo.DeleteFood(ctx, id)
}
