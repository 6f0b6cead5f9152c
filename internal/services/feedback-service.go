package services

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	"catering-system/internal/repositories"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/types"
)

type FeedbackServiceInterface interface {
	GetFeedbacks(ctx context.Context, filter types.Filter) ([]entities.Feedback, uint64, error)
	FindFeedback(ctx context.Context, id uint64) (*entities.Feedback, error)
	CreateFeedback(ctx context.Context, payload dto.CreateFeedbackDTO) (*entities.Feedback, error)
	UpdateFeedback(ctx context.Context, id uint64, payload dto.UpdateFeedbackDTO) (*entities.Feedback, error)
	DeleteFeedback(ctx context.Context, id uint64) error
	GetStats(ctx context.Context, departmentID *uint64, from, to *time.Time) (*dto.FeedbackStatsDTO, error)
}

type FeedbackService struct {
	feedbackRepo repositories.FeedbackRepositoryInterface
	orderRepo    repositories.OrderRepositoryInterface
	logger       *zap.Logger
}

func NewFeedbackService(
	feedbackRepo repositories.FeedbackRepositoryInterface,
	orderRepo repositories.OrderRepositoryInterface,
	logger *zap.Logger,
) FeedbackServiceInterface {
	return &FeedbackService{feedbackRepo: feedbackRepo, orderRepo: orderRepo, logger: logger}
}

func (s *FeedbackService) GetFeedbacks(ctx context.Context, filter types.Filter) ([]entities.Feedback, uint64, error) {
	return s.feedbackRepo.GetFeedbacks(ctx, filter)
}

func (s *FeedbackService) FindFeedback(ctx context.Context, id uint64) (*entities.Feedback, error) {
	feedback, err := s.feedbackRepo.FindFeedback(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Отзыв не найден")
	}
	return feedback, err
}

// CreateFeedback принимает один отзыв на заказ; заказ должен существовать
// и принадлежать указанному департаменту.
func (s *FeedbackService) CreateFeedback(ctx context.Context, payload dto.CreateFeedbackDTO) (*entities.Feedback, error) {
	date, err := parseDateOnly(payload.Date)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindOrder(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewBadRequestError("Указанный заказ не существует", nil)
		}
		return nil, err
	}
	if order.DepartmentID != payload.DepartmentID {
		return nil, apperrors.NewBadRequestError("Заказ не принадлежит указанному департаменту", nil)
	}

	exists, err := s.feedbackRepo.ExistsForOrder(ctx, payload.OrderID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("Отзыв на этот заказ уже оставлен", nil)
	}

	feedback := entities.Feedback{
		OrderID:        payload.OrderID,
		DepartmentID:   payload.DepartmentID,
		Date:           date,
		Rating:         payload.Rating,
		FoodQuality:    payload.FoodQuality,
		ServiceQuality: payload.ServiceQuality,
	}
	if payload.Comment != nil {
		feedback.Comment.SetValid(*payload.Comment)
	}
	if payload.Suggestions != nil {
		feedback.Suggestions.SetValid(*payload.Suggestions)
	}
	return s.feedbackRepo.CreateFeedback(ctx, feedback)
}

func (s *FeedbackService) UpdateFeedback(ctx context.Context, id uint64, payload dto.UpdateFeedbackDTO) (*entities.Feedback, error) {
	if _, err := s.FindFeedback(ctx, id); err != nil {
		return nil, err
	}
	return s.feedbackRepo.UpdateFeedback(ctx, id, payload)
}

func (s *FeedbackService) DeleteFeedback(ctx context.Context, id uint64) error {
	err := s.feedbackRepo.DeleteFeedback(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError("Отзыв не найден")
	}
	return err
}

func (s *FeedbackService) GetStats(ctx context.Context, departmentID *uint64, from, to *time.Time) (*dto.FeedbackStatsDTO, error) {
	return s.feedbackRepo.GetStats(ctx, departmentID, from, to)
}
