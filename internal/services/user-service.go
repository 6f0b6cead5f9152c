package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	"catering-system/internal/repositories"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/utils"
	"catering-system/pkg/types"
)

type UserServiceInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUser(ctx context.Context, id uint64) (*entities.User, error)
	CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserService struct {
	userRepo repositories.UserRepositoryInterface
	logger   *zap.Logger
}

func NewUserService(userRepo repositories.UserRepositoryInterface, logger *zap.Logger) UserServiceInterface {
	return &UserService{userRepo: userRepo, logger: logger}
}

func (s *UserService) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	return s.userRepo.GetUsers(ctx, filter)
}

func (s *UserService) FindUser(ctx context.Context, id uint64) (*entities.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Пользователь не найден")
	}
	return user, err
}

func (s *UserService) CreateUser(ctx context.Context, payload dto.CreateUserDTO) (*entities.User, error) {
	hashed, err := utils.HashPassword(payload.Password)
	if err != nil {
		return nil, err
	}

	user := entities.User{
		Name:         payload.Name,
		Email:        payload.Email,
		Password:     hashed,
		Role:         entities.UserRole(payload.Role),
		DepartmentID: payload.DepartmentID,
		IsActive:     true,
	}
	if payload.Pin != nil {
		user.Pin.SetValid(*payload.Pin)
	}
	return s.userRepo.CreateUser(ctx, user)
}

func (s *UserService) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO) (*entities.User, error) {
	if _, err := s.FindUser(ctx, id); err != nil {
		return nil, err
	}

	var hashedPassword *string
	if payload.Password != nil {
		hashed, err := utils.HashPassword(*payload.Password)
		if err != nil {
			return nil, err
		}
		hashedPassword = &hashed
	}
	return s.userRepo.UpdateUser(ctx, id, payload, hashedPassword)
}

func (s *UserService) DeleteUser(ctx context.Context, id uint64) error {
	err := s.userRepo.DeleteUser(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError("Пользователь не найден")
	}
	return err
}
