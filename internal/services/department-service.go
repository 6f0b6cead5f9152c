package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	"catering-system/internal/repositories"
	"catering-system/pkg/config"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/types"
)

const pinAttemptsKeyPrefix = "pin_attempts:"

type DepartmentServiceInterface interface {
	GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error)
	FindDepartment(ctx context.Context, id uint64) (*entities.Department, error)
	CreateDepartment(ctx context.Context, payload dto.CreateDepartmentDTO) (*entities.Department, error)
	UpdateDepartment(ctx context.Context, id uint64, payload dto.UpdateDepartmentDTO) (*entities.Department, error)
	DeleteDepartment(ctx context.Context, id uint64) (deactivated bool, err error)
	VerifyPin(ctx context.Context, payload dto.VerifyPinDTO) (*entities.Department, error)
}

type DepartmentService struct {
	departmentRepo repositories.DepartmentRepositoryInterface
	cacheRepo      repositories.CacheRepositoryInterface
	authConfig     config.AuthConfig
	logger         *zap.Logger
}

func NewDepartmentService(
	departmentRepo repositories.DepartmentRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	authConfig config.AuthConfig,
	logger *zap.Logger,
) DepartmentServiceInterface {
	return &DepartmentService{
		departmentRepo: departmentRepo,
		cacheRepo:      cacheRepo,
		authConfig:     authConfig,
		logger:         logger,
	}
}

func (s *DepartmentService) GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error) {
	return s.departmentRepo.GetDepartments(ctx, filter)
}

func (s *DepartmentService) FindDepartment(ctx context.Context, id uint64) (*entities.Department, error) {
	department, err := s.departmentRepo.FindDepartment(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Департамент не найден")
	}
	return department, err
}

func (s *DepartmentService) CreateDepartment(ctx context.Context, payload dto.CreateDepartmentDTO) (*entities.Department, error) {
	// Предварительная проверка уникальности имени и PIN; уникальный индекс
	// в БД остаётся последней линией защиты.
	if existing, err := s.departmentRepo.FindByNameOrPin(ctx, payload.Name, payload.Pin, 0); err == nil && existing != nil {
		if existing.Name == payload.Name {
			return nil, apperrors.NewConflictError("Департамент с таким именем уже существует", nil)
		}
		return nil, apperrors.NewConflictError("Этот PIN уже используется другим департаментом", nil)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	department := entities.Department{
		Name:     payload.Name,
		Pin:      payload.Pin,
		CanOrder: true,
		IsActive: true,
	}
	if payload.Description != nil {
		department.Description.SetValid(*payload.Description)
	}
	if payload.PicName != nil {
		department.PicName.SetValid(*payload.PicName)
	}
	if payload.CanOrder != nil {
		department.CanOrder = *payload.CanOrder
	}

	if payload.OrderSequence != nil {
		department.OrderSequence = *payload.OrderSequence
	} else {
		max, err := s.departmentRepo.MaxOrderSequence(ctx)
		if err != nil {
			return nil, err
		}
		department.OrderSequence = max + 1
	}

	created, err := s.departmentRepo.CreateDepartment(ctx, department)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Создан департамент", zap.Uint64("department_id", created.ID), zap.String("name", created.Name))
	return created, nil
}

func (s *DepartmentService) UpdateDepartment(ctx context.Context, id uint64, payload dto.UpdateDepartmentDTO) (*entities.Department, error) {
	current, err := s.FindDepartment(ctx, id)
	if err != nil {
		return nil, err
	}

	name := current.Name
	if payload.Name != nil {
		name = *payload.Name
	}
	pin := current.Pin
	if payload.Pin != nil {
		pin = *payload.Pin
	}
	if payload.Name != nil || payload.Pin != nil {
		if existing, err := s.departmentRepo.FindByNameOrPin(ctx, name, pin, id); err == nil && existing != nil {
			if existing.Name == name {
				return nil, apperrors.NewConflictError("Департамент с таким именем уже существует", nil)
			}
			return nil, apperrors.NewConflictError("Этот PIN уже используется другим департаментом", nil)
		} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	return s.departmentRepo.UpdateDepartment(ctx, id, payload)
}

// DeleteDepartment удаляет департамент без заказов насовсем; департамент
// с историей заказов только деактивируется, чтобы не ломать отчётность.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id uint64) (bool, error) {
	if _, err := s.FindDepartment(ctx, id); err != nil {
		return false, err
	}

	hasOrders, err := s.departmentRepo.HasOrders(ctx, id)
	if err != nil {
		return false, err
	}
	if hasOrders {
		if err := s.departmentRepo.DeactivateDepartment(ctx, id); err != nil {
			return false, err
		}
		s.logger.Info("Департамент деактивирован (есть история заказов)", zap.Uint64("department_id", id))
		return true, nil
	}

	if err := s.departmentRepo.DeleteDepartment(ctx, id); err != nil {
		return false, err
	}
	s.logger.Info("Департамент удалён", zap.Uint64("department_id", id))
	return false, nil
}

// VerifyPin сверяет PIN департамента с лимитом попыток в Redis по аналогии
// с лимитом попыток входа.
func (s *DepartmentService) VerifyPin(ctx context.Context, payload dto.VerifyPinDTO) (*entities.Department, error) {
	attemptsKey := fmt.Sprintf("%s%d", pinAttemptsKeyPrefix, payload.DepartmentID)

	if attempts, err := s.cacheRepo.Get(ctx, attemptsKey); err == nil && attempts != "" {
		var count int
		fmt.Sscanf(attempts, "%d", &count)
		if count >= s.authConfig.MaxPinAttempts {
			s.logger.Warn("Проверка PIN заблокирована из-за превышения числа попыток",
				zap.Uint64("department_id", payload.DepartmentID))
			return nil, apperrors.NewHttpError(429, "Слишком много неверных PIN. Попытайтесь позже", apperrors.ErrForbidden, nil)
		}
	}

	department, err := s.departmentRepo.FindActiveByIDAndPin(ctx, payload.DepartmentID, payload.Pin)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			count, incErr := s.cacheRepo.Incr(ctx, attemptsKey)
			if incErr == nil && count == 1 {
				s.cacheRepo.Expire(ctx, attemptsKey, s.authConfig.PinLockoutDuration)
			}
			return nil, apperrors.NewUnauthorizedError("Неверный PIN или департамент неактивен")
		}
		return nil, err
	}

	if err := s.cacheRepo.Del(ctx, attemptsKey); err != nil {
		s.logger.Warn("Не удалось сбросить счётчик попыток PIN", zap.Error(err))
	}
	return department, nil
}
