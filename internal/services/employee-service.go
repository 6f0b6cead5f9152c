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

type EmployeeServiceInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO, createdBy uint64) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error)
	DeleteEmployee(ctx context.Context, id uint64) error
}

type EmployeeService struct {
	employeeRepo   repositories.EmployeeRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	logger         *zap.Logger
}

func NewEmployeeService(
	employeeRepo repositories.EmployeeRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	logger *zap.Logger,
) EmployeeServiceInterface {
	return &EmployeeService{employeeRepo: employeeRepo, departmentRepo: departmentRepo, logger: logger}
}

func (s *EmployeeService) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	return s.employeeRepo.GetEmployees(ctx, filter)
}

func (s *EmployeeService) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	employee, err := s.employeeRepo.FindEmployee(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Сотрудник не найден")
	}
	return employee, err
}

func (s *EmployeeService) CreateEmployee(ctx context.Context, payload dto.CreateEmployeeDTO, createdBy uint64) (*entities.Employee, error) {
	if _, err := s.departmentRepo.FindDepartment(ctx, payload.DepartmentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewBadRequestError("Указанный департамент не существует", nil)
		}
		return nil, err
	}

	employee := entities.Employee{
		EmployeeID:   payload.EmployeeID,
		Name:         payload.Name,
		DepartmentID: payload.DepartmentID,
		IsActive:     true,
		CreatedBy:    createdBy,
	}
	if payload.Email != nil {
		employee.Email.SetValid(*payload.Email)
	}
	if payload.Phone != nil {
		employee.Phone.SetValid(*payload.Phone)
	}
	if payload.Position != nil {
		employee.Position.SetValid(*payload.Position)
	}
	if payload.JoinDate != nil {
		joinDate, err := time.Parse("2006-01-02", *payload.JoinDate)
		if err != nil {
			return nil, apperrors.NewBadRequestError("Неверный формат даты приёма, ожидается YYYY-MM-DD", err)
		}
		employee.JoinDate = &joinDate
	}
	return s.employeeRepo.CreateEmployee(ctx, employee)
}

func (s *EmployeeService) UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	if _, err := s.FindEmployee(ctx, id); err != nil {
		return nil, err
	}
	if payload.DepartmentID != nil {
		if _, err := s.departmentRepo.FindDepartment(ctx, *payload.DepartmentID); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, apperrors.NewBadRequestError("Указанный департамент не существует", nil)
			}
			return nil, err
		}
	}
	return s.employeeRepo.UpdateEmployee(ctx, id, payload)
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id uint64) error {
	err := s.employeeRepo.DeleteEmployee(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return apperrors.NewNotFoundError("Сотрудник не найден")
	}
	return err
}
