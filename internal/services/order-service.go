package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	"catering-system/internal/repositories"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/types"
)

// Допустимые переходы статуса заказа.
var orderTransitions = map[entities.OrderStatus][]entities.OrderStatus{
	entities.OrderPending:   {entities.OrderConfirmed, entities.OrderCancelled},
	entities.OrderConfirmed: {entities.OrderCompleted, entities.OrderCancelled},
}

type OrderServiceInterface interface {
	GetOrders(ctx context.Context, filter types.Filter) ([]entities.Order, uint64, error)
	FindOrder(ctx context.Context, id uint64) (*entities.Order, error)
	CreateOrder(ctx context.Context, payload dto.CreateOrderDTO, createdBy *uint64) (*entities.Order, error)
	UpdateOrderStatus(ctx context.Context, id uint64, payload dto.UpdateOrderStatusDTO) (*entities.Order, error)
	RequestEdit(ctx context.Context, id uint64, payload dto.RequestOrderEditDTO) (*entities.Order, error)
	ResolveEditRequest(ctx context.Context, id uint64, payload dto.ApproveOrderEditDTO) (*entities.Order, error)
	ReplaceItems(ctx context.Context, id uint64, items []dto.OrderItemInput) (*entities.Order, error)
	DeleteOrder(ctx context.Context, id uint64) error
}

type OrderService struct {
	orderRepo      repositories.OrderRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	foodRepo       repositories.FoodRepositoryInterface
	employeeRepo   repositories.EmployeeRepositoryInterface
	logger         *zap.Logger
}

func NewOrderService(
	orderRepo repositories.OrderRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	foodRepo repositories.FoodRepositoryInterface,
	employeeRepo repositories.EmployeeRepositoryInterface,
	logger *zap.Logger,
) OrderServiceInterface {
	return &OrderService{
		orderRepo:      orderRepo,
		departmentRepo: departmentRepo,
		foodRepo:       foodRepo,
		employeeRepo:   employeeRepo,
		logger:         logger,
	}
}

func (s *OrderService) GetOrders(ctx context.Context, filter types.Filter) ([]entities.Order, uint64, error) {
	return s.orderRepo.GetOrders(ctx, filter)
}

func (s *OrderService) FindOrder(ctx context.Context, id uint64) (*entities.Order, error) {
	order, err := s.orderRepo.FindOrder(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.NewNotFoundError("Заказ не найден")
	}
	return order, err
}

// buildItems валидирует позиции и считает subtotal по текущим ценам блюд.
func (s *OrderService) buildItems(ctx context.Context, inputs []dto.OrderItemInput) ([]entities.OrderItem, float64, error) {
	ids := make([]uint64, 0, len(inputs))
	for _, item := range inputs {
		ids = append(ids, item.FoodID)
	}
	foods, err := s.foodRepo.FindFoodsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	foodMap := make(map[uint64]entities.Food, len(foods))
	for _, f := range foods {
		foodMap[f.ID] = f
	}

	items := make([]entities.OrderItem, 0, len(inputs))
	var total float64
	for _, input := range inputs {
		food, ok := foodMap[input.FoodID]
		if !ok {
			return nil, 0, apperrors.NewBadRequestError(fmt.Sprintf("Блюдо %d не существует", input.FoodID), nil)
		}
		if !food.IsAvailable {
			return nil, 0, apperrors.NewBadRequestError(fmt.Sprintf("Блюдо %q недоступно для заказа", food.Name), nil)
		}
		quantity := input.Quantity
		if quantity == 0 {
			quantity = 1
		}
		subtotal := food.Price * float64(quantity)
		items = append(items, entities.OrderItem{
			FoodID:   input.FoodID,
			Quantity: quantity,
			Price:    food.Price,
			Subtotal: subtotal,
		})
		total += subtotal
	}
	return items, total, nil
}

func (s *OrderService) CreateOrder(ctx context.Context, payload dto.CreateOrderDTO, createdBy *uint64) (*entities.Order, error) {
	date, err := parseDateOnly(payload.Date)
	if err != nil {
		return nil, err
	}

	department, err := s.departmentRepo.FindDepartment(ctx, payload.DepartmentID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewBadRequestError("Указанный департамент не существует", nil)
		}
		return nil, err
	}
	if !department.IsActive || !department.CanOrder {
		return nil, apperrors.NewForbiddenError("Департамент не может оформлять заказы")
	}

	exists, err := s.orderRepo.ExistsForDepartmentDate(ctx, payload.DepartmentID, date)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.NewConflictError("Заказ для департамента на эту дату уже существует", nil)
	}

	items, total, err := s.buildItems(ctx, payload.Items)
	if err != nil {
		return nil, err
	}

	employeeCount := payload.EmployeeCount
	if employeeCount == 0 {
		employeeCount, err = s.employeeRepo.CountActiveByDepartment(ctx, payload.DepartmentID)
		if err != nil {
			return nil, err
		}
	}

	order := entities.Order{
		DepartmentID:      payload.DepartmentID,
		CreatedBy:         createdBy,
		Date:              date,
		TotalAmount:       total,
		Status:            entities.OrderPending,
		EmployeeCount:     employeeCount,
		IsEditable:        true,
		EditRequestStatus: entities.EditNone,
		Items:             items,
	}
	if payload.Notes != nil {
		order.Notes.SetValid(*payload.Notes)
	}

	created, err := s.orderRepo.CreateOrder(ctx, order)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Создан заказ",
		zap.Uint64("order_id", created.ID),
		zap.Uint64("department_id", created.DepartmentID),
		zap.Float64("total", created.TotalAmount))
	return created, nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id uint64, payload dto.UpdateOrderStatusDTO) (*entities.Order, error) {
	order, err := s.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	target := entities.OrderStatus(payload.Status)
	allowed := false
	for _, next := range orderTransitions[order.Status] {
		if next == target {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("Недопустимый переход статуса заказа: %s -> %s", order.Status, target), nil)
	}

	// Подтверждённый заказ редактируется только через запрос на изменение.
	isEditable := target == entities.OrderPending
	return s.orderRepo.UpdateStatus(ctx, id, target, isEditable)
}

// RequestEdit - PIC запрашивает редактирование подтверждённого заказа.
func (s *OrderService) RequestEdit(ctx context.Context, id uint64, payload dto.RequestOrderEditDTO) (*entities.Order, error) {
	order, err := s.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status != entities.OrderConfirmed {
		return nil, apperrors.NewBadRequestError("Запросить редактирование можно только для подтверждённого заказа", nil)
	}
	if order.EditRequestStatus == entities.EditPending {
		return nil, apperrors.NewConflictError("Запрос на редактирование уже ожидает решения", nil)
	}
	return s.orderRepo.SetEditRequest(ctx, id, payload.Reason, entities.EditPending)
}

// ResolveEditRequest - администратор одобряет или отклоняет запрос.
// Одобрение открывает заказ для редактирования.
func (s *OrderService) ResolveEditRequest(ctx context.Context, id uint64, payload dto.ApproveOrderEditDTO) (*entities.Order, error) {
	order, err := s.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.EditRequestStatus != entities.EditPending {
		return nil, apperrors.NewBadRequestError("Для заказа нет ожидающего запроса на редактирование", nil)
	}

	status := entities.EditRejected
	isEditable := false
	if payload.Approved {
		status = entities.EditApproved
		isEditable = true
	}
	return s.orderRepo.ResolveEditRequest(ctx, id, status, isEditable)
}

// ReplaceItems заменяет состав заказа; допускается только пока заказ редактируем.
func (s *OrderService) ReplaceItems(ctx context.Context, id uint64, inputs []dto.OrderItemInput) (*entities.Order, error) {
	order, err := s.FindOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !order.IsEditable {
		return nil, apperrors.NewForbiddenError("Заказ закрыт для редактирования")
	}
	if len(inputs) == 0 {
		return nil, apperrors.NewBadRequestError("Заказ должен содержать хотя бы одну позицию", nil)
	}

	items, total, err := s.buildItems(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return s.orderRepo.ReplaceItems(ctx, id, items, total)
}

func (s *OrderService) DeleteOrder(ctx context.Context, id uint64) error {
	order, err := s.FindOrder(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != entities.OrderPending && order.Status != entities.OrderCancelled {
		return apperrors.NewBadRequestError("Удалить можно только ожидающий или отменённый заказ", nil)
	}
	return s.orderRepo.DeleteOrder(ctx, id)
}
