package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"catering-system/internal/entities"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/types"
)

const orderTable = "orders"

const orderColumns = `o.id, o.department_id, o.created_by, o.date, o.total_amount, o.status,
	o.employee_count, o.notes, o.is_editable, o.edit_request_reason, o.edit_request_status,
	d.name, o.created_at, o.updated_at`

type OrderRepositoryInterface interface {
	GetOrders(ctx context.Context, filter types.Filter) ([]entities.Order, uint64, error)
	FindOrder(ctx context.Context, id uint64) (*entities.Order, error)
	ExistsForDepartmentDate(ctx context.Context, departmentID uint64, date time.Time) (bool, error)
	CreateOrder(ctx context.Context, order entities.Order) (*entities.Order, error)
	ReplaceItems(ctx context.Context, orderID uint64, items []entities.OrderItem, totalAmount float64) (*entities.Order, error)
	UpdateStatus(ctx context.Context, id uint64, status entities.OrderStatus, isEditable bool) (*entities.Order, error)
	SetEditRequest(ctx context.Context, id uint64, reason string, status entities.EditRequestStatus) (*entities.Order, error)
	ResolveEditRequest(ctx context.Context, id uint64, status entities.EditRequestStatus, isEditable bool) (*entities.Order, error)
	DeleteOrder(ctx context.Context, id uint64) error
}

type OrderRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewOrderRepository(storage *pgxpool.Pool, logger *zap.Logger) OrderRepositoryInterface {
	return &OrderRepository{storage: storage, logger: logger}
}

func scanOrder(row pgx.Row) (*entities.Order, error) {
	var o entities.Order
	var status, editStatus string
	err := row.Scan(&o.ID, &o.DepartmentID, &o.CreatedBy, &o.Date, &o.TotalAmount, &status,
		&o.EmployeeCount, &o.Notes, &o.IsEditable, &o.EditRequestReason, &editStatus,
		&o.DepartmentName, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования order: %w", err)
	}
	o.Status = entities.OrderStatus(status)
	o.EditRequestStatus = entities.EditRequestStatus(editStatus)
	return &o, nil
}

const orderFromClause = orderTable + ` o JOIN departments d ON d.id = o.department_id`

func (r *OrderRepository) loadItems(ctx context.Context, orderID uint64) ([]entities.OrderItem, error) {
	rows, err := r.storage.Query(ctx,
		`SELECT i.id, i.order_id, i.food_id, i.quantity, i.price, i.subtotal, f.name, f.category
		 FROM order_items i JOIN foods f ON f.id = i.food_id
		 WHERE i.order_id = $1 ORDER BY i.id ASC`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]entities.OrderItem, 0)
	for rows.Next() {
		var item entities.OrderItem
		var category string
		if err := rows.Scan(&item.ID, &item.OrderID, &item.FoodID, &item.Quantity,
			&item.Price, &item.Subtotal, &item.FoodName, &category); err != nil {
			return nil, err
		}
		item.FoodCategory = entities.FoodCategory(category)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *OrderRepository) GetOrders(ctx context.Context, filter types.Filter) ([]entities.Order, uint64, error) {
	conditions := sq.And{}
	if departmentID, ok := filter.Filter["department_id"]; ok {
		conditions = append(conditions, sq.Eq{"o.department_id": departmentID})
	}
	if status, ok := filter.Filter["status"]; ok {
		conditions = append(conditions, sq.Eq{"o.status": status})
	}
	if date, ok := filter.Filter["date"]; ok {
		conditions = append(conditions, sq.Eq{"o.date": date})
	}
	if from, ok := filter.Filter["date_from"]; ok {
		conditions = append(conditions, sq.GtOrEq{"o.date": from})
	}
	if to, ok := filter.Filter["date_to"]; ok {
		conditions = append(conditions, sq.LtOrEq{"o.date": to})
	}

	countBuilder := sq.Select("COUNT(*)").From(orderFromClause).PlaceholderFormat(sq.Dollar)
	listBuilder := sq.Select(orderColumns).From(orderFromClause).
		PlaceholderFormat(sq.Dollar).
		OrderBy("o.date DESC", "o.id DESC")
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
		return []entities.Order{}, 0, nil
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

	orders := make([]entities.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range orders {
		items, err := r.loadItems(ctx, orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Items = items
	}
	return orders, total, nil
}

func (r *OrderRepository) FindOrder(ctx context.Context, id uint64) (*entities.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE o.id = $1`, orderColumns, orderFromClause)
	order, err := scanOrder(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		return nil, err
	}
	items, err := r.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *OrderRepository) ExistsForDepartmentDate(ctx context.Context, departmentID uint64, date time.Time) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM orders WHERE department_id = $1 AND date = $2 AND status != 'cancelled')`,
		departmentID, date).Scan(&exists)
	return exists, err
}

// CreateOrder вставляет заказ вместе с позициями в одной транзакции.
func (r *OrderRepository) CreateOrder(ctx context.Context, order entities.Order) (*entities.Order, error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var id uint64
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (department_id, created_by, date, total_amount, status, employee_count, notes, is_editable, edit_request_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		order.DepartmentID, order.CreatedBy, order.Date, order.TotalAmount, string(order.Status),
		order.EmployeeCount, order.Notes, order.IsEditable, string(order.EditRequestStatus)).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("Заказ для департамента на эту дату уже существует", err)
		}
		return nil, err
	}

	for _, item := range order.Items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, food_id, quantity, price, subtotal) VALUES ($1, $2, $3, $4, $5)`,
			id, item.FoodID, item.Quantity, item.Price, item.Subtotal)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.FindOrder(ctx, id)
}

// ReplaceItems полностью заменяет позиции заказа (одобренное редактирование).
func (r *OrderRepository) ReplaceItems(ctx context.Context, orderID uint64, items []entities.OrderItem, totalAmount float64) (*entities.Order, error) {
	tx, err := r.storage.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderID); err != nil {
		return nil, err
	}
	for _, item := range items {
		_, err = tx.Exec(ctx,
			`INSERT INTO order_items (order_id, food_id, quantity, price, subtotal) VALUES ($1, $2, $3, $4, $5)`,
			orderID, item.FoodID, item.Quantity, item.Price, item.Subtotal)
		if err != nil {
			return nil, err
		}
	}

	result, err := tx.Exec(ctx,
		`UPDATE orders SET total_amount = $1, updated_at = NOW() WHERE id = $2`, totalAmount, orderID)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return r.FindOrder(ctx, orderID)
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id uint64, status entities.OrderStatus, isEditable bool) (*entities.Order, error) {
	result, err := r.storage.Exec(ctx,
		`UPDATE orders SET status = $1, is_editable = $2, updated_at = NOW() WHERE id = $3`,
		string(status), isEditable, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindOrder(ctx, id)
}

func (r *OrderRepository) SetEditRequest(ctx context.Context, id uint64, reason string, status entities.EditRequestStatus) (*entities.Order, error) {
	result, err := r.storage.Exec(ctx,
		`UPDATE orders SET edit_request_reason = $1, edit_request_status = $2, updated_at = NOW() WHERE id = $3`,
		reason, string(status), id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindOrder(ctx, id)
}

func (r *OrderRepository) ResolveEditRequest(ctx context.Context, id uint64, status entities.EditRequestStatus, isEditable bool) (*entities.Order, error) {
	result, err := r.storage.Exec(ctx,
		`UPDATE orders SET edit_request_status = $1, is_editable = $2, updated_at = NOW() WHERE id = $3`,
		string(status), isEditable, id)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindOrder(ctx, id)
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, id uint64) error {
	// order_items удаляются каскадом.
	result, err := r.storage.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
