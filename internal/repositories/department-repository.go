package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/types"
)

const departmentTable = "departments"

const departmentColumns = `id, name, description, pic_name, can_order, is_active, order_sequence, pin, created_at, updated_at`

type DepartmentRepositoryInterface interface {
	GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error)
	GetActiveDepartments(ctx context.Context) ([]entities.Department, error)
	FindDepartment(ctx context.Context, id uint64) (*entities.Department, error)
	FindByNameOrPin(ctx context.Context, name, pin string, excludeID uint64) (*entities.Department, error)
	FindActiveByIDAndPin(ctx context.Context, id uint64, pin string) (*entities.Department, error)
	MaxOrderSequence(ctx context.Context) (int, error)
	HasOrders(ctx context.Context, id uint64) (bool, error)
	CreateDepartment(ctx context.Context, department entities.Department) (*entities.Department, error)
	UpdateDepartment(ctx context.Context, id uint64, payload dto.UpdateDepartmentDTO) (*entities.Department, error)
	DeleteDepartment(ctx context.Context, id uint64) error
	DeactivateDepartment(ctx context.Context, id uint64) error
}

type DepartmentRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewDepartmentRepository(storage *pgxpool.Pool, logger *zap.Logger) DepartmentRepositoryInterface {
	return &DepartmentRepository{storage: storage, logger: logger}
}

func scanDepartment(row pgx.Row) (*entities.Department, error) {
	var d entities.Department
	err := row.Scan(&d.ID, &d.Name, &d.Description, &d.PicName, &d.CanOrder, &d.IsActive, &d.OrderSequence, &d.Pin, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования department: %w", err)
	}
	return &d, nil
}

func (r *DepartmentRepository) GetDepartments(ctx context.Context, filter types.Filter) ([]entities.Department, uint64, error) {
	conditions := sq.And{}
	if filter.Search != "" {
		conditions = append(conditions, sq.ILike{"name": "%" + filter.Search + "%"})
	}
	if isActive, ok := filter.Filter["is_active"]; ok {
		conditions = append(conditions, sq.Eq{"is_active": isActive})
	}

	countBuilder := sq.Select("COUNT(*)").From(departmentTable).PlaceholderFormat(sq.Dollar)
	listBuilder := sq.Select(departmentColumns).From(departmentTable).
		PlaceholderFormat(sq.Dollar).
		OrderBy("order_sequence ASC", "id ASC")
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
		return []entities.Department{}, 0, nil
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

	departments := make([]entities.Department, 0)
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, 0, err
		}
		departments = append(departments, *dept)
	}
	return departments, total, rows.Err()
}

// GetActiveDepartments возвращает активные департаменты в порядке ротации.
// Этот порядок определяет и стартовое распределение дней ваучеров.
func (r *DepartmentRepository) GetActiveDepartments(ctx context.Context) ([]entities.Department, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE is_active = TRUE ORDER BY order_sequence ASC, id ASC`, departmentColumns, departmentTable)
	rows, err := r.storage.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	departments := make([]entities.Department, 0)
	for rows.Next() {
		dept, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		departments = append(departments, *dept)
	}
	return departments, rows.Err()
}

func (r *DepartmentRepository) FindDepartment(ctx context.Context, id uint64) (*entities.Department, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, departmentColumns, departmentTable)
	return scanDepartment(r.storage.QueryRow(ctx, query, id))
}

// FindByNameOrPin ищет департамент с совпадающим именем или PIN, исключая
// excludeID (0 - ничего не исключать). Используется для предварительной
// проверки уникальности перед вставкой/обновлением.
func (r *DepartmentRepository) FindByNameOrPin(ctx context.Context, name, pin string, excludeID uint64) (*entities.Department, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE (name = $1 OR pin = $2) AND id != $3 LIMIT 1`, departmentColumns, departmentTable)
	return scanDepartment(r.storage.QueryRow(ctx, query, name, pin, excludeID))
}

func (r *DepartmentRepository) FindActiveByIDAndPin(ctx context.Context, id uint64, pin string) (*entities.Department, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 AND pin = $2 AND is_active = TRUE`, departmentColumns, departmentTable)
	return scanDepartment(r.storage.QueryRow(ctx, query, id, pin))
}

func (r *DepartmentRepository) MaxOrderSequence(ctx context.Context) (int, error) {
	var max int
	err := r.storage.QueryRow(ctx, `SELECT COALESCE(MAX(order_sequence), 0) FROM departments`).Scan(&max)
	return max, err
}

func (r *DepartmentRepository) HasOrders(ctx context.Context, id uint64) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM orders WHERE department_id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *DepartmentRepository) CreateDepartment(ctx context.Context, department entities.Department) (*entities.Department, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name, description, pic_name, can_order, is_active, order_sequence, pin)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING %s`, departmentTable, departmentColumns)
	created, err := scanDepartment(r.storage.QueryRow(ctx, query,
		department.Name, department.Description, department.PicName,
		department.CanOrder, department.IsActive, department.OrderSequence, department.Pin))
	if err != nil && IsUniqueViolation(err) {
		return nil, apperrors.NewConflictError("Департамент с таким именем или PIN уже существует", err)
	}
	return created, err
}

func (r *DepartmentRepository) UpdateDepartment(ctx context.Context, id uint64, payload dto.UpdateDepartmentDTO) (*entities.Department, error) {
	updateBuilder := sq.Update(departmentTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))

	hasChanges := false
	if payload.Name != nil {
		updateBuilder = updateBuilder.Set("name", *payload.Name)
		hasChanges = true
	}
	if payload.Description != nil {
		updateBuilder = updateBuilder.Set("description", *payload.Description)
		hasChanges = true
	}
	if payload.PicName != nil {
		updateBuilder = updateBuilder.Set("pic_name", *payload.PicName)
		hasChanges = true
	}
	if payload.Pin != nil {
		updateBuilder = updateBuilder.Set("pin", *payload.Pin)
		hasChanges = true
	}
	if payload.OrderSequence != nil {
		updateBuilder = updateBuilder.Set("order_sequence", *payload.OrderSequence)
		hasChanges = true
	}
	if payload.CanOrder != nil {
		updateBuilder = updateBuilder.Set("can_order", *payload.CanOrder)
		hasChanges = true
	}
	if payload.IsActive != nil {
		updateBuilder = updateBuilder.Set("is_active", *payload.IsActive)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindDepartment(ctx, id)
	}

	query, args, err := updateBuilder.Suffix("RETURNING " + departmentColumns).ToSql()
	if err != nil {
		return nil, err
	}
	updated, err := scanDepartment(r.storage.QueryRow(ctx, query, args...))
	if err != nil && IsUniqueViolation(err) {
		return nil, apperrors.NewConflictError("Департамент с таким именем или PIN уже существует", err)
	}
	return updated, err
}

func (r *DepartmentRepository) DeleteDepartment(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *DepartmentRepository) DeactivateDepartment(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `UPDATE departments SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
