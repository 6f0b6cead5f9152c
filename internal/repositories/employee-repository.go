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

const employeeTable = "employees"

const employeeColumns = `e.id, e.employee_id, e.name, e.email, e.phone, e.department_id,
	e.position, e.is_active, e.join_date, e.created_by, d.name, e.created_at, e.updated_at`

type EmployeeRepositoryInterface interface {
	GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error)
	FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error)
	CreateEmployee(ctx context.Context, employee entities.Employee) (*entities.Employee, error)
	UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error)
	DeleteEmployee(ctx context.Context, id uint64) error
	CountActiveByDepartment(ctx context.Context, departmentID uint64) (int, error)
}

type EmployeeRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewEmployeeRepository(storage *pgxpool.Pool, logger *zap.Logger) EmployeeRepositoryInterface {
	return &EmployeeRepository{storage: storage, logger: logger}
}

func scanEmployee(row pgx.Row) (*entities.Employee, error) {
	var e entities.Employee
	err := row.Scan(&e.ID, &e.EmployeeID, &e.Name, &e.Email, &e.Phone, &e.DepartmentID,
		&e.Position, &e.IsActive, &e.JoinDate, &e.CreatedBy, &e.DepartmentName, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования employee: %w", err)
	}
	return &e, nil
}

const employeeFromClause = employeeTable + ` e JOIN departments d ON d.id = e.department_id`

func (r *EmployeeRepository) GetEmployees(ctx context.Context, filter types.Filter) ([]entities.Employee, uint64, error) {
	conditions := sq.And{}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		conditions = append(conditions, sq.Or{
			sq.ILike{"e.name": pattern},
			sq.ILike{"e.employee_id": pattern},
		})
	}
	if departmentID, ok := filter.Filter["department_id"]; ok {
		conditions = append(conditions, sq.Eq{"e.department_id": departmentID})
	}
	if isActive, ok := filter.Filter["is_active"]; ok {
		conditions = append(conditions, sq.Eq{"e.is_active": isActive})
	}

	countBuilder := sq.Select("COUNT(*)").From(employeeFromClause).PlaceholderFormat(sq.Dollar)
	listBuilder := sq.Select(employeeColumns).From(employeeFromClause).
		PlaceholderFormat(sq.Dollar).
		OrderBy("e.name ASC", "e.id ASC")
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
		return []entities.Employee{}, 0, nil
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

	employees := make([]entities.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, err
		}
		employees = append(employees, *e)
	}
	return employees, total, rows.Err()
}

func (r *EmployeeRepository) FindEmployee(ctx context.Context, id uint64) (*entities.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE e.id = $1`, employeeColumns, employeeFromClause)
	return scanEmployee(r.storage.QueryRow(ctx, query, id))
}

func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee entities.Employee) (*entities.Employee, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO employees (employee_id, name, email, phone, department_id, position, is_active, join_date, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		employee.EmployeeID, employee.Name, employee.Email, employee.Phone, employee.DepartmentID,
		employee.Position, employee.IsActive, employee.JoinDate, employee.CreatedBy).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("Сотрудник с таким табельным номером уже существует", err)
		}
		return nil, err
	}
	return r.FindEmployee(ctx, id)
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, id uint64, payload dto.UpdateEmployeeDTO) (*entities.Employee, error) {
	updateBuilder := sq.Update(employeeTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))

	hasChanges := false
	if payload.EmployeeID != nil {
		updateBuilder = updateBuilder.Set("employee_id", *payload.EmployeeID)
		hasChanges = true
	}
	if payload.Name != nil {
		updateBuilder = updateBuilder.Set("name", *payload.Name)
		hasChanges = true
	}
	if payload.Email != nil {
		updateBuilder = updateBuilder.Set("email", *payload.Email)
		hasChanges = true
	}
	if payload.Phone != nil {
		updateBuilder = updateBuilder.Set("phone", *payload.Phone)
		hasChanges = true
	}
	if payload.DepartmentID != nil {
		updateBuilder = updateBuilder.Set("department_id", *payload.DepartmentID)
		hasChanges = true
	}
	if payload.Position != nil {
		updateBuilder = updateBuilder.Set("position", *payload.Position)
		hasChanges = true
	}
	if payload.IsActive != nil {
		updateBuilder = updateBuilder.Set("is_active", *payload.IsActive)
		hasChanges = true
	}
	if payload.JoinDate != nil {
		updateBuilder = updateBuilder.Set("join_date", *payload.JoinDate)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindEmployee(ctx, id)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, err
	}
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("Сотрудник с таким табельным номером уже существует", err)
		}
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindEmployee(ctx, id)
}

func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CountActiveByDepartment используется как количество сотрудников по
// умолчанию при создании заказа без явного employee_count.
func (r *EmployeeRepository) CountActiveByDepartment(ctx context.Context, departmentID uint64) (int, error) {
	var count int
	err := r.storage.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE department_id = $1 AND is_active = TRUE`, departmentID).Scan(&count)
	return count, err
}
