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

const userTable = "users"

const userColumns = `id, name, email, password, pin, role, department_id, is_active, created_at, updated_at`

type UserRepositoryInterface interface {
	GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByEmail(ctx context.Context, email string) (*entities.User, error)
	CreateUser(ctx context.Context, user entities.User) (*entities.User, error)
	UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO, hashedPassword *string) (*entities.User, error)
	DeleteUser(ctx context.Context, id uint64) error
}

type UserRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewUserRepository(storage *pgxpool.Pool, logger *zap.Logger) UserRepositoryInterface {
	return &UserRepository{storage: storage, logger: logger}
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Pin, &u.Role, &u.DepartmentID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования user: %w", err)
	}
	return &u, nil
}

func (r *UserRepository) GetUsers(ctx context.Context, filter types.Filter) ([]entities.User, uint64, error) {
	conditions := sq.And{}
	if filter.Search != "" {
		conditions = append(conditions, sq.Or{
			sq.ILike{"name": "%" + filter.Search + "%"},
			sq.ILike{"email": "%" + filter.Search + "%"},
		})
	}
	if role, ok := filter.Filter["role"]; ok {
		conditions = append(conditions, sq.Eq{"role": role})
	}
	if isActive, ok := filter.Filter["is_active"]; ok {
		conditions = append(conditions, sq.Eq{"is_active": isActive})
	}

	countBuilder := sq.Select("COUNT(*)").From(userTable).PlaceholderFormat(sq.Dollar)
	listBuilder := sq.Select(userColumns).From(userTable).PlaceholderFormat(sq.Dollar).OrderBy("id ASC")
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
		return []entities.User{}, 0, nil
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

	users := make([]entities.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, userColumns, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE email = $1`, userColumns, userTable)
	return scanUser(r.storage.QueryRow(ctx, query, email))
}

func (r *UserRepository) CreateUser(ctx context.Context, user entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`INSERT INTO %s (name, email, password, pin, role, department_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING %s`, userTable, userColumns)
	created, err := scanUser(r.storage.QueryRow(ctx, query,
		user.Name, user.Email, user.Password, user.Pin, user.Role, user.DepartmentID, user.IsActive))
	if err != nil && IsUniqueViolation(err) {
		return nil, apperrors.NewConflictError("Пользователь с таким email или PIN уже существует", err)
	}
	return created, err
}

func (r *UserRepository) UpdateUser(ctx context.Context, id uint64, payload dto.UpdateUserDTO, hashedPassword *string) (*entities.User, error) {
	updateBuilder := sq.Update(userTable).
		PlaceholderFormat(sq.Dollar).
		Where(sq.Eq{"id": id}).
		Set("updated_at", sq.Expr("NOW()"))

	hasChanges := false
	if payload.Name != nil {
		updateBuilder = updateBuilder.Set("name", *payload.Name)
		hasChanges = true
	}
	if payload.Email != nil {
		updateBuilder = updateBuilder.Set("email", *payload.Email)
		hasChanges = true
	}
	if hashedPassword != nil {
		updateBuilder = updateBuilder.Set("password", *hashedPassword)
		hasChanges = true
	}
	if payload.Pin != nil {
		updateBuilder = updateBuilder.Set("pin", *payload.Pin)
		hasChanges = true
	}
	if payload.Role != nil {
		updateBuilder = updateBuilder.Set("role", *payload.Role)
		hasChanges = true
	}
	if payload.DepartmentID != nil {
		updateBuilder = updateBuilder.Set("department_id", *payload.DepartmentID)
		hasChanges = true
	}
	if payload.IsActive != nil {
		updateBuilder = updateBuilder.Set("is_active", *payload.IsActive)
		hasChanges = true
	}
	if !hasChanges {
		return r.FindUserByID(ctx, id)
	}

	query, args, err := updateBuilder.Suffix("RETURNING " + userColumns).ToSql()
	if err != nil {
		return nil, err
	}
	updated, err := scanUser(r.storage.QueryRow(ctx, query, args...))
	if err != nil && IsUniqueViolation(err) {
		return nil, apperrors.NewConflictError("Пользователь с таким email или PIN уже существует", err)
	}
	return updated, err
}

func (r *UserRepository) DeleteUser(ctx context.Context, id uint64) error {
	result, err := r.storage.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
