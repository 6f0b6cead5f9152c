package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/aarondl/null/v8"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"catering-system/internal/entities"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/types"
)

const voucherTable = "vouchers"

const voucherColumns = `v.id, v.voucher_code, v.department_id, v.date, v.amount, v.status,
	v.used_at, v.expiry_date, v.notes, v.created_by, d.name, u.name, v.created_at, v.updated_at`

type VoucherRepositoryInterface interface {
	GetVouchers(ctx context.Context, filter types.Filter) ([]entities.Voucher, uint64, error)
	FindVoucher(ctx context.Context, id uint64) (*entities.Voucher, error)
	FindVoucherByCode(ctx context.Context, code string) (*entities.Voucher, error)
	ExistsForDepartmentDate(ctx context.Context, departmentID uint64, date time.Time) (bool, error)
	ListByDepartment(ctx context.Context, departmentID uint64) ([]entities.Voucher, error)
	CreateVoucher(ctx context.Context, voucher entities.Voucher) (*entities.Voucher, error)
	MarkUsed(ctx context.Context, id uint64, usedAt time.Time, notes *string) (*entities.Voucher, error)
	UpdateStatus(ctx context.Context, id uint64, status entities.VoucherStatus, usedAt null.Time, notes *string) (*entities.Voucher, error)
	MarkExpired(ctx context.Context, id uint64) error
	ExpireOld(ctx context.Context, today time.Time) (int64, error)
}

type VoucherRepository struct {
	storage *pgxpool.Pool
	logger  *zap.Logger
}

func NewVoucherRepository(storage *pgxpool.Pool, logger *zap.Logger) VoucherRepositoryInterface {
	return &VoucherRepository{storage: storage, logger: logger}
}

func scanVoucher(row pgx.Row) (*entities.Voucher, error) {
	var v entities.Voucher
	var status string
	err := row.Scan(&v.ID, &v.VoucherCode, &v.DepartmentID, &v.Date, &v.Amount, &status,
		&v.UsedAt, &v.ExpiryDate, &v.Notes, &v.CreatedBy, &v.DepartmentName, &v.CreatorName,
		&v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка сканирования voucher: %w", err)
	}
	v.Status = entities.VoucherStatus(status)
	return &v, nil
}

const voucherFromClause = voucherTable + ` v
	JOIN departments d ON d.id = v.department_id
	JOIN users u ON u.id = v.created_by`

// voucherFilterConditions переводит общий фильтр в условия выборки ваучеров:
// точная дата и границы диапазона комбинируются через AND.
func voucherFilterConditions(filter types.Filter) sq.And {
	conditions := sq.And{}
	if filter.Search != "" {
		conditions = append(conditions, sq.ILike{"v.voucher_code": "%" + filter.Search + "%"})
	}
	if status, ok := filter.Filter["status"]; ok {
		conditions = append(conditions, sq.Eq{"v.status": status})
	}
	if departmentID, ok := filter.Filter["department_id"]; ok {
		conditions = append(conditions, sq.Eq{"v.department_id": departmentID})
	}
	if date, ok := filter.Filter["date"]; ok {
		conditions = append(conditions, sq.Eq{"v.date": date})
	}
	if from, ok := filter.Filter["date_from"]; ok {
		conditions = append(conditions, sq.GtOrEq{"v.date": from})
	}
	if to, ok := filter.Filter["date_to"]; ok {
		conditions = append(conditions, sq.LtOrEq{"v.date": to})
	}
	return conditions
}

func (r *VoucherRepository) GetVouchers(ctx context.Context, filter types.Filter) ([]entities.Voucher, uint64, error) {
	conditions := voucherFilterConditions(filter)

	countBuilder := sq.Select("COUNT(*)").From(voucherFromClause).PlaceholderFormat(sq.Dollar)
	listBuilder := sq.Select(voucherColumns).From(voucherFromClause).
		PlaceholderFormat(sq.Dollar).
		OrderBy("v.date DESC", "v.id DESC")
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
		return []entities.Voucher{}, 0, nil
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

	vouchers := make([]entities.Voucher, 0)
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, 0, err
		}
		vouchers = append(vouchers, *v)
	}
	return vouchers, total, rows.Err()
}

func (r *VoucherRepository) FindVoucher(ctx context.Context, id uint64) (*entities.Voucher, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE v.id = $1`, voucherColumns, voucherFromClause)
	return scanVoucher(r.storage.QueryRow(ctx, query, id))
}

func (r *VoucherRepository) FindVoucherByCode(ctx context.Context, code string) (*entities.Voucher, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE v.voucher_code = $1`, voucherColumns, voucherFromClause)
	return scanVoucher(r.storage.QueryRow(ctx, query, code))
}

func (r *VoucherRepository) ExistsForDepartmentDate(ctx context.Context, departmentID uint64, date time.Time) (bool, error) {
	var exists bool
	err := r.storage.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM vouchers WHERE department_id = $1 AND date = $2)`,
		departmentID, date).Scan(&exists)
	return exists, err
}

func (r *VoucherRepository) ListByDepartment(ctx context.Context, departmentID uint64) ([]entities.Voucher, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE v.department_id = $1 ORDER BY v.date DESC, v.id DESC`,
		voucherColumns, voucherFromClause)
	rows, err := r.storage.Query(ctx, query, departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vouchers := make([]entities.Voucher, 0)
	for rows.Next() {
		v, err := scanVoucher(rows)
		if err != nil {
			return nil, err
		}
		vouchers = append(vouchers, *v)
	}
	return vouchers, rows.Err()
}

// CreateVoucher вставляет ваучер; нарушение любой уникальности
// (voucher_code или пары department_id+date) возвращается как конфликт.
func (r *VoucherRepository) CreateVoucher(ctx context.Context, voucher entities.Voucher) (*entities.Voucher, error) {
	var id uint64
	err := r.storage.QueryRow(ctx,
		`INSERT INTO vouchers (voucher_code, department_id, date, amount, status, expiry_date, notes, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`,
		voucher.VoucherCode, voucher.DepartmentID, voucher.Date, voucher.Amount,
		string(voucher.Status), voucher.ExpiryDate, voucher.Notes, voucher.CreatedBy).Scan(&id)
	if err != nil {
		if IsUniqueViolation(err) {
			return nil, apperrors.NewConflictError("Ваучер для департамента на эту дату или с таким кодом уже существует", err)
		}
		return nil, err
	}
	return r.FindVoucher(ctx, id)
}

// MarkUsed переводит ваучер active -> used. Условие status = 'active' в
// WHERE делает погашение атомарным: второй конкурентный вызов не найдёт строку.
func (r *VoucherRepository) MarkUsed(ctx context.Context, id uint64, usedAt time.Time, notes *string) (*entities.Voucher, error) {
	updateBuilder := sq.Update(voucherTable).
		PlaceholderFormat(sq.Dollar).
		Set("status", string(entities.VoucherUsed)).
		Set("used_at", usedAt).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id, "status": string(entities.VoucherActive)})
	if notes != nil {
		// Заметка о погашении дописывается к уже существующим заметкам.
		updateBuilder = updateBuilder.Set("notes", sq.Expr("CONCAT_WS(chr(10), NULLIF(notes, ''), ?)", *notes))
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, err
	}
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindVoucher(ctx, id)
}

// UpdateStatus - административная смена статуса без проверки переходов.
func (r *VoucherRepository) UpdateStatus(ctx context.Context, id uint64, status entities.VoucherStatus, usedAt null.Time, notes *string) (*entities.Voucher, error) {
	updateBuilder := sq.Update(voucherTable).
		PlaceholderFormat(sq.Dollar).
		Set("status", string(status)).
		Set("used_at", usedAt).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id})
	if notes != nil {
		updateBuilder = updateBuilder.Set("notes", *notes)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, err
	}
	result, err := r.storage.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.FindVoucher(ctx, id)
}

// MarkExpired - ленивый перевод одного ваучера в expired при чтении.
func (r *VoucherRepository) MarkExpired(ctx context.Context, id uint64) error {
	_, err := r.storage.Exec(ctx,
		`UPDATE vouchers SET status = 'expired', updated_at = NOW() WHERE id = $1 AND status = 'active'`, id)
	return err
}

// ExpireOld переводит в expired все активные ваучеры с датой истечения
// строго раньше today. Повторный вызов ничего не меняет.
func (r *VoucherRepository) ExpireOld(ctx context.Context, today time.Time) (int64, error) {
	result, err := r.storage.Exec(ctx,
		`UPDATE vouchers SET status = 'expired', updated_at = NOW() WHERE status = 'active' AND expiry_date < $1`,
		today)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
