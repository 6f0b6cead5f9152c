package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/aarondl/null/v8"
	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	"catering-system/internal/repositories"
	"catering-system/pkg/config"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/types"
)

const voucherCodeCharset = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
const voucherCodeSuffixLen = 6

type VoucherServiceInterface interface {
	GetVouchers(ctx context.Context, filter types.Filter) ([]entities.Voucher, uint64, error)
	FindVoucher(ctx context.Context, id uint64) (*entities.Voucher, error)
	FindVoucherByCode(ctx context.Context, code string) (*entities.Voucher, error)
	GenerateVouchersForWeek(ctx context.Context, payload dto.GenerateVouchersDTO, createdBy uint64) ([]entities.Voucher, error)
	UseVoucher(ctx context.Context, code string, payload dto.UseVoucherDTO) (*entities.Voucher, error)
	UpdateVoucherStatus(ctx context.Context, id uint64, payload dto.UpdateVoucherStatusDTO) (*entities.Voucher, error)
	GetDepartmentVouchers(ctx context.Context, departmentID uint64) (*dto.DepartmentVouchersDTO, error)
	ExpireOldVouchers(ctx context.Context) (*dto.ExpiredSweepDTO, error)
}

type VoucherService struct {
	voucherRepo    repositories.VoucherRepositoryInterface
	scheduleRepo   repositories.ScheduleRepositoryInterface
	departmentRepo repositories.DepartmentRepositoryInterface
	voucherConfig  config.VoucherConfig
	logger         *zap.Logger

	// Подменяется в тестах.
	now func() time.Time
}

func NewVoucherService(
	voucherRepo repositories.VoucherRepositoryInterface,
	scheduleRepo repositories.ScheduleRepositoryInterface,
	departmentRepo repositories.DepartmentRepositoryInterface,
	voucherConfig config.VoucherConfig,
	logger *zap.Logger,
) VoucherServiceInterface {
	return &VoucherService{
		voucherRepo:    voucherRepo,
		scheduleRepo:   scheduleRepo,
		departmentRepo: departmentRepo,
		voucherConfig:  voucherConfig,
		logger:         logger,
		now:            time.Now,
	}
}

// newVoucherCode собирает код вида VOUCHER<YYYYMMDD выпуска><6 случайных символов>.
func newVoucherCode(issuedAt time.Time) (string, error) {
	suffix := make([]byte, voucherCodeSuffixLen)
	max := big.NewInt(int64(len(voucherCodeCharset)))
	for i := range suffix {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("не удалось сгенерировать код ваучера: %w", err)
		}
		suffix[i] = voucherCodeCharset[n.Int64()]
	}
	return "VOUCHER" + issuedAt.Format("20060102") + string(suffix), nil
}

func (s *VoucherService) GetVouchers(ctx context.Context, filter types.Filter) ([]entities.Voucher, uint64, error) {
	return s.voucherRepo.GetVouchers(ctx, filter)
}

// refreshExpiry лениво переводит активный ваучер с прошедшей датой
// истечения в expired и возвращает актуальное состояние.
func (s *VoucherService) refreshExpiry(ctx context.Context, voucher *entities.Voucher) (*entities.Voucher, error) {
	if voucher.Status != entities.VoucherActive || !voucher.IsPastExpiry(s.now()) {
		return voucher, nil
	}
	if err := s.voucherRepo.MarkExpired(ctx, voucher.ID); err != nil {
		return nil, err
	}
	voucher.Status = entities.VoucherExpired
	return voucher, nil
}

func (s *VoucherService) FindVoucher(ctx context.Context, id uint64) (*entities.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucher(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Ваучер не найден")
		}
		return nil, err
	}
	return s.refreshExpiry(ctx, voucher)
}

func (s *VoucherService) FindVoucherByCode(ctx context.Context, code string) (*entities.Voucher, error) {
	voucher, err := s.voucherRepo.FindVoucherByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Ваучер с таким кодом не найден")
		}
		return nil, err
	}
	return s.refreshExpiry(ctx, voucher)
}

// GenerateVouchersForWeek выпускает ваучеры по расписанию недели: каждому
// департаменту один ваучер на его дату. Дата ваучера - день из расписания,
// срок действия - 7 дней от даты. Существующие ваучеры пропускаются,
// поэтому повторный запуск ничего не дублирует.
func (s *VoucherService) GenerateVouchersForWeek(ctx context.Context, payload dto.GenerateVouchersDTO, createdBy uint64) ([]entities.Voucher, error) {
	date, err := parseDateOnly(payload.WeekStartDate)
	if err != nil {
		return nil, err
	}
	week := entities.MondayOf(date)

	schedules, err := s.scheduleRepo.GetByWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	// Ваучеры выпускаются только департаментам, которые активны и могут
	// оформлять заказы на момент выпуска.
	departments, err := s.departmentRepo.GetActiveDepartments(ctx)
	if err != nil {
		return nil, err
	}
	eligible := make(map[uint64]bool, len(departments))
	for _, d := range departments {
		if d.CanOrder {
			eligible[d.ID] = true
		}
	}
	rows := make([]entities.WeeklySchedule, 0, len(schedules))
	for _, schedule := range schedules {
		if eligible[schedule.DepartmentID] {
			rows = append(rows, schedule)
		}
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError("Расписание на эту неделю не сгенерировано")
	}

	amount := s.voucherConfig.DefaultAmount
	if payload.VoucherAmount != nil {
		amount = *payload.VoucherAmount
	}

	created := make([]entities.Voucher, 0, len(rows))
	for _, schedule := range rows {
		voucherDate := schedule.VoucherDate()

		exists, err := s.voucherRepo.ExistsForDepartmentDate(ctx, schedule.DepartmentID, voucherDate)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}

		note := fmt.Sprintf("Ваучер для департамента %q, неделя %s",
			schedule.DepartmentName, week.Format("2006-01-02"))
		voucher, err := s.issueVoucher(ctx, schedule.DepartmentID, voucherDate, amount, note, createdBy)
		if err != nil {
			return nil, err
		}
		created = append(created, *voucher)
	}

	s.logger.Info("Выпущены ваучеры недели",
		zap.String("week_start_date", week.Format("2006-01-02")),
		zap.Int("issued", len(created)))
	return created, nil
}

// issueVoucher создаёт ваучер, перегенерируя код при коллизии.
func (s *VoucherService) issueVoucher(ctx context.Context, departmentID uint64, date time.Time, amount float64, note string, createdBy uint64) (*entities.Voucher, error) {
	retries := s.voucherConfig.CodeMaxRetries
	if retries < 1 {
		retries = 1
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		// В коде закодирована дата выпуска, а не дата действия ваучера.
		code, err := newVoucherCode(s.now())
		if err != nil {
			return nil, err
		}
		voucher, err := s.voucherRepo.CreateVoucher(ctx, entities.Voucher{
			VoucherCode:  code,
			DepartmentID: departmentID,
			Date:         date,
			Amount:       amount,
			Status:       entities.VoucherActive,
			ExpiryDate:   date.AddDate(0, 0, s.voucherConfig.ValidityDays),
			Notes:        null.StringFrom(note),
			CreatedBy:    createdBy,
		})
		if err == nil {
			return voucher, nil
		}
		var httpErr *apperrors.HttpError
		if !errors.As(err, &httpErr) || httpErr.Code != 409 {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// UseVoucher погашает активный ваучер по коду. Истёкший по дате ваучер
// сначала переводится в expired и погашению не подлежит.
func (s *VoucherService) UseVoucher(ctx context.Context, code string, payload dto.UseVoucherDTO) (*entities.Voucher, error) {
	voucher, err := s.FindVoucherByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	switch voucher.Status {
	case entities.VoucherActive:
	case entities.VoucherExpired:
		return nil, apperrors.NewExpiredError("Срок действия ваучера истёк")
	default:
		return nil, apperrors.NewInvalidStateError(
			fmt.Sprintf("Ваучер нельзя погасить: текущий статус %q", voucher.Status))
	}

	// Запись о погашении всегда помечена, чтобы отличаться от заметки о выпуске.
	usedAt := s.now()
	note := fmt.Sprintf("Погашен %s", usedAt.Format("2006-01-02 15:04"))
	if payload.Notes != nil && *payload.Notes != "" {
		note += ": " + *payload.Notes
	}

	used, err := s.voucherRepo.MarkUsed(ctx, voucher.ID, usedAt, &note)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Состояние успело измениться между чтением и обновлением.
			return nil, apperrors.NewInvalidStateError("Ваучер нельзя погасить: он уже не активен")
		}
		return nil, err
	}

	s.logger.Info("Ваучер погашен",
		zap.Uint64("voucher_id", used.ID),
		zap.String("voucher_code", used.VoucherCode))
	return used, nil
}

// UpdateVoucherStatus - административная смена статуса в обход переходов
// жизненного цикла.
func (s *VoucherService) UpdateVoucherStatus(ctx context.Context, id uint64, payload dto.UpdateVoucherStatusDTO) (*entities.Voucher, error) {
	current, err := s.FindVoucher(ctx, id)
	if err != nil {
		return nil, err
	}

	status := entities.VoucherStatus(payload.Status)
	usedAt := current.UsedAt
	if status == entities.VoucherUsed && !usedAt.Valid {
		usedAt = null.TimeFrom(s.now())
	}
	return s.voucherRepo.UpdateStatus(ctx, id, status, usedAt, payload.Notes)
}

// GetDepartmentVouchers возвращает ваучеры департамента с агрегатами.
// Истёкшие по дате, но ещё активные в БД ваучеры учитываются как expired.
func (s *VoucherService) GetDepartmentVouchers(ctx context.Context, departmentID uint64) (*dto.DepartmentVouchersDTO, error) {
	if _, err := s.departmentRepo.FindDepartment(ctx, departmentID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("Департамент не найден")
		}
		return nil, err
	}

	vouchers, err := s.voucherRepo.ListByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}

	stats := entities.VoucherStats{Total: len(vouchers)}
	for i := range vouchers {
		refreshed, err := s.refreshExpiry(ctx, &vouchers[i])
		if err != nil {
			return nil, err
		}
		vouchers[i] = *refreshed

		stats.TotalValue += vouchers[i].Amount
		switch vouchers[i].Status {
		case entities.VoucherActive:
			stats.Active++
		case entities.VoucherUsed:
			stats.Used++
			stats.UsedValue += vouchers[i].Amount
		case entities.VoucherExpired:
			stats.Expired++
		}
	}

	return &dto.DepartmentVouchersDTO{Vouchers: vouchers, Statistics: stats}, nil
}

// ExpireOldVouchers - пакетный перевод всех просроченных активных ваучеров.
func (s *VoucherService) ExpireOldVouchers(ctx context.Context) (*dto.ExpiredSweepDTO, error) {
	today := s.now()
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	count, err := s.voucherRepo.ExpireOld(ctx, today)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		s.logger.Info("Просроченные ваучеры переведены в expired", zap.Int64("count", count))
	}
	return &dto.ExpiredSweepDTO{ExpiredCount: count}, nil
}
