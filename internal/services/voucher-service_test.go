package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catering-system/internal/dto"
	"catering-system/internal/entities"
	"catering-system/pkg/config"
	apperrors "catering-system/pkg/errors"
	"catering-system/pkg/utils"
)

func testVoucherConfig() config.VoucherConfig {
	return config.VoucherConfig{
		DefaultAmount:  50000,
		ValidityDays:   7,
		CodeMaxRetries: 3,
	}
}

func newTestVoucherService(at time.Time) (*VoucherService, *fakeVoucherRepo, *fakeScheduleRepo) {
	voucherRepo := &fakeVoucherRepo{}
	scheduleRepo := &fakeScheduleRepo{}
	svc := &VoucherService{
		voucherRepo:    voucherRepo,
		scheduleRepo:   scheduleRepo,
		departmentRepo: &fakeDepartmentRepo{departments: testDepartments(1)},
		voucherConfig:  testVoucherConfig(),
		logger:         zap.NewNop(),
		now:            func() time.Time { return at },
	}
	return svc, voucherRepo, scheduleRepo
}

func seedWednesdaySchedule(scheduleRepo *fakeScheduleRepo) {
	scheduleRepo.schedules = append(scheduleRepo.schedules, entities.WeeklySchedule{
		ID:             1,
		WeekStartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DepartmentID:   1,
		VoucherDay:     entities.Wednesday,
		DepartmentName: "Отдел разработки",
	})
}

func TestGenerateVouchersForWeek(t *testing.T) {
	// Генерация запущена 5 января: в коде ваучера зашита дата выпуска,
	// тогда как дата действия остаётся из расписания.
	svc, voucherRepo, scheduleRepo := newTestVoucherService(time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC))
	seedWednesdaySchedule(scheduleRepo)

	created, err := svc.GenerateVouchersForWeek(context.Background(), dto.GenerateVouchersDTO{
		WeekStartDate: "2024-01-01",
	}, 7)
	require.NoError(t, err)
	require.Len(t, created, 1)

	voucher := created[0]
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), voucher.Date)
	assert.Equal(t, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC), voucher.ExpiryDate)
	assert.Equal(t, float64(50000), voucher.Amount)
	assert.Equal(t, entities.VoucherActive, voucher.Status)
	assert.Equal(t, uint64(7), voucher.CreatedBy)
	assert.Regexp(t, regexp.MustCompile(`^VOUCHER20240105[0-9A-Z]{6}$`), voucher.VoucherCode)
	assert.Contains(t, voucher.Notes.String, "Отдел разработки")
	assert.Contains(t, voucher.Notes.String, "2024-01-01")

	// Повторный запуск не дублирует уже выпущенные ваучеры.
	repeat, err := svc.GenerateVouchersForWeek(context.Background(), dto.GenerateVouchersDTO{
		WeekStartDate: "2024-01-01",
	}, 7)
	require.NoError(t, err)
	assert.Empty(t, repeat)
	assert.Len(t, voucherRepo.vouchers, 1)
}

func TestGenerateVouchersForWeekCustomAmount(t *testing.T) {
	svc, _, scheduleRepo := newTestVoucherService(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	seedWednesdaySchedule(scheduleRepo)

	amount := 75000.0
	created, err := svc.GenerateVouchersForWeek(context.Background(), dto.GenerateVouchersDTO{
		WeekStartDate: "2024-01-01",
		VoucherAmount: &amount,
	}, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, amount, created[0].Amount)
}

func TestGenerateVouchersForWeekSkipsIneligibleDepartments(t *testing.T) {
	svc, _, scheduleRepo := newTestVoucherService(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	seedWednesdaySchedule(scheduleRepo)
	// Строка расписания департамента, которого нет среди активных.
	scheduleRepo.schedules = append(scheduleRepo.schedules, entities.WeeklySchedule{
		ID:            2,
		WeekStartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		DepartmentID:  99,
		VoucherDay:    entities.Friday,
	})

	created, err := svc.GenerateVouchersForWeek(context.Background(), dto.GenerateVouchersDTO{
		WeekStartDate: "2024-01-01",
	}, 1)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, uint64(1), created[0].DepartmentID)
}

func TestGenerateVouchersForWeekWithoutSchedule(t *testing.T) {
	svc, _, _ := newTestVoucherService(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.GenerateVouchersForWeek(context.Background(), dto.GenerateVouchersDTO{
		WeekStartDate: "2024-01-01",
	}, 1)
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestUseVoucher(t *testing.T) {
	usedAt := time.Date(2024, 1, 5, 13, 30, 0, 0, time.UTC)
	svc, voucherRepo, scheduleRepo := newTestVoucherService(usedAt)
	seedWednesdaySchedule(scheduleRepo)

	created, err := svc.GenerateVouchersForWeek(context.Background(), dto.GenerateVouchersDTO{
		WeekStartDate: "2024-01-01",
	}, 1)
	require.NoError(t, err)

	used, err := svc.UseVoucher(context.Background(), created[0].VoucherCode, dto.UseVoucherDTO{
		Notes: utils.ToPtr("Выдан наличными"),
	})
	require.NoError(t, err)
	assert.Equal(t, entities.VoucherUsed, used.Status)
	require.True(t, used.UsedAt.Valid)
	assert.Equal(t, usedAt, used.UsedAt.Time)
	// Заметка о погашении помечена и дописана после заметки о выпуске.
	assert.Contains(t, used.Notes.String, "Отдел разработки")
	assert.Contains(t, used.Notes.String, "\nПогашен 2024-01-05 13:30: Выдан наличными")

	// Повторное погашение отклоняется с указанием текущего статуса.
	_, err = svc.UseVoucher(context.Background(), created[0].VoucherCode, dto.UseVoucherDTO{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrVoucherNotActive))

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 400, httpErr.Code)
	assert.Contains(t, httpErr.Message, "used")

	assert.Equal(t, entities.VoucherUsed, voucherRepo.vouchers[0].Status)
}

func TestUseVoucherOnExpiryDate(t *testing.T) {
	// В сам день истечения ваучер ещё действителен.
	svc, _, scheduleRepo := newTestVoucherService(time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC))
	seedWednesdaySchedule(scheduleRepo)

	created, err := svc.GenerateVouchersForWeek(context.Background(), dto.GenerateVouchersDTO{
		WeekStartDate: "2024-01-01",
	}, 1)
	require.NoError(t, err)

	used, err := svc.UseVoucher(context.Background(), created[0].VoucherCode, dto.UseVoucherDTO{})
	require.NoError(t, err)
	assert.Equal(t, entities.VoucherUsed, used.Status)
}

func TestUseVoucherPastExpiry(t *testing.T) {
	svc, voucherRepo, scheduleRepo := newTestVoucherService(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	seedWednesdaySchedule(scheduleRepo)

	created, err := svc.GenerateVouchersForWeek(context.Background(), dto.GenerateVouchersDTO{
		WeekStartDate: "2024-01-01",
	}, 1)
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC) }

	_, err = svc.UseVoucher(context.Background(), created[0].VoucherCode, dto.UseVoucherDTO{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrVoucherExpired))

	// Чтение по коду перевело ваучер в expired.
	assert.Equal(t, entities.VoucherExpired, voucherRepo.vouchers[0].Status)
}

func TestUseVoucherUnknownCode(t *testing.T) {
	svc, _, _ := newTestVoucherService(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	_, err := svc.UseVoucher(context.Background(), "VOUCHER20240103XXXXXX", dto.UseVoucherDTO{})
	require.Error(t, err)

	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestExpireOldVouchers(t *testing.T) {
	svc, voucherRepo, _ := newTestVoucherService(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	voucherRepo.vouchers = []entities.Voucher{
		{
			ID:          1,
			VoucherCode: "VOUCHER20240103AAAAAA",
			Status:      entities.VoucherActive,
			ExpiryDate:  time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          2,
			VoucherCode: "VOUCHER20240110BBBBBB",
			Status:      entities.VoucherActive,
			ExpiryDate:  time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:          3,
			VoucherCode: "VOUCHER20231220CCCCCC",
			Status:      entities.VoucherUsed,
			UsedAt:      null.TimeFrom(time.Date(2023, 12, 21, 0, 0, 0, 0, time.UTC)),
			ExpiryDate:  time.Date(2023, 12, 27, 0, 0, 0, 0, time.UTC),
		},
	}

	result, err := svc.ExpireOldVouchers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), result.ExpiredCount)
	assert.Equal(t, entities.VoucherExpired, voucherRepo.vouchers[0].Status)
	assert.Equal(t, entities.VoucherActive, voucherRepo.vouchers[1].Status)
	assert.Equal(t, entities.VoucherUsed, voucherRepo.vouchers[2].Status)

	// Повторный запуск ничего не находит.
	repeat, err := svc.ExpireOldVouchers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), repeat.ExpiredCount)
}

func TestGetDepartmentVouchersStatistics(t *testing.T) {
	svc, voucherRepo, _ := newTestVoucherService(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
	voucherRepo.vouchers = []entities.Voucher{
		{
			ID: 1, DepartmentID: 1, Amount: 50000,
			Status:     entities.VoucherActive,
			ExpiryDate: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: 2, DepartmentID: 1, Amount: 50000,
			Status:     entities.VoucherUsed,
			UsedAt:     null.TimeFrom(time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)),
			ExpiryDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: 3, DepartmentID: 1, Amount: 75000,
			// Активный, но просроченный: при чтении учитывается как expired.
			Status:     entities.VoucherActive,
			ExpiryDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		},
	}

	result, err := svc.GetDepartmentVouchers(context.Background(), 1)
	require.NoError(t, err)

	stats := result.Statistics
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.Used)
	assert.Equal(t, 1, stats.Expired)
	assert.Equal(t, float64(175000), stats.TotalValue)
	assert.Equal(t, float64(50000), stats.UsedValue)
}
