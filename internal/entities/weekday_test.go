package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextVoucherDay(t *testing.T) {
	cases := []struct {
		prev Weekday
		next Weekday
	}{
		{Monday, Tuesday},
		{Tuesday, Wednesday},
		{Wednesday, Thursday},
		{Thursday, Friday},
		{Friday, Saturday},
		{Saturday, Sunday},
		{Sunday, Monday},
	}
	for _, c := range cases {
		assert.Equal(t, c.next, NextVoucherDay(c.prev), "после %s", c.prev)
	}
}

func TestNextVoucherDayFullCycle(t *testing.T) {
	day := Monday
	for i := 0; i < 7; i++ {
		day = NextVoucherDay(day)
	}
	assert.Equal(t, Monday, day, "через 7 недель день возвращается к исходному")
}

func TestInitialVoucherDay(t *testing.T) {
	assert.Equal(t, Monday, InitialVoucherDay(0))
	assert.Equal(t, Tuesday, InitialVoucherDay(1))
	assert.Equal(t, Friday, InitialVoucherDay(4))
	// Шестой департамент снова получает понедельник.
	assert.Equal(t, Monday, InitialVoucherDay(5))
	assert.Equal(t, Wednesday, InitialVoucherDay(7))
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday("wednesday")
	require.NoError(t, err)
	assert.Equal(t, Wednesday, day)

	_, err = ParseWeekday("someday")
	assert.Error(t, err)

	_, err = ParseWeekday("Monday")
	assert.Error(t, err, "день недели хранится только в нижнем регистре")
}

func TestDayOffset(t *testing.T) {
	assert.Equal(t, 0, Monday.DayOffset())
	assert.Equal(t, 2, Wednesday.DayOffset())
	assert.Equal(t, 6, Sunday.DayOffset())
}

func TestMondayOf(t *testing.T) {
	// 2024-01-03 - среда.
	wednesday := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), MondayOf(wednesday))

	// Понедельник остаётся самим собой.
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, monday, MondayOf(monday))

	// Воскресенье относится к неделе предыдущего понедельника.
	sunday := time.Date(2024, 1, 7, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, monday, MondayOf(sunday))
}

func TestWeeklyScheduleVoucherDate(t *testing.T) {
	schedule := WeeklySchedule{
		WeekStartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		VoucherDay:    Wednesday,
	}
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), schedule.VoucherDate())
}

func TestVoucherIsPastExpiry(t *testing.T) {
	voucher := Voucher{ExpiryDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)}

	assert.False(t, voucher.IsPastExpiry(time.Date(2024, 1, 9, 12, 0, 0, 0, time.UTC)))
	// В сам день истечения ваучер ещё действует.
	assert.False(t, voucher.IsPastExpiry(time.Date(2024, 1, 10, 23, 59, 0, 0, time.UTC)))
	assert.True(t, voucher.IsPastExpiry(time.Date(2024, 1, 11, 0, 0, 1, 0, time.UTC)))
}

func TestVoucherStatusValid(t *testing.T) {
	assert.True(t, VoucherActive.Valid())
	assert.True(t, VoucherUsed.Valid())
	assert.True(t, VoucherExpired.Valid())
	assert.False(t, VoucherStatus("cancelled").Valid())
}
