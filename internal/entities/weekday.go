package entities

import (
	"fmt"
	"time"
)

// Weekday - закрытый тип дня недели для ротации ваучеров.
// Хранится в БД строкой в нижнем регистре ("monday".."sunday").
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays - полный недельный цикл в порядке ротации.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Workdays - дни стартового распределения при первой генерации расписаний.
var Workdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayIndex = map[Weekday]int{
	Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3, Friday: 4, Saturday: 5, Sunday: 6,
}

func ParseWeekday(s string) (Weekday, error) {
	d := Weekday(s)
	if _, ok := weekdayIndex[d]; !ok {
		return "", fmt.Errorf("недопустимый день недели: %q", s)
	}
	return d, nil
}

func (d Weekday) Valid() bool {
	_, ok := weekdayIndex[d]
	return ok
}

func (d Weekday) String() string { return string(d) }

// DayOffset - смещение дня от понедельника: monday=0 .. sunday=6.
func (d Weekday) DayOffset() int {
	return weekdayIndex[d]
}

// NextVoucherDay - чистая функция ротации: день ваучера сдвигается
// на один день недели вперед каждую неделю, по 7-дневному циклу.
func NextVoucherDay(prev Weekday) Weekday {
	return Weekdays[(weekdayIndex[prev]+1)%7]
}

// InitialVoucherDay - стартовое назначение при отсутствии истории:
// департамент с порядковым индексом i получает workdays[i mod 5].
func InitialVoucherDay(departmentIndex int) Weekday {
	return Workdays[departmentIndex%len(Workdays)]
}

// MondayOf возвращает понедельник недели, содержащей t (время обнуляется).
func MondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Go: Sunday=0
	return day.AddDate(0, 0, -offset)
}

// ISOWeek возвращает номер ISO-недели и её год для даты.
func ISOWeek(t time.Time) (week int, year int) {
	y, w := t.ISOWeek()
	return w, y
}
