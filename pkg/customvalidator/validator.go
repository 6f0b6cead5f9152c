// Файл: pkg/customvalidator/validator.go

package customvalidator

import (
	"regexp"
	"time"

	"github.com/go-playground/validator/v10"
)

// RegisterCustomValidations регистрирует кастомные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("weekday", isWeekday); err != nil {
		return err
	}
	if err := v.RegisterValidation("pin", isSixDigitPin); err != nil {
		return err
	}
	if err := v.RegisterValidation("dateonly", isDateOnly); err != nil {
		return err
	}
	return nil
}

var weekdays = map[string]bool{
	"monday":    true,
	"tuesday":   true,
	"wednesday": true,
	"thursday":  true,
	"friday":    true,
	"saturday":  true,
	"sunday":    true,
}

func isWeekday(fl validator.FieldLevel) bool {
	return weekdays[fl.Field().String()]
}

var pinRegex = regexp.MustCompile(`^[0-9]{6}$`)

// isSixDigitPin - PIN департамента или пользователя: ровно 6 цифр.
func isSixDigitPin(fl validator.FieldLevel) bool {
	return pinRegex.MatchString(fl.Field().String())
}

// isDateOnly - дата в формате YYYY-MM-DD.
func isDateOnly(fl validator.FieldLevel) bool {
	_, err := time.Parse("2006-01-02", fl.Field().String())
	return err == nil
}
