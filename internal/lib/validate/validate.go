// Package validate собирает валидатор входных структур HTTP-слоя
// с дополнительными правилами предметной области.
package validate

import (
	"regexp"
	"time"

	"github.com/go-playground/validator"
)

// Телефон: ровно 10 цифр, первая не ноль.
var phoneRe = regexp.MustCompile(`^[1-9][0-9]{9}$`)

// New возвращает валидатор с зарегистрированными тегами phone и datetime.
// datetime=<layout> принимает строку, которую time.Parse разбирает по layout.
func New() *validator.Validate {
	v := validator.New()
	// ошибка возможна только для пустого или зарезервированного имени тега
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("datetime", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(fl.Param(), fl.Field().String())
		return err == nil
	})
	return v
}
