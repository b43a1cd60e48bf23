package password

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/magabrotheeeer/article-feed/internal/models"
)

// MinLength минимальная длина пароля.
const MinLength = 8

const symbols = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// Validate проверяет, что пароль не короче MinLength и содержит заглавную
// и строчную букву, цифру и спецсимвол. Иначе возвращает models.ErrWeakPassword.
func Validate(password string) error {
	if utf8.RuneCountInString(password) < MinLength {
		return models.ErrWeakPassword
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case strings.ContainsRune(symbols, r):
			symbol = true
		}
	}
	if !upper || !lower || !digit || !symbol {
		return models.ErrWeakPassword
	}
	return nil
}
