// Package password реализует хеширование паролей и проверку их сложности.
//
// Hasher создает bcrypt-хеш пароля для безопасного хранения и сверяет
// введённый пароль с сохранённым хешем. Validate проверяет пароль на
// соответствие политике сложности.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost стоимость bcrypt для новых хешей.
const DefaultCost = 10

// Hasher хеширует и проверяет пароли через bcrypt.
type Hasher struct {
	cost int
}

// NewHasher создает Hasher с заданной стоимостью bcrypt.
// Значение вне допустимого диапазона заменяется на DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash принимает пароль пользователя и возвращает его bcrypt‑хэш.
func (h *Hasher) Hash(password string) (string, error) {
	const op = "password.Hash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// Verify сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает true, только если пароль соответствует хэшу.
func (h *Hasher) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
