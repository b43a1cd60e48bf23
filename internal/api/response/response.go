// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков. Пакет упрощает возврат
// успешных ответов, ошибок и сообщений валидации в едином формате.
package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/article-feed/internal/models"
)

const (
	// StatusOK значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// OKResponse описывает стандартную структуру JSON‑ответа сервера.
// Поле Status статус запроса ("OK").
// Поле Data данные ответа (опционально, при успехе).
type OKResponse struct {
	Status string `json:"status" example:"OK"`
	Data   any    `json:"data,omitempty"`
}

// ErrorResponse описывает стандартную структуру JSON‑ответа сервера.
// Поле Status статус запроса ("Error").
// Поле Error сообщение ошибки ответа.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

// OKWithData возвращает успешный Response с переданными данными.
func OKWithData(data any) OKResponse {
	return OKResponse{
		Status: StatusOK,
		Data:   data,
	}
}

// Error возвращает Response с ошибкой и переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// StatusFor сопоставляет доменную ошибку HTTP-статусу и сообщению для клиента.
// Неизвестные ошибки дают 500 и fallback, чтобы детали хранилища не уходили наружу.
func StatusFor(err error, fallback string) (int, string) {
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound, "user not found"
	case errors.Is(err, models.ErrArticleNotFound):
		return http.StatusNotFound, "article not found"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, models.ErrInvalidCredential):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, models.ErrDuplicateIdentity):
		return http.StatusConflict, "email or phone already registered"
	case errors.Is(err, models.ErrWeakPassword):
		return http.StatusUnprocessableEntity, "password must be at least 8 characters and contain upper, lower, digit and symbol"
	case errors.Is(err, models.ErrSamePassword):
		return http.StatusUnprocessableEntity, "new password must differ from the current one"
	case errors.Is(err, models.ErrValidationFailed):
		return http.StatusUnprocessableEntity, "validation failed"
	case errors.Is(err, models.ErrImageUpload):
		return http.StatusBadGateway, "failed to upload image"
	case errors.Is(err, models.ErrDependencyFailure):
		return http.StatusBadGateway, "dependency failure"
	case errors.Is(err, models.ErrVersionConflict):
		return http.StatusConflict, "article was modified concurrently, retry"
	default:
		return http.StatusInternalServerError, fallback
	}
}

// ValidationError формирует Response со статусом Error на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "phone":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be 10 digits not starting with 0", err.Field()))
		case "eqfield":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must match %s", err.Field(), err.Param()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must contain at least %s items", err.Field(), err.Param()))
		case "uuid":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only uuid", err.Field()))
		case "datetime":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only date in format %s", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}
