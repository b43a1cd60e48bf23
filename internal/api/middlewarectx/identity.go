// Package middlewarectx содержит HTTP middleware уровня запроса: определение
// вызывающего пользователя и ограничение частоты запросов.
//
// IdentityMiddleware читает идентификатор пользователя из заголовка X-User-Id
// и кладёт его в контекст запроса. Пустой, отсутствующий или не являющийся
// UUID заголовок даёт HTTP 401 Unauthorized.
package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/article-feed/internal/api/response"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// UserID ключ для идентификатора вызывающего пользователя в контексте.
	UserID Key = "user_id"
)

// HeaderUserID заголовок с идентификатором вызывающего пользователя.
const HeaderUserID = "X-User-Id"

// IdentityMiddleware возвращает middleware, требующий заголовок X-User-Id.
func IdentityMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.IdentityMiddleware"

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			raw := strings.TrimSpace(r.Header.Get(HeaderUserID))
			if raw == "" {
				log.Error("user identification missing")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("user identification missing"))
				return
			}
			userID, err := uuid.Parse(raw)
			if err != nil {
				log.Error("invalid user identification", slog.String("header", raw))
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("invalid user identification"))
				return
			}

			ctx := context.WithValue(r.Context(), UserID, userID.String())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerID возвращает идентификатор пользователя, положенный IdentityMiddleware.
func CallerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserID).(string)
	return id, ok && id != ""
}
