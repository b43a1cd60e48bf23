// Package list реализует HTTP-обработчики списков статей владельца:
// все его статьи и только заблокированные.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/article-feed/internal/api/request"
	"github.com/magabrotheeeer/article-feed/internal/api/response"
	"github.com/magabrotheeeer/article-feed/internal/lib/sl"
	"github.com/magabrotheeeer/article-feed/internal/models"
)

// Service описывает выборки статей владельца.
type Service interface {
	ListByOwner(ctx context.Context, userID string) ([]*models.Article, error)
	ListBlocked(ctx context.Context, userID string) ([]*models.Article, error)
}

// Handler отдаёт статьи пользователя из пути.
type Handler struct {
	log     *slog.Logger
	service Service
	blocked bool
}

// New создает Handler для GET /users/{id}/articles.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// NewBlocked создает Handler для GET /users/{id}/articles/blocked.
func NewBlocked(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, blocked: true}
}

// ServeHTTP godoc
// @Summary Статьи пользователя
// @Description Все статьи владельца, включая заблокированные. Вариант /blocked отдаёт только заблокированные.
// @Tags Articles
// @Produce json
// @Param id path string true "ID пользователя (uuid)"
// @Success 200 {object} response.OKResponse "Список статей"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка хранилища"
// @Router /users/{id}/articles [get]
// @Router /users/{id}/articles/blocked [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Bool("blocked", h.blocked),
	)

	userID, err := request.ParseID(r, "id")
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	var articles []*models.Article
	if h.blocked {
		articles, err = h.service.ListBlocked(r.Context(), userID)
	} else {
		articles, err = h.service.ListByOwner(r.Context(), userID)
	}
	if err != nil {
		log.Error("failed to list articles", sl.Err(err))
		status, msg := response.StatusFor(err, "failed to list articles")
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("articles listed", slog.Int("count", len(articles)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"articles": articles,
	}))
}
