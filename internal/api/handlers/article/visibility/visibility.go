// Package visibility реализует HTTP-обработчики блокировки и разблокировки
// статьи. Обе операции идемпотентны.
package visibility

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

// Service описывает смену видимости.
type Service interface {
	Block(ctx context.Context, id string) (*models.Article, error)
	Unblock(ctx context.Context, id string) (*models.Article, error)
}

// Handler обрабатывает PATCH /articles/{id}/block и /unblock.
type Handler struct {
	log     *slog.Logger
	service Service
	active  bool
}

// NewBlock создает Handler блокировки.
func NewBlock(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// NewUnblock создает Handler разблокировки.
func NewUnblock(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, active: true}
}

// ServeHTTP godoc
// @Summary Заблокировать или разблокировать статью
// @Tags Articles
// @Produce json
// @Param id path string true "ID статьи (uuid)"
// @Success 200 {object} response.OKResponse "Статья"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Router /articles/{id}/block [patch]
// @Router /articles/{id}/unblock [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.visibility"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Bool("active", h.active),
	)

	id, err := request.ParseID(r, "id")
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	var article *models.Article
	if h.active {
		article, err = h.service.Unblock(r.Context(), id)
	} else {
		article, err = h.service.Block(r.Context(), id)
	}
	if err != nil {
		log.Error("failed to change visibility", sl.Err(err))
		status, msg := response.StatusFor(err, "failed to change visibility")
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"article": article,
	}))
}
