// Package read реализует HTTP-обработчик получения статьи по ID.
package read

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

// Service описывает чтение статьи.
type Service interface {
	Get(ctx context.Context, id string) (*models.Article, error)
}

// Handler обрабатывает GET /articles/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить статью
// @Tags Articles
// @Produce json
// @Param id path string true "ID статьи (uuid)"
// @Success 200 {object} response.OKResponse "Статья"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Router /articles/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := request.ParseID(r, "id")
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	article, err := h.service.Get(r.Context(), id)
	if err != nil {
		log.Error("failed to get article", sl.Err(err))
		status, msg := response.StatusFor(err, "failed to get article")
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"article": article,
	}))
}
