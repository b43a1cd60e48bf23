// Package vote реализует HTTP-обработчики переключения лайка и дизлайка.
//
// Повторный лайк снимает лайк, дизлайк после лайка переносит голос.
// В ответе возвращается статья и итоговое состояние голоса пользователя.
package vote

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/article-feed/internal/api/middlewarectx"
	"github.com/magabrotheeeer/article-feed/internal/api/request"
	"github.com/magabrotheeeer/article-feed/internal/api/response"
	"github.com/magabrotheeeer/article-feed/internal/lib/sl"
	"github.com/magabrotheeeer/article-feed/internal/models"
)

// Service описывает переключение голосов.
type Service interface {
	ToggleLike(ctx context.Context, id, userID string) (*models.Article, error)
	ToggleDislike(ctx context.Context, id, userID string) (*models.Article, error)
}

// Handler обрабатывает PATCH /articles/{id}/like и /dislike.
type Handler struct {
	log     *slog.Logger
	service Service
	dislike bool
}

// NewLike создает Handler лайка.
func NewLike(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// NewDislike создает Handler дизлайка.
func NewDislike(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service, dislike: true}
}

// ServeHTTP godoc
// @Summary Переключить лайк или дизлайк
// @Tags Votes
// @Produce json
// @Param X-User-Id header string true "ID голосующего"
// @Param id path string true "ID статьи (uuid)"
// @Success 200 {object} response.OKResponse "Статья и состояние голоса"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 401 {object} response.ErrorResponse "Не указан пользователь"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Failure 409 {object} response.ErrorResponse "Конкурентное изменение, повторите"
// @Router /articles/{id}/like [patch]
// @Router /articles/{id}/dislike [patch]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.vote"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.Bool("dislike", h.dislike),
	)

	userID, ok := middlewarectx.CallerID(r.Context())
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	id, err := request.ParseID(r, "id")
	if err != nil {
		log.Error("invalid id format", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid id"))
		return
	}

	var article *models.Article
	if h.dislike {
		article, err = h.service.ToggleDislike(r.Context(), id, userID)
	} else {
		article, err = h.service.ToggleLike(r.Context(), id, userID)
	}
	if err != nil {
		log.Error("failed to toggle vote", sl.Err(err))
		status, msg := response.StatusFor(err, "failed to toggle vote")
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	state := article.VoteState(userID)
	log.Info("vote toggled", slog.String("id", id), slog.String("state", string(state)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"article": article,
		"vote":    state,
	}))
}
