// Package feed реализует HTTP-обработчик ленты по предпочтениям.
//
// Тело запроса необязательно: без списка категорий используются
// сохранённые предпочтения вызывающего пользователя.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/article-feed/internal/api/middlewarectx"
	"github.com/magabrotheeeer/article-feed/internal/api/response"
	"github.com/magabrotheeeer/article-feed/internal/lib/sl"
	"github.com/magabrotheeeer/article-feed/internal/lib/validate"
	"github.com/magabrotheeeer/article-feed/internal/models"
)

// Request категории ленты.
type Request struct {
	Preferences []string `json:"preferences" validate:"omitempty,dive,required"`
}

// Service описывает выборку ленты.
type Service interface {
	ListByPreference(ctx context.Context, userID string, preferences []string) ([]*models.Article, error)
}

// Handler обрабатывает POST /articles/feed.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validate.New(),
	}
}

// ServeHTTP godoc
// @Summary Лента по предпочтениям
// @Description Активные статьи, чья категория входит в список. Пустой список заменяется сохранёнными предпочтениями.
// @Tags Articles
// @Accept json
// @Produce json
// @Param X-User-Id header string true "ID пользователя"
// @Param request body Request false "Категории"
// @Success 200 {object} response.OKResponse "Лента"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 401 {object} response.ErrorResponse "Не указан пользователь"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Router /articles/feed [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.feed"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := middlewarectx.CallerID(r.Context())
	if !ok {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	articles, err := h.service.ListByPreference(r.Context(), userID, req.Preferences)
	if err != nil {
		log.Error("failed to build feed", sl.Err(err))
		status, msg := response.StatusFor(err, "failed to build feed")
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"articles": articles,
	}))
}
