// Package remove реализует HTTP-обработчик удаления статьи по ID.
//
// Отсутствующая статья даёт 404, ошибка освобождения изображения
// на результат не влияет.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/article-feed/internal/api/request"
	"github.com/magabrotheeeer/article-feed/internal/api/response"
	"github.com/magabrotheeeer/article-feed/internal/lib/sl"
)

// Handler обрабатывает HTTP-запросы на удаление статьи.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики для удаления статьи
}

// Service описывает интерфейс бизнес-логики удаления статьи.
type Service interface {
	Delete(ctx context.Context, id string) (bool, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить статью по ID
// @Description Удаляет статью и освобождает её изображение.
// @Tags Articles
// @Produce json
// @Param id path string true "ID статьи (uuid)"
// @Success 200 {object} response.OKResponse "Статья удалена"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка при удалении"
// @Router /articles/{id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.remove"

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

	found, err := h.service.Delete(r.Context(), id)
	if err != nil {
		log.Error("failed to delete article", sl.Err(err))
		status, msg := response.StatusFor(err, "failed to delete article")
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}
	if !found {
		log.Info("article not found", slog.String("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("article not found"))
		return
	}

	log.Info("success to delete article", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"deleted": true,
	}))
}
