// Package update реализует HTTP-обработчик перезаписи статьи.
package update

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/article-feed/internal/api/request"
	"github.com/magabrotheeeer/article-feed/internal/api/response"
	"github.com/magabrotheeeer/article-feed/internal/lib/sl"
	"github.com/magabrotheeeer/article-feed/internal/lib/validate"
	"github.com/magabrotheeeer/article-feed/internal/models"
)

// Service описывает обновление статьи.
type Service interface {
	Update(ctx context.Context, id string, in models.ArticleInput, image *models.Image) (*models.Article, error)
}

// Handler обрабатывает PUT /articles/{id}.
type Handler struct {
	log           *slog.Logger
	service       Service
	validate      *validator.Validate
	maxUploadSize int64
}

// New создает Handler.
func New(log *slog.Logger, service Service, maxUploadSize int64) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		validate:      validate.New(),
		maxUploadSize: maxUploadSize,
	}
}

// ServeHTTP godoc
// @Summary Обновить статью
// @Description Перезаписывает заголовок, описание, категорию и теги. Новое изображение заменяет прежнее.
// @Tags Articles
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "ID статьи (uuid)"
// @Param title formData string true "Заголовок"
// @Param description formData string true "Описание"
// @Param category formData string true "Категория"
// @Param tags formData string false "Теги через запятую"
// @Param image formData file false "Изображение"
// @Success 200 {object} response.OKResponse "Обновлённая статья"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Статья не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Не удалось загрузить изображение"
// @Router /articles/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.update"

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

	form, image, err := request.ParseArticleForm(w, r, h.maxUploadSize)
	if err != nil {
		log.Error("failed to parse form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid form"))
		return
	}

	if err = h.validate.Struct(form); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	article, err := h.service.Update(r.Context(), id, models.ArticleInput{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Tags:        form.Tags,
	}, image)
	if err != nil {
		log.Error("failed to update article", sl.Err(err))
		status, msg := response.StatusFor(err, "could not update article")
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("article updated", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"article": article,
	}))
}
