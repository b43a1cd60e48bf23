// Package create реализует HTTP-обработчик публикации новой статьи.
//
// Статья принимается multipart-формой: поля title, description, category,
// tags (через запятую) и необязательная часть image. Владелец берётся из
// идентификатора вызывающего пользователя.
package create

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/article-feed/internal/api/middlewarectx"
	"github.com/magabrotheeeer/article-feed/internal/api/request"
	"github.com/magabrotheeeer/article-feed/internal/api/response"
	"github.com/magabrotheeeer/article-feed/internal/lib/sl"
	"github.com/magabrotheeeer/article-feed/internal/lib/validate"
	"github.com/magabrotheeeer/article-feed/internal/models"
)

// Service описывает создание статьи.
type Service interface {
	Create(ctx context.Context, in models.ArticleInput, image *models.Image) (*models.Article, error)
}

// Handler обрабатывает POST /articles.
type Handler struct {
	log           *slog.Logger
	service       Service
	validate      *validator.Validate
	maxUploadSize int64
}

// New создает Handler. maxUploadSize ограничивает размер тела запроса.
func New(log *slog.Logger, service Service, maxUploadSize int64) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		validate:      validate.New(),
		maxUploadSize: maxUploadSize,
	}
}

// ServeHTTP godoc
// @Summary Создать статью
// @Tags Articles
// @Accept multipart/form-data
// @Produce json
// @Param X-User-Id header string true "ID автора"
// @Param title formData string true "Заголовок"
// @Param description formData string true "Описание"
// @Param category formData string true "Категория"
// @Param tags formData string false "Теги через запятую"
// @Param image formData file false "Изображение"
// @Success 201 {object} response.OKResponse "Статья создана"
// @Failure 400 {object} response.ErrorResponse "Некорректная форма"
// @Failure 401 {object} response.ErrorResponse "Не указан пользователь"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Не удалось загрузить изображение"
// @Router /articles [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.create"

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

	article, err := h.service.Create(r.Context(), models.ArticleInput{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Tags:        form.Tags,
		UserID:      userID,
	}, image)
	if err != nil {
		log.Error("failed to create article", sl.Err(err))
		status, msg := response.StatusFor(err, "could not create article")
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("article created", slog.String("id", article.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"article": article,
	}))
}
