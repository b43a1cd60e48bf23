// Package update реализует HTTP-обработчик перезаписи профиля пользователя.
package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/article-feed/internal/api/request"
	"github.com/magabrotheeeer/article-feed/internal/api/response"
	"github.com/magabrotheeeer/article-feed/internal/lib/sl"
	"github.com/magabrotheeeer/article-feed/internal/lib/validate"
	"github.com/magabrotheeeer/article-feed/internal/models"
)

// Request новые значения полей профиля.
type Request struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name"`
	Phone       string `json:"phone" validate:"required,phone"`
	Email       string `json:"email" validate:"required,email"`
	DateOfBirth string `json:"dob" validate:"omitempty,datetime=2006-01-02"`
}

// Service описывает обновление профиля.
type Service interface {
	UpdateProfile(ctx context.Context, userID string, in models.ProfileInput) (*models.UserProfile, error)
}

// Handler обрабатывает PUT /users/{id}.
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
// @Summary Обновить профиль
// @Description Перезаписывает имя, фамилию, телефон, email и дату рождения.
// @Tags Users
// @Accept json
// @Produce json
// @Param id path string true "ID пользователя (uuid)"
// @Param request body Request true "Поля профиля"
// @Success 200 {object} response.OKResponse "Обновлённый профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 409 {object} response.ErrorResponse "Email или телефон заняты"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Router /users/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.update"

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

	var req Request
	if err = json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err = h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	in := models.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	}
	if req.DateOfBirth != "" {
		dob, _ := time.Parse(time.DateOnly, req.DateOfBirth)
		in.DateOfBirth = &dob
	}

	user, err := h.service.UpdateProfile(r.Context(), id, in)
	if err != nil {
		log.Error("failed to update profile", sl.Err(err))
		status, msg := response.StatusFor(err, "failed to update profile")
		w.WriteHeader(status)
		render.JSON(w, r, response.Error(msg))
		return
	}

	log.Info("profile updated", slog.String("user_id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user": user,
	}))
}
