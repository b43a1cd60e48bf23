// Package articlefeed собирает HTTP-приложение сервиса публикаций.
package articlefeed

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// регистрирует описание API для /docs
	_ "github.com/magabrotheeeer/article-feed/docs"

	"github.com/magabrotheeeer/article-feed/internal/api/handlers/article/create"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/article/feed"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/article/list"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/article/read"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/article/remove"
	articleupdate "github.com/magabrotheeeer/article-feed/internal/api/handlers/article/update"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/article/visibility"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/article/vote"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/auth/login"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/auth/register"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/health"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/user/password"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/user/preference"
	"github.com/magabrotheeeer/article-feed/internal/api/handlers/user/profile"
	userupdate "github.com/magabrotheeeer/article-feed/internal/api/handlers/user/update"
	"github.com/magabrotheeeer/article-feed/internal/api/middlewarectx"
	"github.com/magabrotheeeer/article-feed/internal/config"
	"github.com/magabrotheeeer/article-feed/internal/monitoring"
	"github.com/magabrotheeeer/article-feed/internal/services/account"
	"github.com/magabrotheeeer/article-feed/internal/services/article"
)

// Services зависимости маршрутов.
type Services struct {
	Accounts *account.Service
	Articles *article.Service
	Health   health.Pinger
	Metrics  *monitoring.Metrics
	// Images раздаёт сохранённые изображения, nil отключает /images.
	Images http.Handler
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	if s.Metrics != nil {
		r.Use(s.Metrics.Middleware)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger, cfg.RateLimit.RPS, cfg.RateLimit.Burst))

		r.Get("/health", health.New(logger, s.Health).ServeHTTP)

		r.Post("/register", register.New(logger, s.Accounts).ServeHTTP)
		r.Post("/login", login.New(logger, s.Accounts).ServeHTTP)

		r.Route("/users/{id}", func(r chi.Router) {
			r.Get("/", profile.New(logger, s.Accounts).ServeHTTP)
			r.Put("/", userupdate.New(logger, s.Accounts).ServeHTTP)
			r.Patch("/password", password.New(logger, s.Accounts).ServeHTTP)
			r.Patch("/preferences", preference.New(logger, s.Accounts).ServeHTTP)
			r.Get("/articles", list.New(logger, s.Articles).ServeHTTP)
			r.Get("/articles/blocked", list.NewBlocked(logger, s.Articles).ServeHTTP)
		})

		r.Route("/articles", func(r chi.Router) {
			// Группа, которой нужен вызывающий пользователь
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.IdentityMiddleware(logger))
				r.Post("/", create.New(logger, s.Articles, cfg.MaxUploadSize).ServeHTTP)
				r.Post("/feed", feed.New(logger, s.Articles).ServeHTTP)
				r.Patch("/{id}/like", vote.NewLike(logger, s.Articles).ServeHTTP)
				r.Patch("/{id}/dislike", vote.NewDislike(logger, s.Articles).ServeHTTP)
			})

			r.Get("/{id}", read.New(logger, s.Articles).ServeHTTP)
			r.Put("/{id}", articleupdate.New(logger, s.Articles, cfg.MaxUploadSize).ServeHTTP)
			r.Delete("/{id}", remove.New(logger, s.Articles).ServeHTTP)
			r.Patch("/{id}/block", visibility.NewBlock(logger, s.Articles).ServeHTTP)
			r.Patch("/{id}/unblock", visibility.NewUnblock(logger, s.Articles).ServeHTTP)
		})
	})

	if s.Images != nil {
		prefix := strings.TrimRight(cfg.ImageStore.BaseURL, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", s.Images))
	}

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
