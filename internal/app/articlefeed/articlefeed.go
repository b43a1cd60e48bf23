package articlefeed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/magabrotheeeer/article-feed/internal/cache"
	"github.com/magabrotheeeer/article-feed/internal/config"
	"github.com/magabrotheeeer/article-feed/internal/imagestore"
	"github.com/magabrotheeeer/article-feed/internal/lib/password"
	"github.com/magabrotheeeer/article-feed/internal/lib/sl"
	"github.com/magabrotheeeer/article-feed/internal/migrations"
	"github.com/magabrotheeeer/article-feed/internal/monitoring"
	"github.com/magabrotheeeer/article-feed/internal/rabbitmq"
	"github.com/magabrotheeeer/article-feed/internal/services/account"
	"github.com/magabrotheeeer/article-feed/internal/services/article"
	"github.com/magabrotheeeer/article-feed/internal/storage/repository"
)

// Закрывает издателя событий при остановке.
type eventPublisher interface {
	article.EventPublisher
	Close() error
}

type App struct {
	server    *http.Server
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	publisher eventPublisher
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.articlefeed.New"

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	version, err := migrations.Run(db.DB, cfg.MigrationsPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logger.Info("schema migrated", slog.Uint64("version", uint64(version)))

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	images, err := imagestore.NewLocal(cfg.ImageStore.Dir, cfg.ImageStore.BaseURL)
	if err != nil {
		_ = db.Close()
		_ = cacheRedis.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var publisher eventPublisher = rabbitmq.NoopPublisher{}
	if cfg.RabbitMQ.URL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, 5, 2*time.Second)
		if err != nil {
			_ = db.Close()
			_ = cacheRedis.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = p
	} else {
		logger.Warn("rabbitmq url is empty, article events are not published")
	}

	accounts := account.NewService(db, password.NewHasher(password.DefaultCost), logger)
	articles := article.NewService(article.Deps{
		Repo:        db,
		Images:      images,
		Cache:       cacheRedis,
		Events:      publisher,
		Preferences: accounts,
		Log:         logger,
		CacheTTL:    cfg.RedisConnection.ArticleTTL,
	})

	router := chi.NewRouter()
	RegisterRoutes(router, logger, cfg, Services{
		Accounts: accounts,
		Articles: articles,
		Health:   db,
		Metrics:  monitoring.New(prometheus.DefaultRegisterer),
		Images:   http.FileServer(http.Dir(images.Dir())),
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:    srv,
		logger:    logger,
		db:        db,
		cache:     cacheRedis,
		publisher: publisher,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) close() {
	if err := a.publisher.Close(); err != nil {
		a.logger.Warn("failed to close publisher", sl.Err(err))
	}
	if err := a.cache.Close(); err != nil {
		a.logger.Warn("failed to close cache", sl.Err(err))
	}
	if err := a.db.Close(); err != nil {
		a.logger.Warn("failed to close storage", sl.Err(err))
	}
}
