// Package article содержит бизнес-логику статей: жизненный цикл, ленту по
// предпочтениям, переключение лайков и дизлайков и блокировку.
//
// Голоса и видимость меняются через сравнение версии строки: статья
// читается, переход применяется в памяти, запись проходит только при
// неизменной версии. При конфликте операция повторяется до maxAttempts раз.
package article

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/article-feed/internal/lib/sl"
	"github.com/magabrotheeeer/article-feed/internal/models"
)

// DefaultMaxAttempts число попыток записи при конфликте версий.
const DefaultMaxAttempts = 3

// ArticleRepository определяет методы для работы со статьями в хранилище.
type ArticleRepository interface {
	// CreateArticle сохраняет новую статью.
	CreateArticle(ctx context.Context, article *models.Article) error
	// GetArticle возвращает статью по ID.
	GetArticle(ctx context.Context, id string) (*models.Article, error)
	// ListArticles возвращает статьи по фильтру в порядке создания.
	ListArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error)
	// UpdateArticle перезаписывает содержимое статьи.
	UpdateArticle(ctx context.Context, article *models.Article) error
	// CompareAndSwapArticle сохраняет голоса и видимость при совпадении версии.
	CompareAndSwapArticle(ctx context.Context, article *models.Article, expectedVersion int64) error
	// DeleteArticle удаляет статью и сообщает, существовала ли она.
	DeleteArticle(ctx context.Context, id string) (bool, error)
}

// ImageStore непрозрачное хранилище изображений.
type ImageStore interface {
	Upload(ctx context.Context, name string, data []byte) (string, error)
	Release(ctx context.Context, url string) error
}

// Cache описывает методы для кэширования статей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует события об изменении статей.
type EventPublisher interface {
	Publish(ctx context.Context, event models.ArticleEvent) error
}

// PreferenceSource отдаёт сохранённые предпочтения пользователя.
type PreferenceSource interface {
	Preferences(ctx context.Context, userID string) ([]string, error)
}

// Service реализует бизнес-логику работы со статьями.
type Service struct {
	repo        ArticleRepository
	images      ImageStore
	cache       Cache
	events      EventPublisher
	prefs       PreferenceSource
	log         *slog.Logger
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
}

// Deps зависимости Service.
type Deps struct {
	Repo        ArticleRepository
	Images      ImageStore
	Cache       Cache
	Events      EventPublisher
	Preferences PreferenceSource
	Log         *slog.Logger
	CacheTTL    time.Duration
	MaxAttempts int
}

// NewService создает Service. Нулевые CacheTTL и MaxAttempts заменяются
// на час и DefaultMaxAttempts.
func NewService(d Deps) *Service {
	if d.CacheTTL <= 0 {
		d.CacheTTL = time.Hour
	}
	if d.MaxAttempts <= 0 {
		d.MaxAttempts = DefaultMaxAttempts
	}
	return &Service{
		repo:        d.Repo,
		images:      d.Images,
		cache:       d.Cache,
		events:      d.Events,
		prefs:       d.Preferences,
		log:         d.Log,
		ttl:         d.CacheTTL,
		maxAttempts: d.MaxAttempts,
		now:         time.Now,
	}
}

func cacheKey(id string) string {
	return "article:" + id
}

// Create создает статью. Если передано изображение, оно загружается первым,
// и ошибка загрузки прерывает создание с models.ErrImageUpload.
func (s *Service) Create(ctx context.Context, in models.ArticleInput, image *models.Image) (*models.Article, error) {
	const op = "services.article.Create"

	var imageURL string
	if image != nil {
		url, err := s.images.Upload(ctx, image.Name, image.Data)
		if err != nil {
			s.log.Error("failed to upload image", slog.String("user_id", in.UserID), sl.Err(err))
			return nil, fmt.Errorf("%s: %w: %v", op, models.ErrImageUpload, err)
		}
		imageURL = url
	}

	a := &models.Article{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Tags:        nonNil(in.Tags),
		ImageURL:    imageURL,
		UserID:      in.UserID,
		LikedBy:     []string{},
		DislikedBy:  []string{},
		IsActive:    true,
		Version:     1,
	}
	if err := s.repo.CreateArticle(ctx, a); err != nil {
		if imageURL != "" {
			s.releaseImage(ctx, imageURL)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created new article", slog.String("id", a.ID), slog.String("user_id", a.UserID))
	s.publish(ctx, models.EventArticleCreated, a.ID, a.UserID)
	return a, nil
}

// Get возвращает статью по ID, используя кэш или репозиторий.
func (s *Service) Get(ctx context.Context, id string) (*models.Article, error) {
	const op = "services.article.Get"

	key := cacheKey(id)
	var cached models.Article
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), slog.Any("err", err))
	}
	if found {
		return &cached, nil
	}

	a, err := s.repo.GetArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, key, a, s.ttl); err != nil {
		s.log.Warn("failed to add to cache", slog.String("key", key), slog.Any("err", err))
	}
	return a, nil
}

// ListByOwner возвращает все статьи владельца, включая заблокированные.
func (s *Service) ListByOwner(ctx context.Context, userID string) ([]*models.Article, error) {
	const op = "services.article.ListByOwner"

	res, err := s.repo.ListArticles(ctx, models.ArticleFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ListBlocked возвращает заблокированные статьи владельца.
func (s *Service) ListBlocked(ctx context.Context, userID string) ([]*models.Article, error) {
	const op = "services.article.ListBlocked"

	inactive := false
	res, err := s.repo.ListArticles(ctx, models.ArticleFilter{UserID: userID, Active: &inactive})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// ListByPreference возвращает активные статьи, чья категория входит в
// preferences. Пустой список заменяется сохранёнными предпочтениями
// пользователя, и если те тоже пусты, результат пуст.
func (s *Service) ListByPreference(ctx context.Context, userID string, preferences []string) ([]*models.Article, error) {
	const op = "services.article.ListByPreference"

	if len(preferences) == 0 {
		stored, err := s.prefs.Preferences(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		preferences = stored
	}

	active := true
	res, err := s.repo.ListArticles(ctx, models.ArticleFilter{
		Categories: preferences,
		ByCategory: true,
		Active:     &active,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// Update перезаписывает заголовок, описание, категорию и теги статьи.
// Новое изображение загружается до записи, прежнее освобождается после
// успешного сохранения; ошибка освобождения только логируется.
func (s *Service) Update(ctx context.Context, id string, in models.ArticleInput, image *models.Image) (*models.Article, error) {
	const op = "services.article.Update"

	a, err := s.repo.GetArticle(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	previousImage := a.ImageURL
	if image != nil {
		url, err := s.images.Upload(ctx, image.Name, image.Data)
		if err != nil {
			s.log.Error("failed to upload image", slog.String("id", id), sl.Err(err))
			return nil, fmt.Errorf("%s: %w: %v", op, models.ErrImageUpload, err)
		}
		a.ImageURL = url
	}

	a.Title = in.Title
	a.Description = in.Description
	a.Category = in.Category
	a.Tags = nonNil(in.Tags)
	if err = s.repo.UpdateArticle(ctx, a); err != nil {
		if image != nil {
			s.releaseImage(ctx, a.ImageURL)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if image != nil && previousImage != "" {
		s.releaseImage(ctx, previousImage)
	}

	s.invalidate(ctx, id)
	s.publish(ctx, models.EventArticleUpdated, id, a.UserID)
	return a, nil
}

// Delete удаляет статью. Отсутствующая статья даёт (false, nil).
// Изображение освобождается по возможности, ошибка не прерывает удаление.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	const op = "services.article.Delete"

	a, err := s.repo.GetArticle(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	if a.ImageURL != "" {
		s.releaseImage(ctx, a.ImageURL)
	}

	found, err := s.repo.DeleteArticle(ctx, id)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	if found {
		s.publish(ctx, models.EventArticleDeleted, id, a.UserID)
	}
	return found, nil
}

// ToggleLike переключает лайк пользователя userID на статье id.
func (s *Service) ToggleLike(ctx context.Context, id, userID string) (*models.Article, error) {
	const op = "services.article.ToggleLike"

	a, err := s.mutate(ctx, id, func(a *models.Article) bool {
		a.ToggleLike(userID)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.publish(ctx, models.EventArticleLiked, id, userID)
	return a, nil
}

// ToggleDislike переключает дизлайк пользователя userID на статье id.
func (s *Service) ToggleDislike(ctx context.Context, id, userID string) (*models.Article, error) {
	const op = "services.article.ToggleDislike"

	a, err := s.mutate(ctx, id, func(a *models.Article) bool {
		a.ToggleDislike(userID)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.publish(ctx, models.EventArticleDisliked, id, userID)
	return a, nil
}

// Block скрывает статью из ленты. Повторный вызов ничего не меняет.
func (s *Service) Block(ctx context.Context, id string) (*models.Article, error) {
	const op = "services.article.Block"
	return s.setActive(ctx, op, id, false, models.EventArticleBlocked)
}

// Unblock возвращает статью в ленту. Повторный вызов ничего не меняет.
func (s *Service) Unblock(ctx context.Context, id string) (*models.Article, error) {
	const op = "services.article.Unblock"
	return s.setActive(ctx, op, id, true, models.EventArticleUnblocked)
}

func (s *Service) setActive(ctx context.Context, op, id string, active bool, event string) (*models.Article, error) {
	changed := false
	a, err := s.mutate(ctx, id, func(a *models.Article) bool {
		changed = a.SetActive(active)
		return changed
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if changed {
		s.publish(ctx, event, id, a.UserID)
	}
	return a, nil
}

// mutate читает статью мимо кэша, применяет apply и пишет результат со
// сравнением версии. apply возвращает false, если менять нечего.
func (s *Service) mutate(ctx context.Context, id string, apply func(a *models.Article) bool) (*models.Article, error) {
	for attempt := 1; ; attempt++ {
		a, err := s.repo.GetArticle(ctx, id)
		if err != nil {
			return nil, err
		}
		if !apply(a) {
			return a, nil
		}

		err = s.repo.CompareAndSwapArticle(ctx, a, a.Version)
		if err == nil {
			s.invalidate(ctx, id)
			return a, nil
		}
		if !errors.Is(err, models.ErrVersionConflict) || attempt >= s.maxAttempts {
			return nil, err
		}
		s.log.Debug("version conflict, retrying",
			slog.String("id", id), slog.Int("attempt", attempt))
	}
}

func (s *Service) invalidate(ctx context.Context, id string) {
	key := cacheKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), slog.Any("err", err))
	}
}

func (s *Service) releaseImage(ctx context.Context, url string) {
	if err := s.images.Release(ctx, url); err != nil {
		s.log.Warn("failed to release image", slog.String("url", url), sl.Err(err))
	}
}

func (s *Service) publish(ctx context.Context, eventType, articleID, userID string) {
	event := models.ArticleEvent{
		Type:       eventType,
		ArticleID:  articleID,
		UserID:     userID,
		OccurredAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("failed to publish event", slog.String("type", eventType),
			slog.String("article_id", articleID), sl.Err(err))
	}
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
