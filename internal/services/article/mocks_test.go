package article

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/article-feed/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateArticle(ctx context.Context, article *models.Article) error {
	return m.Called(ctx, article).Error(0)
}

func (m *RepoMock) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// копия, чтобы сервис не менял объект, заданный в тесте
	a := *args.Get(0).(*models.Article)
	return &a, args.Error(1)
}

func (m *RepoMock) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Article), args.Error(1)
}

func (m *RepoMock) UpdateArticle(ctx context.Context, article *models.Article) error {
	return m.Called(ctx, article).Error(0)
}

func (m *RepoMock) CompareAndSwapArticle(ctx context.Context, article *models.Article, expectedVersion int64) error {
	return m.Called(ctx, article, expectedVersion).Error(0)
}

func (m *RepoMock) DeleteArticle(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type ImagesMock struct{ mock.Mock }

func (m *ImagesMock) Upload(ctx context.Context, name string, data []byte) (string, error) {
	args := m.Called(ctx, name, data)
	return args.String(0), args.Error(1)
}

func (m *ImagesMock) Release(ctx context.Context, url string) error {
	return m.Called(ctx, url).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type EventsMock struct{ mock.Mock }

func (m *EventsMock) Publish(ctx context.Context, event models.ArticleEvent) error {
	return m.Called(ctx, event).Error(0)
}

type PrefsMock struct{ mock.Mock }

func (m *PrefsMock) Preferences(ctx context.Context, userID string) ([]string, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

// memoryRepo хранилище статей в памяти с той же семантикой версий,
// что и PostgreSQL-реализация.
type memoryRepo struct {
	mu       sync.Mutex
	articles map[string]*models.Article
	order    []string
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{articles: make(map[string]*models.Article)}
}

func clone(a *models.Article) *models.Article {
	c := *a
	c.Tags = slices.Clone(a.Tags)
	c.LikedBy = slices.Clone(a.LikedBy)
	c.DislikedBy = slices.Clone(a.DislikedBy)
	return &c
}

func (r *memoryRepo) CreateArticle(_ context.Context, a *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.articles[a.ID] = clone(a)
	r.order = append(r.order, a.ID)
	return nil
}

func (r *memoryRepo) GetArticle(_ context.Context, id string) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.articles[id]
	if !ok {
		return nil, models.ErrArticleNotFound
	}
	return clone(a), nil
}

func (r *memoryRepo) ListArticles(_ context.Context, f models.ArticleFilter) ([]*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*models.Article, 0)
	for _, id := range r.order {
		a, ok := r.articles[id]
		if !ok {
			continue
		}
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.ByCategory && !slices.Contains(f.Categories, a.Category) {
			continue
		}
		if f.Active != nil && a.IsActive != *f.Active {
			continue
		}
		res = append(res, clone(a))
	}
	return res, nil
}

func (r *memoryRepo) UpdateArticle(_ context.Context, a *models.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.articles[a.ID]
	if !ok {
		return models.ErrArticleNotFound
	}
	cur.Title, cur.Description, cur.Category = a.Title, a.Description, a.Category
	cur.Tags = slices.Clone(a.Tags)
	cur.ImageURL = a.ImageURL
	cur.Version++
	a.Version = cur.Version
	return nil
}

func (r *memoryRepo) CompareAndSwapArticle(_ context.Context, a *models.Article, expected int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.articles[a.ID]
	if !ok {
		return models.ErrArticleNotFound
	}
	if cur.Version != expected {
		return models.ErrVersionConflict
	}
	cur.LikedBy = slices.Clone(a.LikedBy)
	cur.DislikedBy = slices.Clone(a.DislikedBy)
	cur.Likes, cur.Dislikes, cur.IsActive = a.Likes, a.Dislikes, a.IsActive
	cur.Version++
	a.Version = cur.Version
	return nil
}

func (r *memoryRepo) DeleteArticle(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return false, nil
	}
	delete(r.articles, id)
	return true, nil
}
