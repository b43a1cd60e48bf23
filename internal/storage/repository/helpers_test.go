package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/article-feed/internal/migrations"
	"github.com/magabrotheeeer/article-feed/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и накатывает миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = storage.Close() })

	migrationsPath, err := filepath.Abs("../../../migrations")
	require.NoError(t, err)
	_, err = migrations.Run(storage.DB, migrationsPath)
	require.NoError(t, err)

	return storage
}

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateUser создает тестового пользователя с уникальными email и телефоном.
func (f *TestDataFactory) CreateUser(t *testing.T, email, phone string, prefs ...string) *models.User {
	t.Helper()
	u, err := f.storage.CreateUser(context.Background(), models.User{
		ID:           uuid.New().String(),
		FirstName:    "Test",
		LastName:     "User",
		Phone:        phone,
		Email:        email,
		PasswordHash: "hash",
		Preferences:  prefs,
	})
	require.NoError(t, err)
	return u
}

// CreateArticle создает активную статью в категории.
func (f *TestDataFactory) CreateArticle(t *testing.T, userID, title, category string) *models.Article {
	t.Helper()
	a := &models.Article{
		ID:          uuid.New().String(),
		Title:       title,
		Description: "description of " + title,
		Category:    category,
		Tags:        []string{"go"},
		UserID:      userID,
		IsActive:    true,
		Version:     1,
	}
	require.NoError(t, f.storage.CreateArticle(context.Background(), a))
	return a
}
