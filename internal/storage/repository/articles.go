package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/magabrotheeeer/article-feed/internal/models"
)

var articleColumns = []string{
	"id", "title", "description", "category", "tags", "image_url", "user_id",
	"liked_by", "disliked_by", "likes", "dislikes", "is_active", "version",
	"created_at", "updated_at",
}

type rowScanner interface {
	Scan(dest ...any) error
}

// CreateArticle сохраняет новую статью и заполняет служебные поля из базы.
func (s *Storage) CreateArticle(ctx context.Context, article *models.Article) error {
	const op = "storage.CreateArticle"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args, err := s.psql.Insert("articles").
		Columns("id", "title", "description", "category", "tags", "image_url", "user_id",
			"liked_by", "disliked_by", "likes", "dislikes", "is_active", "version").
		Values(article.ID, article.Title, article.Description, article.Category,
			orEmpty(article.Tags), article.ImageURL, article.UserID,
			orEmpty(article.LikedBy), orEmpty(article.DislikedBy),
			article.Likes, article.Dislikes, article.IsActive, article.Version).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err = s.DB.QueryRowContext(ctx, query, args...).
		Scan(&article.CreatedAt, &article.UpdatedAt); err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetArticle возвращает статью по ID.
func (s *Storage) GetArticle(ctx context.Context, id string) (*models.Article, error) {
	const op = "storage.GetArticle"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args, err := s.psql.Select(articleColumns...).
		From("articles").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	a, err := scanArticle(s.DB.QueryRowContext(ctx, query, args...), arrayScanner())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapNoRows(err, models.ErrArticleNotFound))
	}
	return a, nil
}

// ListArticles возвращает статьи по фильтру в порядке создания.
func (s *Storage) ListArticles(ctx context.Context, filter models.ArticleFilter) ([]*models.Article, error) {
	const op = "storage.ListArticles"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	if filter.ByCategory && len(filter.Categories) == 0 {
		return []*models.Article{}, nil
	}

	sb := s.psql.Select(articleColumns...).From("articles")
	if filter.UserID != "" {
		sb = sb.Where(squirrel.Eq{"user_id": filter.UserID})
	}
	if filter.ByCategory {
		sb = sb.Where("category = ANY(?)", filter.Categories)
	}
	if filter.Active != nil {
		sb = sb.Where(squirrel.Eq{"is_active": *filter.Active})
	}
	query, args, err := sb.OrderBy("created_at ASC", "id ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	array := arrayScanner()
	result := make([]*models.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows, array)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateArticle перезаписывает содержимое статьи без проверки версии
// (последняя запись побеждает), но увеличивает версию, чтобы конкурентные
// переключения голосов увидели изменение.
func (s *Storage) UpdateArticle(ctx context.Context, article *models.Article) error {
	const op = "storage.UpdateArticle"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args, err := s.psql.Update("articles").
		Set("title", article.Title).
		Set("description", article.Description).
		Set("category", article.Category).
		Set("tags", orEmpty(article.Tags)).
		Set("image_url", article.ImageURL).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": article.ID}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&article.Version, &article.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapNoRows(err, models.ErrArticleNotFound))
	}
	return nil
}

// CompareAndSwapArticle сохраняет голоса и флаг видимости, только если версия
// строки всё ещё равна expectedVersion. При успехе в article записывается новая
// версия. Если строка изменилась, возвращается models.ErrVersionConflict,
// если исчезла, models.ErrArticleNotFound.
func (s *Storage) CompareAndSwapArticle(ctx context.Context, article *models.Article, expectedVersion int64) error {
	const op = "storage.CompareAndSwapArticle"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args, err := s.psql.Update("articles").
		Set("liked_by", orEmpty(article.LikedBy)).
		Set("disliked_by", orEmpty(article.DislikedBy)).
		Set("likes", article.Likes).
		Set("dislikes", article.Dislikes).
		Set("is_active", article.IsActive).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": article.ID, "version": expectedVersion}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&article.Version, &article.UpdatedAt)
	if err == nil {
		return nil
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("%s: %w", op, err)
	}

	var exists bool
	if err = s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM articles WHERE id = $1)`, article.ID).Scan(&exists); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w", op, models.ErrArticleNotFound)
	}
	return fmt.Errorf("%s: %w", op, models.ErrVersionConflict)
}

// DeleteArticle удаляет статью и сообщает, существовала ли она.
func (s *Storage) DeleteArticle(ctx context.Context, id string) (bool, error) {
	const op = "storage.DeleteArticle"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query, args, err := s.psql.Delete("articles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return n > 0, nil
}

func scanArticle(row rowScanner, array func(*[]string) sql.Scanner) (*models.Article, error) {
	a := &models.Article{}
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Category, array(&a.Tags),
		&a.ImageURL, &a.UserID, array(&a.LikedBy), array(&a.DislikedBy),
		&a.Likes, &a.Dislikes, &a.IsActive, &a.Version, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Tags = orEmpty(a.Tags)
	a.LikedBy = orEmpty(a.LikedBy)
	a.DislikedBy = orEmpty(a.DislikedBy)
	return a, nil
}
