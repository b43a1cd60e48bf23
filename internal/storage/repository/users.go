package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/article-feed/internal/models"
)

const userColumns = `id, first_name, last_name, phone, email, password_hash, dob,
			      preferences, created_at, updated_at`

// CreateUser сохраняет нового пользователя. Нарушение уникальности email
// или телефона возвращается как models.ErrDuplicateIdentity.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO users (id, first_name, last_name, phone, email, password_hash,
			      dob, preferences)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query,
		user.ID, user.FirstName, user.LastName, user.Phone, user.Email, user.PasswordHash,
		dateOrNil(user.DateOfBirth), orEmpty(user.Preferences))

	u, err := scanUser(row, arrayScanner())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDuplicateIdentity)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его ID.
func (s *Storage) GetUser(ctx context.Context, id string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id), arrayScanner())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapNoRows(err, models.ErrUserNotFound))
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email), arrayScanner())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapNoRows(err, models.ErrUserNotFound))
	}
	return u, nil
}

// IdentityTaken сообщает, занят ли email или телефон другим пользователем.
// excludeID исключает из проверки самого пользователя, пустой не исключает никого.
func (s *Storage) IdentityTaken(ctx context.Context, email, phone, excludeID string) (bool, error) {
	const op = "storage.IdentityTaken"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	sb := s.psql.Select("1").From("users").
		Where("(email = ? OR phone = ?)", email, phone).
		Limit(1)
	if excludeID != "" {
		sb = sb.Where("id <> ?", excludeID)
	}
	query, args, err := sb.ToSql()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	var one int
	err = s.DB.QueryRowContext(ctx, query, args...).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}

// UpdateProfile перезаписывает поля профиля и возвращает обновлённого пользователя.
func (s *Storage) UpdateProfile(ctx context.Context, id string, in models.ProfileInput) (*models.User, error) {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET first_name = $1, last_name = $2, phone = $3, email = $4, dob = $5,
			      updated_at = NOW()
			  WHERE id = $6
			  RETURNING ` + userColumns
	row := s.DB.QueryRowContext(ctx, query,
		in.FirstName, in.LastName, in.Phone, in.Email, dateOrNil(in.DateOfBirth), id)
	u, err := scanUser(row, arrayScanner())
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrDuplicateIdentity)
		}
		return nil, fmt.Errorf("%s: %w", op, mapNoRows(err, models.ErrUserNotFound))
	}
	return u, nil
}

// UpdatePassword сохраняет новый хэш пароля.
func (s *Storage) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET password_hash = $1, updated_at = NOW()
			  WHERE id = $2`
	res, err := s.DB.ExecContext(ctx, query, passwordHash, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
	}
	return nil
}

// UpdatePreferences целиком заменяет список предпочтений пользователя.
func (s *Storage) UpdatePreferences(ctx context.Context, id string, preferences []string) (*models.User, error) {
	const op = "storage.UpdatePreferences"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET preferences = $1, updated_at = NOW()
			  WHERE id = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, orEmpty(preferences), id), arrayScanner())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapNoRows(err, models.ErrUserNotFound))
	}
	return u, nil
}

func scanUser(row rowScanner, array func(*[]string) sql.Scanner) (*models.User, error) {
	u := &models.User{}
	var dob sql.NullTime
	if err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Phone, &u.Email,
		&u.PasswordHash, &dob, array(&u.Preferences), &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	if dob.Valid {
		u.DateOfBirth = &dob.Time
	}
	u.Preferences = orEmpty(u.Preferences)
	return u, nil
}

func dateOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
