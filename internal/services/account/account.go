// Package account содержит бизнес-логику учётных записей: регистрацию,
// вход, смену пароля, обновление профиля и списка предпочтений.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/article-feed/internal/lib/password"
	"github.com/magabrotheeeer/article-feed/internal/lib/sl"
	"github.com/magabrotheeeer/article-feed/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в хранилище.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUser возвращает пользователя по ID.
	GetUser(ctx context.Context, id string) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// IdentityTaken проверяет занятость email или телефона, исключая excludeID.
	IdentityTaken(ctx context.Context, email, phone, excludeID string) (bool, error)
	// UpdateProfile перезаписывает поля профиля.
	UpdateProfile(ctx context.Context, id string, in models.ProfileInput) (*models.User, error)
	// UpdatePassword сохраняет новый хэш пароля.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	// UpdatePreferences заменяет список предпочтений.
	UpdatePreferences(ctx context.Context, id string, preferences []string) (*models.User, error)
}

// Hasher хеширует и проверяет пароли.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Service реализует операции над учётными записями.
type Service struct {
	users  UserRepository
	hasher Hasher
	log    *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(users UserRepository, hasher Hasher, log *slog.Logger) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
		log:    log,
	}
}

// Register создает пользователя. Занятый email или телефон дают
// models.ErrDuplicateIdentity, слабый пароль models.ErrWeakPassword.
func (s *Service) Register(ctx context.Context, in models.RegisterInput) (*models.UserProfile, error) {
	const op = "services.account.Register"

	taken, err := s.users.IdentityTaken(ctx, in.Email, in.Phone, "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", op, models.ErrDuplicateIdentity)
	}
	if err = password.Validate(in.Password); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.CreateUser(ctx, models.User{
		ID:           uuid.NewString(),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Email:        in.Email,
		PasswordHash: hash,
		DateOfBirth:  in.DateOfBirth,
		Preferences:  in.Preferences,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.String("user_id", user.ID))
	return user.Profile(), nil
}

// Login проверяет пароль пользователя с указанным email.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.UserProfile, error) {
	const op = "services.account.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !s.hasher.Verify(rawPassword, user.PasswordHash) {
		return nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredential)
	}
	return user.Profile(), nil
}

// GetUser возвращает профиль пользователя.
func (s *Service) GetUser(ctx context.Context, userID string) (*models.UserProfile, error) {
	const op = "services.account.GetUser"

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user.Profile(), nil
}

// UpdateProfile перезаписывает имя, фамилию, телефон, email и дату рождения.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in models.ProfileInput) (*models.UserProfile, error) {
	const op = "services.account.UpdateProfile"

	taken, err := s.users.IdentityTaken(ctx, in.Email, in.Phone, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if taken {
		return nil, fmt.Errorf("%s: %w", op, models.ErrDuplicateIdentity)
	}

	user, err := s.users.UpdateProfile(ctx, userID, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user.Profile(), nil
}

// ChangePassword меняет пароль. Порядок проверок: сложность нового пароля,
// существование пользователя, верность текущего, отличие нового от старого.
func (s *Service) ChangePassword(ctx context.Context, userID, current, newPassword string) error {
	const op = "services.account.ChangePassword"

	if err := password.Validate(newPassword); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return fmt.Errorf("%s: current password is incorrect: %w", op, models.ErrInvalidCredential)
	}
	if s.hasher.Verify(newPassword, user.PasswordHash) {
		return fmt.Errorf("%s: %w", op, models.ErrSamePassword)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = s.users.UpdatePassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("password changed", slog.String("user_id", userID))
	return nil
}

// UpdatePreferences целиком заменяет список предпочтений пользователя.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, preferences []string) (*models.UserProfile, error) {
	const op = "services.account.UpdatePreferences"

	user, err := s.users.UpdatePreferences(ctx, userID, preferences)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.log.Error("failed to update preferences", slog.String("user_id", userID), sl.Err(err))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user.Profile(), nil
}

// Preferences возвращает сохранённый список предпочтений пользователя.
func (s *Service) Preferences(ctx context.Context, userID string) ([]string, error) {
	const op = "services.account.Preferences"

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user.Preferences, nil
}
