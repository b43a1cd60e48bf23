// Package models содержит доменные модели сервиса публикаций: пользователя,
// статьи и состояние голоса пользователя по статье, а также набор
// ошибок-сентинелов, по которым слои классифицируют сбои.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string     // Уникальный идентификатор пользователя (uuid)
	FirstName    string     // Имя
	LastName     string     // Фамилия
	Phone        string     // Телефон (уникальный)
	Email        string     // Электронная почта (уникальная)
	PasswordHash string     // Хэш пароля пользователя
	DateOfBirth  *time.Time // Дата рождения, может отсутствовать
	Preferences  []string   // Упорядоченный список предпочитаемых категорий
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserProfile публичное представление пользователя, без хэша пароля.
type UserProfile struct {
	ID          string     `json:"id"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email"`
	DateOfBirth *time.Time `json:"dob,omitempty"`
	Preferences []string   `json:"preferences"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Profile возвращает публичный профиль пользователя.
func (u *User) Profile() *UserProfile {
	prefs := u.Preferences
	if prefs == nil {
		prefs = []string{}
	}
	return &UserProfile{
		ID:          u.ID,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Phone:       u.Phone,
		Email:       u.Email,
		DateOfBirth: u.DateOfBirth,
		Preferences: prefs,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// RegisterInput данные для регистрации, уже прошедшие валидацию на границе HTTP.
type RegisterInput struct {
	FirstName   string
	LastName    string
	Phone       string
	Email       string
	Password    string
	DateOfBirth *time.Time
	Preferences []string
}

// ProfileInput данные для перезаписи профиля пользователя.
type ProfileInput struct {
	FirstName   string
	LastName    string
	Phone       string
	Email       string
	DateOfBirth *time.Time
}
