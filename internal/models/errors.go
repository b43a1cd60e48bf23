package models

import (
	"errors"
	"fmt"
)

// Базовые категории ошибок. Конкретные ошибки ниже оборачивают их,
// поэтому errors.Is(err, ErrNotFound) срабатывает и для ErrUserNotFound.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidCredential = errors.New("invalid credential")
	ErrDuplicateIdentity = errors.New("duplicate identity")
	ErrValidationFailed  = errors.New("validation failed")
	ErrDependencyFailure = errors.New("dependency failure")
	ErrVersionConflict   = errors.New("version conflict")
)

var (
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)
	ErrArticleNotFound = fmt.Errorf("article %w", ErrNotFound)
	ErrWeakPassword    = fmt.Errorf("%w: password must be at least 8 characters and contain upper case, lower case, digit and symbol", ErrValidationFailed)
	ErrSamePassword    = fmt.Errorf("%w: new password cannot be the same as the old password", ErrValidationFailed)
	ErrImageUpload     = fmt.Errorf("%w: image upload failed", ErrDependencyFailure)
)
