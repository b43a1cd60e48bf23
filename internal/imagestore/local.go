// Package imagestore хранит изображения статей в локальном каталоге и
// отдаёт их по публичному URL. Хранилище непрозрачно для сервисов:
// Upload возвращает URL, Release принимает его обратно.
package imagestore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// ErrForeignURL URL не принадлежит этому хранилищу.
var ErrForeignURL = errors.New("url does not belong to image store")

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// Local файловое хранилище изображений.
type Local struct {
	dir     string
	baseURL string
}

// NewLocal создает каталог dir при необходимости. baseURL префикс, под
// которым файлы каталога раздаются HTTP-сервером.
func NewLocal(dir, baseURL string) (*Local, error) {
	const op = "imagestore.NewLocal"
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Local{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir каталог с файлами изображений.
func (l *Local) Dir() string {
	return l.dir
}

// Upload сохраняет изображение под новым уникальным именем и возвращает его URL.
func (l *Local) Upload(ctx context.Context, name string, data []byte) (string, error) {
	const op = "imagestore.Upload"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%s: empty image", op)
	}

	fileName := uuid.NewString() + extension(name, data)

	tmp, err := os.CreateTemp(l.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err = tmp.Close(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err = os.Rename(tmp.Name(), filepath.Join(l.dir, fileName)); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return l.baseURL + "/" + fileName, nil
}

// Release удаляет изображение по URL. Уже удалённый файл ошибкой не считается.
func (l *Local) Release(ctx context.Context, url string) error {
	const op = "imagestore.Release"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	name, ok := strings.CutPrefix(url, l.baseURL+"/")
	if !ok || name != path.Base(name) || !filepath.IsLocal(name) || name == "." {
		return fmt.Errorf("%s: %w", op, ErrForeignURL)
	}
	if err := os.Remove(filepath.Join(l.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// extension выбирает расширение по содержимому, затем по имени файла.
func extension(name string, data []byte) string {
	if ext := mimetype.Detect(data).Extension(); allowedExt[ext] {
		return ext
	}
	if ext := strings.ToLower(filepath.Ext(name)); allowedExt[ext] {
		return ext
	}
	return ".bin"
}
