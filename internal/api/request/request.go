// Package request разбирает общие части входящих HTTP-запросов:
// идентификаторы из пути и multipart-форму статьи.
package request

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/article-feed/internal/models"
)

// ErrNoImage возвращается, когда в форме нет части image.
var ErrNoImage = errors.New("no image part")

// ParseID возвращает параметр пути name, если он является UUID.
func ParseID(r *http.Request, name string) (string, error) {
	const op = "request.ParseID"

	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%s: %q: %w", op, raw, err)
	}
	return id.String(), nil
}

// ArticleForm поля статьи из multipart-формы.
type ArticleForm struct {
	Title       string   `validate:"required"`
	Description string   `validate:"required"`
	Category    string   `validate:"required"`
	Tags        []string `validate:"omitempty,dive,required"`
}

// ParseArticleForm читает multipart-форму не больше maxSize байт.
// Изображение возвращается nil, если часть image не передана.
func ParseArticleForm(w http.ResponseWriter, r *http.Request, maxSize int64) (ArticleForm, *models.Image, error) {
	const op = "request.ParseArticleForm"

	r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	if err := r.ParseMultipartForm(maxSize); err != nil {
		return ArticleForm{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	form := ArticleForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    strings.TrimSpace(r.FormValue("category")),
		Tags:        SplitTags(r.FormValue("tags")),
	}

	image, err := readImage(r)
	if errors.Is(err, ErrNoImage) {
		return form, nil, nil
	}
	if err != nil {
		return ArticleForm{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	return form, image, nil
}

func readImage(r *http.Request) (*models.Image, error) {
	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, ErrNoImage
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	return &models.Image{Name: header.Filename, Data: data}, nil
}

// SplitTags разбивает строку тегов по запятым, обрезая пробелы и
// отбрасывая пустые элементы.
func SplitTags(raw string) []string {
	tags := make([]string, 0)
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
