package models

import (
	"slices"
	"time"
)

// Article статья пользователя вместе с наборами голосов и флагом видимости.
//
// Инвариант: идентификатор пользователя встречается не более чем в одном из
// наборов LikedBy и DislikedBy, а счётчики Likes и Dislikes всегда равны
// размерам соответствующих наборов.
type Article struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	ImageURL    string    `json:"image_url,omitempty"`
	UserID      string    `json:"user_id"`
	LikedBy     []string  `json:"liked_by"`
	DislikedBy  []string  `json:"disliked_by"`
	Likes       int       `json:"likes"`
	Dislikes    int       `json:"dislikes"`
	IsActive    bool      `json:"is_active"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ArticleInput поля статьи, которые задаёт владелец при создании и обновлении.
type ArticleInput struct {
	Title       string
	Description string
	Category    string
	Tags        []string
	UserID      string
}

// Image содержимое загружаемого изображения.
type Image struct {
	Name string
	Data []byte
}

// VoteState возвращает состояние голоса пользователя по статье.
func (a *Article) VoteState(userID string) VoteState {
	switch {
	case slices.Contains(a.LikedBy, userID):
		return VoteLiked
	case slices.Contains(a.DislikedBy, userID):
		return VoteDisliked
	default:
		return VoteNone
	}
}

// ToggleLike переключает лайк пользователя:
// LIKED -> NONE, NONE -> LIKED, DISLIKED -> LIKED.
func (a *Article) ToggleLike(userID string) {
	a.detachSets()
	switch a.VoteState(userID) {
	case VoteLiked:
		a.LikedBy = remove(a.LikedBy, userID)
	case VoteDisliked:
		a.DislikedBy = remove(a.DislikedBy, userID)
		a.LikedBy = append(a.LikedBy, userID)
	default:
		a.LikedBy = append(a.LikedBy, userID)
	}
	a.recount()
}

// ToggleDislike зеркальна ToggleLike.
func (a *Article) ToggleDislike(userID string) {
	a.detachSets()
	switch a.VoteState(userID) {
	case VoteDisliked:
		a.DislikedBy = remove(a.DislikedBy, userID)
	case VoteLiked:
		a.LikedBy = remove(a.LikedBy, userID)
		a.DislikedBy = append(a.DislikedBy, userID)
	default:
		a.DislikedBy = append(a.DislikedBy, userID)
	}
	a.recount()
}

// SetActive выставляет флаг видимости и сообщает, изменилось ли состояние.
func (a *Article) SetActive(active bool) bool {
	if a.IsActive == active {
		return false
	}
	a.IsActive = active
	return true
}

// detachSets копирует наборы, чтобы переход не менял чужие срезы.
func (a *Article) detachSets() {
	a.LikedBy = slices.Clone(a.LikedBy)
	a.DislikedBy = slices.Clone(a.DislikedBy)
}

// recount пересчитывает счётчики по наборам, лечит рассинхрон из хранилища.
func (a *Article) recount() {
	if a.LikedBy == nil {
		a.LikedBy = []string{}
	}
	if a.DislikedBy == nil {
		a.DislikedBy = []string{}
	}
	a.Likes = len(a.LikedBy)
	a.Dislikes = len(a.DislikedBy)
}

func remove(set []string, userID string) []string {
	return slices.DeleteFunc(set, func(id string) bool { return id == userID })
}

// ArticleFilter условия выборки статей. Пустые поля не ограничивают выборку,
// кроме Categories: заданный, но пустой список не совпадает ни с чем.
type ArticleFilter struct {
	UserID     string
	Categories []string
	ByCategory bool
	Active     *bool
}
