package models

// VoteState состояние голоса пользователя по конкретной статье.
type VoteState string

const (
	VoteNone     VoteState = "NONE"
	VoteLiked    VoteState = "LIKED"
	VoteDisliked VoteState = "DISLIKED"
)

// ArticleEvent событие об изменении статьи, публикуемое в брокер.
type ArticleEvent struct {
	Type       string `json:"type"`
	ArticleID  string `json:"article_id"`
	UserID     string `json:"user_id,omitempty"`
	OccurredAt string `json:"occurred_at"`
}

// Типы событий, они же ключи маршрутизации в обменнике статей.
const (
	EventArticleCreated   = "article.created"
	EventArticleUpdated   = "article.updated"
	EventArticleDeleted   = "article.deleted"
	EventArticleLiked     = "article.liked"
	EventArticleDisliked  = "article.disliked"
	EventArticleBlocked   = "article.blocked"
	EventArticleUnblocked = "article.unblocked"
)
