package model

import "time"

// Event types emitted by the engine, one primary event per successful
// operation.
const (
	EventHashAirdropped   = "HashAirdropped"
	EventUserUpdated      = "UserUpdated"
	EventArticleSubmitted = "ArticleSubmitted"
	EventArticleEdited    = "ArticleEdited"
	EventArticleRetracted = "ArticleRetracted"
	EventVoted            = "Voted"
)

// Event is one entry of the append-only audit stream. Seq starts at 1
// and is contiguous. Caller and ArticleID are lifted out of Data so
// indexers can filter without unpacking the payload; ArticleID is 0 for
// events that do not concern an article.
type Event struct {
	Seq       uint64                 `json:"seq"`
	ID        string                 `json:"id"`
	Type      string                 `json:"type"`
	At        time.Time              `json:"at"`
	Caller    Identity               `json:"caller"`
	ArticleID uint64                 `json:"articleId,omitempty"`
	Data      map[string]interface{} `json:"data,omitempty"`
}
