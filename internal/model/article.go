package model

import "time"

// Identity is an opaque caller identity supplied by the host's
// authentication layer. The engine only compares identities, it never
// interprets them.
type Identity string

// Article data model. Ids are dense and start at 1; Score and Retracted
// are only mutated through engine operations.
type Article struct {
	ID          uint64    `json:"id"`
	Author      Identity  `json:"author"`
	Title       string    `json:"title"`
	Category    string    `json:"category"`
	ContentRef  string    `json:"contentRef"`
	Tags        []string  `json:"tags,omitempty"`
	SourceURL   string    `json:"sourceUrl,omitempty"`
	Score       int64     `json:"score"`
	Retracted   bool      `json:"retracted"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// Revision is one historical version of an article's content reference.
// Seq starts at 1; the initial content counts as revision 1.
type Revision struct {
	ArticleID  uint64    `json:"articleId"`
	Seq        int       `json:"seq"`
	ContentRef string    `json:"contentRef"`
	EditedAt   time.Time `json:"editedAt"`
}
