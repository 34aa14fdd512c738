package model

// Vote records one (article, voter) judgement. Immutable once cast.
// Index is the 1-based ordinal of the vote among all votes for the
// article, assigned at insert time and never reused.
type Vote struct {
	ArticleID uint64   `json:"articleId"`
	Voter     Identity `json:"voter"`
	Credible  bool     `json:"credible"`
	Comment   string   `json:"comment,omitempty"`
	Index     uint64   `json:"index"`
}
