package articlepayload

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/truthledger/truthledger/internal/model"
)

//--
// Request and Response payloads for the ledger REST api.
//
// The payloads embed the data model objects; binding validates only
// shape (required fields present), the engine enforces the ledger
// rules.
//--

// SubmitRequest is the request payload for article submission.
type SubmitRequest struct {
	Title      string   `json:"title"`
	Category   string   `json:"category"`
	ContentRef string   `json:"contentRef"`
	Tags       []string `json:"tags,omitempty"`
	SourceURL  string   `json:"sourceUrl,omitempty"`
}

func (s *SubmitRequest) Bind(r *http.Request) error {
	if s.Title == "" && s.ContentRef == "" {
		return errors.New("missing required article fields")
	}

	return nil
}

// EditRequest carries the replacement content reference.
type EditRequest struct {
	ContentRef string `json:"contentRef"`
}

func (e *EditRequest) Bind(r *http.Request) error {
	return nil
}

// VoteRequest casts a credibility judgement. Credible is a pointer so
// a missing field is distinguishable from an explicit false.
type VoteRequest struct {
	Credible *bool  `json:"credible"`
	Comment  string `json:"comment,omitempty"`
}

func (v *VoteRequest) Bind(r *http.Request) error {
	if v.Credible == nil {
		return errors.New("missing required field: credible")
	}

	return nil
}

// ProfileRequest upserts the caller's profile.
type ProfileRequest struct {
	Age         uint64 `json:"age"`
	Location    string `json:"location"`
	Nationality string `json:"nationality"`
}

func (p *ProfileRequest) Bind(r *http.Request) error {
	return nil
}

// AirdropRequest issues HASH to a target identity. Owner only.
type AirdropRequest struct {
	Target string `json:"target"`
	Amount uint64 `json:"amount"`
}

func (a *AirdropRequest) Bind(r *http.Request) error {
	if a.Target == "" {
		return errors.New("missing required field: target")
	}

	return nil
}

// ArticleResponse is the response payload for the Article data model,
// decorated with the derived counters the UI shows next to it.
type ArticleResponse struct {
	model.Article

	RevisionCount int    `json:"revisionCount"`
	VoteCount     uint64 `json:"voteCount"`
}

func NewArticleResponse(a model.Article, revisions int, votes uint64) *ArticleResponse {
	return &ArticleResponse{
		Article:       a,
		RevisionCount: revisions,
		VoteCount:     votes,
	}
}

func (rd *ArticleResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewArticleListResponse(articles []*ArticleResponse) []render.Renderer {
	list := []render.Renderer{}
	for _, a := range articles {
		list = append(list, a)
	}

	return list
}

// SubmitResponse acknowledges a submission with the assigned id.
type SubmitResponse struct {
	ID uint64 `json:"id"`
}

func (rd *SubmitResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// VoteResponse acknowledges a vote with its per-article ordinal.
type VoteResponse struct {
	ArticleID uint64 `json:"articleId"`
	Index     uint64 `json:"index"`
	Score     int64  `json:"score"`
}

func (rd *VoteResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// RevisionResponse wraps one entry of an article's revision log.
type RevisionResponse struct {
	model.Revision
}

func (rd *RevisionResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewRevisionListResponse(revs []model.Revision) []render.Renderer {
	list := []render.Renderer{}
	for i := range revs {
		list = append(list, &RevisionResponse{Revision: revs[i]})
	}

	return list
}

// ProfileResponse wraps a user profile read.
type ProfileResponse struct {
	Identity model.Identity `json:"identity"`
	model.UserProfile
}

func (rd *ProfileResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// BalanceResponse wraps a HASH balance read.
type BalanceResponse struct {
	Identity model.Identity `json:"identity"`
	Balance  uint64         `json:"balance"`
}

func (rd *BalanceResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

// EventResponse wraps one audit stream entry.
type EventResponse struct {
	model.Event
}

func (rd *EventResponse) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func NewEventListResponse(events []model.Event) []render.Renderer {
	list := []render.Renderer{}
	for i := range events {
		list = append(list, &EventResponse{Event: events[i]})
	}

	return list
}
