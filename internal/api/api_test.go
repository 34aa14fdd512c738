package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/truthledger/truthledger/internal/ledger"
	"github.com/truthledger/truthledger/internal/model"
)

const (
	owner = "0xowner"
	alice = "0xalice"
	bob   = "0xbob"
)

func newTestServer(t *testing.T) (*httptest.Server, *ledger.Engine) {
	t.Helper()

	engine := ledger.New(ledger.Params{Owner: model.Identity(owner)})
	a := New(engine, zap.NewNop().Sugar(), Options{})
	srv := httptest.NewServer(a.Router())
	t.Cleanup(srv.Close)

	return srv, engine
}

func doJSON(t *testing.T, method, url, caller string, body interface{}) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set(HeaderCaller, caller)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func decode(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func TestSubmitRequiresCaller(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/articles", "", map[string]string{
		"title": "T", "contentRef": "QmX",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSubmitAndGetArticle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/articles", alice, map[string]interface{}{
		"title":      "Title A",
		"category":   "HumanRights",
		"contentRef": "QmHashA",
		"tags":       []string{"rights"},
		"sourceUrl":  "https://example.org",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var submitted struct {
		ID uint64 `json:"id"`
	}
	decode(t, resp, &submitted)
	assert.Equal(t, uint64(1), submitted.ID)

	resp = doJSON(t, http.MethodGet, srv.URL+"/articles/1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		model.Article
		RevisionCount int    `json:"revisionCount"`
		VoteCount     uint64 `json:"voteCount"`
	}
	decode(t, resp, &got)
	assert.Equal(t, "Title A", got.Title)
	assert.Equal(t, model.Identity(alice), got.Author)
	assert.Equal(t, 1, got.RevisionCount)
	assert.Zero(t, got.VoteCount)
}

func TestSubmitBlankTitleIsUnprocessable(t *testing.T) {
	srv, engine := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/articles", alice, map[string]string{
		"title": "   ", "contentRef": "QmX",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Zero(t, engine.ArticleCount())
}

func TestGetUnknownArticle(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, srv.URL+"/articles/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/articles/not-a-number", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEditArticleFlow(t *testing.T) {
	srv, engine := newTestServer(t)
	require.NoError(t, engine.AirdropHash(owner, alice, 100))

	resp := doJSON(t, http.MethodPost, srv.URL+"/articles", alice, map[string]string{
		"title": "T", "contentRef": "QmX",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Non-author is forbidden.
	resp = doJSON(t, http.MethodPut, srv.URL+"/articles/1", bob, map[string]string{"contentRef": "QmNew"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/articles/1", alice, map[string]string{"contentRef": "QmNew"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var edited struct {
		ContentRef    string `json:"contentRef"`
		RevisionCount int    `json:"revisionCount"`
	}
	decode(t, resp, &edited)
	assert.Equal(t, "QmNew", edited.ContentRef)
	assert.Equal(t, 2, edited.RevisionCount)
	assert.Equal(t, uint64(90), engine.BalanceOf(alice))
}

func TestEditWithoutBalanceIsPaymentRequired(t *testing.T) {
	srv, engine := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/articles", alice, map[string]string{
		"title": "T", "contentRef": "QmX",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/articles/1", alice, map[string]string{"contentRef": "QmNew"})
	assert.Equal(t, http.StatusPaymentRequired, resp.StatusCode)

	count, err := engine.RevisionCountOf(1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestVoteFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/articles", alice, map[string]string{
		"title": "T", "contentRef": "QmX",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	credible := true
	resp = doJSON(t, http.MethodPost, srv.URL+"/articles/1/votes", bob, map[string]interface{}{
		"credible": credible, "comment": "credible",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var vote struct {
		Index uint64 `json:"index"`
		Score int64  `json:"score"`
	}
	decode(t, resp, &vote)
	assert.Equal(t, uint64(1), vote.Index)
	assert.Equal(t, int64(1), vote.Score)

	// Missing credible field is a bad request, not a vote.
	resp = doJSON(t, http.MethodPost, srv.URL+"/articles/1/votes", bob, map[string]string{"comment": "no judgement"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Second vote by the same caller conflicts.
	resp = doJSON(t, http.MethodPost, srv.URL+"/articles/1/votes", bob, map[string]interface{}{"credible": false})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRetractBlocksVoting(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, srv.URL+"/articles", alice, map[string]string{
		"title": "T", "contentRef": "QmX",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, srv.URL+"/articles/1", alice, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var retracted struct {
		Retracted bool `json:"retracted"`
	}
	decode(t, resp, &retracted)
	assert.True(t, retracted.Retracted)

	resp = doJSON(t, http.MethodPost, srv.URL+"/articles/1/votes", bob, map[string]interface{}{"credible": true})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Double retraction conflicts too.
	resp = doJSON(t, http.MethodDelete, srv.URL+"/articles/1", alice, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAdminAirdrop(t *testing.T) {
	srv, engine := newTestServer(t)

	// Non-owner cannot reach the admin surface.
	resp := doJSON(t, http.MethodPost, srv.URL+"/admin/airdrop", alice, map[string]interface{}{
		"target": bob, "amount": 10,
	})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, engine.BalanceOf(bob))

	resp = doJSON(t, http.MethodPost, srv.URL+"/admin/airdrop", owner, map[string]interface{}{
		"target": bob, "amount": 77,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var balance struct {
		Balance uint64 `json:"balance"`
	}
	decode(t, resp, &balance)
	assert.Equal(t, uint64(77), balance.Balance)

	// Zero amounts are rejected with no effect.
	resp = doJSON(t, http.MethodPost, srv.URL+"/admin/airdrop", owner, map[string]interface{}{
		"target": bob, "amount": 0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, uint64(77), engine.BalanceOf(bob))
}

func TestProfileRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPut, srv.URL+"/profile", alice, map[string]interface{}{
		"age": 30, "location": "Chicago", "nationality": "USA",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, http.MethodGet, srv.URL+"/profiles/"+alice, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var prof struct {
		Exists      bool   `json:"exists"`
		Age         uint64 `json:"age"`
		Location    string `json:"location"`
		Nationality string `json:"nationality"`
	}
	decode(t, resp, &prof)
	assert.True(t, prof.Exists)
	assert.Equal(t, uint64(30), prof.Age)
	assert.Equal(t, "Chicago", prof.Location)
	assert.Equal(t, "USA", prof.Nationality)

	resp = doJSON(t, http.MethodGet, srv.URL+"/profiles/0xunknown", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &prof)
	assert.False(t, prof.Exists)
}

func TestListEventsSince(t *testing.T) {
	srv, engine := newTestServer(t)
	require.NoError(t, engine.AirdropHash(owner, alice, 1))
	require.NoError(t, engine.AirdropHash(owner, alice, 2))

	resp := doJSON(t, http.MethodGet, srv.URL+"/events", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var events []struct {
		Seq  uint64 `json:"seq"`
		Type string `json:"type"`
	}
	decode(t, resp, &events)
	require.Len(t, events, 2)
	assert.Equal(t, model.EventHashAirdropped, events[0].Type)

	resp = doJSON(t, http.MethodGet, srv.URL+"/events?since=1", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &events)
	require.Len(t, events, 1)
	assert.Equal(t, uint64(2), events[0].Seq)
}
