package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
)

// HeaderCaller mirrors the identity header the service expects.
const HeaderCaller = "X-Ledger-Caller"

// Client is a thin typed client over the ledger REST surface. Caller
// is sent with every mutating request.
type Client struct {
	http.Client
	Addr   string
	Caller string
}

type Article struct {
	ID            uint64   `json:"id"`
	Author        string   `json:"author"`
	Title         string   `json:"title"`
	Category      string   `json:"category"`
	ContentRef    string   `json:"contentRef"`
	Tags          []string `json:"tags,omitempty"`
	SourceURL     string   `json:"sourceUrl,omitempty"`
	Score         int64    `json:"score"`
	Retracted     bool     `json:"retracted"`
	RevisionCount int      `json:"revisionCount"`
	VoteCount     uint64   `json:"voteCount"`
}

func (c *Client) Ping() (string, error) {
	req, err := http.NewRequest("GET", c.Addr+"/ping", nil)
	if err != nil {
		return "", err
	}

	resp, err := c.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), err
}

// SubmitArticle posts a new article and returns its assigned id.
func (c *Client) SubmitArticle(title, category, contentRef string) (uint64, error) {
	var out struct {
		ID uint64 `json:"id"`
	}
	err := c.doJSON("POST", "/articles", map[string]string{
		"title":      title,
		"category":   category,
		"contentRef": contentRef,
	}, http.StatusCreated, &out)

	return out.ID, err
}

// Vote casts a credibility judgement and returns its per-article
// ordinal.
func (c *Client) Vote(id uint64, credible bool, comment string) (uint64, error) {
	var out struct {
		Index uint64 `json:"index"`
	}
	err := c.doJSON("POST", fmt.Sprintf("/articles/%d/votes", id), map[string]interface{}{
		"credible": credible,
		"comment":  comment,
	}, http.StatusCreated, &out)

	return out.Index, err
}

// Article fetches one article with its derived counters.
func (c *Client) Article(id uint64) (Article, error) {
	var out Article
	err := c.doJSON("GET", fmt.Sprintf("/articles/%d", id), nil, http.StatusOK, &out)

	return out, err
}

// BalanceOf reads an identity's HASH balance.
func (c *Client) BalanceOf(identity string) (uint64, error) {
	var out struct {
		Balance uint64 `json:"balance"`
	}
	err := c.doJSON("GET", "/balances/"+identity, nil, http.StatusOK, &out)

	return out.Balance, err
}

func (c *Client) doJSON(method, path string, body interface{}, wantStatus int, into interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequest(method, c.Addr+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.Caller != "" {
		req.Header.Set(HeaderCaller, c.Caller)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		raw, _ := ioutil.ReadAll(resp.Body)

		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, raw)
	}

	if into == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(into)
}
