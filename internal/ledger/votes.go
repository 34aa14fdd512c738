package ledger

import (
	"fmt"

	"github.com/truthledger/truthledger/internal/model"
)

// Vote records a credibility judgement on an article and moves its
// score by +1 or -1. At most one vote per (article, voter); the
// returned index is the 1-based ordinal of the vote among all votes
// for the article.
func (e *Engine) Vote(caller model.Identity, id uint64, credible bool, comment string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.articles[id]
	if !ok {
		return 0, fmt.Errorf("vote on article %d: %w", id, ErrInvalidID)
	}
	if a.Retracted {
		return 0, fmt.Errorf("vote on article %d: %w", id, ErrRetracted)
	}

	key := voteKey{articleID: id, voter: caller}
	if _, dup := e.votes[key]; dup {
		return 0, fmt.Errorf("vote on article %d by %q: %w", id, caller, ErrAlreadyVoted)
	}

	index := e.voteCounts[id] + 1
	e.voteCounts[id] = index
	e.votes[key] = &model.Vote{
		ArticleID: id,
		Voter:     caller,
		Credible:  credible,
		Comment:   comment,
		Index:     index,
	}

	if credible {
		a.Score++
	} else {
		a.Score--
	}

	e.appendEvent(model.EventVoted, caller, id, e.now(), map[string]interface{}{
		"credible":  credible,
		"comment":   comment,
		"voteIndex": index,
	})

	return index, nil
}

// VoteCountOf returns the number of votes cast on an article.
func (e *Engine) VoteCountOf(id uint64) (uint64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.articles[id]; !ok {
		return 0, fmt.Errorf("article %d: %w", id, ErrInvalidID)
	}

	return e.voteCounts[id], nil
}

// VoteOf returns the vote cast by voter on an article, if any.
func (e *Engine) VoteOf(id uint64, voter model.Identity) (model.Vote, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	v, ok := e.votes[voteKey{articleID: id, voter: voter}]
	if !ok {
		return model.Vote{}, false
	}

	return *v, true
}
