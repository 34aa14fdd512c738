package ledger

import (
	"fmt"
	"strings"

	"github.com/truthledger/truthledger/internal/model"
)

// SubmitArticle registers a new article under the caller's authorship
// and returns its id. The initial content counts as revision 1. Ids are
// dense: a rejected submission consumes no id.
func (e *Engine) SubmitArticle(caller model.Identity, title, category, contentRef string, tags []string, sourceURL string) (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if strings.TrimSpace(title) == "" {
		return 0, ErrEmptyTitle
	}
	if strings.TrimSpace(contentRef) == "" {
		return 0, ErrEmptyContentRef
	}

	now := e.now()
	id := e.nextID
	e.nextID++

	a := &model.Article{
		ID:          id,
		Author:      caller,
		Title:       title,
		Category:    category,
		ContentRef:  contentRef,
		Tags:        append([]string(nil), tags...),
		SourceURL:   sourceURL,
		SubmittedAt: now,
	}
	e.articles[id] = a
	e.articleIDs = append(e.articleIDs, id)
	e.revisions[id] = []model.Revision{{
		ArticleID:  id,
		Seq:        1,
		ContentRef: contentRef,
		EditedAt:   now,
	}}

	e.appendEvent(model.EventArticleSubmitted, caller, id, now, map[string]interface{}{
		"title":      title,
		"category":   category,
		"contentRef": contentRef,
		"tags":       a.Tags,
		"sourceUrl":  sourceURL,
	})

	return id, nil
}

// EditArticle replaces an article's content reference for EditCost
// HASH and appends a revision. Checks run in order: id, authorship,
// retraction, content ref, balance. The first failure aborts with no
// debit and no revision.
func (e *Engine) EditArticle(caller model.Identity, id uint64, newContentRef string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.articles[id]
	if !ok {
		return fmt.Errorf("edit article %d: %w", id, ErrInvalidID)
	}
	if err := e.requireAuthor(caller, a); err != nil {
		return err
	}
	if a.Retracted {
		return fmt.Errorf("edit article %d: %w", id, ErrRetracted)
	}
	if strings.TrimSpace(newContentRef) == "" {
		return ErrEmptyContentRef
	}
	if err := e.debit(caller, e.editCost); err != nil {
		return err
	}

	now := e.now()
	a.ContentRef = newContentRef
	e.revisions[id] = append(e.revisions[id], model.Revision{
		ArticleID:  id,
		Seq:        len(e.revisions[id]) + 1,
		ContentRef: newContentRef,
		EditedAt:   now,
	})

	e.appendEvent(model.EventArticleEdited, caller, id, now, map[string]interface{}{
		"newContentRef": newContentRef,
		"cost":          e.editCost,
	})

	return nil
}

// RetractArticle marks an article retracted, blocking further edits and
// votes. Retraction is one-way and rejecting: retracting an already
// retracted article fails with ErrAlreadyRetracted.
func (e *Engine) RetractArticle(caller model.Identity, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	a, ok := e.articles[id]
	if !ok {
		return fmt.Errorf("retract article %d: %w", id, ErrInvalidID)
	}
	if err := e.requireAuthor(caller, a); err != nil {
		return err
	}
	if a.Retracted {
		return fmt.Errorf("retract article %d: %w", id, ErrAlreadyRetracted)
	}

	a.Retracted = true

	e.appendEvent(model.EventArticleRetracted, caller, id, e.now(), nil)

	return nil
}

// ArticleOf returns a copy of the article with the given id.
func (e *Engine) ArticleOf(id uint64) (model.Article, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	a, ok := e.articles[id]
	if !ok {
		return model.Article{}, fmt.Errorf("article %d: %w", id, ErrInvalidID)
	}

	out := *a
	out.Tags = append([]string(nil), a.Tags...)

	return out, nil
}

// RevisionsOf returns the full revision log of an article, oldest
// first.
func (e *Engine) RevisionsOf(id uint64) ([]model.Revision, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	revs, ok := e.revisions[id]
	if !ok {
		return nil, fmt.Errorf("article %d: %w", id, ErrInvalidID)
	}

	out := make([]model.Revision, len(revs))
	copy(out, revs)

	return out, nil
}

// RevisionCountOf returns the number of revisions of an article, at
// least 1 once submitted.
func (e *Engine) RevisionCountOf(id uint64) (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	revs, ok := e.revisions[id]
	if !ok {
		return 0, fmt.Errorf("article %d: %w", id, ErrInvalidID)
	}

	return len(revs), nil
}

// ScoreOf returns the running credibility score of an article.
func (e *Engine) ScoreOf(id uint64) (int64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	a, ok := e.articles[id]
	if !ok {
		return 0, fmt.Errorf("article %d: %w", id, ErrInvalidID)
	}

	return a.Score, nil
}

// TagsOf returns the free-form tags attached at submission.
func (e *Engine) TagsOf(id uint64) ([]string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	a, ok := e.articles[id]
	if !ok {
		return nil, fmt.Errorf("article %d: %w", id, ErrInvalidID)
	}

	return append([]string(nil), a.Tags...), nil
}

// ArticleIDs returns all article ids in submission order.
func (e *Engine) ArticleIDs() []uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]uint64, len(e.articleIDs))
	copy(out, e.articleIDs)

	return out
}

// ArticleCount returns the number of successful submissions.
func (e *Engine) ArticleCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return len(e.articleIDs)
}

// Articles returns copies of all articles in submission order.
func (e *Engine) Articles() []model.Article {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]model.Article, 0, len(e.articleIDs))
	for _, id := range e.articleIDs {
		a := *e.articles[id]
		a.Tags = append([]string(nil), e.articles[id].Tags...)
		out = append(out, a)
	}

	return out
}
