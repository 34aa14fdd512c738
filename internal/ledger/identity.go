package ledger

import (
	"fmt"

	"github.com/truthledger/truthledger/internal/model"
)

// requireOwner gates owner-only operations. Evaluated before any state
// mutation.
func (e *Engine) requireOwner(caller model.Identity) error {
	if caller != e.owner {
		return fmt.Errorf("only owner: %w", ErrUnauthorized)
	}

	return nil
}

// requireAuthor gates author-only operations on an article.
func (e *Engine) requireAuthor(caller model.Identity, a *model.Article) error {
	if caller != a.Author {
		return fmt.Errorf("only author of article %d: %w", a.ID, ErrUnauthorized)
	}

	return nil
}
