package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/truthledger/truthledger/internal/model"
)

// appendEvent records the primary event of a successful operation.
// Callers hold the write lock; seq numbers are contiguous from 1.
func (e *Engine) appendEvent(typ string, caller model.Identity, articleID uint64, at time.Time, data map[string]interface{}) model.Event {
	ev := model.Event{
		Seq:       uint64(len(e.events)) + 1,
		ID:        uuid.NewString(),
		Type:      typ,
		At:        at,
		Caller:    caller,
		ArticleID: articleID,
		Data:      data,
	}
	e.events = append(e.events, ev)

	return ev
}

// Events returns a copy of the full audit stream in emission order.
func (e *Engine) Events() []model.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]model.Event, len(e.events))
	copy(out, e.events)

	return out
}

// EventsSince returns all events with Seq > seq, in order. Used by
// durable sinks to resume from their high-water mark.
func (e *Engine) EventsSince(seq uint64) []model.Event {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if seq >= uint64(len(e.events)) {
		return nil
	}

	tail := e.events[seq:]
	out := make([]model.Event, len(tail))
	copy(out, tail)

	return out
}
