package ledger

import "github.com/truthledger/truthledger/internal/model"

// SetUserProfile upserts the caller's profile, replacing any prior
// fields wholesale. The engine deliberately enforces no bounds on age
// or location; that policy belongs to the calling layer.
func (e *Engine) SetUserProfile(caller model.Identity, age uint64, location, nationality string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.profiles[caller] = model.UserProfile{
		Exists:      true,
		Age:         age,
		Location:    location,
		Nationality: nationality,
	}

	e.appendEvent(model.EventUserUpdated, caller, 0, e.now(), map[string]interface{}{
		"age":         age,
		"location":    location,
		"nationality": nationality,
	})
}

// ProfileOf returns the profile of an identity; Exists is false for
// identities that never set one.
func (e *Engine) ProfileOf(id model.Identity) model.UserProfile {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.profiles[id]
}
