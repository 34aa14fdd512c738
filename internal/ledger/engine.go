package ledger

import (
	"sync"
	"time"

	"github.com/truthledger/truthledger/internal/model"
)

// DefaultEditCost is the HASH amount debited for every successful
// article edit.
const DefaultEditCost uint64 = 10

type voteKey struct {
	articleID uint64
	voter     model.Identity
}

// Params configures a new Engine. Zero values fall back to defaults;
// Owner is required.
type Params struct {
	// Owner is the single privileged identity allowed to airdrop HASH.
	Owner model.Identity
	// EditCost is the HASH price of one edit. 0 means DefaultEditCost.
	EditCost uint64
	// MaxAirdrop caps a single airdrop amount. 0 means no cap.
	MaxAirdrop uint64
}

// Engine owns all ledger tables. No ambient state: multiple isolated
// instances can coexist, which the tests rely on.
type Engine struct {
	mu sync.RWMutex

	owner      model.Identity
	editCost   uint64
	maxAirdrop uint64
	now        func() time.Time

	articles   map[uint64]*model.Article
	articleIDs []uint64
	revisions  map[uint64][]model.Revision
	votes      map[voteKey]*model.Vote
	voteCounts map[uint64]uint64
	profiles   map[model.Identity]model.UserProfile
	balances   map[model.Identity]uint64
	nextID     uint64
	events     []model.Event
}

// New creates an empty engine with article ids starting at 1.
func New(p Params) *Engine {
	cost := p.EditCost
	if cost == 0 {
		cost = DefaultEditCost
	}

	return &Engine{
		owner:      p.Owner,
		editCost:   cost,
		maxAirdrop: p.MaxAirdrop,
		now:        time.Now,
		articles:   make(map[uint64]*model.Article),
		revisions:  make(map[uint64][]model.Revision),
		votes:      make(map[voteKey]*model.Vote),
		voteCounts: make(map[uint64]uint64),
		profiles:   make(map[model.Identity]model.UserProfile),
		balances:   make(map[model.Identity]uint64),
		nextID:     1,
	}
}

// Owner returns the privileged identity the engine was created with.
func (e *Engine) Owner() model.Identity {
	return e.owner
}

// EditCost returns the HASH price of one article edit.
func (e *Engine) EditCost() uint64 {
	return e.editCost
}
