package ledger

import (
	"fmt"
	"math"

	"github.com/truthledger/truthledger/internal/model"
)

// AirdropHash credits amount to target's HASH balance. Owner only.
// Amounts are checked: zero amounts, amounts above the configured cap
// and additions that would wrap the balance are all rejected with no
// effect and no event.
func (e *Engine) AirdropHash(caller, target model.Identity, amount uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if amount == 0 {
		return fmt.Errorf("airdrop amount must be positive: %w", ErrInvalidAmount)
	}
	if e.maxAirdrop > 0 && amount > e.maxAirdrop {
		return fmt.Errorf("airdrop amount %d above cap %d: %w", amount, e.maxAirdrop, ErrInvalidAmount)
	}
	if e.balances[target] > math.MaxUint64-amount {
		return fmt.Errorf("airdrop of %d to %q: %w", amount, target, ErrOverflow)
	}

	e.balances[target] += amount

	e.appendEvent(model.EventHashAirdropped, caller, 0, e.now(), map[string]interface{}{
		"target": string(target),
		"amount": amount,
	})

	return nil
}

// debit takes amount from target's balance. Internal, invoked by paid
// actions under the write lock after all other checks passed.
func (e *Engine) debit(target model.Identity, amount uint64) error {
	if e.balances[target] < amount {
		return fmt.Errorf("balance %d below cost %d: %w", e.balances[target], amount, ErrInsufficientBalance)
	}

	e.balances[target] -= amount

	return nil
}

// BalanceOf returns the HASH balance of an identity, 0 for unseen ones.
func (e *Engine) BalanceOf(id model.Identity) uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.balances[id]
}
