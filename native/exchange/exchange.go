// Package exchange implements the top-level coordinator: the pool registry,
// the account ledger, the Running/Paused state machine, owner-only admin
// operations, and the receiver callback that interprets incoming token
// transfers as either a ledger deposit or a direct swap.
package exchange

import (
	"fmt"

	"github.com/snailsfinance/snails-contracts/crypto"
	nativecommon "github.com/snailsfinance/snails-contracts/native/common"
	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/ledger"
	"github.com/snailsfinance/snails-contracts/native/pool"
)

// Exchange is the single top-level coordinator for every pool and every
// account's off-pool deposits.
type Exchange struct {
	owner  crypto.Address
	pools  []*pool.Pool
	ledger *ledger.AccountLedger
	state  State

	continuations map[string]*Continuation
}

// New constructs an Exchange owned by owner, starting in the Running state
// with an empty pool registry and ledger.
func New(owner crypto.Address) *Exchange {
	return &Exchange{
		owner:         owner,
		ledger:        ledger.New(),
		state:         Running,
		continuations: make(map[string]*Continuation),
	}
}

// Owner returns the exchange's administrator address.
func (e *Exchange) Owner() crypto.Address { return e.owner }

// State returns the exchange's current run state.
func (e *Exchange) State() State { return e.state }

// Ledger exposes the account ledger for callers that need direct balance
// queries (e.g. a view API).
func (e *Exchange) Ledger() *ledger.AccountLedger { return e.ledger }

// PoolCount returns the number of pools registered with the exchange.
func (e *Exchange) PoolCount() int { return len(e.pools) }

// GetPool returns the pool registered under poolID, or ErrPoolNotFound.
func (e *Exchange) GetPool(poolID uint64) (*pool.Pool, error) {
	if poolID >= uint64(len(e.pools)) {
		return nil, errkind.ErrPoolNotFound
	}
	return e.pools[poolID], nil
}

// ShareTokenID returns the textual LP-share token id for poolID, per
// spec.md §6.
func ShareTokenID(poolID uint64) string {
	return fmt.Sprintf(":%d", poolID)
}

func (e *Exchange) requireOwner(caller crypto.Address) error {
	if !e.owner.Equal(caller) {
		return errkind.ErrUnauthorized
	}
	return nil
}

func (e *Exchange) requireRunning() error {
	if err := nativecommon.Guard(e, "exchange"); err != nil {
		return errkind.ErrInvalidState
	}
	return nil
}
