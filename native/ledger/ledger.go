// Package ledger implements the deposit-and-accounting layer: per-account
// token balances held by the exchange outside of any pool, enabling atomic
// multi-step operations such as deposit followed by add-liquidity.
package ledger

import (
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/crypto"
	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
)

// AccountEntry is the per-user state tracked by the exchange: raw token
// balances held on the user's behalf, the set of tokens for which storage
// has been reserved, and the storage-rent byte count that registration
// consumed.
type AccountEntry struct {
	Deposits         map[string]*uint256.Int
	RegisteredTokens map[string]bool
	StorageBytesUsed uint64
}

func newAccountEntry() *AccountEntry {
	return &AccountEntry{
		Deposits:         make(map[string]*uint256.Int),
		RegisteredTokens: make(map[string]bool),
	}
}

// bytesPerToken is the storage-rent charge assessed per registered token id.
// The exchange itself funds this from the account's registration request;
// the ledger only tracks the running total.
const bytesPerToken = 64

// AccountLedger maps accounts to their AccountEntry, per spec.md §4.5.
type AccountLedger struct {
	accounts map[string]*AccountEntry
}

// New constructs an empty AccountLedger.
func New() *AccountLedger {
	return &AccountLedger{accounts: make(map[string]*AccountEntry)}
}

func acctKey(acct crypto.Address) string { return string(acct.Bytes()) }

func (l *AccountLedger) entry(acct crypto.Address) (*AccountEntry, bool) {
	e, ok := l.accounts[acctKey(acct)]
	return e, ok
}

// Get returns the AccountEntry for acct, or nil if it has never registered
// any tokens.
func (l *AccountLedger) Get(acct crypto.Address) *AccountEntry {
	e, _ := l.entry(acct)
	return e
}

// RegisterTokens inserts ids with a zero balance for acct, creating the
// entry if this is its first registration. Fails with ErrBadArgument if any
// id is already registered (storage is not charged twice for the same id).
func (l *AccountLedger) RegisterTokens(acct crypto.Address, ids []string) error {
	if len(ids) == 0 {
		return errkind.ErrBadArgument
	}
	key := acctKey(acct)
	entry, ok := l.accounts[key]
	if !ok {
		entry = newAccountEntry()
		l.accounts[key] = entry
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if entry.RegisteredTokens[id] || seen[id] {
			return errkind.ErrBadArgument
		}
		seen[id] = true
	}
	for _, id := range ids {
		entry.RegisteredTokens[id] = true
		entry.Deposits[id] = fixedmath.Zero()
		entry.StorageBytesUsed += bytesPerToken
	}
	return nil
}

// UnregisterTokens removes ids from acct's registered set, failing if any
// carries a nonzero deposit.
func (l *AccountLedger) UnregisterTokens(acct crypto.Address, ids []string) error {
	entry, ok := l.entry(acct)
	if !ok {
		return errkind.ErrTokenNotRegistered
	}
	for _, id := range ids {
		if !entry.RegisteredTokens[id] {
			return errkind.ErrTokenNotRegistered
		}
		if bal, ok := entry.Deposits[id]; ok && !bal.IsZero() {
			return errkind.ErrInsufficientBalance
		}
	}
	for _, id := range ids {
		delete(entry.RegisteredTokens, id)
		delete(entry.Deposits, id)
		entry.StorageBytesUsed -= bytesPerToken
	}
	if len(entry.RegisteredTokens) == 0 {
		delete(l.accounts, acctKey(acct))
	}
	return nil
}

// Deposit credits amount to acct's balance of token, failing if token is not
// registered for acct.
func (l *AccountLedger) Deposit(acct crypto.Address, token string, amount *uint256.Int) error {
	entry, ok := l.entry(acct)
	if !ok || !entry.RegisteredTokens[token] {
		return errkind.ErrTokenNotRegistered
	}
	return l.Credit(acct, token, amount)
}

// Withdraw debits amount from acct's balance of token, failing if the
// balance is insufficient. The caller is responsible for dispatching the
// corresponding external-token transfer.
func (l *AccountLedger) Withdraw(acct crypto.Address, token string, amount *uint256.Int) error {
	return l.Consume(acct, token, amount)
}

// Consume debits amount from acct's balance of token. Used both by Withdraw
// and internally by the Exchange when moving funds from the ledger into a
// pool operation.
func (l *AccountLedger) Consume(acct crypto.Address, token string, amount *uint256.Int) error {
	entry, ok := l.entry(acct)
	if !ok || !entry.RegisteredTokens[token] {
		return errkind.ErrTokenNotRegistered
	}
	bal, ok := entry.Deposits[token]
	if !ok || bal.Cmp(amount) < 0 {
		return errkind.ErrInsufficientBalance
	}
	newBal, err := fixedmath.Sub(bal, amount)
	if err != nil {
		return err
	}
	entry.Deposits[token] = newBal
	return nil
}

// Credit increments acct's balance of token. Used both by Deposit and
// internally by the Exchange when moving pool output back into the ledger.
func (l *AccountLedger) Credit(acct crypto.Address, token string, amount *uint256.Int) error {
	entry, ok := l.entry(acct)
	if !ok || !entry.RegisteredTokens[token] {
		return errkind.ErrTokenNotRegistered
	}
	bal, ok := entry.Deposits[token]
	if !ok {
		bal = fixedmath.Zero()
	}
	newBal, err := fixedmath.Add(bal, amount)
	if err != nil {
		return err
	}
	entry.Deposits[token] = newBal
	return nil
}

// BalanceOf returns acct's balance of token, or zero if unregistered.
func (l *AccountLedger) BalanceOf(acct crypto.Address, token string) *uint256.Int {
	entry, ok := l.entry(acct)
	if !ok {
		return fixedmath.Zero()
	}
	bal, ok := entry.Deposits[token]
	if !ok {
		return fixedmath.Zero()
	}
	return bal
}
