package exchange

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/crypto"
	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
	"github.com/snailsfinance/snails-contracts/observability"
)

// directSwapMsg is the JSON shape a direct-swap receiver callback message
// must carry, per spec.md §6.
type directSwapMsg struct {
	PoolID       uint64 `json:"pool_id"`
	TokenOut     string `json:"token_out"`
	MinAmountOut string `json:"min_amount_out"`
}

// Continuation is an opaque record identifying an outbound transfer this
// exchange has instructed but not yet had confirmed, per spec.md §9. The
// host's promise/callback plumbing carries the continuation id; the core
// must reconcile purely from the continuation's own fields, never from
// assumptions about intervening state.
type Continuation struct {
	PoolID        uint64
	Account       crypto.Address
	Token         string
	Amount        *uint256.Int
	OperationKind string
}

// OnTokenTransfer implements spec.md §4.6 and §6's receiver callback. An
// empty msg credits the sender's ledger deposit; a non-empty msg is parsed
// as a direct-swap instruction and settled against a pool without touching
// the ledger. It returns the amount the caller should refund to sender (zero
// means the whole amount was consumed) and, for a successful direct swap,
// the id of the Continuation tracking the pending outbound transfer of the
// swap's output.
func (e *Exchange) OnTokenTransfer(now int64, sender crypto.Address, tokenID string, amount *uint256.Int, msg string) (unused *uint256.Int, continuationID string, err error) {
	if err := e.requireRunning(); err != nil {
		observability.Events().RecordRefund("paused")
		return amount, "", nil
	}

	if strings.TrimSpace(msg) == "" {
		if err := e.ledger.Deposit(sender, tokenID, amount); err != nil {
			observability.Events().RecordRefund("deposit_failed")
			return amount, "", nil
		}
		observability.Events().RecordDeposit(tokenID)
		return fixedmath.Zero(), "", nil
	}

	var parsed directSwapMsg
	if err := json.Unmarshal([]byte(msg), &parsed); err != nil {
		observability.Events().RecordRefund("bad_message")
		return amount, "", nil
	}
	p, err := e.GetPool(parsed.PoolID)
	if err != nil {
		observability.Events().RecordRefund("pool_not_found")
		return amount, "", nil
	}
	indexIn := p.IndexOf(tokenID)
	indexOut := p.IndexOf(parsed.TokenOut)
	if indexIn < 0 || indexOut < 0 {
		observability.Events().RecordRefund("token_not_in_pool")
		return amount, "", nil
	}
	minOut, err := parseUint256(parsed.MinAmountOut)
	if err != nil {
		observability.Events().RecordRefund("bad_message")
		return amount, "", nil
	}

	dy, err := p.Swap(now, indexIn, indexOut, amount, minOut)
	observability.ExchangeMetrics().RecordSwap(poolIDLabel(parsed.PoolID), err)
	if err != nil {
		observability.Events().RecordRefund("slippage")
		return amount, "", nil
	}

	id := uuid.New().String()
	e.continuations[id] = &Continuation{
		PoolID:        parsed.PoolID,
		Account:       sender,
		Token:         parsed.TokenOut,
		Amount:        dy,
		OperationKind: "swap_out",
	}
	return fixedmath.Zero(), id, nil
}

// ResolveContinuation settles an outbound transfer the exchange previously
// instructed. success=true discards the continuation with no further
// effect; success=false restores the affected account with a compensating
// ledger credit, per spec.md §5.
func (e *Exchange) ResolveContinuation(id string, success bool) error {
	c, ok := e.continuations[id]
	if !ok {
		return errkind.ErrBadArgument
	}
	delete(e.continuations, id)
	if success {
		return nil
	}

	entry := e.ledger.Get(c.Account)
	if entry == nil || !entry.RegisteredTokens[c.Token] {
		if err := e.ledger.RegisterTokens(c.Account, []string{c.Token}); err != nil {
			return err
		}
	}
	if err := e.ledger.Credit(c.Account, c.Token, c.Amount); err != nil {
		return err
	}
	observability.Events().RecordRefund("continuation_failed")
	return nil
}

func parseUint256(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fixedmath.Zero(), nil
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, errkind.ErrBadArgument
	}
	return v, nil
}
