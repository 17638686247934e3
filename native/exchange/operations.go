package exchange

import (
	"math/big"
	"strconv"
	"time"

	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/crypto"
	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/observability"
)

// RegisterTokens reserves ledger storage for acct's token ids. Gated on
// Running.
func (e *Exchange) RegisterTokens(acct crypto.Address, ids []string) error {
	if err := e.requireRunning(); err != nil {
		return err
	}
	return e.ledger.RegisterTokens(acct, ids)
}

// UnregisterTokens releases ledger storage for acct's token ids. Gated on
// Running.
func (e *Exchange) UnregisterTokens(acct crypto.Address, ids []string) error {
	if err := e.requireRunning(); err != nil {
		return err
	}
	return e.ledger.UnregisterTokens(acct, ids)
}

// WithdrawFromLedger debits acct's ledger balance of token, for the caller
// to then dispatch the matching external-token transfer. Gated on Running.
func (e *Exchange) WithdrawFromLedger(acct crypto.Address, token string, amount *uint256.Int) error {
	if err := e.requireRunning(); err != nil {
		return err
	}
	if err := e.ledger.Withdraw(acct, token, amount); err != nil {
		return err
	}
	observability.Events().RecordWithdrawal(token)
	return nil
}

// creditOrRegister credits amount into acct's ledger balance of token,
// auto-registering the token first if acct has never deposited it before.
// Mirrors ResolveContinuation's compensating-credit path: a pool payout
// must land somewhere even for a recipient who never called
// RegisterTokens for that token id.
func creditOrRegister(e *Exchange, acct crypto.Address, token string, amount *uint256.Int) error {
	entry := e.ledger.Get(acct)
	if entry == nil || !entry.RegisteredTokens[token] {
		if err := e.ledger.RegisterTokens(acct, []string{token}); err != nil {
			return err
		}
	}
	return e.ledger.Credit(acct, token, amount)
}

// creditBack reverses a partial set of ledger debits, identified by index
// into tokenIDs/amounts. Used to undo AddLiquidity's up-front debits
// (Swap credits its single debit back inline) when the pool operation
// itself then fails: a Pool's reserves mutate in
// place and offer no copy-on-write rollback of their own, so the ledger
// side has to unwind explicitly.
func creditBack(e *Exchange, acct crypto.Address, tokenIDs []string, amounts []*uint256.Int, debited []int) {
	for _, i := range debited {
		_ = e.ledger.Credit(acct, tokenIDs[i], amounts[i])
	}
}

// AddLiquidity deposits amounts into poolID on sender's behalf, minting LP
// shares. Gated on Running. Per spec.md §1's atomic deposit->op model, each
// amounts[i] is first debited from sender's ledger balance; insufficient
// balance for any token fails the whole call before the pool is touched.
// If the pool operation itself then fails (e.g. slippage), every debit
// already taken is credited back.
func (e *Exchange) AddLiquidity(now int64, sender crypto.Address, poolID uint64, amounts []*uint256.Int, minShares *uint256.Int) (*uint256.Int, error) {
	if err := e.requireRunning(); err != nil {
		return nil, err
	}
	p, err := e.GetPool(poolID)
	if err != nil {
		return nil, err
	}
	if len(amounts) != p.N() {
		return nil, errkind.ErrBadArgument
	}

	var debited []int
	for i, a := range amounts {
		if a.IsZero() {
			continue
		}
		if err := e.ledger.Consume(sender, p.TokenIDs[i], a); err != nil {
			creditBack(e, sender, p.TokenIDs, amounts, debited)
			return nil, err
		}
		debited = append(debited, i)
	}

	start := time.Now()
	minted, err := p.AddLiquidity(now, sender, amounts, minShares)
	observability.ExchangeMetrics().ObserveOperation("add_liquidity", time.Since(start))
	observability.ExchangeMetrics().RecordLiquidityOp(poolIDLabel(poolID), "add", err)
	if err != nil {
		creditBack(e, sender, p.TokenIDs, amounts, debited)
		return nil, err
	}
	return minted, nil
}

// RemoveLiquidity burns burn shares of poolID, returning a proportional
// per-coin output. Gated on Running. Every output is credited into
// sender's ledger balance, restoring the atomic op->withdraw model.
func (e *Exchange) RemoveLiquidity(sender crypto.Address, poolID uint64, burn *uint256.Int, minOut []*uint256.Int) ([]*uint256.Int, error) {
	if err := e.requireRunning(); err != nil {
		return nil, err
	}
	p, err := e.GetPool(poolID)
	if err != nil {
		return nil, err
	}
	out, err := p.RemoveLiquidity(sender, burn, minOut)
	observability.ExchangeMetrics().RecordLiquidityOp(poolIDLabel(poolID), "remove", err)
	if err != nil {
		return nil, err
	}
	for i, amt := range out {
		if amt.IsZero() {
			continue
		}
		if err := creditOrRegister(e, sender, p.TokenIDs[i], amt); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RemoveLiquidityOneCoin burns burn shares of poolID for a single-coin
// withdrawal. Gated on Running. The payout is credited into sender's
// ledger balance for indexOut's token.
func (e *Exchange) RemoveLiquidityOneCoin(now int64, sender crypto.Address, poolID uint64, burn *uint256.Int, indexOut int, minOut *uint256.Int) (*uint256.Int, error) {
	if err := e.requireRunning(); err != nil {
		return nil, err
	}
	p, err := e.GetPool(poolID)
	if err != nil {
		return nil, err
	}
	before := new(big.Int).SetUint64(0)
	if p.AdminFees[indexOut] != nil {
		before = p.AdminFees[indexOut].ToBig()
	}
	out, err := p.RemoveLiquidityOneCoin(now, sender, burn, indexOut, minOut)
	observability.ExchangeMetrics().RecordLiquidityOp(poolIDLabel(poolID), "remove_one", err)
	if err == nil && p.AdminFees[indexOut] != nil {
		collected := new(big.Int).Sub(p.AdminFees[indexOut].ToBig(), before)
		amountFloat, _ := new(big.Float).SetInt(collected).Float64()
		observability.ExchangeMetrics().RecordAdminFee(poolIDLabel(poolID), strconv.Itoa(indexOut), amountFloat)
	}
	if err != nil {
		return nil, err
	}
	if !out.IsZero() {
		if err := creditOrRegister(e, sender, p.TokenIDs[indexOut], out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RemoveLiquidityImbalance withdraws an exact per-coin amounts vector from
// poolID, burning however many shares that costs. Gated on Running. Each
// requested amount is credited into sender's ledger balance on success.
func (e *Exchange) RemoveLiquidityImbalance(now int64, sender crypto.Address, poolID uint64, amounts []*uint256.Int, maxBurn *uint256.Int) (*uint256.Int, error) {
	if err := e.requireRunning(); err != nil {
		return nil, err
	}
	p, err := e.GetPool(poolID)
	if err != nil {
		return nil, err
	}
	burned, err := p.RemoveLiquidityImbalance(now, sender, amounts, maxBurn)
	observability.ExchangeMetrics().RecordLiquidityOp(poolIDLabel(poolID), "remove_imbalance", err)
	if err != nil {
		return nil, err
	}
	for i, amt := range amounts {
		if amt.IsZero() {
			continue
		}
		if err := creditOrRegister(e, sender, p.TokenIDs[i], amt); err != nil {
			return nil, err
		}
	}
	return burned, nil
}

// Swap trades dx raw units of token indexIn for token indexOut within
// poolID on sender's behalf. Gated on Running. dx is debited from
// sender's ledger balance before the pool is touched, failing the whole
// call if the balance is insufficient; it is credited back if the swap
// itself then fails. The received dy is credited into sender's ledger
// balance for indexOut's token.
func (e *Exchange) Swap(now int64, sender crypto.Address, poolID uint64, indexIn, indexOut int, dx *uint256.Int, minDy *uint256.Int) (*uint256.Int, error) {
	if err := e.requireRunning(); err != nil {
		return nil, err
	}
	p, err := e.GetPool(poolID)
	if err != nil {
		return nil, err
	}
	if indexIn < 0 || indexIn >= p.N() || indexOut < 0 || indexOut >= p.N() {
		return nil, errkind.ErrTokenNotInPool
	}

	if err := e.ledger.Consume(sender, p.TokenIDs[indexIn], dx); err != nil {
		return nil, err
	}

	start := time.Now()
	dy, err := p.Swap(now, indexIn, indexOut, dx, minDy)
	observability.ExchangeMetrics().ObserveOperation("swap", time.Since(start))
	observability.ExchangeMetrics().RecordSwap(poolIDLabel(poolID), err)
	if err != nil {
		_ = e.ledger.Credit(sender, p.TokenIDs[indexIn], dx)
		return nil, err
	}

	if err := creditOrRegister(e, sender, p.TokenIDs[indexOut], dy); err != nil {
		return nil, err
	}
	return dy, nil
}

// TransferShares moves amount of sender's LP shares in poolID to recipient,
// the transfer half of spec.md §4.6's multi-fungible share surface (balance-
// of is Pool.ShareOf). Gated on Running.
func (e *Exchange) TransferShares(sender, recipient crypto.Address, poolID uint64, amount *uint256.Int) error {
	if err := e.requireRunning(); err != nil {
		return err
	}
	p, err := e.GetPool(poolID)
	if err != nil {
		return err
	}
	return p.TransferShares(sender, recipient, amount)
}

func poolIDLabel(poolID uint64) string {
	return strconv.FormatUint(poolID, 10)
}
