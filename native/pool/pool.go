// Package pool implements the per-pool state manager: reserves, LP share
// accounting, accumulated admin fees and volumes, and the fee/ramp schedule,
// delegating all curve math to native/curve.
package pool

import (
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/crypto"
	"github.com/snailsfinance/snails-contracts/native/curve"
	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fees"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
)

// MaxCoins and MinCoins bound the number of tokens a pool may hold, per
// spec.md §3.
const (
	MinCoins = 2
	MaxCoins = 8
)

// Pool is a single stableswap pool: an ordered basket of tokens, their raw
// reserves, accrued admin fees, cumulative volumes, LP share ledger, and fee
// and amplification schedules. The pool's index within the Exchange's
// registry is its identity and is immutable for its lifetime.
type Pool struct {
	ID       uint64
	TokenIDs []string
	Decimals []uint8

	Reserves    []*uint256.Int
	AdminFees   []*uint256.Int
	TotalVolume []*uint256.Int

	ShareSupply *uint256.Int
	Shares      map[string]*uint256.Int

	ActiveFees  fees.Fees
	PendingFees *fees.PendingChange

	Ramp curve.Ramp
}

// New constructs an empty pool over the given token basket. The caller is
// responsible for validating that token_ids are distinct and decimals are
// sane; New only checks the invariants this package owns.
func New(id uint64, tokenIDs []string, decimals []uint8, ramp curve.Ramp, f fees.Fees) (*Pool, error) {
	n := len(tokenIDs)
	if n < MinCoins || n > MaxCoins {
		return nil, errkind.ErrBadArgument
	}
	if len(decimals) != n {
		return nil, errkind.ErrBadArgument
	}
	if err := ramp.Validate(); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	p := &Pool{
		ID:          id,
		TokenIDs:    append([]string(nil), tokenIDs...),
		Decimals:    append([]uint8(nil), decimals...),
		Reserves:    zeroVector(n),
		AdminFees:   zeroVector(n),
		TotalVolume: zeroVector(n),
		ShareSupply: fixedmath.Zero(),
		Shares:      make(map[string]*uint256.Int),
		ActiveFees:  f,
		Ramp:        ramp,
	}
	return p, nil
}

func zeroVector(n int) []*uint256.Int {
	v := make([]*uint256.Int, n)
	for i := range v {
		v[i] = fixedmath.Zero()
	}
	return v
}

func shareKey(acct crypto.Address) string { return string(acct.Bytes()) }

// N returns the number of tokens in the pool.
func (p *Pool) N() int { return len(p.TokenIDs) }

// IndexOf returns the position of tokenID within the pool, or -1.
func (p *Pool) IndexOf(tokenID string) int {
	for i, id := range p.TokenIDs {
		if id == tokenID {
			return i
		}
	}
	return -1
}

// EffectiveFees resolves the active fee schedule at time `now`, promoting a
// pending fee change once its cooldown has elapsed.
func (p *Pool) EffectiveFees(now int64) fees.Fees {
	return fees.Resolve(p.ActiveFees, p.PendingFees, now)
}

// GetAmpFactor returns the effective amplification coefficient at time now.
func (p *Pool) GetAmpFactor(now int64) uint64 {
	return p.Ramp.AmpAt(now)
}

// commonReserves scales the raw reserve vector up to 18-decimal common
// precision for use by native/curve.
func (p *Pool) commonReserves() ([]*uint256.Int, error) {
	out := make([]*uint256.Int, p.N())
	for i, r := range p.Reserves {
		c, err := fixedmath.ToCommon(r, p.Decimals[i])
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

// ShareOf returns the LP share balance of acct, or zero if it holds none.
func (p *Pool) ShareOf(acct crypto.Address) *uint256.Int {
	if v, ok := p.Shares[shareKey(acct)]; ok {
		return v
	}
	return fixedmath.Zero()
}

// TransferShares moves amount of from's LP shares to to, per spec.md
// §4.6's "multi-fungible" share surface: a pool's shares are a balance-of
// plus transfer pair, the same shape as any other token this exchange
// moves. share_supply is untouched; only the two balances change.
func (p *Pool) TransferShares(from, to crypto.Address, amount *uint256.Int) error {
	if amount.IsZero() || from.Equal(to) {
		return errkind.ErrBadArgument
	}
	fromKey := shareKey(from)
	balance, ok := p.Shares[fromKey]
	if !ok || balance.Cmp(amount) < 0 {
		return errkind.ErrInsufficientBalance
	}

	remaining, err := fixedmath.Sub(balance, amount)
	if err != nil {
		return err
	}
	toKey := shareKey(to)
	existing, ok := p.Shares[toKey]
	if !ok {
		existing = fixedmath.Zero()
	}
	credited, err := fixedmath.Add(existing, amount)
	if err != nil {
		return err
	}

	if remaining.IsZero() {
		delete(p.Shares, fromKey)
	} else {
		p.Shares[fromKey] = remaining
	}
	p.Shares[toKey] = credited
	return nil
}

// GetVirtualPrice returns D*10^18/share_supply, the common-precision value
// of a single LP share. Returns zero for an empty pool.
func (p *Pool) GetVirtualPrice(now int64) (*uint256.Int, error) {
	if p.ShareSupply.IsZero() {
		return fixedmath.Zero(), nil
	}
	reserves, err := p.commonReserves()
	if err != nil {
		return nil, err
	}
	d, err := curve.ComputeD(reserves, p.GetAmpFactor(now))
	if err != nil {
		return nil, err
	}
	scale, err := fixedmath.Pow(uint256.NewInt(10), fixedmath.CommonDecimals)
	if err != nil {
		return nil, err
	}
	num, err := fixedmath.Mul(d, scale)
	if err != nil {
		return nil, err
	}
	return fixedmath.Div(num, p.ShareSupply)
}
