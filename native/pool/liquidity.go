package pool

import (
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/crypto"
	"github.com/snailsfinance/snails-contracts/native/curve"
	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
)

// AddLiquidity implements spec.md §4.3's add_liquidity: deposits `amounts[i]`
// raw units of each token, mints LP shares to sender, and routes any
// imbalance-fee admin portion to AdminFees.
func (p *Pool) AddLiquidity(now int64, sender crypto.Address, amounts []*uint256.Int, minShares *uint256.Int) (*uint256.Int, error) {
	n := p.N()
	if len(amounts) != n {
		return nil, errkind.ErrBadArgument
	}
	anyPositive := false
	for _, a := range amounts {
		if !a.IsZero() {
			anyPositive = true
		}
	}
	if !anyPositive {
		return nil, errkind.ErrBadArgument
	}
	if p.ShareSupply.IsZero() {
		for _, a := range amounts {
			if a.IsZero() {
				return nil, errkind.ErrBadArgument
			}
		}
	}

	reserves, err := p.commonReserves()
	if err != nil {
		return nil, err
	}
	deposits := make([]*uint256.Int, n)
	for i, a := range amounts {
		c, err := fixedmath.ToCommon(a, p.Decimals[i])
		if err != nil {
			return nil, err
		}
		deposits[i] = c
	}

	res, err := curve.ComputeMintAmount(reserves, deposits, p.ShareSupply, p.GetAmpFactor(now), p.EffectiveFees(now))
	if err != nil {
		return nil, err
	}
	if res.Minted.Cmp(minShares) < 0 {
		return nil, errkind.ErrSlippageExceeded
	}

	for i, a := range amounts {
		newReserve, err := fixedmath.Add(p.Reserves[i], a)
		if err != nil {
			return nil, err
		}
		p.Reserves[i] = newReserve

		if !res.AdminFeePerCoin[i].IsZero() {
			adminRaw, err := fixedmath.ToRaw(res.AdminFeePerCoin[i], p.Decimals[i])
			if err != nil {
				return nil, err
			}
			p.Reserves[i] = fixedmath.SubClamped(p.Reserves[i], adminRaw)
			newAdminFee, err := fixedmath.Add(p.AdminFees[i], adminRaw)
			if err != nil {
				return nil, err
			}
			p.AdminFees[i] = newAdminFee
		}
	}

	key := shareKey(sender)
	existing, ok := p.Shares[key]
	if !ok {
		existing = fixedmath.Zero()
	}
	newShares, err := fixedmath.Add(existing, res.Minted)
	if err != nil {
		return nil, err
	}
	p.Shares[key] = newShares

	newSupply, err := fixedmath.Add(p.ShareSupply, res.Minted)
	if err != nil {
		return nil, err
	}
	p.ShareSupply = newSupply

	return res.Minted, nil
}

// RemoveLiquidity implements spec.md §4.3's remove_liquidity: a proportional,
// fee-free withdrawal of `burn` shares.
func (p *Pool) RemoveLiquidity(sender crypto.Address, burn *uint256.Int, minOut []*uint256.Int) ([]*uint256.Int, error) {
	n := p.N()
	if len(minOut) != n {
		return nil, errkind.ErrBadArgument
	}
	if burn.IsZero() || p.ShareSupply.IsZero() {
		return nil, errkind.ErrBadArgument
	}
	key := shareKey(sender)
	balance, ok := p.Shares[key]
	if !ok || balance.Cmp(burn) < 0 {
		return nil, errkind.ErrInsufficientBalance
	}

	out := make([]*uint256.Int, n)
	for i, r := range p.Reserves {
		numer, err := fixedmath.Mul(r, burn)
		if err != nil {
			return nil, err
		}
		o, err := fixedmath.Div(numer, p.ShareSupply)
		if err != nil {
			return nil, err
		}
		if o.Cmp(minOut[i]) < 0 {
			return nil, errkind.ErrSlippageExceeded
		}
		out[i] = o
	}

	for i, o := range out {
		p.Reserves[i] = fixedmath.SubClamped(p.Reserves[i], o)
	}
	remaining, err := fixedmath.Sub(balance, burn)
	if err != nil {
		return nil, err
	}
	if remaining.IsZero() {
		delete(p.Shares, key)
	} else {
		p.Shares[key] = remaining
	}
	newSupply, err := fixedmath.Sub(p.ShareSupply, burn)
	if err != nil {
		return nil, err
	}
	p.ShareSupply = newSupply

	return out, nil
}

// RemoveLiquidityOneCoin implements spec.md §4.3's
// remove_liquidity_one_coin: burns shares for a single-coin withdrawal,
// charging the imbalance fee native/curve computes.
func (p *Pool) RemoveLiquidityOneCoin(now int64, sender crypto.Address, burn *uint256.Int, indexOut int, minOut *uint256.Int) (*uint256.Int, error) {
	if indexOut < 0 || indexOut >= p.N() {
		return nil, errkind.ErrTokenNotInPool
	}
	if burn.IsZero() {
		return nil, errkind.ErrBadArgument
	}
	key := shareKey(sender)
	balance, ok := p.Shares[key]
	if !ok || balance.Cmp(burn) < 0 {
		return nil, errkind.ErrInsufficientBalance
	}

	reserves, err := p.commonReserves()
	if err != nil {
		return nil, err
	}
	res, err := curve.ComputeWithdrawOne(reserves, p.ShareSupply, burn, indexOut, p.GetAmpFactor(now), p.EffectiveFees(now))
	if err != nil {
		return nil, err
	}

	outRaw, err := fixedmath.ToRaw(res.Out, p.Decimals[indexOut])
	if err != nil {
		return nil, err
	}
	if outRaw.Cmp(minOut) < 0 {
		return nil, errkind.ErrSlippageExceeded
	}

	raw, err := fixedmath.ToRaw(res.ReserveAfter, p.Decimals[indexOut])
	if err != nil {
		return nil, err
	}
	p.Reserves[indexOut] = raw
	if !res.AdminFee.IsZero() {
		adminRaw, err := fixedmath.ToRaw(res.AdminFee, p.Decimals[indexOut])
		if err != nil {
			return nil, err
		}
		newAdminFee, err := fixedmath.Add(p.AdminFees[indexOut], adminRaw)
		if err != nil {
			return nil, err
		}
		p.AdminFees[indexOut] = newAdminFee
	}

	remaining, err := fixedmath.Sub(balance, burn)
	if err != nil {
		return nil, err
	}
	if remaining.IsZero() {
		delete(p.Shares, key)
	} else {
		p.Shares[key] = remaining
	}
	newSupply, err := fixedmath.Sub(p.ShareSupply, burn)
	if err != nil {
		return nil, err
	}
	p.ShareSupply = newSupply

	return outRaw, nil
}

// RemoveLiquidityImbalance implements spec.md §4.3's
// remove_liquidity_imbalance: the caller requests an exact per-coin amounts
// vector and the pool burns however many shares that costs, failing if it
// exceeds max_burn.
func (p *Pool) RemoveLiquidityImbalance(now int64, sender crypto.Address, amounts []*uint256.Int, maxBurn *uint256.Int) (*uint256.Int, error) {
	n := p.N()
	if len(amounts) != n {
		return nil, errkind.ErrBadArgument
	}

	reserves, err := p.commonReserves()
	if err != nil {
		return nil, err
	}
	requested := make([]*uint256.Int, n)
	for i, a := range amounts {
		c, err := fixedmath.ToCommon(a, p.Decimals[i])
		if err != nil {
			return nil, err
		}
		requested[i] = c
	}

	res, err := curve.ComputeImbalancedWithdraw(reserves, p.ShareSupply, requested, p.GetAmpFactor(now), p.EffectiveFees(now))
	if err != nil {
		return nil, err
	}
	if res.BurnShares.Cmp(maxBurn) > 0 {
		return nil, errkind.ErrSlippageExceeded
	}

	key := shareKey(sender)
	balance, ok := p.Shares[key]
	if !ok || balance.Cmp(res.BurnShares) < 0 {
		return nil, errkind.ErrInsufficientBalance
	}

	for i, c := range res.ReservesAfter {
		raw, err := fixedmath.ToRaw(c, p.Decimals[i])
		if err != nil {
			return nil, err
		}
		p.Reserves[i] = raw
		if !res.AdminFeePerCoin[i].IsZero() {
			adminRaw, err := fixedmath.ToRaw(res.AdminFeePerCoin[i], p.Decimals[i])
			if err != nil {
				return nil, err
			}
			newAdminFee, err := fixedmath.Add(p.AdminFees[i], adminRaw)
			if err != nil {
				return nil, err
			}
			p.AdminFees[i] = newAdminFee
		}
	}

	remaining, err := fixedmath.Sub(balance, res.BurnShares)
	if err != nil {
		return nil, err
	}
	if remaining.IsZero() {
		delete(p.Shares, key)
	} else {
		p.Shares[key] = remaining
	}
	newSupply, err := fixedmath.Sub(p.ShareSupply, res.BurnShares)
	if err != nil {
		return nil, err
	}
	p.ShareSupply = newSupply

	return res.BurnShares, nil
}
