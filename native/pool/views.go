package pool

import (
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/native/curve"
	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
)

// TryAddLiquidity reports the shares add_liquidity would mint, without
// mutating pool state. Used by callers previewing a deposit.
func (p *Pool) TryAddLiquidity(now int64, amounts []*uint256.Int) (*uint256.Int, error) {
	n := p.N()
	if len(amounts) != n {
		return nil, errkind.ErrBadArgument
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
	return res.Minted, nil
}

// TrySwap reports the net output swap would produce, without mutating pool
// state.
func (p *Pool) TrySwap(now int64, indexIn, indexOut int, dx *uint256.Int) (*uint256.Int, error) {
	n := p.N()
	if indexIn < 0 || indexIn >= n || indexOut < 0 || indexOut >= n || indexIn == indexOut {
		return nil, errkind.ErrTokenNotInPool
	}
	reserves, err := p.commonReserves()
	if err != nil {
		return nil, err
	}
	dxCommon, err := fixedmath.ToCommon(dx, p.Decimals[indexIn])
	if err != nil {
		return nil, err
	}
	res, err := curve.SwapTo(reserves, p.GetAmpFactor(now), indexIn, indexOut, dxCommon, p.EffectiveFees(now))
	if err != nil {
		return nil, err
	}
	return fixedmath.ToRaw(res.NetOut, p.Decimals[indexOut])
}

// TryRemoveLiquidity reports the proportional per-coin output
// remove_liquidity would produce for burning `burn` shares, without mutating
// pool state.
func (p *Pool) TryRemoveLiquidity(burn *uint256.Int) ([]*uint256.Int, error) {
	if p.ShareSupply.IsZero() {
		return nil, errkind.ErrBadArgument
	}
	out := make([]*uint256.Int, p.N())
	for i, r := range p.Reserves {
		numer, err := fixedmath.Mul(r, burn)
		if err != nil {
			return nil, err
		}
		o, err := fixedmath.Div(numer, p.ShareSupply)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

// TryRemoveLiquidityOneCoin reports the single-coin output
// remove_liquidity_one_coin would produce, without mutating pool state.
func (p *Pool) TryRemoveLiquidityOneCoin(now int64, burn *uint256.Int, indexOut int) (*uint256.Int, error) {
	if indexOut < 0 || indexOut >= p.N() {
		return nil, errkind.ErrTokenNotInPool
	}
	reserves, err := p.commonReserves()
	if err != nil {
		return nil, err
	}
	res, err := curve.ComputeWithdrawOne(reserves, p.ShareSupply, burn, indexOut, p.GetAmpFactor(now), p.EffectiveFees(now))
	if err != nil {
		return nil, err
	}
	return fixedmath.ToRaw(res.Out, p.Decimals[indexOut])
}

// TryRemoveLiquidityImbalance reports the number of shares
// remove_liquidity_imbalance would burn to deliver the requested per-coin
// amounts vector, without mutating pool state.
func (p *Pool) TryRemoveLiquidityImbalance(now int64, amounts []*uint256.Int) (*uint256.Int, error) {
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
	return res.BurnShares, nil
}
