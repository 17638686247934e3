package pool

import (
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/native/curve"
	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
)

// Swap implements spec.md §4.3's swap: trades dx raw units of token indexIn
// for token indexOut, failing if the net output is below minDy. Reserves,
// admin fees and the cumulative volume counter are all updated in place.
func (p *Pool) Swap(now int64, indexIn, indexOut int, dx *uint256.Int, minDy *uint256.Int) (*uint256.Int, error) {
	n := p.N()
	if indexIn < 0 || indexIn >= n || indexOut < 0 || indexOut >= n {
		return nil, errkind.ErrTokenNotInPool
	}
	if indexIn == indexOut || dx.IsZero() {
		return nil, errkind.ErrBadArgument
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

	netOutRaw, err := fixedmath.ToRaw(res.NetOut, p.Decimals[indexOut])
	if err != nil {
		return nil, err
	}
	if netOutRaw.Cmp(minDy) < 0 {
		return nil, errkind.ErrSlippageExceeded
	}
	adminFeeRaw, err := fixedmath.ToRaw(res.AdminFee, p.Decimals[indexOut])
	if err != nil {
		return nil, err
	}

	newIn, err := fixedmath.Add(p.Reserves[indexIn], dx)
	if err != nil {
		return nil, err
	}
	p.Reserves[indexIn] = newIn

	outflow, err := fixedmath.Add(netOutRaw, adminFeeRaw)
	if err != nil {
		return nil, err
	}
	p.Reserves[indexOut] = fixedmath.SubClamped(p.Reserves[indexOut], outflow)

	newAdminFee, err := fixedmath.Add(p.AdminFees[indexOut], adminFeeRaw)
	if err != nil {
		return nil, err
	}
	p.AdminFees[indexOut] = newAdminFee

	newVolume, err := fixedmath.Add(p.TotalVolume[indexIn], dxCommon)
	if err != nil {
		return nil, err
	}
	p.TotalVolume[indexIn] = newVolume

	return netOutRaw, nil
}
