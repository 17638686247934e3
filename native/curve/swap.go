package curve

import (
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fees"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
)

// SwapResult carries the common-precision amounts produced by SwapTo. The
// caller (native/pool) is responsible for converting back to raw token
// units and mutating reserves/admin_fees.
type SwapResult struct {
	NewOutReserve *uint256.Int // c'[i_out] after the swap and before fees are removed
	GrossOut      *uint256.Int
	NetOut        *uint256.Int
	AdminFee      *uint256.Int
	LPFee         *uint256.Int
}

// SwapTo implements spec.md §4.2's swap_to: given common-precision reserves,
// it solves for the output reserve after adding dx to the input side, then
// applies the trade fee split.
func SwapTo(reserves []*uint256.Int, amp uint64, indexIn, indexOut int, dx *uint256.Int, f fees.Fees) (*SwapResult, error) {
	n := len(reserves)
	if indexIn < 0 || indexIn >= n || indexOut < 0 || indexOut >= n || indexIn == indexOut {
		return nil, errkind.ErrBadArgument
	}

	d, err := ComputeD(reserves, amp)
	if err != nil {
		return nil, err
	}

	newReserves := make([]*uint256.Int, n)
	copy(newReserves, reserves)
	newIn, err := fixedmath.Add(reserves[indexIn], dx)
	if err != nil {
		return nil, err
	}
	newReserves[indexIn] = newIn

	y, err := ComputeY(newReserves, indexOut, d, amp)
	if err != nil {
		return nil, err
	}

	// gross = c[i_out] - y - 1, guarding against rounding pushing y above
	// the prior reserve (which would mean no output is owed).
	if y.Cmp(reserves[indexOut]) >= 0 {
		return nil, errkind.ErrInvariantViolation
	}
	diff := fixedmath.SubClamped(reserves[indexOut], y)
	if diff.Cmp(uint256.NewInt(1)) <= 0 {
		return nil, errkind.ErrInvariantViolation
	}
	gross, err := fixedmath.Sub(diff, uint256.NewInt(1))
	if err != nil {
		return nil, err
	}

	fee, err := f.TradeFee(gross)
	if err != nil {
		return nil, err
	}
	net, err := fixedmath.Sub(gross, fee)
	if err != nil {
		return nil, err
	}
	admin, lp, err := f.SplitTradeFee(fee)
	if err != nil {
		return nil, err
	}

	return &SwapResult{
		NewOutReserve: y,
		GrossOut:      gross,
		NetOut:        net,
		AdminFee:      admin,
		LPFee:         lp,
	}, nil
}
