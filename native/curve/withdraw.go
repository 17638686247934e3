package curve

import (
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fees"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
)

// WithdrawOneResult carries the outcome of ComputeWithdrawOne. Only
// indexOut's balance ever actually moves during a single-coin withdrawal;
// AdminFee and ReserveAfter describe that one coin.
type WithdrawOneResult struct {
	Out          *uint256.Int
	AdminFee     *uint256.Int
	ReserveAfter *uint256.Int
}

// ComputeWithdrawOne implements spec.md §4.2's compute_withdraw_one: it
// reduces the invariant proportionally to the burned share fraction and
// solves for the resulting single-coin reserve. The Newton solve charges a
// notional imbalance fee against every coin's ideal-proportional balance to
// arrive at the correct post-withdrawal value for indexOut — mirroring how
// the reference implementation still models the other coins at their ideal
// balance purely to size that fee — but no coin other than indexOut ever
// has tokens leave custody, so only indexOut's delta is reported.
func ComputeWithdrawOne(reserves []*uint256.Int, shareSupply, burnShares *uint256.Int, indexOut int, amp uint64, f fees.Fees) (*WithdrawOneResult, error) {
	n := len(reserves)
	if indexOut < 0 || indexOut >= n {
		return nil, errkind.ErrBadArgument
	}
	if shareSupply.IsZero() || burnShares.IsZero() || burnShares.Cmp(shareSupply) > 0 {
		return nil, errkind.ErrBadArgument
	}

	d0, err := ComputeD(reserves, amp)
	if err != nil {
		return nil, err
	}

	reduction, err := fixedmath.Mul(burnShares, d0)
	if err != nil {
		return nil, err
	}
	reduction, err = fixedmath.Div(reduction, shareSupply)
	if err != nil {
		return nil, err
	}
	d1 := fixedmath.SubClamped(d0, reduction)

	newY, err := ComputeY(reserves, indexOut, d1, amp)
	if err != nil {
		return nil, err
	}

	feeNum, feeDen := f.ImbalanceFeeNumDen(n)
	dxExpected := make([]*uint256.Int, n)
	for j, c := range reserves {
		ideal, err := fixedmath.Mul(c, d1)
		if err != nil {
			return nil, err
		}
		ideal, err = fixedmath.Div(ideal, d0)
		if err != nil {
			return nil, err
		}
		if j == indexOut {
			dxExpected[j] = fixedmath.SubClamped(ideal, newY)
		} else {
			dxExpected[j] = fixedmath.SubClamped(c, ideal)
		}
	}

	reducedReserves := make([]*uint256.Int, n)
	var adminFeeOut *uint256.Int
	for j, c := range reserves {
		feeAmt, err := fees.Apply(dxExpected[j], feeNum, feeDen)
		if err != nil {
			return nil, err
		}
		admin, _, err := f.SplitWithdrawFee(feeAmt)
		if err != nil {
			return nil, err
		}
		reducedReserves[j] = fixedmath.SubClamped(c, feeAmt)
		if j == indexOut {
			adminFeeOut = admin
		}
	}

	finalY, err := ComputeY(reducedReserves, indexOut, d1, amp)
	if err != nil {
		return nil, err
	}
	diff := fixedmath.SubClamped(reducedReserves[indexOut], finalY)
	if diff.Cmp(uint256.NewInt(1)) <= 0 {
		return nil, errkind.ErrInvariantViolation
	}
	out, err := fixedmath.Sub(diff, uint256.NewInt(1))
	if err != nil {
		return nil, err
	}

	return &WithdrawOneResult{
		Out:          out,
		AdminFee:     adminFeeOut,
		ReserveAfter: finalY,
	}, nil
}

// ImbalancedWithdrawResult carries the outcome of
// ComputeImbalancedWithdraw.
type ImbalancedWithdrawResult struct {
	BurnShares      *uint256.Int
	AdminFeePerCoin []*uint256.Int
	ReservesAfter   []*uint256.Int
}

// ComputeImbalancedWithdraw implements spec.md §4.2's
// compute_imbalanced_withdraw: the caller requests an arbitrary per-coin
// amounts vector; the curve charges an imbalance fee on the deviation from
// the proportional target and returns the number of shares that must be
// burned to cover the withdrawal plus fees.
func ComputeImbalancedWithdraw(reserves []*uint256.Int, shareSupply *uint256.Int, requested []*uint256.Int, amp uint64, f fees.Fees) (*ImbalancedWithdrawResult, error) {
	n := len(reserves)
	if len(requested) != n {
		return nil, errkind.ErrBadArgument
	}

	d0, err := ComputeD(reserves, amp)
	if err != nil {
		return nil, err
	}

	newReserves := make([]*uint256.Int, n)
	for i := range reserves {
		nr, err := fixedmath.Sub(reserves[i], requested[i])
		if err != nil {
			return nil, errkind.ErrInsufficientBalance
		}
		newReserves[i] = nr
	}

	d1, err := ComputeD(newReserves, amp)
	if err != nil {
		return nil, err
	}

	feeNum, feeDen := f.ImbalanceFeeNumDen(n)
	adminFees := make([]*uint256.Int, n)
	reservesAfter := make([]*uint256.Int, n)
	for i := range newReserves {
		ideal, err := fixedmath.Mul(reserves[i], d1)
		if err != nil {
			return nil, err
		}
		ideal, err = fixedmath.Div(ideal, d0)
		if err != nil {
			return nil, err
		}
		imbalance := fixedmath.AbsDiff(newReserves[i], ideal)
		feeAmt, err := fees.Apply(imbalance, feeNum, feeDen)
		if err != nil {
			return nil, err
		}
		admin, _, err := f.SplitWithdrawFee(feeAmt)
		if err != nil {
			return nil, err
		}
		reservesAfter[i] = fixedmath.SubClamped(newReserves[i], feeAmt)
		adminFees[i] = admin
	}

	d2, err := ComputeD(reservesAfter, amp)
	if err != nil {
		return nil, err
	}
	if d2.Cmp(d0) > 0 {
		return nil, errkind.ErrInvariantViolation
	}

	burn, err := fixedmath.Mul(shareSupply, fixedmath.SubClamped(d0, d2))
	if err != nil {
		return nil, err
	}
	burn, err = fixedmath.Div(burn, d0)
	if err != nil {
		return nil, err
	}
	burn, err = fixedmath.Add(burn, uint256.NewInt(1))
	if err != nil {
		return nil, err
	}

	return &ImbalancedWithdrawResult{
		BurnShares:      burn,
		AdminFeePerCoin: adminFees,
		ReservesAfter:   reservesAfter,
	}, nil
}
