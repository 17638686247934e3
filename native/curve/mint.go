package curve

import (
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fees"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
)

// MintResult carries the outcome of ComputeMintAmount: the shares to mint
// and, for an imbalanced deposit into a non-empty pool, the per-coin admin
// fee and the reserve values the pool should adopt after fees are removed.
type MintResult struct {
	Minted          *uint256.Int
	AdminFeePerCoin []*uint256.Int
	ReservesAfter   []*uint256.Int
}

// ComputeMintAmount implements spec.md §4.2's compute_mint_amount.
func ComputeMintAmount(reserves, deposits []*uint256.Int, shareSupply *uint256.Int, amp uint64, f fees.Fees) (*MintResult, error) {
	n := len(reserves)
	if len(deposits) != n {
		return nil, errkind.ErrBadArgument
	}

	if shareSupply.IsZero() {
		d, err := ComputeD(deposits, amp)
		if err != nil {
			return nil, err
		}
		return &MintResult{
			Minted:          d,
			AdminFeePerCoin: zeroVector(n),
			ReservesAfter:   append([]*uint256.Int(nil), deposits...),
		}, nil
	}

	d0, err := ComputeD(reserves, amp)
	if err != nil {
		return nil, err
	}
	if d0.IsZero() {
		return nil, errkind.ErrInvariantViolation
	}

	newReserves := make([]*uint256.Int, n)
	for i := range reserves {
		nr, err := fixedmath.Add(reserves[i], deposits[i])
		if err != nil {
			return nil, err
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
		totalFee, err := fees.Apply(imbalance, feeNum, feeDen)
		if err != nil {
			return nil, err
		}
		admin, _, err := f.SplitTradeFee(totalFee)
		if err != nil {
			return nil, err
		}
		adjusted, err := fixedmath.Sub(newReserves[i], totalFee)
		if err != nil {
			return nil, err
		}
		adminFees[i] = admin
		reservesAfter[i] = adjusted
	}

	d2, err := ComputeD(reservesAfter, amp)
	if err != nil {
		return nil, err
	}
	if d2.Cmp(d0) < 0 {
		return nil, errkind.ErrInvariantViolation
	}

	minted, err := fixedmath.Mul(shareSupply, fixedmath.SubClamped(d2, d0))
	if err != nil {
		return nil, err
	}
	minted, err = fixedmath.Div(minted, d0)
	if err != nil {
		return nil, err
	}

	return &MintResult{
		Minted:          minted,
		AdminFeePerCoin: adminFees,
		ReservesAfter:   reservesAfter,
	}, nil
}

func zeroVector(n int) []*uint256.Int {
	v := make([]*uint256.Int, n)
	for i := range v {
		v[i] = fixedmath.Zero()
	}
	return v
}
