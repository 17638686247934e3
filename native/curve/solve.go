package curve

import (
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
)

// ComputeY solves for the unknown reserve at `unknownIndex` given the other
// entries of `reserves` (common precision), the target invariant `d`, and
// the amplification coefficient, per spec.md §4.2. reserves[unknownIndex] is
// ignored by the solver.
func ComputeY(reserves []*uint256.Int, unknownIndex int, d *uint256.Int, amp uint64) (*uint256.Int, error) {
	n := len(reserves)
	if unknownIndex < 0 || unknownIndex >= n {
		return nil, errkind.ErrBadArgument
	}

	nUint := uint256.NewInt(uint64(n))
	nn, err := fixedmath.Pow(nUint, uint64(n))
	if err != nil {
		return nil, err
	}
	ann, err := fixedmath.Mul(uint256.NewInt(amp), nn)
	if err != nil {
		return nil, err
	}
	if ann.IsZero() {
		return nil, errkind.ErrBadArgument
	}

	sPrime := fixedmath.Zero()
	cPrime := d // accumulates D^(N+1)/(N^N) progressively, matching invariantDP's order
	for i, c := range reserves {
		if i == unknownIndex {
			continue
		}
		sPrime, err = fixedmath.Add(sPrime, c)
		if err != nil {
			return nil, err
		}
		cPrime, err = fixedmath.Mul(cPrime, d)
		if err != nil {
			return nil, err
		}
		divisor, err := fixedmath.Mul(c, nUint)
		if err != nil {
			return nil, err
		}
		cPrime, err = fixedmath.Div(cPrime, divisor)
		if err != nil {
			return nil, err
		}
	}
	cPrime, err = fixedmath.Mul(cPrime, d)
	if err != nil {
		return nil, err
	}
	annN, err := fixedmath.Mul(ann, nUint)
	if err != nil {
		return nil, err
	}
	cPrime, err = fixedmath.Div(cPrime, annN)
	if err != nil {
		return nil, err
	}

	dOverAnn, err := fixedmath.Div(d, ann)
	if err != nil {
		return nil, err
	}
	b, err := fixedmath.Add(sPrime, dOverAnn)
	if err != nil {
		return nil, err
	}

	bGEd := b.Cmp(d) >= 0
	var bMinusDMag *uint256.Int
	if bGEd {
		bMinusDMag = fixedmath.SubClamped(b, d)
	} else {
		bMinusDMag = fixedmath.SubClamped(d, b)
	}

	y := d
	for i := 0; i < MaxIterations; i++ {
		ySquared, err := fixedmath.Mul(y, y)
		if err != nil {
			return nil, err
		}
		numerator, err := fixedmath.Add(ySquared, cPrime)
		if err != nil {
			return nil, err
		}

		twoY, err := fixedmath.Mul(y, uint256.NewInt(2))
		if err != nil {
			return nil, err
		}
		var denominator *uint256.Int
		if bGEd {
			denominator, err = fixedmath.Add(twoY, bMinusDMag)
			if err != nil {
				return nil, err
			}
		} else {
			if twoY.Cmp(bMinusDMag) < 0 {
				return nil, errkind.ErrMathConverge
			}
			denominator = fixedmath.SubClamped(twoY, bMinusDMag)
		}
		if denominator.IsZero() {
			return nil, errkind.ErrMathConverge
		}

		yNext, err := fixedmath.Div(numerator, denominator)
		if err != nil {
			return nil, err
		}

		if fixedmath.AbsDiff(yNext, y).Cmp(ConvergenceTolerance) <= 0 {
			return yNext, nil
		}
		y = yNext
	}
	return nil, errkind.ErrMathConverge
}
