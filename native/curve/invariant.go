package curve

import (
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
)

// MaxIterations bounds the Newton iteration used by compute_d and compute_y,
// per spec.md §4.2.
const MaxIterations = 256

// ConvergenceTolerance is the maximum allowed |delta| between successive
// Newton iterates before the solver is considered converged.
var ConvergenceTolerance = uint256.NewInt(1)

// ComputeD computes the stableswap invariant D for the supplied
// common-precision reserve vector and amplification coefficient, by Newton
// iteration seeded at D = sum(reserves). Returns zero if any reserve is
// zero, per spec.md §4.2.
func ComputeD(reserves []*uint256.Int, amp uint64) (*uint256.Int, error) {
	n := len(reserves)
	if n < 2 {
		return nil, errkind.ErrBadArgument
	}

	sum := fixedmath.Zero()
	for _, c := range reserves {
		if c.IsZero() {
			return fixedmath.Zero(), nil
		}
		var err error
		sum, err = fixedmath.Add(sum, c)
		if err != nil {
			return nil, err
		}
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

	d := sum
	for i := 0; i < MaxIterations; i++ {
		dp, err := invariantDP(d, reserves, nUint)
		if err != nil {
			return nil, err
		}

		// numerator = (Ann*S + N*D_P) * D
		annS, err := fixedmath.Mul(ann, sum)
		if err != nil {
			return nil, err
		}
		nDP, err := fixedmath.Mul(uint256.NewInt(uint64(n)), dp)
		if err != nil {
			return nil, err
		}
		numInner, err := fixedmath.Add(annS, nDP)
		if err != nil {
			return nil, err
		}
		numerator, err := fixedmath.Mul(numInner, d)
		if err != nil {
			return nil, err
		}

		// denominator = (Ann-1)*D + (N+1)*D_P
		annMinus1, err := fixedmath.Sub(ann, uint256.NewInt(1))
		if err != nil {
			return nil, err
		}
		term1, err := fixedmath.Mul(annMinus1, d)
		if err != nil {
			return nil, err
		}
		term2, err := fixedmath.Mul(uint256.NewInt(uint64(n+1)), dp)
		if err != nil {
			return nil, err
		}
		denominator, err := fixedmath.Add(term1, term2)
		if err != nil {
			return nil, err
		}
		if denominator.IsZero() {
			return nil, errkind.ErrMathConverge
		}

		dNext, err := fixedmath.Div(numerator, denominator)
		if err != nil {
			return nil, err
		}

		if fixedmath.AbsDiff(dNext, d).Cmp(ConvergenceTolerance) <= 0 {
			return dNext, nil
		}
		d = dNext
	}
	return nil, errkind.ErrMathConverge
}

// invariantDP computes D_p = D^(N+1) / (N^N * product(reserves)), dividing
// by (x[i]*N) after each multiplication rather than by the full product at
// the end. This mirrors the reference stableswap implementation's order of
// operations and keeps intermediate magnitudes small.
func invariantDP(d *uint256.Int, reserves []*uint256.Int, nUint *uint256.Int) (*uint256.Int, error) {
	dp := d
	var err error
	for _, x := range reserves {
		dp, err = fixedmath.Mul(dp, d)
		if err != nil {
			return nil, err
		}
		divisor, err := fixedmath.Mul(x, nUint)
		if err != nil {
			return nil, err
		}
		dp, err = fixedmath.Div(dp, divisor)
		if err != nil {
			return nil, err
		}
	}
	return dp, nil
}
