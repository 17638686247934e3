// Package fixedmath provides checked 256-bit unsigned integer arithmetic for
// the stableswap curve. Products of the form D^(N+1) overflow 128 bits for
// realistic reserves, so every intermediate of the curve math is carried in
// github.com/holiman/uint256's 256-bit representation.
package fixedmath

import (
	"errors"

	"github.com/holiman/uint256"
)

// ErrOverflow is returned by every checked operation that would wrap around
// the 256-bit space.
var ErrOverflow = errors.New("fixedmath: overflow")

// ErrDivideByZero is returned by Div when the divisor is zero.
var ErrDivideByZero = errors.New("fixedmath: divide by zero")

// CommonDecimals is the number of decimals all curve math is performed in.
const CommonDecimals = 18

// Zero returns a fresh zero-valued Int. Helper to avoid repeating
// uint256.NewInt(0) at call sites.
func Zero() *uint256.Int { return new(uint256.Int) }

// FromUint64 wraps a uint64 as a 256-bit integer.
func FromUint64(v uint64) *uint256.Int { return uint256.NewInt(v) }

// Add returns x+y, failing with ErrOverflow if the sum does not fit in 256
// bits.
func Add(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).AddOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Sub returns x-y, failing with ErrOverflow if x < y (there is no signed
// representation in this space).
func Sub(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).SubOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// SubClamped returns x-y, or zero if y > x. Used where spec.md calls for
// rounding-induced negative results to be clamped rather than treated as an
// error.
func SubClamped(x, y *uint256.Int) *uint256.Int {
	if x.Cmp(y) < 0 {
		return Zero()
	}
	z, _ := new(uint256.Int).SubOverflow(x, y)
	return z
}

// Mul returns x*y, failing with ErrOverflow on wraparound.
func Mul(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).MulOverflow(x, y)
	if overflow {
		return nil, ErrOverflow
	}
	return z, nil
}

// Div returns x/y truncated toward zero (the only direction unsigned
// division can truncate). Fails with ErrDivideByZero when y is zero.
func Div(x, y *uint256.Int) (*uint256.Int, error) {
	if y.IsZero() {
		return nil, ErrDivideByZero
	}
	return new(uint256.Int).Div(x, y), nil
}

// Pow returns base^exp as a checked 256-bit integer, failing with
// ErrOverflow the moment any partial product would wrap around.
func Pow(base *uint256.Int, exp uint64) (*uint256.Int, error) {
	result := uint256.NewInt(1)
	for i := uint64(0); i < exp; i++ {
		next, err := Mul(result, base)
		if err != nil {
			return nil, err
		}
		result = next
	}
	return result, nil
}

// ToCommon scales a raw token amount with `decimals` decimal places into the
// 18-decimal common-precision space used by the curve. Up-scaling is exact;
// down-scaling (decimals > 18) truncates toward zero, per spec: round-down
// is the rule and must never silently lose precision by rounding up.
func ToCommon(raw *uint256.Int, decimals uint8) (*uint256.Int, error) {
	if decimals <= CommonDecimals {
		scale, err := Pow(uint256.NewInt(10), uint64(CommonDecimals-decimals))
		if err != nil {
			return nil, err
		}
		return Mul(raw, scale)
	}
	scale, err := Pow(uint256.NewInt(10), uint64(decimals-CommonDecimals))
	if err != nil {
		return nil, err
	}
	return Div(raw, scale)
}

// ToRaw scales a common-precision amount back down to a token's native
// decimal count, truncating toward zero.
func ToRaw(common *uint256.Int, decimals uint8) (*uint256.Int, error) {
	if decimals <= CommonDecimals {
		scale, err := Pow(uint256.NewInt(10), uint64(CommonDecimals-decimals))
		if err != nil {
			return nil, err
		}
		return Div(common, scale)
	}
	scale, err := Pow(uint256.NewInt(10), uint64(decimals-CommonDecimals))
	if err != nil {
		return nil, err
	}
	return Mul(common, scale)
}

// AbsDiff returns |x-y| as an unsigned value; never overflows since the
// result is bounded by max(x, y).
func AbsDiff(x, y *uint256.Int) *uint256.Int {
	if x.Cmp(y) >= 0 {
		return SubClamped(x, y)
	}
	return SubClamped(y, x)
}
