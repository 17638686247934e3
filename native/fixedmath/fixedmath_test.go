package fixedmath

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestAddOverflow(t *testing.T) {
	max := new(uint256.Int).Not(Zero())
	if _, err := Add(max, uint256.NewInt(1)); err != ErrOverflow {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestSubUnderflow(t *testing.T) {
	if _, err := Sub(uint256.NewInt(1), uint256.NewInt(2)); err != ErrOverflow {
		t.Fatalf("expected overflow, got %v", err)
	}
}

func TestSubClamped(t *testing.T) {
	got := SubClamped(uint256.NewInt(1), uint256.NewInt(2))
	if !got.IsZero() {
		t.Fatalf("expected clamp to zero, got %s", got)
	}
}

func TestDivByZero(t *testing.T) {
	if _, err := Div(uint256.NewInt(1), Zero()); err != ErrDivideByZero {
		t.Fatalf("expected divide by zero, got %v", err)
	}
}

func TestToCommonUpscale(t *testing.T) {
	// 6-decimal USDC-style token: 100 raw units -> 100 * 1e12 common units.
	got, err := ToCommon(uint256.NewInt(100), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, _ := Pow(uint256.NewInt(10), 12)
	want, _ = Mul(want, uint256.NewInt(100))
	if got.Cmp(want) != 0 {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestToCommonRoundTrip(t *testing.T) {
	raw := uint256.NewInt(12345)
	common, err := ToCommon(raw, 6)
	if err != nil {
		t.Fatalf("ToCommon: %v", err)
	}
	back, err := ToRaw(common, 6)
	if err != nil {
		t.Fatalf("ToRaw: %v", err)
	}
	if back.Cmp(raw) != 0 {
		t.Fatalf("round trip mismatch: got %s want %s", back, raw)
	}
}

func TestToCommonDownscaleTruncates(t *testing.T) {
	// A 24-decimal token scaling down to 18 decimals must truncate, not round.
	raw := uint256.NewInt(1_999_999) // 1.999999 in 1e6 units above the 1e18 boundary
	common, err := ToCommon(raw, 24)
	if err != nil {
		t.Fatalf("ToCommon: %v", err)
	}
	if common.Cmp(uint256.NewInt(1)) != 0 {
		t.Fatalf("expected truncation to 1, got %s", common)
	}
}

func TestAbsDiff(t *testing.T) {
	if AbsDiff(uint256.NewInt(5), uint256.NewInt(9)).Cmp(uint256.NewInt(4)) != 0 {
		t.Fatalf("abs diff wrong")
	}
	if AbsDiff(uint256.NewInt(9), uint256.NewInt(5)).Cmp(uint256.NewInt(4)) != 0 {
		t.Fatalf("abs diff wrong")
	}
}
