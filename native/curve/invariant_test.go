package curve

import (
	"testing"

	"github.com/holiman/uint256"
)

func u64(v uint64) *uint256.Int { return uint256.NewInt(v) }

func TestComputeDBalancedPool(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	d, err := ComputeD(reserves, 100)
	if err != nil {
		t.Fatalf("ComputeD: %v", err)
	}
	// A perfectly balanced pool's invariant equals the sum of reserves.
	if d.Cmp(u64(2_000_000)) != 0 {
		t.Fatalf("D = %s, want 2000000", d)
	}
}

func TestComputeDZeroReserveIsZero(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(0)}
	d, err := ComputeD(reserves, 100)
	if err != nil {
		t.Fatalf("ComputeD: %v", err)
	}
	if !d.IsZero() {
		t.Fatalf("D = %s, want 0", d)
	}
}

func TestComputeDRejectsSingleCoin(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000)}
	if _, err := ComputeD(reserves, 100); err == nil {
		t.Fatalf("expected error for n<2")
	}
}

func TestComputeDImbalancedIsLessThanSum(t *testing.T) {
	reserves := []*uint256.Int{u64(1_900_000), u64(100_000)}
	d, err := ComputeD(reserves, 100)
	if err != nil {
		t.Fatalf("ComputeD: %v", err)
	}
	if d.Cmp(u64(2_000_000)) >= 0 {
		t.Fatalf("D = %s, want strictly less than sum for an imbalanced pool", d)
	}
}

func TestComputeDThreeCoinBalanced(t *testing.T) {
	reserves := []*uint256.Int{u64(500_000), u64(500_000), u64(500_000)}
	d, err := ComputeD(reserves, 200)
	if err != nil {
		t.Fatalf("ComputeD: %v", err)
	}
	if d.Cmp(u64(1_500_000)) != 0 {
		t.Fatalf("D = %s, want 1500000", d)
	}
}
