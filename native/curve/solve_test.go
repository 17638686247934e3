package curve

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestComputeYRecoversBalancedReserve(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	d, err := ComputeD(reserves, 100)
	if err != nil {
		t.Fatalf("ComputeD: %v", err)
	}

	y, err := ComputeY(reserves, 1, d, 100)
	if err != nil {
		t.Fatalf("ComputeY: %v", err)
	}
	if y.Cmp(u64(1_000_000)) != 0 {
		t.Fatalf("y = %s, want 1000000 (solving for its own current value)", y)
	}
}

func TestComputeYAfterDepositIsHigher(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	d, err := ComputeD(reserves, 100)
	if err != nil {
		t.Fatalf("ComputeD: %v", err)
	}

	withDeposit := []*uint256.Int{u64(1_100_000), u64(1_000_000)}
	y, err := ComputeY(withDeposit, 1, d, 100)
	if err != nil {
		t.Fatalf("ComputeY: %v", err)
	}
	// Adding to coin 0 while holding D fixed must shrink the unknown coin.
	if y.Cmp(u64(1_000_000)) >= 0 {
		t.Fatalf("y = %s, want strictly less than 1000000", y)
	}
}

func TestComputeYRejectsOutOfRangeIndex(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	if _, err := ComputeY(reserves, 5, u64(2_000_000), 100); err == nil {
		t.Fatalf("expected error for out-of-range unknownIndex")
	}
}
