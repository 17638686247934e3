package curve

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestComputeMintAmountFirstDepositMintsD(t *testing.T) {
	reserves := []*uint256.Int{u64(0), u64(0)}
	deposits := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	res, err := ComputeMintAmount(reserves, deposits, u64(0), 100, sampleFees())
	if err != nil {
		t.Fatalf("ComputeMintAmount: %v", err)
	}
	if res.Minted.Cmp(u64(2_000_000)) != 0 {
		t.Fatalf("Minted = %s, want 2000000", res.Minted)
	}
	for _, f := range res.AdminFeePerCoin {
		if !f.IsZero() {
			t.Fatalf("expected no admin fee on first deposit")
		}
	}
}

func TestComputeMintAmountBalancedDepositNoFee(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	deposits := []*uint256.Int{u64(100_000), u64(100_000)}
	res, err := ComputeMintAmount(reserves, deposits, u64(2_000_000), 100, sampleFees())
	if err != nil {
		t.Fatalf("ComputeMintAmount: %v", err)
	}
	// A perfectly proportional deposit introduces no imbalance, so no fee
	// should be charged and shares mint 1:1 with the supply growth.
	if res.Minted.Cmp(u64(200_000)) != 0 {
		t.Fatalf("Minted = %s, want 200000", res.Minted)
	}
	for _, f := range res.AdminFeePerCoin {
		if !f.IsZero() {
			t.Fatalf("expected no admin fee on balanced deposit, got %s", f)
		}
	}
}

func TestComputeMintAmountImbalancedDepositChargesFee(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	deposits := []*uint256.Int{u64(200_000), u64(0)}
	res, err := ComputeMintAmount(reserves, deposits, u64(2_000_000), 100, sampleFees())
	if err != nil {
		t.Fatalf("ComputeMintAmount: %v", err)
	}
	any := false
	for _, f := range res.AdminFeePerCoin {
		if !f.IsZero() {
			any = true
		}
	}
	if !any {
		t.Fatalf("expected a nonzero admin fee on a single-sided deposit")
	}
}

func TestComputeMintAmountRejectsWrongLength(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	deposits := []*uint256.Int{u64(100_000)}
	if _, err := ComputeMintAmount(reserves, deposits, u64(2_000_000), 100, sampleFees()); err == nil {
		t.Fatalf("expected error for mismatched deposits length")
	}
}
