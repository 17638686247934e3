package curve

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestComputeWithdrawOneReturnsCloseToProportional(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	shareSupply := u64(2_000_000)
	burn := u64(200_000)

	res, err := ComputeWithdrawOne(reserves, shareSupply, burn, 0, 100, sampleFees())
	if err != nil {
		t.Fatalf("ComputeWithdrawOne: %v", err)
	}
	// Burning 10% of supply from a deep balanced pool for a single coin
	// should return close to, but slightly less than, 200000 (the
	// proportional share) due to the imbalance fee.
	if res.Out.Cmp(u64(200_000)) >= 0 {
		t.Fatalf("Out = %s, want strictly less than 200000", res.Out)
	}
	if res.Out.Cmp(u64(150_000)) <= 0 {
		t.Fatalf("Out = %s, want within a reasonable band of 200000", res.Out)
	}
}

func TestComputeWithdrawOneRejectsBurnExceedingSupply(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	if _, err := ComputeWithdrawOne(reserves, u64(1_000_000), u64(2_000_000), 0, 100, sampleFees()); err == nil {
		t.Fatalf("expected error for burn exceeding supply")
	}
}

func TestComputeWithdrawOneOnlyReportsTheWithdrawnCoin(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000), u64(1_000_000)}
	shareSupply := u64(3_000_000)
	burn := u64(300_000)

	res, err := ComputeWithdrawOne(reserves, shareSupply, burn, 1, 100, sampleFees())
	if err != nil {
		t.Fatalf("ComputeWithdrawOne: %v", err)
	}
	if res.ReserveAfter.Cmp(reserves[1]) >= 0 {
		t.Fatalf("ReserveAfter = %s, want strictly less than the original reserve %s", res.ReserveAfter, reserves[1])
	}
	if res.AdminFee == nil {
		t.Fatalf("AdminFee must be reported for indexOut")
	}
}

func TestComputeImbalancedWithdrawProportionalNoFee(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	requested := []*uint256.Int{u64(100_000), u64(100_000)}
	res, err := ComputeImbalancedWithdraw(reserves, u64(2_000_000), requested, 100, sampleFees())
	if err != nil {
		t.Fatalf("ComputeImbalancedWithdraw: %v", err)
	}
	if res.BurnShares.Cmp(u64(199_999)) < 0 || res.BurnShares.Cmp(u64(200_001)) > 0 {
		t.Fatalf("BurnShares = %s, want close to 200000 for a proportional withdrawal", res.BurnShares)
	}
	for _, f := range res.AdminFeePerCoin {
		if !f.IsZero() {
			t.Fatalf("expected no admin fee on a proportional withdrawal, got %s", f)
		}
	}
}

func TestComputeImbalancedWithdrawRejectsInsufficientReserve(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	requested := []*uint256.Int{u64(2_000_000), u64(0)}
	if _, err := ComputeImbalancedWithdraw(reserves, u64(2_000_000), requested, 100, sampleFees()); err == nil {
		t.Fatalf("expected error when requested amount exceeds reserve")
	}
}
