package curve

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/native/fees"
	"github.com/snailsfinance/snails-contracts/native/fixedmath"
)

func sampleFees() fees.Fees {
	return fees.Fees{
		TradeFeeNum:         4,
		TradeFeeDen:         10000,
		AdminTradeFeeNum:    50,
		AdminTradeFeeDen:    100,
		WithdrawFeeNum:      4,
		WithdrawFeeDen:      10000,
		AdminWithdrawFeeNum: 50,
		AdminWithdrawFeeDen: 100,
	}
}

func TestSwapToBalancedPoolNearParity(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	res, err := SwapTo(reserves, 100, 0, 1, u64(1_000), sampleFees())
	if err != nil {
		t.Fatalf("SwapTo: %v", err)
	}
	// A tiny swap against a deep balanced pool should return close to 1:1,
	// minus the trade fee.
	if res.GrossOut.Cmp(u64(900)) <= 0 || res.GrossOut.Cmp(u64(1_000)) > 0 {
		t.Fatalf("GrossOut = %s, want close to 1000", res.GrossOut)
	}
	total, err := sampleFees().TradeFee(res.GrossOut)
	if err != nil {
		t.Fatalf("TradeFee: %v", err)
	}
	sum, err := fixedmath.Add(res.AdminFee, res.LPFee)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if sum.Cmp(total) != 0 {
		t.Fatalf("admin+lp fee = %s, want %s", sum, total)
	}
}

func TestSwapToRejectsSameIndex(t *testing.T) {
	reserves := []*uint256.Int{u64(1_000_000), u64(1_000_000)}
	if _, err := SwapTo(reserves, 100, 0, 0, u64(1_000), sampleFees()); err == nil {
		t.Fatalf("expected error for indexIn == indexOut")
	}
}
