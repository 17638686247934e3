package pool

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/crypto"
	"github.com/snailsfinance/snails-contracts/native/curve"
	"github.com/snailsfinance/snails-contracts/native/fees"
)

func testAddress(b byte) crypto.Address {
	raw := make([]byte, 20)
	raw[19] = b
	return crypto.NewAddress(raw)
}

func flatFees(num, den uint64) fees.Fees {
	return fees.Fees{
		TradeFeeNum:         num,
		TradeFeeDen:         den,
		AdminTradeFeeNum:    50,
		AdminTradeFeeDen:    100,
		WithdrawFeeNum:      num,
		WithdrawFeeDen:      den,
		AdminWithdrawFeeNum: 50,
		AdminWithdrawFeeDen: 100,
	}
}

func newThreeTokenPool(t *testing.T, f fees.Fees) *Pool {
	t.Helper()
	ramp := curve.Ramp{InitialA: 100, TargetA: 100, StartTS: 0, StopTS: 0}
	p, err := New(0, []string{"dai", "usdc", "usdt"}, []uint8{18, 6, 6}, ramp, f)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestAddLiquidityFirstDepositMintsD(t *testing.T) {
	p := newThreeTokenPool(t, flatFees(4, 10000))
	lp := testAddress(1)

	amounts := []*uint256.Int{
		uint256.MustFromDecimal("3000000000000000000"),
		uint256.MustFromDecimal("3000000"),
		uint256.MustFromDecimal("3000000"),
	}
	minted, err := p.AddLiquidity(0, lp, amounts, uint256.NewInt(0))
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}
	want := uint256.MustFromDecimal("9000000000000000000")
	if minted.Cmp(want) != 0 {
		t.Fatalf("minted = %s, want %s", minted, want)
	}
	if p.ShareSupply.Cmp(want) != 0 {
		t.Fatalf("ShareSupply = %s, want %s", p.ShareSupply, want)
	}

	vp, err := p.GetVirtualPrice(0)
	if err != nil {
		t.Fatalf("GetVirtualPrice: %v", err)
	}
	oneE18 := uint256.MustFromDecimal("1000000000000000000")
	if vp.Cmp(oneE18) != 0 {
		t.Fatalf("virtual price = %s, want %s", vp, oneE18)
	}
}

func TestAddLiquiditySingleAmountOnEmptyPoolFails(t *testing.T) {
	p := newThreeTokenPool(t, flatFees(4, 10000))
	lp := testAddress(1)

	amounts := []*uint256.Int{
		uint256.MustFromDecimal("1000000000000000000"),
		uint256.NewInt(0),
		uint256.NewInt(0),
	}
	if _, err := p.AddLiquidity(0, lp, amounts, uint256.NewInt(0)); err == nil {
		t.Fatalf("expected error for single-sided deposit into an empty pool")
	}
}

func TestSwapSixDecimalIntoEighteenDecimal(t *testing.T) {
	p := newThreeTokenPool(t, flatFees(4, 10000))
	lp := testAddress(1)
	amounts := []*uint256.Int{
		uint256.MustFromDecimal("3000000000000000000"),
		uint256.MustFromDecimal("3000000"),
		uint256.MustFromDecimal("3000000"),
	}
	if _, err := p.AddLiquidity(0, lp, amounts, uint256.NewInt(0)); err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}

	dy, err := p.Swap(0, 2, 0, uint256.NewInt(100), uint256.NewInt(0))
	if err != nil {
		t.Fatalf("Swap: %v", err)
	}
	upperBound := uint256.MustFromDecimal("100000000000000")
	if dy.Cmp(upperBound) >= 0 {
		t.Fatalf("dy = %s, want strictly less than %s", dy, upperBound)
	}
	if dy.IsZero() {
		t.Fatalf("dy must be strictly greater than zero")
	}
	if p.AdminFees[0].IsZero() {
		t.Fatalf("expected AdminFees[0] to increase from the swap's trade fee")
	}
}

func TestRemoveLiquidityProportionalNoAdminFee(t *testing.T) {
	p := newThreeTokenPool(t, flatFees(4, 10000))
	lp := testAddress(1)
	amounts := []*uint256.Int{
		uint256.MustFromDecimal("3000000000000000000"),
		uint256.MustFromDecimal("3000000"),
		uint256.MustFromDecimal("3000000"),
	}
	if _, err := p.AddLiquidity(0, lp, amounts, uint256.NewInt(0)); err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}

	supplyBefore := new(uint256.Int).Set(p.ShareSupply)
	burn := uint256.NewInt(1000)
	minOut := []*uint256.Int{uint256.NewInt(0), uint256.NewInt(0), uint256.NewInt(0)}
	out, err := p.RemoveLiquidity(lp, burn, minOut)
	if err != nil {
		t.Fatalf("RemoveLiquidity: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("out length = %d, want 3", len(out))
	}
	wantSupply := new(uint256.Int).Sub(supplyBefore, burn)
	if p.ShareSupply.Cmp(wantSupply) != 0 {
		t.Fatalf("ShareSupply = %s, want %s", p.ShareSupply, wantSupply)
	}
	if !p.AdminFees[0].IsZero() || !p.AdminFees[1].IsZero() || !p.AdminFees[2].IsZero() {
		t.Fatalf("remove_liquidity must not change admin fees")
	}
}

func TestRemoveLiquidityOneCoinOnlyTouchesThatCoin(t *testing.T) {
	p := newThreeTokenPool(t, flatFees(4, 10000))
	lp := testAddress(1)
	amounts := []*uint256.Int{
		uint256.MustFromDecimal("3000000000000000000"),
		uint256.MustFromDecimal("3000000"),
		uint256.MustFromDecimal("3000000"),
	}
	if _, err := p.AddLiquidity(0, lp, amounts, uint256.NewInt(0)); err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}

	reserveDaiBefore := new(uint256.Int).Set(p.Reserves[0])
	reserveUsdcBefore := new(uint256.Int).Set(p.Reserves[1])
	reserveUsdtBefore := new(uint256.Int).Set(p.Reserves[2])
	adminDaiBefore := new(uint256.Int).Set(p.AdminFees[0])
	adminUsdtBefore := new(uint256.Int).Set(p.AdminFees[2])

	burn := uint256.MustFromDecimal("900000000000000000")
	out, err := p.RemoveLiquidityOneCoin(0, lp, burn, 1, uint256.NewInt(0))
	if err != nil {
		t.Fatalf("RemoveLiquidityOneCoin: %v", err)
	}
	if out.IsZero() {
		t.Fatalf("expected a nonzero usdc payout")
	}

	if p.Reserves[0].Cmp(reserveDaiBefore) != 0 {
		t.Fatalf("Reserves[0] (dai) changed: got %s, want unchanged %s", p.Reserves[0], reserveDaiBefore)
	}
	if p.Reserves[2].Cmp(reserveUsdtBefore) != 0 {
		t.Fatalf("Reserves[2] (usdt) changed: got %s, want unchanged %s", p.Reserves[2], reserveUsdtBefore)
	}
	if p.AdminFees[0].Cmp(adminDaiBefore) != 0 {
		t.Fatalf("AdminFees[0] (dai) changed: got %s, want unchanged %s", p.AdminFees[0], adminDaiBefore)
	}
	if p.AdminFees[2].Cmp(adminUsdtBefore) != 0 {
		t.Fatalf("AdminFees[2] (usdt) changed: got %s, want unchanged %s", p.AdminFees[2], adminUsdtBefore)
	}
	if p.Reserves[1].Cmp(reserveUsdcBefore) == 0 {
		t.Fatalf("Reserves[1] (usdc) did not change as expected")
	}
}

func TestTransferSharesMovesBalanceWithoutChangingSupply(t *testing.T) {
	p := newThreeTokenPool(t, flatFees(4, 10000))
	lp := testAddress(1)
	recipient := testAddress(2)
	amounts := []*uint256.Int{
		uint256.MustFromDecimal("3000000000000000000"),
		uint256.MustFromDecimal("3000000"),
		uint256.MustFromDecimal("3000000"),
	}
	minted, err := p.AddLiquidity(0, lp, amounts, uint256.NewInt(0))
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}
	supplyBefore := new(uint256.Int).Set(p.ShareSupply)

	moved := uint256.MustFromDecimal("1000000000000000000")
	if err := p.TransferShares(lp, recipient, moved); err != nil {
		t.Fatalf("TransferShares: %v", err)
	}

	wantSender := new(uint256.Int).Sub(minted, moved)
	if p.ShareOf(lp).Cmp(wantSender) != 0 {
		t.Fatalf("sender balance = %s, want %s", p.ShareOf(lp), wantSender)
	}
	if p.ShareOf(recipient).Cmp(moved) != 0 {
		t.Fatalf("recipient balance = %s, want %s", p.ShareOf(recipient), moved)
	}
	if p.ShareSupply.Cmp(supplyBefore) != 0 {
		t.Fatalf("ShareSupply changed: got %s, want unchanged %s", p.ShareSupply, supplyBefore)
	}
}

func TestTransferSharesInsufficientBalanceFails(t *testing.T) {
	p := newThreeTokenPool(t, flatFees(4, 10000))
	lp := testAddress(1)
	recipient := testAddress(2)
	amounts := []*uint256.Int{
		uint256.MustFromDecimal("3000000000000000000"),
		uint256.MustFromDecimal("3000000"),
		uint256.MustFromDecimal("3000000"),
	}
	minted, err := p.AddLiquidity(0, lp, amounts, uint256.NewInt(0))
	if err != nil {
		t.Fatalf("AddLiquidity: %v", err)
	}
	tooMuch := new(uint256.Int).Add(minted, uint256.NewInt(1))
	if err := p.TransferShares(lp, recipient, tooMuch); err == nil {
		t.Fatalf("expected an error transferring more shares than the sender holds")
	}
}

func TestAmpRampMidpoint(t *testing.T) {
	const day = 24 * 60 * 60
	ramp := curve.Ramp{InitialA: 100, TargetA: 200, StartTS: 1_000_000, StopTS: 1_000_000 + 30*day}
	p, err := New(0, []string{"a", "b"}, []uint8{18, 18}, ramp, flatFees(4, 10000))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := p.GetAmpFactor(1_000_000 + 15*day)
	if got < 149 || got > 151 {
		t.Fatalf("AmpAt midpoint = %d, want 150 +-1", got)
	}
}
