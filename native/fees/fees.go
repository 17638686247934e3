// Package fees implements the rational trade/withdraw fee splits used by the
// stableswap curve, and the cooldown-gated mechanism for scheduling fee
// changes. The split pattern (numerator/denominator pairs, admin/LP share)
// mirrors the teacher's native/fees policy-apply style, adapted from basis
// points to explicit rational fractions since the curve needs exact
// truncating division rather than a fixed bps scale.
package fees

import (
	"github.com/holiman/uint256"

	"github.com/snailsfinance/snails-contracts/native/errkind"
)

// Cooldown is the delay, in seconds, between a fee-change request and the
// moment the new fees become active. spec.md leaves the exact constant
// unspecified ("fix a conservative default... and document it"); 24h of
// block time is used here, matching a typical chain's assumed block cadence.
const Cooldown = 24 * 60 * 60

// Fees is the rational fee schedule active for a pool.
type Fees struct {
	TradeFeeNum         uint64
	TradeFeeDen         uint64
	AdminTradeFeeNum    uint64
	AdminTradeFeeDen    uint64
	WithdrawFeeNum      uint64
	WithdrawFeeDen      uint64
	AdminWithdrawFeeNum uint64
	AdminWithdrawFeeDen uint64
}

// Validate checks the invariants from spec.md §3: every denominator is
// positive and every fraction is strictly less than one.
func (f Fees) Validate() error {
	pairs := [][2]uint64{
		{f.TradeFeeNum, f.TradeFeeDen},
		{f.AdminTradeFeeNum, f.AdminTradeFeeDen},
		{f.WithdrawFeeNum, f.WithdrawFeeDen},
		{f.AdminWithdrawFeeNum, f.AdminWithdrawFeeDen},
	}
	for _, p := range pairs {
		if p[1] == 0 {
			return errkind.ErrBadArgument
		}
		if p[0] >= p[1] {
			return errkind.ErrBadArgument
		}
	}
	return nil
}

// Apply returns gross*num/den, truncated toward zero.
func Apply(gross *uint256.Int, num, den uint64) (*uint256.Int, error) {
	if den == 0 {
		return nil, errkind.ErrBadArgument
	}
	product, overflow := new(uint256.Int).MulOverflow(gross, uint256.NewInt(num))
	if overflow {
		return nil, errkind.ErrOverflow
	}
	return new(uint256.Int).Div(product, uint256.NewInt(den)), nil
}

// TradeFee returns gross*trade_fee_num/trade_fee_den.
func (f Fees) TradeFee(gross *uint256.Int) (*uint256.Int, error) {
	return Apply(gross, f.TradeFeeNum, f.TradeFeeDen)
}

// WithdrawFee returns gross*withdraw_fee_num/withdraw_fee_den.
func (f Fees) WithdrawFee(gross *uint256.Int) (*uint256.Int, error) {
	return Apply(gross, f.WithdrawFeeNum, f.WithdrawFeeDen)
}

// SplitTradeFee divides a total trade fee into the admin and LP portions.
func (f Fees) SplitTradeFee(fee *uint256.Int) (admin, lp *uint256.Int, err error) {
	admin, err = Apply(fee, f.AdminTradeFeeNum, f.AdminTradeFeeDen)
	if err != nil {
		return nil, nil, err
	}
	lp, err = subNonNegative(fee, admin)
	if err != nil {
		return nil, nil, err
	}
	return admin, lp, nil
}

// SplitWithdrawFee divides a total withdraw fee into the admin and LP
// portions.
func (f Fees) SplitWithdrawFee(fee *uint256.Int) (admin, lp *uint256.Int, err error) {
	admin, err = Apply(fee, f.AdminWithdrawFeeNum, f.AdminWithdrawFeeDen)
	if err != nil {
		return nil, nil, err
	}
	lp, err = subNonNegative(fee, admin)
	if err != nil {
		return nil, nil, err
	}
	return admin, lp, nil
}

// ImbalanceFeeNum/Den implement spec.md's `fee = trade_fee * N / (4*(N-1))`
// rule used by compute_mint_amount, compute_withdraw_one and
// compute_imbalanced_withdraw. N must be >= 2 (enforced by the pool at
// creation).
func (f Fees) ImbalanceFeeNumDen(n int) (num, den uint64) {
	num = f.TradeFeeNum * uint64(n)
	den = f.TradeFeeDen * 4 * uint64(n-1)
	return num, den
}

func subNonNegative(x, y *uint256.Int) (*uint256.Int, error) {
	z, overflow := new(uint256.Int).SubOverflow(x, y)
	if overflow {
		return nil, errkind.ErrInvariantViolation
	}
	return z, nil
}

// PendingChange records a fee-change request waiting for its cooldown to
// elapse. A Pool resolves its active fees by comparing the current time
// against ApplyAt.
type PendingChange struct {
	Fees    Fees
	ApplyAt int64
}

// Resolve returns the active fee schedule at time `now`, applying `pending`
// once its cooldown has elapsed.
func Resolve(active Fees, pending *PendingChange, now int64) Fees {
	if pending == nil {
		return active
	}
	if now < pending.ApplyAt {
		return active
	}
	return pending.Fees
}
