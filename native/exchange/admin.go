package exchange

import (
	"github.com/snailsfinance/snails-contracts/crypto"
	"github.com/snailsfinance/snails-contracts/native/curve"
	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fees"
	"github.com/snailsfinance/snails-contracts/native/pool"
	"github.com/snailsfinance/snails-contracts/observability"
)

// AddSimplePool registers a new stableswap pool, assigning it the next
// sequential pool id. Owner-only; succeeds even while the exchange is
// Paused, per spec.md §4.6's admin-op exemption.
func (e *Exchange) AddSimplePool(caller crypto.Address, tokenIDs []string, decimals []uint8, initialA, targetA uint64, rampStartTS, rampStopTS int64, f fees.Fees) (uint64, error) {
	if err := e.requireOwner(caller); err != nil {
		return 0, err
	}

	id := uint64(len(e.pools))
	ramp := curve.Ramp{
		InitialA: initialA,
		TargetA:  targetA,
		StartTS:  rampStartTS,
		StopTS:   rampStopTS,
	}
	p, err := pool.New(id, tokenIDs, decimals, ramp, f)
	if err != nil {
		return 0, err
	}
	e.pools = append(e.pools, p)
	return id, nil
}

// ChangeFeesSetting schedules a fee-schedule change on poolID. Owner-only.
func (e *Exchange) ChangeFeesSetting(caller crypto.Address, now int64, poolID uint64, newFees fees.Fees) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	p, err := e.GetPool(poolID)
	if err != nil {
		return err
	}
	return p.ChangeFeesSetting(now, newFees)
}

// SetAmpParams reconfigures poolID's amplification ramp. Owner-only.
func (e *Exchange) SetAmpParams(caller crypto.Address, now int64, poolID uint64, targetA uint64, stopTS int64) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	p, err := e.GetPool(poolID)
	if err != nil {
		return err
	}
	return p.SetAmpParams(now, targetA, stopTS)
}

// ChangeState transitions the exchange between Running and Paused.
// Owner-only.
func (e *Exchange) ChangeState(caller crypto.Address, newState State) error {
	if err := e.requireOwner(caller); err != nil {
		return err
	}
	if newState != Running && newState != Paused {
		return errkind.ErrBadArgument
	}
	e.state = newState
	observability.ExchangeMetrics().SetPaused(newState == Paused)
	return nil
}
