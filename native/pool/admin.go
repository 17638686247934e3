package pool

import (
	"github.com/snailsfinance/snails-contracts/native/curve"
	"github.com/snailsfinance/snails-contracts/native/errkind"
	"github.com/snailsfinance/snails-contracts/native/fees"
)

// ChangeFeesSetting schedules a fee-schedule change, effective once
// fees.Cooldown seconds have elapsed from `now`, per spec.md §4.4.
func (p *Pool) ChangeFeesSetting(now int64, newFees fees.Fees) error {
	if err := newFees.Validate(); err != nil {
		return err
	}
	p.PendingFees = &fees.PendingChange{
		Fees:    newFees,
		ApplyAt: now + fees.Cooldown,
	}
	return nil
}

// SetAmpParams reconfigures the amplification ramp, starting from the
// current effective A and ramping to targetA by stopTS.
func (p *Pool) SetAmpParams(now int64, targetA uint64, stopTS int64) error {
	if stopTS <= now {
		return errkind.ErrBadArgument
	}
	newRamp := curve.Ramp{
		InitialA: p.GetAmpFactor(now),
		TargetA:  targetA,
		StartTS:  now,
		StopTS:   stopTS,
	}
	if err := newRamp.Validate(); err != nil {
		return err
	}
	p.Ramp = newRamp
	return nil
}
