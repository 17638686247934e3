package curve

import "github.com/snailsfinance/snails-contracts/native/errkind"

// MaxA bounds the amplification coefficient per spec.md §3.
const MaxA = 1_000_000

// Ramp describes a scheduled linear change of the amplification coefficient
// between two timestamps.
type Ramp struct {
	InitialA uint64
	TargetA  uint64
	StartTS  int64
	StopTS   int64
}

// Validate checks the bounds spec.md §3 requires of a ramp.
func (r Ramp) Validate() error {
	if r.InitialA < 1 || r.InitialA > MaxA {
		return errkind.ErrBadArgument
	}
	if r.TargetA < 1 || r.TargetA > MaxA {
		return errkind.ErrBadArgument
	}
	if r.StopTS < r.StartTS {
		return errkind.ErrBadArgument
	}
	return nil
}

// AmpAt returns the effective amplification coefficient at time `now`,
// linearly interpolating between InitialA and TargetA over [StartTS, StopTS]
// using truncating integer division, per spec.md §4.2.
func (r Ramp) AmpAt(now int64) uint64 {
	if now <= r.StartTS {
		return r.InitialA
	}
	if now >= r.StopTS {
		return r.TargetA
	}
	elapsed := now - r.StartTS
	duration := r.StopTS - r.StartTS
	if duration == 0 {
		return r.TargetA
	}
	if r.TargetA > r.InitialA {
		delta := int64(r.TargetA - r.InitialA)
		return r.InitialA + uint64(delta*elapsed/duration)
	}
	delta := int64(r.InitialA - r.TargetA)
	return r.InitialA - uint64(delta*elapsed/duration)
}
