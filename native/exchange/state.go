package exchange

// State is the Exchange's global run state, per spec.md §4.6.
type State int

const (
	// Running is the default state: all operations are permitted.
	Running State = iota
	// Paused restricts the exchange to view operations and owner-only admin.
	Paused
)

func (s State) String() string {
	if s == Paused {
		return "paused"
	}
	return "running"
}

// IsPaused implements native/common.PauseView. The exchange has a single
// global state rather than per-module pausing, so the module argument is
// ignored.
func (e *Exchange) IsPaused(module string) bool {
	return e.state == Paused
}
