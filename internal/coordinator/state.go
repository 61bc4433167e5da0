package coordinator

// State is the derived state of a transcription job. It is never stored.
type State int

const (
	StatePending State = iota
	StateDone
	StateError
)

func (s State) String() string {
	switch s {
	case StateDone:
		return "DONE"
	case StateError:
		return "ERROR"
	default:
		return "PENDING"
	}
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s != StatePending
}

// DeriveState maps the two terminal-key probes to a state. The SRT key wins
// when both exist; neither existing is always pending.
func DeriveState(srtExists, errExists bool) State {
	switch {
	case srtExists:
		return StateDone
	case errExists:
		return StateError
	default:
		return StatePending
	}
}
