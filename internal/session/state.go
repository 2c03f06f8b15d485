package session

// State is the lifecycle of a Session. Transitions only move forward.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateActive
	StateTerminated
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateConnecting:
		return "CONNECTING"
	case StateActive:
		return "ACTIVE"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}
