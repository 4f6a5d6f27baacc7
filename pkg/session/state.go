package session

// State is a step of the session lifecycle:
// Idle → Submitted → Solving → Streaming → {TimedOut | Exhausted | Cancelled} → Closed.
type State int

const (
	Idle State = iota
	Submitted
	Solving
	Streaming
	TimedOut
	Exhausted
	Cancelled
	Closed
)

var stateNames = map[State]string{
	Idle:      "idle",
	Submitted: "submitted",
	Solving:   "solving",
	Streaming: "streaming",
	TimedOut:  "timed_out",
	Exhausted: "exhausted",
	Cancelled: "cancelled",
	Closed:    "closed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the session stopped solving in this state.
func (s State) Terminal() bool {
	return s == TimedOut || s == Exhausted || s == Cancelled
}
