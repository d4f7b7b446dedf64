package executor

// State is the lifecycle of a run.
//
//	Idle -> Purging -> Applying -> Completed
//	  any state -> Failed
type State int

const (
	StateIdle State = iota
	StatePurging
	StateApplying
	StateCompleted
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:      "idle",
	StatePurging:   "purging",
	StateApplying:  "applying",
	StateCompleted: "completed",
	StateFailed:    "failed",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return "unknown"
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}
