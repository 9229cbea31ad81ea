package workflow

import "fmt"

// State is a step of a workflow run
type State int

const (
	Idle State = iota
	Authenticating
	Fetching
	AwaitingEdit
	Comparing
	AwaitingConfirmation
	Updating
	Done
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Authenticating:
		return "Authenticating"
	case Fetching:
		return "Fetching"
	case AwaitingEdit:
		return "AwaitingEdit"
	case Comparing:
		return "Comparing"
	case AwaitingConfirmation:
		return "AwaitingConfirmation"
	case Updating:
		return "Updating"
	case Done:
		return "Done"
	case Failed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether a run stops in this state
func (s State) Terminal() bool {
	return s == Done || s == Failed
}
