package schema

// Status is the outcome of one file as written to the report.
type Status string

const (
	StatusSuccessful Status = "Successful"
	StatusSkipped    Status = "Skipped"
	StatusFailed     Status = "Failed"
	StatusNotStarted Status = "Not started"
)

// Statuses lists all outcomes in the order they are presented.
//
//nolint:gochecknoglobals
var Statuses = []Status{StatusSuccessful, StatusSkipped, StatusFailed, StatusNotStarted}

// State is a step of the per-file state machine.
type State int

const (
	StatePending State = iota
	StateDestinationComputed
	StateCollisionChecked
	StateSkipped
	StateCopying
	StateVerifying
	StateVerified
	StateVerificationFailed
	StateSourceDeleted
	StateReported
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDestinationComputed:
		return "destination-computed"
	case StateCollisionChecked:
		return "collision-checked"
	case StateSkipped:
		return "skipped"
	case StateCopying:
		return "copying"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	case StateVerificationFailed:
		return "verification-failed"
	case StateSourceDeleted:
		return "source-deleted"
	case StateReported:
		return "reported"
	default:
		return "unknown"
	}
}
