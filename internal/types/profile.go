package types

// ProfileState tracks how far a profile progressed through the pipeline.
type ProfileState string

const (
	StateNotStarted   ProfileState = "not_started"
	StateNavigated    ProfileState = "navigated"
	StateMaterialized ProfileState = "materialized"
	StateExtracted    ProfileState = "extracted"
	StateDone         ProfileState = "done"
	StateFailed       ProfileState = "failed"
)

// ProfileStatus reports the terminal state of one profile within a run.
// A failed profile contributes zero records but never aborts the run.
type ProfileStatus struct {
	URL     string
	State   ProfileState
	Records int
	Err     error
}

// Failed reports whether the profile ended in the failed state.
func (s ProfileStatus) Failed() bool {
	return s.State == StateFailed
}
