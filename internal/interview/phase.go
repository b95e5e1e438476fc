package interview

// Phase is the session lifecycle state.
//
//	Idle -> Loading -> Active -> (loop) -> Evaluating -> Complete
//
// Failed is reachable from Loading, Active, and Evaluating on unrecoverable
// error. Submissions are Active -> Active self-transitions.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseActive     Phase = "active"
	PhaseEvaluating Phase = "evaluating"
	PhaseComplete   Phase = "complete"
	PhaseFailed     Phase = "failed"
)
