package interview

import "errors"

var (
	// ErrBusy rejects a call issued while another grading call is in flight
	// for the same session. The rejected call causes no state change.
	ErrBusy = errors.New("interview: another operation is in flight")

	// ErrNotIdle rejects Start on a session that already ran or is running.
	ErrNotIdle = errors.New("interview: session already started")

	// ErrNotActive rejects Submit and End outside the question phase.
	ErrNotActive = errors.New("interview: session is not active")

	// ErrExhausted rejects Submit once every question has been answered.
	ErrExhausted = errors.New("interview: no questions remaining")
)

// ValidationError reports caller-supplied parameters that violate the start
// preconditions. It never causes a phase transition.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "interview: invalid parameters: " + e.Reason
}

// IsValidation reports whether err is a parameter validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
