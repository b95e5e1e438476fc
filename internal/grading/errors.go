package grading

import (
	"errors"
	"fmt"
)

// ErrorKind classifies grading failures so callers can degrade without
// inspecting transport details.
type ErrorKind string

const (
	// KindProvider means no credential is configured for the active backend.
	KindProvider ErrorKind = "provider"
	// KindRemote means the HTTP call did not succeed.
	KindRemote ErrorKind = "remote"
	// KindParse means the remote response was not valid structured data.
	KindParse ErrorKind = "parse"
)

// Error is a classified grading failure.
type Error struct {
	Kind     ErrorKind
	Provider string
	Message  string
	Err      error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("grading: %s (%s): %s: %v", e.Kind, e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("grading: %s (%s): %s", e.Kind, e.Provider, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classification of err, or "" when err is not a grading
// error.
func KindOf(err error) ErrorKind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}
