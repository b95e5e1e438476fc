// Package speech wraps speech-to-text and text-to-speech behind
// capability-checked interfaces. Callers check the Supports* methods before
// use; invoking an unsupported operation is a no-op that resolves
// immediately and never blocks.
package speech

import (
	"context"
	"time"
)

// TranscriptUpdate is one recognition event. Text is the full utterance so
// far, not a delta.
type TranscriptUpdate struct {
	Text string
	At   time.Time
}

// Recognizer is a continuous speech-to-text stream. The caller governs
// duration; there is no built-in maximum.
type Recognizer interface {
	SupportsRecognition() bool
	StartListening(ctx context.Context)
	StopListening()
	// Updates delivers transcript events while listening. The channel stays
	// open across listen cycles.
	Updates() <-chan TranscriptUpdate
}

// Synthesizer speaks text aloud. Speak returns a signal that completes when
// playback ends; a playback error degrades to "done speaking" rather than
// propagating. Starting a new utterance cancels any prior playback.
type Synthesizer interface {
	SupportsSynthesis() bool
	Speak(ctx context.Context, text string) <-chan struct{}
}

var closedDone = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Noop reports no capabilities and resolves every operation immediately.
// It stands in when no speech backend is wired.
type Noop struct{}

func (Noop) SupportsRecognition() bool              { return false }
func (Noop) StartListening(context.Context)         {}
func (Noop) StopListening()                         {}
func (Noop) Updates() <-chan TranscriptUpdate       { return nil }
func (Noop) SupportsSynthesis() bool                { return false }
func (Noop) Speak(context.Context, string) <-chan struct{} { return closedDone }
