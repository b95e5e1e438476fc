package speech

import (
	"context"
	"sync"
	"time"
)

// RelayRecognizer is a Recognizer fed by an external transport: the browser
// performs the actual recognition and pushes full-utterance transcripts here.
// Pushes outside a listening window are dropped.
type RelayRecognizer struct {
	mu        sync.Mutex
	listening bool
	updates   chan TranscriptUpdate
}

// NewRelayRecognizer creates a relay with a buffered update stream.
func NewRelayRecognizer() *RelayRecognizer {
	return &RelayRecognizer{
		updates: make(chan TranscriptUpdate, 16),
	}
}

func (r *RelayRecognizer) SupportsRecognition() bool { return true }

func (r *RelayRecognizer) StartListening(_ context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listening = true
}

func (r *RelayRecognizer) StopListening() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listening = false
}

func (r *RelayRecognizer) Updates() <-chan TranscriptUpdate { return r.updates }

// Push delivers a transcript update from the transport. When the buffer is
// full the oldest event is discarded: each event carries the whole utterance,
// so only the latest matters.
func (r *RelayRecognizer) Push(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.listening {
		return
	}

	update := TranscriptUpdate{Text: text, At: time.Now()}
	for {
		select {
		case r.updates <- update:
			return
		default:
			select {
			case <-r.updates:
			default:
			}
		}
	}
}

// RelaySynthesizer cues the client to speak and waits for its playback-done
// signal. A new Speak cancels the previous one, resolving its signal.
type RelaySynthesizer struct {
	mu   sync.Mutex
	cue  func(text string)
	done chan struct{}
}

// NewRelaySynthesizer creates a synthesizer that invokes cue for each
// utterance. A nil cue leaves the synthesizer unsupported.
func NewRelaySynthesizer(cue func(text string)) *RelaySynthesizer {
	return &RelaySynthesizer{cue: cue}
}

func (s *RelaySynthesizer) SupportsSynthesis() bool { return s.cue != nil }

func (s *RelaySynthesizer) Speak(ctx context.Context, text string) <-chan struct{} {
	if s.cue == nil {
		return closedDone
	}

	s.mu.Lock()
	if s.done != nil {
		close(s.done) // cancel prior playback
	}
	done := make(chan struct{})
	s.done = done
	s.mu.Unlock()

	s.cue(text)

	out := make(chan struct{})
	go func() {
		defer close(out)
		select {
		case <-done:
		case <-ctx.Done():
		}
	}()
	return out
}

// PlaybackDone resolves the current utterance's completion signal. Playback
// errors on the client are reported the same way: done is done.
func (s *RelaySynthesizer) PlaybackDone() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
}
