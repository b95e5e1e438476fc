package interview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"interviewd/internal/speech"
)

// VoiceFlow runs the spoken question-answer cycle: speak the current
// question, listen for the spoken answer, and auto-submit it after a pause.
// Speech is optional throughout; missing capabilities degrade to typed-only
// interaction without blocking the session.
type VoiceFlow struct {
	orch   *Orchestrator
	synth  speech.Synthesizer
	rec    speech.Recognizer
	delay  time.Duration
	logger *slog.Logger
}

// NewVoiceFlow wires the speech adapter around an orchestrator.
func NewVoiceFlow(orch *Orchestrator, synth speech.Synthesizer, rec speech.Recognizer, silenceDelay time.Duration, logger *slog.Logger) *VoiceFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &VoiceFlow{orch: orch, synth: synth, rec: rec, delay: silenceDelay, logger: logger}
}

// AskCurrent speaks the active question, then listens until a silence-
// triggered submission lands or ctx is done. It returns once the answer has
// been submitted (successfully or not) or the flow is abandoned.
func (f *VoiceFlow) AskCurrent(ctx context.Context) {
	snap := f.orch.Snapshot()
	q := snap.CurrentQuestion()
	if q == nil {
		return
	}

	if f.synth != nil && f.synth.SupportsSynthesis() {
		select {
		case <-f.synth.Speak(ctx, q.Text):
		case <-ctx.Done():
			return
		}
	}

	if f.rec == nil || !f.rec.SupportsRecognition() {
		return
	}

	listenCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The recognizer keeps streaming while a grading call is in flight, so
	// the silence timer can fire more than once per listen cycle.
	var settle sync.Once
	submitted := make(chan struct{})
	auto := NewAutoSubmitter(f.delay, func(text string) {
		defer settle.Do(func() { close(submitted) })
		if err := f.orch.Submit(ctx, text); err != nil {
			f.logger.Warn("auto-submit failed; transcript preserved for retry",
				"session", f.orch.SessionID(), "error", err)
		}
	})

	f.rec.StartListening(listenCtx)
	defer f.rec.StopListening()

	go auto.Run(listenCtx, f.rec)

	select {
	case <-submitted:
	case <-ctx.Done():
	}
}
