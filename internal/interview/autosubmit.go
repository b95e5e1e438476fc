package interview

import (
	"context"
	"strings"
	"sync"
	"time"

	"interviewd/internal/speech"
)

// DefaultSilenceDelay is how long spoken input may pause before the current
// transcript is treated as the final answer.
const DefaultSilenceDelay = 2 * time.Second

// AutoSubmitter converts a pause in spoken input into an answer submission.
// Each transcript update resets the inactivity timer; when the timer fires,
// the latest full transcript is handed to submit. This is a UX policy
// layered on top of the speech adapter, not an adapter guarantee.
type AutoSubmitter struct {
	delay  time.Duration
	submit func(text string)

	mu    sync.Mutex
	timer *time.Timer
	text  string
}

// NewAutoSubmitter creates the policy. A non-positive delay gets
// DefaultSilenceDelay.
func NewAutoSubmitter(delay time.Duration, submit func(text string)) *AutoSubmitter {
	if delay <= 0 {
		delay = DefaultSilenceDelay
	}
	return &AutoSubmitter{delay: delay, submit: submit}
}

// Observe records one transcript update and restarts the inactivity timer.
func (a *AutoSubmitter) Observe(u speech.TranscriptUpdate) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.text = u.Text
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

func (a *AutoSubmitter) fire() {
	a.mu.Lock()
	text := a.text
	a.text = ""
	a.timer = nil
	a.mu.Unlock()

	if strings.TrimSpace(text) == "" {
		return
	}
	a.submit(text)
}

// Stop cancels any pending submission without firing it.
func (a *AutoSubmitter) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.text = ""
}

// Run consumes recognizer updates until ctx is done, feeding each into the
// policy. It returns after stopping any pending timer.
func (a *AutoSubmitter) Run(ctx context.Context, rec speech.Recognizer) {
	if !rec.SupportsRecognition() {
		return
	}
	updates := rec.Updates()
	for {
		select {
		case <-ctx.Done():
			a.Stop()
			return
		case u, ok := <-updates:
			if !ok {
				a.Stop()
				return
			}
			a.Observe(u)
		}
	}
}
