package interview

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"interviewd/internal/speech"
)

type submitSpy struct {
	mu    sync.Mutex
	texts []string
}

func (s *submitSpy) submit(text string) {
	s.mu.Lock()
	s.texts = append(s.texts, text)
	s.mu.Unlock()
}

func (s *submitSpy) all() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.texts...)
}

func TestAutoSubmitFiresAfterSilence(t *testing.T) {
	spy := &submitSpy{}
	a := NewAutoSubmitter(20*time.Millisecond, spy.submit)

	a.Observe(speech.TranscriptUpdate{Text: "hello", At: time.Now()})

	require.Eventually(t, func() bool {
		return len(spy.all()) == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"hello"}, spy.all())
}

func TestAutoSubmitResetsOnNewInput(t *testing.T) {
	spy := &submitSpy{}
	a := NewAutoSubmitter(50*time.Millisecond, spy.submit)

	// Keep talking faster than the silence window; nothing should fire.
	for i := 0; i < 5; i++ {
		a.Observe(speech.TranscriptUpdate{Text: "still talking", At: time.Now()})
		time.Sleep(10 * time.Millisecond)
	}
	require.Empty(t, spy.all())

	// Once the talking stops, the last full transcript is submitted.
	a.Observe(speech.TranscriptUpdate{Text: "final transcript", At: time.Now()})
	require.Eventually(t, func() bool {
		return len(spy.all()) == 1
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, []string{"final transcript"}, spy.all())
}

func TestAutoSubmitSkipsBlankTranscript(t *testing.T) {
	spy := &submitSpy{}
	a := NewAutoSubmitter(10*time.Millisecond, spy.submit)

	a.Observe(speech.TranscriptUpdate{Text: "   ", At: time.Now()})
	time.Sleep(50 * time.Millisecond)
	require.Empty(t, spy.all())
}

func TestAutoSubmitStopCancelsPending(t *testing.T) {
	spy := &submitSpy{}
	a := NewAutoSubmitter(30*time.Millisecond, spy.submit)

	a.Observe(speech.TranscriptUpdate{Text: "about to cancel", At: time.Now()})
	a.Stop()
	time.Sleep(80 * time.Millisecond)
	require.Empty(t, spy.all())
}

func TestAutoSubmitDefaultDelay(t *testing.T) {
	a := NewAutoSubmitter(0, func(string) {})
	require.Equal(t, DefaultSilenceDelay, a.delay)
	a = NewAutoSubmitter(-time.Second, func(string) {})
	require.Equal(t, DefaultSilenceDelay, a.delay)
}
