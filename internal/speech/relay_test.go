package speech

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRelayRecognizerDropsWhenNotListening(t *testing.T) {
	r := NewRelayRecognizer()

	r.Push("before listening")
	select {
	case u := <-r.Updates():
		t.Fatalf("unexpected update: %q", u.Text)
	default:
	}

	r.StartListening(context.Background())
	r.Push("while listening")
	u := <-r.Updates()
	require.Equal(t, "while listening", u.Text)
	require.False(t, u.At.IsZero())

	r.StopListening()
	r.Push("after stop")
	select {
	case u := <-r.Updates():
		t.Fatalf("unexpected update: %q", u.Text)
	default:
	}
}

func TestRelayRecognizerDropsOldestWhenFull(t *testing.T) {
	r := NewRelayRecognizer()
	r.StartListening(context.Background())

	// Overfill the buffer; the oldest events should be discarded.
	for i := 0; i < 20; i++ {
		r.Push(string(rune('a' + i)))
	}

	var got []string
	for {
		select {
		case u := <-r.Updates():
			got = append(got, u.Text)
			continue
		default:
		}
		break
	}
	require.Len(t, got, 16)
	require.Equal(t, "e", got[0])
	require.Equal(t, "t", got[len(got)-1])
}

func TestRelaySynthesizerPlaybackDone(t *testing.T) {
	var mu sync.Mutex
	var cued []string
	s := NewRelaySynthesizer(func(text string) {
		mu.Lock()
		cued = append(cued, text)
		mu.Unlock()
	})
	require.True(t, s.SupportsSynthesis())

	done := s.Speak(context.Background(), "first question")
	mu.Lock()
	require.Equal(t, []string{"first question"}, cued)
	mu.Unlock()

	select {
	case <-done:
		t.Fatal("done resolved before playback finished")
	case <-time.After(20 * time.Millisecond):
	}

	s.PlaybackDone()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done did not resolve after playback")
	}
}

func TestRelaySynthesizerNewSpeakCancelsPrior(t *testing.T) {
	s := NewRelaySynthesizer(func(string) {})

	first := s.Speak(context.Background(), "one")
	second := s.Speak(context.Background(), "two")

	// Starting a new utterance resolves the superseded one.
	select {
	case <-first:
	case <-time.After(time.Second):
		t.Fatal("superseded utterance did not resolve")
	}

	s.PlaybackDone()
	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("current utterance did not resolve")
	}
}

func TestRelaySynthesizerContextCancel(t *testing.T) {
	s := NewRelaySynthesizer(func(string) {})

	ctx, cancel := context.WithCancel(context.Background())
	done := s.Speak(ctx, "interrupted")
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("done did not resolve on context cancel")
	}
}

func TestRelaySynthesizerNilCue(t *testing.T) {
	s := NewRelaySynthesizer(nil)
	require.False(t, s.SupportsSynthesis())

	done := s.Speak(context.Background(), "nothing to do")
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("nil-cue speak should resolve immediately")
	}
}
