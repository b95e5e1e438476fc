// Package media acquires capture devices and assembles chunked recordings
// into a single artifact. Capture is best-effort throughout: a device
// failure is reported to the caller but never aborts an interview in
// progress.
package media

import (
	"errors"
	"sync"
	"time"

	"interviewd/internal/model"
)

// ErrDevice wraps camera/microphone acquisition failures (permission denied,
// no device). Always non-fatal to the interview flow.
var ErrDevice = errors.New("media: capture device unavailable")

// Status is the recorder state.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRecording Status = "recording"
	StatusPaused    Status = "paused"
	StatusStopped   Status = "stopped"
)

// Stream is an open capture stream. Exactly one acquisition should be
// outstanding at a time; Release frees the device tracks.
type Stream interface {
	MIMEType() string
	Release()
}

// Device acquires capture streams.
type Device interface {
	Acquire() (Stream, error)
}

// Recorder collects chunks from a stream and finalizes them into one
// artifact. Transitions: idle -> recording <-> paused -> stopped. Start
// while already recording and Stop while idle are no-ops.
type Recorder struct {
	mu        sync.Mutex
	stream    Stream
	status    Status
	chunks    [][]byte
	startedAt time.Time
}

// NewRecorder creates a recorder over an acquired stream.
func NewRecorder(stream Stream) *Recorder {
	return &Recorder{stream: stream, status: StatusIdle}
}

// Status returns the current recorder state.
func (r *Recorder) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Start begins collecting chunks. No-op unless idle.
func (r *Recorder) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusIdle {
		return
	}
	r.status = StatusRecording
	r.chunks = nil
	r.startedAt = time.Now()
}

// Pause suspends collection. No-op unless recording.
func (r *Recorder) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == StatusRecording {
		r.status = StatusPaused
	}
}

// Resume continues collection. No-op unless paused.
func (r *Recorder) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == StatusPaused {
		r.status = StatusRecording
	}
}

// Append adds one data chunk. Chunks arriving while not recording are
// dropped.
func (r *Recorder) Append(chunk []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusRecording || len(chunk) == 0 {
		return
	}
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	r.chunks = append(r.chunks, buf)
}

// Stop finalizes the recording, releases the device tracks, and returns the
// concatenated artifact. Returns nil when nothing was recorded (including
// Stop while idle, which is a no-op).
func (r *Recorder) Stop() *model.RecordingArtifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusRecording && r.status != StatusPaused {
		return nil
	}
	r.status = StatusStopped

	var size int
	for _, c := range r.chunks {
		size += len(c)
	}
	data := make([]byte, 0, size)
	for _, c := range r.chunks {
		data = append(data, c...)
	}
	r.chunks = nil

	mime := ""
	if r.stream != nil {
		mime = r.stream.MIMEType()
		r.stream.Release()
	}

	return &model.RecordingArtifact{
		MIMEType:  mime,
		Data:      data,
		Size:      int64(len(data)),
		StartedAt: r.startedAt,
	}
}

// Release frees the device without finalizing. Used on teardown so device
// locks never leak.
func (r *Recorder) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stream != nil {
		r.stream.Release()
		r.stream = nil
	}
	r.status = StatusStopped
}
