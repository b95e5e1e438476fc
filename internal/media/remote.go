package media

import "fmt"

// RemoteDevice models a capture stream owned by the client: the browser
// acquired the camera/microphone and forwards chunks to us. Acquire fails
// when the client reported a capture failure, which the caller surfaces as
// ErrDevice and moves on without recording.
type RemoteDevice struct {
	MIME   string
	Failed string // client-reported acquisition failure, if any
}

func (d *RemoteDevice) Acquire() (Stream, error) {
	if d.Failed != "" {
		return nil, fmt.Errorf("%w: %s", ErrDevice, d.Failed)
	}
	mime := d.MIME
	if mime == "" {
		mime = "video/webm"
	}
	return &remoteStream{mime: mime}, nil
}

type remoteStream struct {
	mime string
}

func (s *remoteStream) MIMEType() string { return s.mime }

// Release is a no-op: the client owns the actual device tracks.
func (s *remoteStream) Release() {}
