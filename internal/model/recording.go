package model

import "time"

// RecordingArtifact is a finished interview recording. Recording is always
// best-effort: losing or never producing an artifact must not affect the
// session itself.
type RecordingArtifact struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"userId" bson:"userId"`
	SessionID string    `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	MIMEType  string    `json:"mimeType" bson:"mimeType"`
	Data      []byte    `json:"-" bson:"data"`
	Size      int64     `json:"size" bson:"size"`
	StartedAt time.Time `json:"startedAt" bson:"startedAt"`
}
