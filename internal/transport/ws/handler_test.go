package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"interviewd/internal/config"
	"interviewd/internal/model"
	"interviewd/internal/repository"
	"interviewd/internal/service"
)

type memRecordingRepo struct {
	mu        sync.Mutex
	artifacts []*model.RecordingArtifact
}

func (r *memRecordingRepo) Save(_ context.Context, artifact *model.RecordingArtifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *artifact
	r.artifacts = append(r.artifacts, &stored)
	return nil
}

func (r *memRecordingRepo) Get(_ context.Context, userID, id string) (*model.RecordingArtifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.artifacts {
		if a.UserID == userID && a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memRecordingRepo) List(_ context.Context, userID string, limit int64) ([]*model.RecordingArtifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.RecordingArtifact
	for _, a := range r.artifacts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *memRecordingRepo) Delete(_ context.Context, userID, id string) error {
	return nil
}

func (r *memRecordingRepo) saved() []*model.RecordingArtifact {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.RecordingArtifact(nil), r.artifacts...)
}

type noQuestions struct{}

func (noQuestions) Select(_ context.Context, _ []string, _ model.SelectionMode, _ int) ([]model.Question, error) {
	return nil, nil
}

func dialSessionWS(t *testing.T, recordings *memRecordingRepo) *websocket.Conn {
	t.Helper()

	authSvc := service.NewAuthService("test-secret")
	sessionSvc := service.NewSessionService(noQuestions{}, &config.AIConfig{TimeoutMS: 1000}, nil,
		repository.NewMemorySessionRepo(), nil, nil)
	recordingSvc := service.NewRecordingService(recordings, nil)

	hub := NewHub()
	handler := NewHandler(hub, authSvc, sessionSvc, recordingSvc)

	r := mux.NewRouter()
	r.HandleFunc("/v1/ws/sessions/{sessionId}", handler.SessionWS)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	login, err := authSvc.IssueToken("dev@example.com")
	require.NoError(t, err)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/sessions/test-session?token=" + login.Token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func sendMessage(t *testing.T, conn *websocket.Conn, msgType MessageType, payload interface{}) {
	t.Helper()
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		raw = data
	}
	require.NoError(t, conn.WriteJSON(Message{Type: msgType, Payload: raw}))
}

func TestRecordingOverWS(t *testing.T) {
	recordings := &memRecordingRepo{}
	conn := dialSessionWS(t, recordings)

	sendMessage(t, conn, MsgRecordingStart, map[string]string{"mimeType": "video/webm"})
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte("abc")))
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte("def")))
	sendMessage(t, conn, MsgRecordingStop, nil)

	require.Eventually(t, func() bool {
		return len(recordings.saved()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	artifact := recordings.saved()[0]
	require.Equal(t, []byte("abcdef"), artifact.Data)
	require.Equal(t, "video/webm", artifact.MIMEType)
	require.Equal(t, "test-session", artifact.SessionID)
}

func TestRecordingStartWhileRecordingKeepsChunks(t *testing.T) {
	recordings := &memRecordingRepo{}
	conn := dialSessionWS(t, recordings)

	sendMessage(t, conn, MsgRecordingStart, map[string]string{"mimeType": "video/webm"})
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte("abc")))

	// A duplicate start mid-recording must not discard collected chunks.
	sendMessage(t, conn, MsgRecordingStart, map[string]string{"mimeType": "video/webm"})
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte("def")))
	sendMessage(t, conn, MsgRecordingStop, nil)

	require.Eventually(t, func() bool {
		return len(recordings.saved()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Equal(t, []byte("abcdef"), recordings.saved()[0].Data)
}

func TestRecordingStartFailureIsNonFatal(t *testing.T) {
	recordings := &memRecordingRepo{}
	conn := dialSessionWS(t, recordings)

	sendMessage(t, conn, MsgRecordingStart, map[string]string{"error": "permission denied"})
	require.NoError(t, conn.WriteMessage(websocket.BinaryMessage, []byte("abc")))
	sendMessage(t, conn, MsgRecordingStop, nil)

	// Capture never started; the connection stays usable and nothing saves.
	sendMessage(t, conn, MsgPlaybackDone, nil)
	time.Sleep(100 * time.Millisecond)
	require.Empty(t, recordings.saved())
}
