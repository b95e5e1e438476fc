package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"interviewd/internal/media"
	"interviewd/internal/model"
	"interviewd/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20 // recording chunks arrive here
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for dev
	},
}

// Handler upgrades and serves per-session WebSocket connections: session
// state fan-out, speech relaying, and chunked recording upload.
type Handler struct {
	hub          *Hub
	authSvc      *service.AuthService
	sessionSvc   *service.SessionService
	recordingSvc *service.RecordingService
}

// NewHandler creates the WebSocket handler.
func NewHandler(hub *Hub, authSvc *service.AuthService, sessionSvc *service.SessionService, recordingSvc *service.RecordingService) *Handler {
	return &Handler{hub: hub, authSvc: authSvc, sessionSvc: sessionSvc, recordingSvc: recordingSvc}
}

// SessionWS handles GET /v1/ws/sessions/{sessionId} (token in query param).
func (h *Handler) SessionWS(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.authSvc.ValidateToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return
	}

	conn := &Connection{
		SessionID: sessionID,
		UserID:    claims.UserID,
		Send:      make(chan []byte, 256),
		Hub:       h.hub,
	}
	h.hub.Register(conn)

	go h.writePump(wsConn, conn)
	go h.readPump(wsConn, conn)
}

func (h *Handler) writePump(wsConn *websocket.Conn, conn *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		wsConn.Close()
	}()

	for {
		select {
		case data, ok := <-conn.Send:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				wsConn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := wsConn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			wsConn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := wsConn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) readPump(wsConn *websocket.Conn, conn *Connection) {
	defer func() {
		h.hub.Unregister(conn)
		wsConn.Close()
	}()

	wsConn.SetReadLimit(maxMessageSize)
	wsConn.SetReadDeadline(time.Now().Add(pongWait))
	wsConn.SetPongHandler(func(string) error {
		wsConn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	var recorder *media.Recorder

	for {
		msgType, data, err := wsConn.ReadMessage()
		if err != nil {
			if recorder != nil {
				recorder.Release()
			}
			return
		}

		if msgType == websocket.BinaryMessage {
			if recorder != nil {
				recorder.Append(data)
			}
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case MsgTranscript:
			var p struct {
				Text string `json:"text"`
			}
			if err := json.Unmarshal(msg.Payload, &p); err == nil {
				_ = h.sessionSvc.PushTranscript(conn.UserID, conn.SessionID, p.Text)
			}

		case MsgPlaybackDone:
			_ = h.sessionSvc.PlaybackDone(conn.UserID, conn.SessionID)

		case MsgAskCurrent:
			_ = h.sessionSvc.AskCurrent(context.Background(), conn.UserID, conn.SessionID)

		case MsgRecordingStart:
			if recorder != nil {
				// Start while already recording is a no-op; collected
				// chunks stay with the active recorder.
				continue
			}
			var p struct {
				MIMEType string `json:"mimeType"`
				Error    string `json:"error"`
			}
			_ = json.Unmarshal(msg.Payload, &p)

			device := &media.RemoteDevice{MIME: p.MIMEType, Failed: p.Error}
			stream, err := device.Acquire()
			if err != nil {
				// Recording is optional; tell the client and carry on.
				log.Printf("ws: capture unavailable for session %s: %v", conn.SessionID, err)
				continue
			}
			recorder = media.NewRecorder(stream)
			recorder.Start()

		case MsgRecordingStop:
			if recorder == nil {
				continue
			}
			artifact := recorder.Stop()
			recorder = nil
			if artifact == nil || artifact.Size == 0 {
				continue
			}
			artifact.SessionID = conn.SessionID
			h.saveRecording(conn.UserID, artifact)
		}
	}
}

// saveRecording persists a finished artifact in the background.
func (h *Handler) saveRecording(userID string, artifact *model.RecordingArtifact) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := h.recordingSvc.Save(ctx, userID, artifact); err != nil {
			log.Printf("ws: failed to save recording for session %s: %v", artifact.SessionID, err)
		}
	}()
}
