package ws

import (
	"encoding/json"
	"log"
	"sync"

	"interviewd/internal/interview"
)

// MessageType defines the type of WebSocket message.
type MessageType string

// Server -> client message types.
const (
	MsgSessionState MessageType = "session_state"
	MsgSpeakCue     MessageType = "speak_cue"
	MsgError        MessageType = "error"
)

// Client -> server message types.
const (
	MsgTranscript     MessageType = "transcript"
	MsgPlaybackDone   MessageType = "playback_done"
	MsgAskCurrent     MessageType = "ask_current"
	MsgRecordingStart MessageType = "recording_start"
	MsgRecordingStop  MessageType = "recording_stop"
)

// Message is the WebSocket envelope format.
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Hub manages WebSocket connections per session.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*Connection]struct{} // sessionID -> connections
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*Connection]struct{})}
}

// Connection is one client subscribed to a session's events.
type Connection struct {
	SessionID string
	UserID    string
	Send      chan []byte
	Hub       *Hub
}

// Register adds a connection to its session's fan-out set.
func (h *Hub) Register(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[c.SessionID] == nil {
		h.conns[c.SessionID] = make(map[*Connection]struct{})
	}
	h.conns[c.SessionID][c] = struct{}{}
}

// Unregister removes a connection and closes its send channel.
func (h *Hub) Unregister(c *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.conns[c.SessionID]; ok {
		if _, ok := set[c]; ok {
			delete(set, c)
			close(c.Send)
			if len(set) == 0 {
				delete(h.conns, c.SessionID)
			}
		}
	}
}

// broadcast fans a message out to every connection on a session. Slow
// consumers are skipped rather than blocking the sender.
func (h *Hub) broadcast(sessionID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("ws: marshal broadcast: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[sessionID] {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// BroadcastSessionState implements service.Broadcaster.
func (h *Hub) BroadcastSessionState(sessionID string, snap interview.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		log.Printf("ws: marshal snapshot: %v", err)
		return
	}
	h.broadcast(sessionID, Message{Type: MsgSessionState, Payload: payload})
}

// CueSpeak implements service.Broadcaster: tells the client to speak text
// aloud and report playback_done when finished.
func (h *Hub) CueSpeak(sessionID, text string) {
	payload, _ := json.Marshal(map[string]string{"text": text})
	h.broadcast(sessionID, Message{Type: MsgSpeakCue, Payload: payload})
}
