package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"interviewd/internal/config"
	"interviewd/internal/interview"
	"interviewd/internal/model"
	"interviewd/internal/repository"
	"interviewd/internal/service"
	"interviewd/internal/transport/rest/middleware"
)

// SessionHandler drives live interview sessions over REST.
type SessionHandler struct {
	sessionSvc *service.SessionService
}

// NewSessionHandler creates the session handler.
func NewSessionHandler(sessionSvc *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionSvc: sessionSvc}
}

// StartSessionRequest is the request body for starting a session.
type StartSessionRequest struct {
	Topics        []string            `json:"topics"`
	SelectionMode model.SelectionMode `json:"selectionMode"`
	QuestionCount int                 `json:"questionCount"`
	Provider      config.Provider     `json:"provider"`
}

// Start handles POST /v1/sessions
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Provider == "" {
		req.Provider = config.ProviderOpenAI
	}
	if req.SelectionMode == "" {
		req.SelectionMode = model.SelectionSequential
	}

	snap, err := h.sessionSvc.Start(r.Context(), userID, req.Provider, req.Topics, req.SelectionMode, req.QuestionCount)
	if err != nil {
		if interview.IsValidation(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Loading failure: the session exists in Failed phase; report both.
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":   err.Error(),
			"session": snap,
		})
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// Get handles GET /v1/sessions/{sessionId}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	snap, err := h.sessionSvc.Snapshot(userID, sessionID)
	if err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// SubmitAnswerRequest is the request body for answering a question.
type SubmitAnswerRequest struct {
	Text string `json:"text"`
}

// Submit handles POST /v1/sessions/{sessionId}/answers
func (h *SessionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	var req SubmitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.sessionSvc.Submit(r.Context(), userID, sessionID, req.Text)
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, interview.ErrBusy):
		writeError(w, http.StatusConflict, "another submission is in flight")
	case errors.Is(err, interview.ErrNotActive), errors.Is(err, interview.ErrExhausted):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		// Grading failure: the answer was not recorded; the caller retries.
		writeJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":   err.Error(),
			"session": snap,
		})
	default:
		writeJSON(w, http.StatusOK, snap)
	}
}

// End handles POST /v1/sessions/{sessionId}/end
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	record, err := h.sessionSvc.End(r.Context(), userID, sessionID)
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, interview.ErrBusy):
		writeError(w, http.StatusConflict, "a submission is in flight")
	case errors.Is(err, interview.ErrNotActive):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeJSON(w, http.StatusOK, record)
	}
}

// Reset handles POST /v1/sessions/{sessionId}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.sessionSvc.Reset(userID, sessionID); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// Speak handles POST /v1/sessions/{sessionId}/speak — runs the spoken
// question-answer cycle for the current question.
func (h *SessionHandler) Speak(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	if err := h.sessionSvc.AskCurrent(r.Context(), userID, sessionID); err != nil {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "asking"})
}

// History handles GET /v1/sessions — finished sessions, newest first.
func (h *SessionHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	limit := int64(20)
	records, err := h.sessionSvc.History(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list sessions")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"sessions": records})
}

// Record handles GET /v1/sessions/{sessionId}/record — a finished session's
// persisted record.
func (h *SessionHandler) Record(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	sessionID := mux.Vars(r)["sessionId"]

	rec, err := h.sessionSvc.Record(r.Context(), userID, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read record")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}
