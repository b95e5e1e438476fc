package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"interviewd/internal/model"
	"interviewd/internal/repository"
	"interviewd/internal/service"
	"interviewd/internal/transport/rest/middleware"
)

// maxRecordingBytes caps uploaded artifacts.
const maxRecordingBytes = 64 << 20

// RecordingHandler manages the user's recording library.
type RecordingHandler struct {
	recordingSvc *service.RecordingService
}

// NewRecordingHandler creates the recording handler.
func NewRecordingHandler(recordingSvc *service.RecordingService) *RecordingHandler {
	return &RecordingHandler{recordingSvc: recordingSvc}
}

// Upload handles POST /v1/recordings — the finished artifact as the request
// body, metadata in headers/query.
func (h *RecordingHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	data, err := io.ReadAll(io.LimitReader(r.Body, maxRecordingBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read recording")
		return
	}
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "empty recording")
		return
	}

	mimeType := r.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "video/webm"
	}

	artifact := &model.RecordingArtifact{
		SessionID: r.URL.Query().Get("sessionId"),
		MIMEType:  mimeType,
		Data:      data,
		StartedAt: time.Now(),
	}

	saved, err := h.recordingSvc.Save(r.Context(), userID, artifact)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save recording")
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

// List handles GET /v1/recordings
func (h *RecordingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	artifacts, err := h.recordingSvc.List(r.Context(), userID, 50)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list recordings")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"recordings": artifacts})
}

// Download handles GET /v1/recordings/{recordingId}
func (h *RecordingHandler) Download(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id := mux.Vars(r)["recordingId"]

	artifact, err := h.recordingSvc.Get(r.Context(), userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "recording not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read recording")
		return
	}

	w.Header().Set("Content-Type", artifact.MIMEType)
	w.WriteHeader(http.StatusOK)
	w.Write(artifact.Data)
}

// Delete handles DELETE /v1/recordings/{recordingId}
func (h *RecordingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	id := mux.Vars(r)["recordingId"]

	if err := h.recordingSvc.Delete(r.Context(), userID, id); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete recording")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
