package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"interviewd/internal/cache"
	"interviewd/internal/config"
	"interviewd/internal/transport/rest/middleware"
)

// CredentialHandler stores per-user grading API keys. Keys are write-only
// over the API: reads report presence, never the key itself.
type CredentialHandler struct {
	credentials cache.CredentialStore
}

// NewCredentialHandler creates the credential handler.
func NewCredentialHandler(credentials cache.CredentialStore) *CredentialHandler {
	return &CredentialHandler{credentials: credentials}
}

// Put handles PUT /v1/credentials/{provider}
func (h *CredentialHandler) Put(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	provider := config.Provider(mux.Vars(r)["provider"])
	if !provider.Valid() {
		writeError(w, http.StatusBadRequest, "unknown provider")
		return
	}

	var req struct {
		APIKey string `json:"apiKey"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.credentials.Set(r.Context(), userID, provider, req.APIKey); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to store credential")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "stored"})
}

// Status handles GET /v1/credentials/{provider}
func (h *CredentialHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	provider := config.Provider(mux.Vars(r)["provider"])
	if !provider.Valid() {
		writeError(w, http.StatusBadRequest, "unknown provider")
		return
	}

	key, err := h.credentials.Get(r.Context(), userID, provider)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read credential")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"configured": key != ""})
}

// Delete handles DELETE /v1/credentials/{provider}
func (h *CredentialHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	provider := config.Provider(mux.Vars(r)["provider"])
	if !provider.Valid() {
		writeError(w, http.StatusBadRequest, "unknown provider")
		return
	}

	if err := h.credentials.Delete(r.Context(), userID, provider); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete credential")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
