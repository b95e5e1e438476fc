package handler

import (
	"net/http"

	"interviewd/internal/question"
)

// TopicHandler lists the available question topics.
type TopicHandler struct {
	source question.Source
}

// NewTopicHandler creates the topic handler.
func NewTopicHandler(source question.Source) *TopicHandler {
	return &TopicHandler{source: source}
}

// List handles GET /v1/topics
func (h *TopicHandler) List(w http.ResponseWriter, r *http.Request) {
	topics, err := h.source.Topics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list topics")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"topics": topics})
}
