package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"interviewd/internal/cache"
	"interviewd/internal/question"
	"interviewd/internal/service"
	"interviewd/internal/transport/rest/handler"
	"interviewd/internal/transport/rest/middleware"
	"interviewd/internal/transport/ws"
)

// Container holds all dependencies for the router.
type Container struct {
	AuthService      *service.AuthService
	SessionService   *service.SessionService
	RecordingService *service.RecordingService
	QuestionSource   question.Source
	Credentials      cache.CredentialStore
	WSHub            *ws.Hub
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	authHandler := handler.NewAuthHandler(c.AuthService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	topicHandler := handler.NewTopicHandler(c.QuestionSource)
	credentialHandler := handler.NewCredentialHandler(c.Credentials)
	recordingHandler := handler.NewRecordingHandler(c.RecordingService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.SessionService, c.RecordingService)

	authMW := middleware.NewAuthMiddleware(c.AuthService)

	r.Use(corsMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")

	// WebSocket route (token in query param)
	v1.HandleFunc("/ws/sessions/{sessionId}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Authenticated routes
	userRoutes := v1.NewRoute().Subrouter()
	userRoutes.Use(authMW.RequireUser)

	userRoutes.HandleFunc("/topics", topicHandler.List).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions", sessionHandler.History).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{sessionId}", sessionHandler.Get).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{sessionId}/answers", sessionHandler.Submit).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{sessionId}/end", sessionHandler.End).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{sessionId}/reset", sessionHandler.Reset).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{sessionId}/speak", sessionHandler.Speak).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/sessions/{sessionId}/record", sessionHandler.Record).Methods("GET", "OPTIONS")

	userRoutes.HandleFunc("/credentials/{provider}", credentialHandler.Put).Methods("PUT", "OPTIONS")
	userRoutes.HandleFunc("/credentials/{provider}", credentialHandler.Status).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/credentials/{provider}", credentialHandler.Delete).Methods("DELETE", "OPTIONS")

	userRoutes.HandleFunc("/recordings", recordingHandler.Upload).Methods("POST", "OPTIONS")
	userRoutes.HandleFunc("/recordings", recordingHandler.List).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/recordings/{recordingId}", recordingHandler.Download).Methods("GET", "OPTIONS")
	userRoutes.HandleFunc("/recordings/{recordingId}", recordingHandler.Delete).Methods("DELETE", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
