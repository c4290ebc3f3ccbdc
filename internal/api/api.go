// ABOUTME: REST API surface: route registration and shared JSON helpers
// ABOUTME: Mounts auth, task, assistant and health endpoints on a ServeMux

package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/huddleapp/huddle/internal/assistant"
	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/store"
)

// timeFormat is the wire format for timestamps in responses.
const timeFormat = time.RFC3339

// API holds the dependencies for the REST handlers.
type API struct {
	store     store.Store
	verifier  *auth.JWTVerifier
	tokenTTL  time.Duration
	assistant *assistant.Service
	logger    *slog.Logger
}

// New builds the API. The assistant service may be nil, in which case the
// AI routes respond 503.
func New(st store.Store, verifier *auth.JWTVerifier, tokenTTL time.Duration, ai *assistant.Service, logger *slog.Logger) *API {
	if logger == nil {
		logger = slog.Default()
	}
	return &API{
		store:     st,
		verifier:  verifier,
		tokenTTL:  tokenTTL,
		assistant: ai,
		logger:    logger.With("component", "api"),
	}
}

// Routes registers every REST endpoint on the mux. The websocket chat
// endpoint is mounted separately by the server.
func (a *API) Routes(mux *http.ServeMux) {
	authed := auth.Middleware(a.verifier)

	mux.HandleFunc("POST /auth/signup", a.handleSignup)
	mux.HandleFunc("POST /auth/login", a.handleLogin)
	mux.Handle("DELETE /auth/delete", authed(http.HandlerFunc(a.handleDeleteAccount)))
	mux.HandleFunc("GET /auth/all", a.handleListUsers)

	mux.Handle("GET /tasks/{$}", authed(http.HandlerFunc(a.handleListTasks)))
	mux.Handle("POST /tasks/{$}", authed(http.HandlerFunc(a.handleCreateTask)))
	mux.Handle("PUT /tasks/{id}", authed(http.HandlerFunc(a.handleUpdateTask)))
	mux.Handle("DELETE /tasks/{id}", authed(http.HandlerFunc(a.handleDeleteTask)))

	mux.Handle("POST /api/todo-ai/{$}", authed(http.HandlerFunc(a.handleAssistantChat)))
	mux.Handle("GET /api/todo-ai/chats", authed(http.HandlerFunc(a.handleAssistantHistory)))
	mux.Handle("POST /api/todo-ai/upload_document", authed(http.HandlerFunc(a.handleUploadDocument)))
	mux.Handle("POST /api/todo-ai/doc_chat", authed(http.HandlerFunc(a.handleDocChat)))
	mux.Handle("GET /api/todo-ai/doc_chats", authed(http.HandlerFunc(a.handleDocChatHistory)))
	mux.Handle("GET /api/todo-ai/doc_search", authed(http.HandlerFunc(a.handleDocSearch)))

	mux.HandleFunc("GET /health", a.handleHealth)
	mux.HandleFunc("GET /health/ready", a.handleReady)
	mux.HandleFunc("GET /{$}", a.handleRoot)
}

func (a *API) sendJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.logger.Error("failed to encode response", "error", err)
	}
}

func (a *API) sendJSONError(w http.ResponseWriter, status int, message string) {
	a.sendJSON(w, status, map[string]string{"error": message})
}

func (a *API) handleRoot(w http.ResponseWriter, r *http.Request) {
	a.sendJSON(w, http.StatusOK, map[string]string{"message": "Hello, it is working fine."})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.sendJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := a.store.Ping(r.Context()); err != nil {
		a.logger.Error("readiness check failed", "error", err)
		a.sendJSONError(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	a.sendJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
