// ABOUTME: AI endpoints: assistant chat, document upload, document chat
// ABOUTME: Thin JSON adapters over the assistant service

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/huddleapp/huddle/internal/assistant"
	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/store"
)

// AssistantChatRequest is the JSON body for POST /api/todo-ai/.
type AssistantChatRequest struct {
	Message        string `json:"message"`
	Role           string `json:"role"`
	ConversationID string `json:"conversation_id"`
}

// DocChatRequest is the JSON body for POST /api/todo-ai/doc_chat.
type DocChatRequest struct {
	Message        string `json:"message"`
	DocID          string `json:"doc_id"`
	ConversationID string `json:"conversation_id"`
	Role           string `json:"role"`
}

// UploadDocumentRequest is the JSON body for POST /api/todo-ai/upload_document.
type UploadDocumentRequest struct {
	DocID   string `json:"doc_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// DocumentResponse serializes a stored document for search results.
type DocumentResponse struct {
	DocID   string `json:"doc_id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (a *API) requireAssistant(w http.ResponseWriter) bool {
	if a.assistant == nil {
		a.sendJSONError(w, http.StatusServiceUnavailable, "AI assistant is not configured")
		return false
	}
	return true
}

func (a *API) handleAssistantChat(w http.ResponseWriter, r *http.Request) {
	if !a.requireAssistant(w) {
		return
	}

	var req AssistantChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" || req.ConversationID == "" {
		a.sendJSONError(w, http.StatusBadRequest, "message and conversation_id are required")
		return
	}

	reply, err := a.assistant.Chat(r.Context(), req.ConversationID, req.Role, req.Message)
	if err != nil {
		a.logger.Error("assistant chat failed", "error", err, "conversation_id", req.ConversationID)
		a.sendJSONError(w, http.StatusInternalServerError, "Error with completion provider")
		return
	}

	html, err := assistant.RenderHTML(reply)
	if err != nil {
		a.logger.Error("failed to render reply", "error", err)
		html = ""
	}

	a.sendJSON(w, http.StatusOK, map[string]string{
		"response":        reply,
		"response_html":   html,
		"conversation_id": req.ConversationID,
	})
}

func (a *API) handleAssistantHistory(w http.ResponseWriter, r *http.Request) {
	if !a.requireAssistant(w) {
		return
	}

	conversationID := r.URL.Query().Get("conversation_id")
	if conversationID == "" {
		a.sendJSONError(w, http.StatusBadRequest, "conversation_id is required")
		return
	}

	turns, err := a.assistant.History(r.Context(), conversationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.sendJSONError(w, http.StatusNotFound, "No chat history found.")
			return
		}
		a.logger.Error("failed to load chat history", "error", err)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.sendJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"messages":        turns,
	})
}

func (a *API) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if !a.requireAssistant(w) {
		return
	}

	var req UploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.DocID == "" || req.Content == "" {
		a.sendJSONError(w, http.StatusBadRequest, "doc_id and content are required")
		return
	}

	doc := &store.Document{
		ID:         req.DocID,
		Title:      req.Title,
		Content:    req.Content,
		UploadedBy: auth.UserFromContext(r.Context()),
	}
	if err := a.assistant.UploadDocument(r.Context(), doc); err != nil {
		a.logger.Error("failed to upload document", "error", err, "doc_id", req.DocID)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.sendJSON(w, http.StatusOK, map[string]string{
		"message": "Document uploaded successfully",
		"doc_id":  req.DocID,
	})
}

func (a *API) handleDocChat(w http.ResponseWriter, r *http.Request) {
	if !a.requireAssistant(w) {
		return
	}

	var req DocChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" || req.DocID == "" || req.ConversationID == "" {
		a.sendJSONError(w, http.StatusBadRequest, "message, doc_id and conversation_id are required")
		return
	}

	reply, err := a.assistant.DocumentChat(r.Context(), req.ConversationID, req.DocID, req.Role, req.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrDocumentNotFound) {
			a.sendJSONError(w, http.StatusNotFound, "Document with id "+req.DocID+" not found")
			return
		}
		a.logger.Error("document chat failed", "error", err, "conversation_id", req.ConversationID)
		a.sendJSONError(w, http.StatusInternalServerError, "Error with completion provider")
		return
	}

	a.sendJSON(w, http.StatusOK, map[string]string{
		"response":        reply,
		"conversation_id": req.ConversationID,
	})
}

func (a *API) handleDocChatHistory(w http.ResponseWriter, r *http.Request) {
	if !a.requireAssistant(w) {
		return
	}

	conversationID := r.URL.Query().Get("conversation_id")
	if conversationID == "" {
		a.sendJSONError(w, http.StatusBadRequest, "conversation_id is required")
		return
	}

	turns, err := a.assistant.DocumentHistory(r.Context(), conversationID)
	if err != nil {
		a.logger.Error("failed to load document chat history", "error", err)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.sendJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"messages":        turns,
	})
}

func (a *API) handleDocSearch(w http.ResponseWriter, r *http.Request) {
	if !a.requireAssistant(w) {
		return
	}

	query := r.URL.Query().Get("query")
	if query == "" {
		a.sendJSONError(w, http.StatusBadRequest, "query is required")
		return
	}
	topK := 1
	if raw := r.URL.Query().Get("top_k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.sendJSONError(w, http.StatusBadRequest, "top_k must be a positive integer")
			return
		}
		topK = n
	}

	docs, err := a.assistant.SearchDocuments(r.Context(), query, topK)
	if err != nil {
		a.logger.Error("document search failed", "error", err)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]DocumentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, DocumentResponse{DocID: d.ID, Title: d.Title, Content: d.Content})
	}
	a.sendJSON(w, http.StatusOK, map[string][]DocumentResponse{"documents": out})
}
