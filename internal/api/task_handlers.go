// ABOUTME: Task endpoints: per-user CRUD scoped by the authenticated username
// ABOUTME: Preserves the wire field names the web frontend expects

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/store"
)

// TaskCreateRequest is the JSON body for POST /tasks/.
type TaskCreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Completed   bool   `json:"completed"`
	Pinned      bool   `json:"pinned"`
}

// TaskUpdateRequest is the JSON body for PUT /tasks/{id}. Absent fields are
// left unchanged.
type TaskUpdateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	DueDate     *string `json:"dueDate"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	Completed   *bool   `json:"completed"`
	Pinned      *bool   `json:"pinned"`
}

// TaskResponse serializes a task. The _id and dueDate names are what the
// existing frontend binds to.
type TaskResponse struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
	Priority    string `json:"priority"`
	Status      string `json:"status"`
	Completed   bool   `json:"completed"`
	Username    string `json:"username"`
	Pinned      bool   `json:"pinned"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func taskResponse(t *store.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    t.Priority,
		Status:      t.Status,
		Completed:   t.Completed,
		Username:    t.Username,
		Pinned:      t.Pinned,
		CreatedAt:   t.CreatedAt.Format(timeFormat),
		UpdatedAt:   t.UpdatedAt.Format(timeFormat),
	}
}

func (a *API) handleListTasks(w http.ResponseWriter, r *http.Request) {
	username := auth.UserFromContext(r.Context())

	tasks, err := a.store.ListTasks(r.Context(), username)
	if err != nil {
		a.logger.Error("failed to list tasks", "error", err)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskResponse(t))
	}
	a.sendJSON(w, http.StatusOK, map[string][]TaskResponse{"tasks": out})
}

func (a *API) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	username := auth.UserFromContext(r.Context())

	var req TaskCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Title == "" {
		a.sendJSONError(w, http.StatusBadRequest, "title is required")
		return
	}

	task := &store.Task{
		Username:    username,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
		Completed:   req.Completed,
		Pinned:      req.Pinned,
	}
	if err := a.store.CreateTask(r.Context(), task); err != nil {
		a.logger.Error("failed to create task", "error", err)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.sendJSON(w, http.StatusOK, taskResponse(task))
}

func (a *API) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	username := auth.UserFromContext(r.Context())
	taskID := r.PathValue("id")
	if taskID == "" {
		a.sendJSONError(w, http.StatusBadRequest, "Invalid Task ID")
		return
	}

	var req TaskUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	patch := &store.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
		Status:      req.Status,
		Completed:   req.Completed,
		Pinned:      req.Pinned,
	}

	task, err := a.store.UpdateTask(r.Context(), taskID, username, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmptyUpdate):
			a.sendJSONError(w, http.StatusBadRequest, "No fields provided for update")
		case errors.Is(err, store.ErrNotFound):
			a.sendJSONError(w, http.StatusNotFound, "Task not found or you don't have permission to edit this task")
		default:
			a.logger.Error("failed to update task", "error", err, "task_id", taskID)
			a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	a.sendJSON(w, http.StatusOK, taskResponse(task))
}

func (a *API) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	username := auth.UserFromContext(r.Context())
	taskID := r.PathValue("id")
	if taskID == "" {
		a.sendJSONError(w, http.StatusBadRequest, "Invalid Task ID")
		return
	}

	if err := a.store.DeleteTask(r.Context(), taskID, username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.sendJSONError(w, http.StatusNotFound, "Task not found or you don't have permission to delete this task")
			return
		}
		a.logger.Error("failed to delete task", "error", err, "task_id", taskID)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.sendJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}
