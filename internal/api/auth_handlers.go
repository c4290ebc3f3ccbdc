// ABOUTME: Account endpoints: signup, login, account deletion and user listing
// ABOUTME: Issues JWTs on login and never exposes password hashes

package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/store"
)

// SignupRequest is the JSON body for POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserResponse is a user without sensitive fields.
type UserResponse struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		a.sendJSONError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		a.logger.Error("failed to hash password", "error", err)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	user := &store.User{
		Name:         req.Name,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := a.store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			a.sendJSONError(w, http.StatusBadRequest, "Username already exists")
			return
		}
		a.logger.Error("failed to create user", "error", err)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.logger.Info("user registered", "username", user.Username)
	a.sendJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully"})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := a.store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Same response as a wrong password, no account enumeration.
			a.sendJSONError(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		a.logger.Error("failed to load user", "error", err)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		a.sendJSONError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := a.verifier.Generate(user.Username, a.tokenTTL)
	if err != nil {
		a.logger.Error("failed to generate token", "error", err)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.sendJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

func (a *API) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	username := auth.UserFromContext(r.Context())

	if err := a.store.DeleteUser(r.Context(), username); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.sendJSONError(w, http.StatusNotFound, "User not found")
			return
		}
		a.logger.Error("failed to delete user", "error", err)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	a.logger.Info("account deleted", "username", username)
	a.sendJSON(w, http.StatusOK, map[string]string{"message": "User account deleted successfully"})
}

func (a *API) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := a.store.ListUsers(r.Context())
	if err != nil {
		a.logger.Error("failed to list users", "error", err)
		a.sendJSONError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, UserResponse{Name: u.Name, Email: u.Email, Username: u.Username})
	}
	a.sendJSON(w, http.StatusOK, map[string][]UserResponse{"users": out})
}
