// ABOUTME: End-to-end REST API tests over httptest with a real SQLite store
// ABOUTME: Covers auth flows, task CRUD ownership and the AI endpoints

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huddleapp/huddle/internal/assistant"
	"github.com/huddleapp/huddle/internal/auth"
	"github.com/huddleapp/huddle/internal/store"
	"github.com/huddleapp/huddle/internal/vector"
)

type fakeCompleter struct {
	reply string
}

func (f *fakeCompleter) Complete(_ context.Context, _ []store.Turn) (string, error) {
	return f.reply, nil
}

type apiFixture struct {
	server *httptest.Server
	store  *store.SQLiteStore
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	verifier, err := auth.NewJWTVerifier([]byte("test-secret"))
	require.NoError(t, err)

	ai := assistant.NewService(&fakeCompleter{reply: "canned reply"}, st, vector.NewIndex(nil), nil)

	mux := http.NewServeMux()
	New(st, verifier, time.Hour, ai, nil).Routes(mux)

	server := httptest.NewServer(CORS(nil)(mux))
	t.Cleanup(server.Close)

	return &apiFixture{server: server, store: st}
}

func (f *apiFixture) request(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, f.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func (f *apiFixture) signupAndLogin(t *testing.T, username string) string {
	t.Helper()

	resp, _ := f.request(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"name": "Test User", "email": username + "@example.com",
		"username": username, "password": "hunter2",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": username, "password": "hunter2",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRoot_HelloMessage(t *testing.T) {
	f := newAPIFixture(t)
	resp, body := f.request(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Hello, it is working fine.", body["message"])
}

func TestHealth_Endpoints(t *testing.T) {
	f := newAPIFixture(t)

	resp, body := f.request(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, body = f.request(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])
}

func TestSignup_DuplicateUsername(t *testing.T) {
	f := newAPIFixture(t)
	f.signupAndLogin(t, "alice")

	resp, body := f.request(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": "ALICE", "password": "other", "name": "A", "email": "a@b.c",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Username already exists", body["error"])
}

func TestLogin_BadCredentials(t *testing.T) {
	f := newAPIFixture(t)
	f.signupAndLogin(t, "alice")

	resp, _ := f.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = f.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "nobody", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListUsers_OmitsPasswordHashes(t *testing.T) {
	f := newAPIFixture(t)
	f.signupAndLogin(t, "alice")

	resp, body := f.request(t, http.MethodGet, "/auth/all", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	users, ok := body["users"].([]any)
	require.True(t, ok)
	require.Len(t, users, 1)
	user := users[0].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "password_hash")
}

func TestDeleteAccount(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signupAndLogin(t, "alice")

	resp, _ := f.request(t, http.MethodDelete, "/auth/delete", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.request(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice", "password": "hunter2",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTasks_RequireAuth(t *testing.T) {
	f := newAPIFixture(t)
	resp, _ := f.request(t, http.MethodGet, "/tasks/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTasks_CreateAndList(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signupAndLogin(t, "alice")

	resp, created := f.request(t, http.MethodPost, "/tasks/", token, map[string]any{
		"title": "write report", "description": "quarterly numbers",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, created["_id"])
	assert.Equal(t, "alice", created["username"])
	assert.Equal(t, "Medium", created["priority"])
	assert.Equal(t, "todo", created["status"])

	resp, body := f.request(t, http.MethodGet, "/tasks/", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, "write report", tasks[0].(map[string]any)["title"])
}

func TestTasks_ScopedToOwner(t *testing.T) {
	f := newAPIFixture(t)
	aliceToken := f.signupAndLogin(t, "alice")
	bobToken := f.signupAndLogin(t, "bob")

	resp, created := f.request(t, http.MethodPost, "/tasks/", aliceToken, map[string]any{
		"title": "alice's task",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	taskID := created["_id"].(string)

	resp, body := f.request(t, http.MethodGet, "/tasks/", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["tasks"].([]any))

	resp, _ = f.request(t, http.MethodPut, "/tasks/"+taskID, bobToken, map[string]any{
		"title": "hijacked",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.request(t, http.MethodDelete, "/tasks/"+taskID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTasks_PartialUpdate(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signupAndLogin(t, "alice")

	_, created := f.request(t, http.MethodPost, "/tasks/", token, map[string]any{
		"title": "original", "description": "keep me",
	})
	taskID := created["_id"].(string)

	resp, updated := f.request(t, http.MethodPut, "/tasks/"+taskID, token, map[string]any{
		"completed": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, updated["completed"])
	assert.Equal(t, "original", updated["title"])
	assert.Equal(t, "keep me", updated["description"])
}

func TestTasks_EmptyUpdate(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signupAndLogin(t, "alice")

	_, created := f.request(t, http.MethodPost, "/tasks/", token, map[string]any{"title": "t"})
	taskID := created["_id"].(string)

	resp, body := f.request(t, http.MethodPut, "/tasks/"+taskID, token, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "No fields provided for update", body["error"])
}

func TestTasks_DeleteFlow(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signupAndLogin(t, "alice")

	_, created := f.request(t, http.MethodPost, "/tasks/", token, map[string]any{"title": "t"})
	taskID := created["_id"].(string)

	resp, _ := f.request(t, http.MethodDelete, "/tasks/"+taskID, token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.request(t, http.MethodDelete, "/tasks/"+taskID, token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAssistantChat_ReturnsReplyAndHTML(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signupAndLogin(t, "alice")

	resp, body := f.request(t, http.MethodPost, "/api/todo-ai/", token, map[string]string{
		"message": "hello", "conversation_id": "conv-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "canned reply", body["response"])
	assert.Equal(t, "conv-1", body["conversation_id"])
	assert.Contains(t, body["response_html"], "canned reply")
}

func TestAssistantHistory_UnknownConversation(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signupAndLogin(t, "alice")

	resp, _ := f.request(t, http.MethodGet, "/api/todo-ai/chats?conversation_id=ghost", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDocChat_FullFlow(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signupAndLogin(t, "alice")

	resp, body := f.request(t, http.MethodPost, "/api/todo-ai/upload_document", token, map[string]string{
		"doc_id": "doc-1", "title": "Handbook", "content": "Wash your hands.",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "doc-1", body["doc_id"])

	resp, body = f.request(t, http.MethodPost, "/api/todo-ai/doc_chat", token, map[string]string{
		"message": "what does it say?", "doc_id": "doc-1", "conversation_id": "docconv-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "canned reply", body["response"])

	resp, body = f.request(t, http.MethodGet, "/api/todo-ai/doc_chats?conversation_id=docconv-1", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	messages := body["messages"].([]any)
	assert.GreaterOrEqual(t, len(messages), 3)
}

func TestDocChat_UnknownDocument(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signupAndLogin(t, "alice")

	resp, _ := f.request(t, http.MethodPost, "/api/todo-ai/doc_chat", token, map[string]string{
		"message": "hi", "doc_id": "ghost", "conversation_id": "docconv-1",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDocSearch_RanksDocuments(t *testing.T) {
	f := newAPIFixture(t)
	token := f.signupAndLogin(t, "alice")

	for _, doc := range []map[string]string{
		{"doc_id": "doc-1", "title": "Notes", "content": "quarterly planning notes"},
		{"doc_id": "doc-2", "title": "Menu", "content": "zzzzzzzzzzzzzzzzzzzzzzzz"},
	} {
		resp, _ := f.request(t, http.MethodPost, "/api/todo-ai/upload_document", token, doc)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, body := f.request(t, http.MethodGet, "/api/todo-ai/doc_search?query=quarterly+planning+notes", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	docs := body["documents"].([]any)
	require.Len(t, docs, 1)
	assert.Equal(t, "doc-1", docs[0].(map[string]any)["doc_id"])
}

func TestCORS_PreflightAndHeaders(t *testing.T) {
	f := newAPIFixture(t)

	req, err := http.NewRequest(http.MethodOptions, f.server.URL+"/tasks/", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.com")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PUT")
}
