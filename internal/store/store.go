// ABOUTME: Store interface and data types for huddle persistence
// ABOUTME: Defines User, Task, ChatMessage, Transcript, Document and the Store interface

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when creating a user whose username already exists
var ErrUsernameTaken = errors.New("username already exists")

// ErrEmptyUpdate is returned when an update request carries no fields
var ErrEmptyUpdate = errors.New("no fields provided for update")

// User is a registered account. Usernames are stored lowercased and are unique.
type User struct {
	ID           string
	Name         string
	Email        string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Task priority and status defaults
const (
	TaskPriorityDefault = "Medium"
	TaskStatusDefault   = "todo"
)

// Task is a to-do item owned by a single user.
type Task struct {
	ID          string
	Username    string
	Title       string
	Description string
	DueDate     string // free-form date string supplied by the client, may be empty
	Priority    string
	Status      string
	Completed   bool
	Pinned      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TaskPatch carries a partial task update. Nil fields are left unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *string
	Priority    *string
	Status      *string
	Completed   *bool
	Pinned      *bool
}

// IsEmpty reports whether the patch carries no fields at all.
func (p *TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.DueDate == nil &&
		p.Priority == nil && p.Status == nil && p.Completed == nil && p.Pinned == nil
}

// ChatMessage is a persisted direct message between two users.
// Immutable once stored; never updated or deleted.
type ChatMessage struct {
	ID        string
	Sender    string
	Receiver  string
	Message   string
	Timestamp time.Time
}

// Transcript kinds
const (
	TranscriptKindAssistant = "assistant"
	TranscriptKindDocument  = "document"
)

// Turn is a single role/content exchange within an AI transcript.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Transcript is a stored AI conversation: the full ordered turn list for one
// conversation id.
type Transcript struct {
	ConversationID string
	Kind           string
	Turns          []Turn
	UpdatedAt      time.Time
}

// Document is an uploaded document available for document-grounded chat.
type Document struct {
	ID         string
	Title      string
	Content    string
	UploadedBy string
	CreatedAt  time.Time
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, username string) error
}

// TaskStore persists to-do items.
type TaskStore interface {
	CreateTask(ctx context.Context, task *Task) error
	ListTasks(ctx context.Context, username string) ([]*Task, error)
	UpdateTask(ctx context.Context, id, username string, patch *TaskPatch) (*Task, error)
	DeleteTask(ctx context.Context, id, username string) error
}

// MessageStore persists direct chat messages. History is returned oldest first;
// a pair with no history yields an empty slice, not an error.
type MessageStore interface {
	InsertChatMessage(ctx context.Context, msg *ChatMessage) error
	ChatHistory(ctx context.Context, userA, userB string) ([]*ChatMessage, error)
}

// TranscriptStore persists AI conversation transcripts.
type TranscriptStore interface {
	GetTranscript(ctx context.Context, conversationID string) (*Transcript, error)
	SaveTranscript(ctx context.Context, t *Transcript) error
}

// DocumentStore persists uploaded documents.
type DocumentStore interface {
	SaveDocument(ctx context.Context, doc *Document) error
	GetDocument(ctx context.Context, id string) (*Document, error)
	ListDocuments(ctx context.Context) ([]*Document, error)
}

// Store is the full persistence surface of the server.
type Store interface {
	UserStore
	TaskStore
	MessageStore
	TranscriptStore
	DocumentStore

	Ping(ctx context.Context) error
	Close() error
}
