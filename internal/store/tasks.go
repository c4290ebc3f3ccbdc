// ABOUTME: Task persistence for the SQLite store
// ABOUTME: CRUD for to-do items, always scoped to the owning username

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateTask inserts a new task. ID, timestamps and defaulted fields are
// filled in when unset.
func (s *SQLiteStore) CreateTask(ctx context.Context, task *Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now
	}
	if task.UpdatedAt.IsZero() {
		task.UpdatedAt = now
	}
	if task.Priority == "" {
		task.Priority = TaskPriorityDefault
	}
	if task.Status == "" {
		task.Status = TaskStatusDefault
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, username, title, description, due_date, priority, status, completed, pinned, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, task.ID, task.Username, task.Title, task.Description, nullIfEmpty(task.DueDate),
		task.Priority, task.Status, task.Completed, task.Pinned,
		task.CreatedAt.Format(time.RFC3339), task.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting task: %w", err)
	}
	return nil
}

// ListTasks returns all tasks owned by username, newest first.
func (s *SQLiteStore) ListTasks(ctx context.Context, username string) ([]*Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, title, description, due_date, priority, status, completed, pinned, created_at, updated_at
		FROM tasks WHERE username = ? ORDER BY created_at DESC
	`, username)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*Task
	for rows.Next() {
		t, err := scanTask(rows.Scan)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// GetTask returns a single task owned by username.
// Returns ErrNotFound when the task does not exist or belongs to someone else.
func (s *SQLiteStore) GetTask(ctx context.Context, id, username string) (*Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, title, description, due_date, priority, status, completed, pinned, created_at, updated_at
		FROM tasks WHERE id = ? AND username = ?
	`, id, username)
	t, err := scanTask(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return t, err
}

// UpdateTask applies a partial update to a task owned by username and returns
// the updated row. Returns ErrEmptyUpdate for an empty patch and ErrNotFound
// when no owned task matches.
func (s *SQLiteStore) UpdateTask(ctx context.Context, id, username string, patch *TaskPatch) (*Task, error) {
	if patch.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	set := "updated_at = ?"
	args := []any{time.Now().UTC().Format(time.RFC3339)}

	appendField := func(column string, value any) {
		set += ", " + column + " = ?"
		args = append(args, value)
	}
	if patch.Title != nil {
		appendField("title", *patch.Title)
	}
	if patch.Description != nil {
		appendField("description", *patch.Description)
	}
	if patch.DueDate != nil {
		appendField("due_date", nullIfEmpty(*patch.DueDate))
	}
	if patch.Priority != nil {
		appendField("priority", *patch.Priority)
	}
	if patch.Status != nil {
		appendField("status", *patch.Status)
	}
	if patch.Completed != nil {
		appendField("completed", *patch.Completed)
	}
	if patch.Pinned != nil {
		appendField("pinned", *patch.Pinned)
	}

	args = append(args, id, username)
	res, err := s.db.ExecContext(ctx, `UPDATE tasks SET `+set+` WHERE id = ? AND username = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("updating task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, ErrNotFound
	}

	return s.GetTask(ctx, id, username)
}

// DeleteTask removes a task owned by username.
// Returns ErrNotFound when no owned task matches.
func (s *SQLiteStore) DeleteTask(ctx context.Context, id, username string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ? AND username = ?`, id, username)
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanTask scans a task row from either *sql.Row or *sql.Rows.
func scanTask(scan func(dest ...any) error) (*Task, error) {
	var t Task
	var dueDate sql.NullString
	var createdAt, updatedAt string
	if err := scan(&t.ID, &t.Username, &t.Title, &t.Description, &dueDate,
		&t.Priority, &t.Status, &t.Completed, &t.Pinned, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	if dueDate.Valid {
		t.DueDate = dueDate.String
	}
	var err error
	if t.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	if t.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", err)
	}
	return &t, nil
}

// nullIfEmpty maps an empty string to NULL for nullable text columns.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
