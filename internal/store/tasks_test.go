// ABOUTME: Tests for task persistence
// ABOUTME: Covers ownership scoping, partial updates and deletion

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestStore_CreateTask_Defaults(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	task := &Task{Username: "alice", Title: "Buy milk", Description: "2 liters"}
	require.NoError(t, store.CreateTask(ctx, task))

	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "Medium", task.Priority)
	assert.Equal(t, "todo", task.Status)
	assert.False(t, task.Completed)
}

func TestStore_ListTasks_ScopedToOwner(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateTask(ctx, &Task{Username: "alice", Title: "a", Description: "d"}))
	require.NoError(t, store.CreateTask(ctx, &Task{Username: "bob", Title: "b", Description: "d"}))

	tasks, err := store.ListTasks(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "a", tasks[0].Title)
}

func TestStore_UpdateTask_Partial(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	task := &Task{Username: "alice", Title: "old", Description: "keep me", DueDate: "2026-09-01"}
	require.NoError(t, store.CreateTask(ctx, task))

	updated, err := store.UpdateTask(ctx, task.ID, "alice", &TaskPatch{
		Title:     strPtr("new"),
		Completed: boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "new", updated.Title)
	assert.True(t, updated.Completed)
	assert.Equal(t, "keep me", updated.Description, "unset fields must be preserved")
	assert.Equal(t, "2026-09-01", updated.DueDate)
}

func TestStore_UpdateTask_EmptyPatch(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	task := &Task{Username: "alice", Title: "t", Description: "d"}
	require.NoError(t, store.CreateTask(ctx, task))

	_, err := store.UpdateTask(ctx, task.ID, "alice", &TaskPatch{})
	assert.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestStore_UpdateTask_WrongOwner(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	task := &Task{Username: "alice", Title: "t", Description: "d"}
	require.NoError(t, store.CreateTask(ctx, task))

	_, err := store.UpdateTask(ctx, task.ID, "bob", &TaskPatch{Title: strPtr("stolen")})
	assert.ErrorIs(t, err, ErrNotFound)

	// Alice's task is untouched
	got, err := store.GetTask(ctx, task.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
}

func TestStore_DeleteTask(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	task := &Task{Username: "alice", Title: "t", Description: "d"}
	require.NoError(t, store.CreateTask(ctx, task))

	assert.ErrorIs(t, store.DeleteTask(ctx, task.ID, "bob"), ErrNotFound)
	require.NoError(t, store.DeleteTask(ctx, task.ID, "alice"))
	assert.ErrorIs(t, store.DeleteTask(ctx, task.ID, "alice"), ErrNotFound)
}
