// Package store provides persistence for huddle using SQLite.
//
// # Overview
//
// The store persists five entity families:
//
//   - Users: accounts created at signup (bcrypt hash included)
//   - Tasks: per-user to-do items
//   - ChatMessages: append-only direct messages between two users
//   - Transcripts: AI assistant conversations as ordered turn lists
//   - Documents: uploaded documents backing document-grounded chat
//
// # Usage
//
//	s, err := store.NewSQLiteStore("/var/lib/huddle/huddle.db")
//
// Pass ":memory:" for an in-memory database (used by tests). The schema is
// created automatically on open; WAL mode is enabled for concurrent readers.
//
// # Chat history contract
//
// ChatHistory(a, b) returns every message between the two users in either
// direction, oldest first, and an empty slice when no history exists. The
// real-time chat layer relies on both properties for backfill.
package store
