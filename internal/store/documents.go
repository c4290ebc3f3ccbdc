// ABOUTME: Document persistence for the SQLite store
// ABOUTME: Stores uploaded documents backing document-grounded chat

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// SaveDocument upserts an uploaded document by its client-supplied id.
func (s *SQLiteStore) SaveDocument(ctx context.Context, doc *Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, title, content, uploaded_by, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			content = excluded.content,
			uploaded_by = excluded.uploaded_by
	`, doc.ID, doc.Title, doc.Content, doc.UploadedBy, doc.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// GetDocument loads a document by id. Returns ErrNotFound when unknown.
func (s *SQLiteStore) GetDocument(ctx context.Context, id string) (*Document, error) {
	var d Document
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, content, uploaded_by, created_at
		FROM documents WHERE id = ?
	`, id).Scan(&d.ID, &d.Title, &d.Content, &d.UploadedBy, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}
	if d.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}
	return &d, nil
}

// ListDocuments returns all stored documents, oldest upload first.
func (s *SQLiteStore) ListDocuments(ctx context.Context) ([]*Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, uploaded_by, created_at
		FROM documents ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []*Document
	for rows.Next() {
		var d Document
		var createdAt string
		if err := rows.Scan(&d.ID, &d.Title, &d.Content, &d.UploadedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if d.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
			return nil, fmt.Errorf("parsing created_at: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}
