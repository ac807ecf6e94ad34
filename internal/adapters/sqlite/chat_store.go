// Package sqlite contains the chat-store adapter: the host chat
// application's message history, mirrored into a sqlite database. It is
// the boundary the engine reads ledger text from and writes merged
// sub-documents back into.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/example/quill/internal/ports/secondary"
)

// ChatStore implements secondary.LedgerStore over the messages table.
type ChatStore struct {
	db *sql.DB
}

// NewChatStore creates a ChatStore with the injected database.
func NewChatStore(db *sql.DB) *ChatStore {
	return &ChatStore{db: db}
}

// ReadSlice reads the selected region of the message history. An empty
// or absent ledger reads as "", never as an error.
func (s *ChatStore) ReadSlice(ctx context.Context, sel secondary.Selector) (string, error) {
	switch sel {
	case secondary.SelectorFirst, secondary.SelectorLast:
		content, _, err := s.edgeMessage(ctx, sel)
		if err != nil {
			return "", err
		}
		return content, nil
	case secondary.SelectorAll:
		rows, err := s.db.QueryContext(ctx,
			"SELECT content FROM messages ORDER BY position ASC")
		if err != nil {
			return "", fmt.Errorf("failed to query messages: %w", err)
		}
		defer rows.Close()

		var parts []string
		for rows.Next() {
			var content string
			if err := rows.Scan(&content); err != nil {
				return "", fmt.Errorf("failed to scan message: %w", err)
			}
			parts = append(parts, content)
		}
		if err := rows.Err(); err != nil {
			return "", fmt.Errorf("failed to iterate messages: %w", err)
		}
		return strings.Join(parts, "\n\n"), nil
	default:
		return "", fmt.Errorf("unknown ledger selector %q", sel)
	}
}

// WriteSlice replaces the content of the selected message, creating it if
// the ledger is empty. Writing identical text repeatedly is harmless: the
// statement is a plain idempotent UPDATE. The concatenated "all" region
// is read-only.
func (s *ChatStore) WriteSlice(ctx context.Context, sel secondary.Selector, text string) error {
	switch sel {
	case secondary.SelectorFirst, secondary.SelectorLast:
	case secondary.SelectorAll:
		return fmt.Errorf("selector %q is read-only", sel)
	default:
		return fmt.Errorf("unknown ledger selector %q", sel)
	}

	_, id, err := s.edgeMessage(ctx, sel)
	if err != nil {
		return err
	}
	if id == "" {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO messages (id, position, content) VALUES (?, 0, ?)",
			uuid.NewString(), text)
		if err != nil {
			return fmt.Errorf("failed to insert message: %w", err)
		}
		return nil
	}

	_, err = s.db.ExecContext(ctx,
		"UPDATE messages SET content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		text, id)
	if err != nil {
		return fmt.Errorf("failed to update message %s: %w", id, err)
	}
	return nil
}

// Append adds a message after the current highest position. Used by the
// init/seed surface and by tests standing in for the external generator.
func (s *ChatStore) Append(ctx context.Context, author, content string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (id, position, author, content)
		VALUES (?, COALESCE((SELECT MAX(position) FROM messages), -1) + 1, ?, ?)`,
		id, author, content)
	if err != nil {
		return "", fmt.Errorf("failed to append message: %w", err)
	}
	return id, nil
}

// edgeMessage returns the content and id of the first or last message,
// or ("", "") when the ledger is empty.
func (s *ChatStore) edgeMessage(ctx context.Context, sel secondary.Selector) (content, id string, err error) {
	order := "ASC"
	if sel == secondary.SelectorLast {
		order = "DESC"
	}
	row := s.db.QueryRowContext(ctx,
		"SELECT content, id FROM messages ORDER BY position "+order+" LIMIT 1")
	if err := row.Scan(&content, &id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", nil
		}
		return "", "", fmt.Errorf("failed to read %s message: %w", sel, err)
	}
	return content, id, nil
}
