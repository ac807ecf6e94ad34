// Package sqlite_test contains integration tests for the chat-store
// adapter.
//
// Test databases load the authoritative schema through db.GetSchemaSQL()
// so adapter code and schema cannot drift apart; do not hardcode CREATE
// TABLE statements in test files.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/quill/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedMessage inserts a message at the given position.
func seedMessage(t *testing.T, db *sql.DB, id string, position int, content string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO messages (id, position, author, content) VALUES (?, ?, 'narrator', ?)",
		id, position, content)
	if err != nil {
		t.Fatalf("failed to seed message: %v", err)
	}
}
