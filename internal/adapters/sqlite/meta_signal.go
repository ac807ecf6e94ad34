package sqlite

import (
	"context"
	"database/sql"
	"errors"
)

// GenerationActiveKey is the meta-table key the host sets while its
// generator is producing text.
const GenerationActiveKey = "generation_active"

// truthy values accepted for the flag; anything else reads as idle.
var truthyFlags = map[string]bool{
	"1":    true,
	"true": true,
	"yes":  true,
}

// MetaSignal implements secondary.GenerationSignal over the meta table.
// A missing row or an unreadable table reports unknown, which the gate
// treats as idle.
type MetaSignal struct {
	db *sql.DB
}

// NewMetaSignal creates a MetaSignal with the injected database.
func NewMetaSignal(db *sql.DB) *MetaSignal {
	return &MetaSignal{db: db}
}

// Name identifies the signal in logs.
func (s *MetaSignal) Name() string {
	return "chat_store." + GenerationActiveKey
}

// Busy reads the generation flag.
func (s *MetaSignal) Busy(ctx context.Context) (bool, bool) {
	var value string
	row := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", GenerationActiveKey)
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, true
		}
		return false, false
	}
	return truthyFlags[value], true
}

// SetBusy writes the flag. In production the host owns this side of the
// boundary; tests drive it directly.
func (s *MetaSignal) SetBusy(ctx context.Context, busy bool) error {
	value := "0"
	if busy {
		value = "1"
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		GenerationActiveKey, value)
	return err
}
