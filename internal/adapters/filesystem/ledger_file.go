// Package filesystem contains filesystem-based adapter implementations:
// a single-file ledger, a lock-file generation signal, and an fsnotify
// change watcher.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/example/quill/internal/ports/secondary"
)

// messageSeparator splits the transcript file into ledger messages.
const messageSeparator = "\n---\n"

// FileLedger implements secondary.LedgerStore over one transcript file.
// Messages are separated by a marker line; the external generator appends
// to the final message.
type FileLedger struct {
	path string
}

// NewFileLedger creates a FileLedger for the given transcript path. The
// file need not exist yet; an absent file is an empty ledger.
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

// ReadSlice reads the selected region. An absent or empty file reads as
// "", never as an error.
func (l *FileLedger) ReadSlice(ctx context.Context, sel secondary.Selector) (string, error) {
	blocks, err := l.readBlocks()
	if err != nil {
		return "", err
	}
	if len(blocks) == 0 {
		return "", nil
	}

	switch sel {
	case secondary.SelectorFirst:
		return blocks[0], nil
	case secondary.SelectorLast:
		return blocks[len(blocks)-1], nil
	case secondary.SelectorAll:
		return strings.Join(blocks, "\n\n"), nil
	default:
		return "", fmt.Errorf("unknown ledger selector %q", sel)
	}
}

// WriteSlice replaces the selected message, creating the file when the
// ledger is empty. Re-writing identical text is harmless. The
// concatenated "all" region is read-only.
func (l *FileLedger) WriteSlice(ctx context.Context, sel secondary.Selector, text string) error {
	switch sel {
	case secondary.SelectorFirst, secondary.SelectorLast:
	case secondary.SelectorAll:
		return fmt.Errorf("selector %q is read-only", sel)
	default:
		return fmt.Errorf("unknown ledger selector %q", sel)
	}

	blocks, err := l.readBlocks()
	if err != nil {
		return err
	}

	switch {
	case len(blocks) == 0:
		blocks = []string{text}
	case sel == secondary.SelectorFirst:
		blocks[0] = text
	default:
		blocks[len(blocks)-1] = text
	}

	if err := os.WriteFile(l.path, []byte(strings.Join(blocks, messageSeparator)), 0644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	return nil
}

// Append adds a new message after the current last one.
func (l *FileLedger) Append(ctx context.Context, text string) error {
	blocks, err := l.readBlocks()
	if err != nil {
		return err
	}
	blocks = append(blocks, text)
	if err := os.WriteFile(l.path, []byte(strings.Join(blocks, messageSeparator)), 0644); err != nil {
		return fmt.Errorf("failed to write ledger file: %w", err)
	}
	return nil
}

func (l *FileLedger) readBlocks() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read ledger file: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	return strings.Split(string(data), messageSeparator), nil
}
