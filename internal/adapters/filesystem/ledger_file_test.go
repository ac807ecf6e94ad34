package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/example/quill/internal/ports/secondary"
)

func tempLedger(t *testing.T, content string) *FileLedger {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.txt")
	if content != "" {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to seed ledger file: %v", err)
		}
	}
	return NewFileLedger(path)
}

func TestFileLedgerReadSelectors(t *testing.T) {
	ledger := tempLedger(t, "pinned\n---\nmiddle\n---\nlatest")
	ctx := context.Background()

	tests := []struct {
		sel  secondary.Selector
		want string
	}{
		{secondary.SelectorFirst, "pinned"},
		{secondary.SelectorLast, "latest"},
		{secondary.SelectorAll, "pinned\n\nmiddle\n\nlatest"},
	}
	for _, tt := range tests {
		got, err := ledger.ReadSlice(ctx, tt.sel)
		if err != nil {
			t.Fatalf("ReadSlice(%s) error = %v", tt.sel, err)
		}
		if got != tt.want {
			t.Errorf("ReadSlice(%s) = %q, want %q", tt.sel, got, tt.want)
		}
	}
}

func TestFileLedgerAbsentFileIsEmpty(t *testing.T) {
	ledger := NewFileLedger(filepath.Join(t.TempDir(), "missing.txt"))
	got, err := ledger.ReadSlice(context.Background(), secondary.SelectorAll)
	if err != nil {
		t.Fatalf("ReadSlice() on absent file error = %v, want nil", err)
	}
	if got != "" {
		t.Errorf("ReadSlice() on absent file = %q, want empty", got)
	}
}

func TestFileLedgerWriteSlice(t *testing.T) {
	ledger := tempLedger(t, "pinned\n---\nlatest")
	ctx := context.Background()

	if err := ledger.WriteSlice(ctx, secondary.SelectorFirst, "rewritten"); err != nil {
		t.Fatalf("WriteSlice(first) error = %v", err)
	}

	got, _ := ledger.ReadSlice(ctx, secondary.SelectorFirst)
	if got != "rewritten" {
		t.Errorf("first = %q, want %q", got, "rewritten")
	}
	got, _ = ledger.ReadSlice(ctx, secondary.SelectorLast)
	if got != "latest" {
		t.Errorf("last = %q, want untouched %q", got, "latest")
	}
}

func TestFileLedgerWriteCreatesFile(t *testing.T) {
	ledger := NewFileLedger(filepath.Join(t.TempDir(), "new.txt"))
	ctx := context.Background()

	if err := ledger.WriteSlice(ctx, secondary.SelectorLast, "hello"); err != nil {
		t.Fatalf("WriteSlice() error = %v", err)
	}
	got, _ := ledger.ReadSlice(ctx, secondary.SelectorFirst)
	if got != "hello" {
		t.Errorf("first = %q, want %q (single message is both edges)", got, "hello")
	}
}

func TestFileLedgerWriteAllRejected(t *testing.T) {
	ledger := tempLedger(t, "x")
	if err := ledger.WriteSlice(context.Background(), secondary.SelectorAll, "y"); err == nil {
		t.Error("WriteSlice(all) error = nil, want read-only error")
	}
}

func TestFileLedgerAppend(t *testing.T) {
	ledger := tempLedger(t, "first")
	ctx := context.Background()

	if err := ledger.Append(ctx, "second"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	got, _ := ledger.ReadSlice(ctx, secondary.SelectorLast)
	if got != "second" {
		t.Errorf("last = %q, want %q", got, "second")
	}
	got, _ = ledger.ReadSlice(ctx, secondary.SelectorFirst)
	if got != "first" {
		t.Errorf("first = %q, want %q", got, "first")
	}
}

func TestLockSignal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.txt.generating")
	sig := NewLockSignal(path)
	ctx := context.Background()

	busy, known := sig.Busy(ctx)
	if !known || busy {
		t.Errorf("Busy() without marker = (%v, %v), want (false, true)", busy, known)
	}

	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("failed to create marker: %v", err)
	}
	busy, known = sig.Busy(ctx)
	if !known || !busy {
		t.Errorf("Busy() with marker = (%v, %v), want (true, true)", busy, known)
	}
}

func TestWatcherEmitsOnLedgerChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.txt")
	if err := os.WriteFile(path, []byte("seed"), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })

	if err := os.WriteFile(path, []byte("changed"), 0644); err != nil {
		t.Fatalf("failed to change file: %v", err)
	}

	select {
	case <-w.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("no event within 2s of a ledger change")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.txt")
	if err := os.WriteFile(path, []byte("seed"), 0644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	w, err := NewWatcher(path)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	t.Cleanup(func() { w.Close() })

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write sibling: %v", err)
	}

	select {
	case <-w.Events():
		t.Error("received event for an unrelated sibling file")
	case <-time.After(300 * time.Millisecond):
	}
}
