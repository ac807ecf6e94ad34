package filesystem

import (
	"context"
	"os"
)

// LockSignal implements secondary.GenerationSignal via a marker file the
// host creates while its generator runs and removes when it stops.
type LockSignal struct {
	path string
}

// NewLockSignal creates a LockSignal watching the given marker path.
// Convention: "<ledger>.generating" next to the transcript file.
func NewLockSignal(path string) *LockSignal {
	return &LockSignal{path: path}
}

// Name identifies the signal in logs.
func (s *LockSignal) Name() string {
	return "lockfile:" + s.path
}

// Busy reports whether the marker file exists. A stat failure other than
// "not exist" reads as unknown.
func (s *LockSignal) Busy(ctx context.Context) (bool, bool) {
	_, err := os.Stat(s.path)
	if err == nil {
		return true, true
	}
	if os.IsNotExist(err) {
		return false, true
	}
	return false, false
}
