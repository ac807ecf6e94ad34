package app

import (
	"context"
	"time"

	"github.com/example/quill/internal/ports/secondary"
)

// systemClock implements secondary.Clock over real time.
type systemClock struct{}

// NewSystemClock returns a Clock backed by the wall clock.
func NewSystemClock() secondary.Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
