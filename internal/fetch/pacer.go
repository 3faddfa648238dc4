package fetch

import (
	"context"
	"time"
)

// Pacer spaces out consecutive requests to the same provider. The delay is a
// rate-limit courtesy, not a correctness requirement; tests inject zero.
type Pacer struct {
	delay time.Duration
}

// NewPacer creates a Pacer with a fixed inter-request delay.
func NewPacer(delay time.Duration) Pacer {
	return Pacer{delay: delay}
}

// Wait blocks for the configured delay or until ctx is done.
func (p Pacer) Wait(ctx context.Context) {
	if p.delay <= 0 {
		return
	}
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
	}
}
