package driven

import (
	"context"
	"time"
)

// AvailabilityProber waits for a network service to accept connections.
type AvailabilityProber interface {
	// Wait blocks until address accepts a connection or timeout elapses.
	Wait(ctx context.Context, address string, timeout time.Duration) error
}
