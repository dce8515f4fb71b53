// Package probe waits for the classifier port to accept TCP connections
// before any request is made, so ncedit can run while the classifier
// service is still starting.
package probe

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
	"time"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/core/ports/driven"
	"github.com/custodia-labs/ncedit/internal/logger"
)

// Ensure TCPProber implements the interface.
var _ driven.AvailabilityProber = (*TCPProber)(nil)

// Default configuration values.
const (
	DefaultInterval    = time.Second
	DefaultDialTimeout = 5 * time.Second
)

// TCPProber polls a TCP address until it accepts a connection.
type TCPProber struct {
	interval time.Duration
	dialer   *net.Dialer
}

// NewTCPProber creates a prober that dials once per interval.
// A zero interval uses DefaultInterval.
func NewTCPProber(interval time.Duration) *TCPProber {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &TCPProber{
		interval: interval,
		dialer:   &net.Dialer{Timeout: DefaultDialTimeout},
	}
}

// Wait dials address until it connects or timeout elapses. Refused,
// unreachable and timed-out dials are retried; any other dial error, such
// as an unresolvable host, fails at once. A timeout of zero or less makes a
// single attempt.
func (p *TCPProber) Wait(ctx context.Context, address string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	waited := false

	for {
		conn, err := p.dialer.DialContext(ctx, "tcp", address)
		if err == nil {
			_ = conn.Close()
			if waited {
				logger.Progress("Classifier signs of life detected, proceeding to classify...")
			} else {
				logger.Debug("Classifier at %s is accepting connections", address)
			}
			return nil
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !retriable(err) {
			return fmt.Errorf("%w: %s: %v", domain.ErrUnavailable, address, err)
		}
		if !time.Now().Add(p.interval).Before(deadline) {
			return fmt.Errorf("%w: %s did not accept connections within %s", domain.ErrUnavailable, address, timeout)
		}

		logger.Progress("connection refused, waiting...")
		waited = true

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.interval):
		}
	}
}

// retriable reports whether a dial error means the service may still come up.
func retriable(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
