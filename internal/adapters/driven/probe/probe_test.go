package probe

import (
	"bytes"
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ncedit/internal/core/domain"
	"github.com/custodia-labs/ncedit/internal/logger"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(os.Stderr) })
	return &buf
}

// closedAddress returns an address nothing is listening on.
func closedAddress(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	return addr
}

func TestNewTCPProber_DefaultInterval(t *testing.T) {
	p := NewTCPProber(0)

	assert.Equal(t, DefaultInterval, p.interval)
}

func TestTCPProber_Wait_Listening(t *testing.T) {
	log := captureLog(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	err = NewTCPProber(10*time.Millisecond).Wait(context.Background(), ln.Addr().String(), time.Second)

	require.NoError(t, err)
	assert.NotContains(t, log.String(), "waiting")
}

func TestTCPProber_Wait_ComesUp(t *testing.T) {
	log := captureLog(t)
	addr := closedAddress(t)

	go func() {
		time.Sleep(50 * time.Millisecond)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			return
		}
		time.Sleep(2 * time.Second)
		ln.Close()
	}()

	err := NewTCPProber(20*time.Millisecond).Wait(context.Background(), addr, 2*time.Second)

	require.NoError(t, err)
	assert.Contains(t, log.String(), "connection refused, waiting...")
	assert.Contains(t, log.String(), "Classifier signs of life detected, proceeding to classify...")
}

func TestTCPProber_Wait_Timeout(t *testing.T) {
	captureLog(t)
	addr := closedAddress(t)

	start := time.Now()
	err := NewTCPProber(10*time.Millisecond).Wait(context.Background(), addr, 100*time.Millisecond)

	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.Less(t, time.Since(start), time.Second)
}

func TestTCPProber_Wait_SingleAttempt(t *testing.T) {
	captureLog(t)
	addr := closedAddress(t)

	err := NewTCPProber(10*time.Millisecond).Wait(context.Background(), addr, 0)

	assert.ErrorIs(t, err, domain.ErrUnavailable)
}

func TestTCPProber_Wait_Cancelled(t *testing.T) {
	captureLog(t)
	addr := closedAddress(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := NewTCPProber(10*time.Millisecond).Wait(ctx, addr, time.Minute)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetriable(t *testing.T) {
	_, err := net.Dial("tcp", closedAddress(t))
	require.Error(t, err)

	assert.True(t, retriable(err))
	assert.False(t, retriable(assert.AnError))
}
