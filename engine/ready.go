package engine

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrNotReady is the startup failure for an absent readiness signal.
var ErrNotReady = errors.New("companion process not ready")

// AwaitReady blocks until the external readiness signal fires, the
// context is cancelled, or the configured timeout elapses. It holds no
// document lock, so waiting for one preview never stalls the mutation
// pipeline of other documents.
func (e *Engine) AwaitReady(ctx context.Context, signal <-chan struct{}) error {
	timeout := e.cfg.ReadyTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-signal:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return fmt.Errorf("%w after %s", ErrNotReady, timeout)
	}
}
