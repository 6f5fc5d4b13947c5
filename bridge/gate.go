/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package bridge

import (
	"context"
	"errors"
	"time"

	"go.uber.org/atomic"
)

// DefaultCeiling bounds a blocking wait when no ceiling is configured.
const DefaultCeiling = time.Hour

var errCeilingReached = errors.New("gate: wait ceiling reached")

// Gate is a one-shot completion signal. It starts closed to waiters and is
// released exactly once; further releases are no-ops. A nil *Gate is valid and
// never blocks, which is how non-blocking operations are expressed.
type Gate struct {
	done     chan struct{}
	released *atomic.Bool
	attempts *atomic.Int32
}

// NewGate returns an unreleased gate.
func NewGate() *Gate {
	return &Gate{
		done:     make(chan struct{}),
		released: atomic.NewBool(false),
		attempts: atomic.NewInt32(0),
	}
}

// Release opens the gate. It reports whether this call was the one that released it.
func (g *Gate) Release() bool {
	if g == nil {
		return false
	}
	g.attempts.Inc()
	if g.released.CompareAndSwap(false, true) {
		close(g.done)
		return true
	}
	return false
}

// Released reports whether the gate has been opened.
func (g *Gate) Released() bool {
	return g != nil && g.released.Load()
}

// ReleaseAttempts counts calls to Release, including the redundant ones.
func (g *Gate) ReleaseAttempts() int32 {
	if g == nil {
		return 0
	}
	return g.attempts.Load()
}

// Done is closed when the gate is released.
func (g *Gate) Done() <-chan struct{} {
	return g.done
}

// Wait blocks until the gate is released, ctx is done, or ceiling elapses.
// It returns nil on release, ctx.Err() on interruption and errCeilingReached on timeout.
func (g *Gate) Wait(ctx context.Context, ceiling time.Duration) error {
	if g == nil {
		return nil
	}
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}

	timer := time.NewTimer(ceiling)
	defer timer.Stop()

	select {
	case <-g.done:
		return nil
	case <-ctx.Done():
		// a release racing with cancellation still counts as released
		select {
		case <-g.done:
			return nil
		default:
		}
		return ctx.Err()
	case <-timer.C:
		return errCeilingReached
	}
}
