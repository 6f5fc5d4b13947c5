/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package bridge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGateReleaseOnce(t *testing.T) {
	g := NewGate()
	require.False(t, g.Released())

	var wg sync.WaitGroup
	wins := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wins <- g.Release()
		}()
	}
	wg.Wait()
	close(wins)

	first := 0
	for w := range wins {
		if w {
			first++
		}
	}
	assert.Equal(t, 1, first)
	assert.True(t, g.Released())
	assert.Equal(t, int32(10), g.ReleaseAttempts())
	assert.NoError(t, g.Wait(context.Background(), time.Second))
}

func TestNilGate(t *testing.T) {
	var g *Gate
	assert.False(t, g.Release())
	assert.False(t, g.Released())
	assert.NoError(t, g.Wait(context.Background(), time.Millisecond))
}

func TestGateWait(t *testing.T) {
	t.Run("Ceiling", func(t *testing.T) {
		g := NewGate()
		err := g.Wait(context.Background(), 20*time.Millisecond)
		assert.ErrorIs(t, err, errCeilingReached)
	})

	t.Run("Interrupted", func(t *testing.T) {
		g := NewGate()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.ErrorIs(t, g.Wait(ctx, time.Second), context.Canceled)
	})

	t.Run("ReleasedBeforeCancel", func(t *testing.T) {
		g := NewGate()
		g.Release()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		assert.NoError(t, g.Wait(ctx, time.Second))
	})

	t.Run("ReleasedLater", func(t *testing.T) {
		g := NewGate()
		go func() {
			time.Sleep(10 * time.Millisecond)
			g.Release()
		}()
		assert.NoError(t, g.Wait(context.Background(), time.Second))
	})
}
