/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package bridge

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	storeerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// emit returns a source that sends items then either err or closes the stream.
func emit(items []int, err error, delay time.Duration) Source[int] {
	return func(ctx context.Context) <-chan storagemodels.StreamResult[int] {
		ch := make(chan storagemodels.StreamResult[int])
		go func() {
			defer close(ch)
			for i, item := range items {
				if delay > 0 {
					select {
					case <-ctx.Done():
						return
					case <-time.After(delay):
					}
				}
				select {
				case <-ctx.Done():
					return
				case ch <- storagemodels.StreamResult[int]{Item: item, Meta: storagemodels.StreamMeta{Index: int64(i)}}:
				}
			}
			if err != nil {
				select {
				case <-ctx.Done():
				case ch <- storagemodels.StreamResult[int]{Error: err}:
				}
			}
		}()
		return ch
	}
}

// hang returns a source that never emits until its context is cancelled.
func hang(cancelled *atomic.Bool) Source[int] {
	return func(ctx context.Context) <-chan storagemodels.StreamResult[int] {
		ch := make(chan storagemodels.StreamResult[int])
		go func() {
			defer close(ch)
			<-ctx.Done()
			cancelled.Store(true)
		}()
		return ch
	}
}

func TestRunBlockingComplete(t *testing.T) {
	var got []int
	completes := atomic.NewInt32(0)
	errs := atomic.NewInt32(0)

	err := Run(context.Background(), zaptest.NewLogger(t), emit([]int{1, 2, 3}, nil, 0), Handlers[int]{
		Next:     func(v int) error { got = append(got, v); return nil },
		Error:    func(error) { errs.Inc() },
		Complete: func() { completes.Inc() },
	}, Options{Operation: "test", Blocking: true})

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, int32(1), completes.Load())
	assert.Equal(t, int32(0), errs.Load())
}

func TestRunBlockingError(t *testing.T) {
	cause := errors.New("throttled")
	var got error
	completes := atomic.NewInt32(0)

	err := Run(context.Background(), zaptest.NewLogger(t), emit([]int{1}, cause, 0), Handlers[int]{
		Error:    func(e error) { got = e },
		Complete: func() { completes.Inc() },
	}, Options{Operation: "test", Blocking: true})

	require.NoError(t, err)
	assert.ErrorIs(t, got, cause)
	assert.Equal(t, int32(0), completes.Load())
}

func TestRunNonBlocking(t *testing.T) {
	done := make(chan struct{})
	release := make(chan struct{})

	source := func(ctx context.Context) <-chan storagemodels.StreamResult[int] {
		ch := make(chan storagemodels.StreamResult[int])
		go func() {
			defer close(ch)
			<-release
		}()
		return ch
	}

	err := Run(context.Background(), zaptest.NewLogger(t), source, Handlers[int]{
		Complete: func() { close(done) },
	}, Options{Operation: "test"})
	require.NoError(t, err)

	select {
	case <-done:
		t.Fatal("non-blocking run completed before the stream ended")
	default:
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("completion never fired")
	}
}

func TestRunWaitCeiling(t *testing.T) {
	cancelled := atomic.NewBool(false)

	failures := make(chan error, 1)

	err := Run(context.Background(), zaptest.NewLogger(t), hang(cancelled), Handlers[int]{
		Error:    func(err error) { failures <- err },
		Complete: func() { t.Error("cancelled operation must not complete") },
	}, Options{Operation: "query", Blocking: true, Ceiling: 20 * time.Millisecond})

	require.Error(t, err)
	assert.True(t, storeerrors.IsWaitTimeout(err))
	assert.Eventually(t, cancelled.Load, time.Second, 5*time.Millisecond)

	select {
	case ferr := <-failures:
		assert.True(t, storeerrors.IsInterrupted(ferr))
	case <-time.After(time.Second):
		t.Fatal("cancelled operation never reported a terminal event")
	}
}

func TestRunInterrupted(t *testing.T) {
	cancelled := atomic.NewBool(false)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	failures := make(chan error, 1)

	err := Run(ctx, zaptest.NewLogger(t), hang(cancelled), Handlers[int]{
		Error: func(err error) { failures <- err },
	}, Options{Operation: "upsert", Blocking: true, Ceiling: time.Minute})

	assert.True(t, storeerrors.IsInterrupted(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Eventually(t, cancelled.Load, time.Second, 5*time.Millisecond)

	select {
	case ferr := <-failures:
		assert.ErrorIs(t, ferr, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("cancelled operation never reported a terminal event")
	}
}

func TestRunPanickingErrorHandlerStillReleases(t *testing.T) {
	err := Run(context.Background(), zaptest.NewLogger(t), emit(nil, errors.New("boom"), 0), Handlers[int]{
		Error: func(error) { panic("user handler") },
	}, Options{Operation: "test", Blocking: true, Ceiling: time.Second})

	require.Error(t, err)
	assert.True(t, storeerrors.IsCallbackPanic(err))
}

func TestRunPanickingCompleteStillReleases(t *testing.T) {
	err := Run(context.Background(), zaptest.NewLogger(t), emit([]int{1}, nil, 0), Handlers[int]{
		Complete: func() { panic("user handler") },
	}, Options{Operation: "test", Blocking: true, Ceiling: time.Second})

	assert.True(t, storeerrors.IsCallbackPanic(err))
}

func TestRunPanickingNextRoutesToError(t *testing.T) {
	var got error
	completes := atomic.NewInt32(0)

	err := Run(context.Background(), zaptest.NewLogger(t), emit([]int{1, 2, 3}, nil, time.Millisecond), Handlers[int]{
		Next:     func(v int) error { panic(v) },
		Error:    func(e error) { got = e },
		Complete: func() { completes.Inc() },
	}, Options{Operation: "test", Blocking: true, Ceiling: time.Second})

	require.NoError(t, err)
	assert.True(t, storeerrors.IsCallbackPanic(got))
	assert.Equal(t, int32(0), completes.Load())
}

func TestRunNextErrorEndsOperation(t *testing.T) {
	stop := errors.New("bad page")
	var got error
	seen := atomic.NewInt32(0)

	err := Run(context.Background(), zaptest.NewLogger(t), emit([]int{1, 2, 3}, nil, 0), Handlers[int]{
		Next: func(v int) error {
			seen.Inc()
			if v == 2 {
				return stop
			}
			return nil
		},
		Error:    func(e error) { got = e },
		Complete: func() { t.Error("failed operation must not complete") },
	}, Options{Operation: "test", Blocking: true, Ceiling: time.Second})

	require.NoError(t, err)
	assert.ErrorIs(t, got, stop)
	assert.Equal(t, int32(2), seen.Load())
}

func TestRunMissingErrorHandlerLogs(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	err := Run(context.Background(), zap.New(core), emit(nil, errors.New("throttled"), 0), Handlers[int]{},
		Options{Operation: "delete", Blocking: true, Ceiling: time.Second})

	require.NoError(t, err)
	entries := logs.FilterMessage("operation failed with no error handler, dropping error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "delete", entries[0].ContextMap()["operation"])
}

func TestRunNilStream(t *testing.T) {
	var got error
	err := Run(context.Background(), zaptest.NewLogger(t), func(context.Context) <-chan storagemodels.StreamResult[int] {
		return nil
	}, Handlers[int]{Error: func(e error) { got = e }}, Options{Operation: "test", Blocking: true, Ceiling: time.Second})

	require.NoError(t, err)
	assert.Error(t, got)
}
