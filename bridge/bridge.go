/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package bridge

import (
	"context"
	"errors"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	storeerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// Source issues a vendor operation and returns its result stream. The stream
// carries values until it is closed (completion) or yields a result with a
// non-nil Error (failure). Producers must stop sending once ctx is done.
type Source[T any] func(ctx context.Context) <-chan storagemodels.StreamResult[T]

// Handlers receive the events of one operation. They are invoked from a single
// goroutine, never concurrently. Any of them may be nil. An error returned from
// Next ends the operation as if the stream had failed with it.
type Handlers[T any] struct {
	Next     func(T) error
	Error    func(error)
	Complete func()
}

// Options control how Run waits.
type Options struct {
	// Operation names the operation in logs and errors.
	Operation string
	// Blocking makes Run wait for the terminal event.
	Blocking bool
	// Ceiling bounds the wait; zero means DefaultCeiling.
	Ceiling time.Duration
}

// Run subscribes handlers to the stream produced by source.
//
// Without Options.Blocking it returns as soon as the subscription is set up and
// handlers fire later on the subscriber goroutine. With Options.Blocking it
// returns only after exactly one of Error or Complete has run. A blocking call
// returns a non-nil error only for failures of the wait itself:
//   - *errors.WaitTimeoutError when the ceiling elapses (the operation is cancelled),
//   - *errors.InterruptedError when ctx ends first (the operation is cancelled),
//   - *errors.CallbackPanicError when the Error or Complete handler panicked.
//
// Failures of the operation are never returned; they go to Handlers.Error, or
// are logged and dropped when Error is nil.
func Run[T any](ctx context.Context, logger *zap.Logger, source Source[T], handlers Handlers[T], opts Options) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	ceiling := opts.Ceiling
	if ceiling <= 0 {
		ceiling = DefaultCeiling
	}

	opCtx, cancel := context.WithCancel(ctx)

	var gate *Gate
	if opts.Blocking {
		gate = NewGate()
	}

	s := &subscriber[T]{
		ctx:       opCtx,
		operation: opts.Operation,
		logger:    logger.With(zap.String("operation", opts.Operation)),
		handlers:  handlers,
		gate:      gate,
		cancel:    cancel,
		panicErr:  atomic.NewError(nil),
	}

	s.logger.Debug("subscribing", zap.Bool("blocking", opts.Blocking))
	go s.consume(source(opCtx))

	if gate == nil {
		return nil
	}

	err := gate.Wait(ctx, ceiling)
	switch {
	case err == nil:
		return s.panicErr.Load()
	case errors.Is(err, errCeilingReached):
		cancel()
		s.logger.Error("wait ceiling exceeded, cancelling operation", zap.Duration("ceiling", ceiling))
		return storeerrors.NewWaitTimeoutError(opts.Operation, ceiling)
	default:
		cancel()
		s.logger.Warn("wait interrupted, cancelling operation", zap.Error(err))
		return storeerrors.NewInterruptedError(opts.Operation, err)
	}
}

type subscriber[T any] struct {
	ctx       context.Context
	operation string
	logger    *zap.Logger
	handlers  Handlers[T]
	gate      *Gate
	cancel    context.CancelFunc
	panicErr  *atomic.Error
}

func (s *subscriber[T]) consume(stream <-chan storagemodels.StreamResult[T]) {
	defer s.cancel()

	if stream == nil {
		s.fail(errors.New("vendor client returned no result stream"))
		return
	}

	for res := range stream {
		if res.Error != nil {
			s.fail(res.Error)
			return
		}
		if err := s.next(res.Item); err != nil {
			s.fail(err)
			return
		}
	}

	// producers close the stream early once the operation is cancelled
	if err := s.ctx.Err(); err != nil {
		s.fail(storeerrors.NewInterruptedError(s.operation, err))
		return
	}
	s.complete()
}

func (s *subscriber[T]) next(item T) (err error) {
	if s.handlers.Next == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = storeerrors.NewCallbackPanicError("next", r)
		}
	}()
	return s.handlers.Next(item)
}

func (s *subscriber[T]) fail(err error) {
	defer s.gate.Release()
	defer s.recoverInto("error")

	if s.handlers.Error == nil {
		s.logger.Warn("operation failed with no error handler, dropping error", zap.Error(err))
		return
	}
	s.handlers.Error(err)
}

func (s *subscriber[T]) complete() {
	defer s.gate.Release()
	defer s.recoverInto("complete")

	if s.handlers.Complete != nil {
		s.handlers.Complete()
	}
}

func (s *subscriber[T]) recoverInto(callback string) {
	if r := recover(); r != nil {
		err := storeerrors.NewCallbackPanicError(callback, r)
		s.logger.Error("callback panicked", zap.Error(err))
		s.panicErr.Store(err)
	}
}
