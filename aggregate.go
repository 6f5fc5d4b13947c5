/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/suparena/docstore/document"
	storeerrors "github.com/suparena/docstore/errors"
)

// MultiUpsert writes a batch of documents concurrently and reports them as one
// operation: onResult fires once per written document, never concurrently, and
// onComplete once after the last write. The first failure goes to onError, ends
// the operation and cancels the writes still in flight; writes that already
// reached the store stay written. Every document is validated before any I/O.
func (s *Statement) MultiUpsert(ctx context.Context, docs []any, onResult OnResult, onError OnError, onComplete OnComplete) error {
	if len(docs) == 0 {
		return storeerrors.NewValidationError("docs", "batch is empty")
	}

	bodies := make([][]byte, len(docs))
	for i, doc := range docs {
		body, _, err := document.Encode(doc)
		if err != nil {
			return fmt.Errorf("document %d: %w", i, err)
		}
		bodies[i] = body
	}

	logger := s.conn.logger.With(zap.Int("batch_size", len(bodies)))
	limit := s.maxConcurrency
	source := func(ctx context.Context) <-chan writeResult {
		return s.fanIn(ctx, bodies, limit)
	}
	return s.run(ctx, "multi-upsert", logger, source, onResult, onError, onComplete)
}

// fanIn issues one upsert per body and merges their results into one stream.
// The stream is buffered to the batch size so writers never wait on the reader.
func (s *Statement) fanIn(ctx context.Context, bodies [][]byte, limit int) <-chan writeResult {
	out := make(chan writeResult, len(bodies))
	failed := atomic.NewBool(false)

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	fail := func(err error) error {
		if failed.CompareAndSwap(false, true) {
			out <- writeResult{Error: err}
		}
		return err
	}

	go func() {
		defer close(out)

		for _, body := range bodies {
			if gctx.Err() != nil {
				break
			}
			body := body
			g.Go(func() error {
				for res := range s.conn.client.async.UpsertDocument(gctx, s.conn.link, body) {
					if res.Error != nil {
						return fail(res.Error)
					}
					select {
					case <-gctx.Done():
						return fail(gctx.Err())
					case out <- res:
					}
				}
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			fail(err)
		}
	}()

	return out
}
