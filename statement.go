/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"

	"go.uber.org/zap"

	"github.com/suparena/docstore/bridge"
	"github.com/suparena/docstore/document"
	storeerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

type writeResult = storagemodels.StreamResult[storagemodels.ResourceResponse]

// Statement issues writes against a collection. Its settings are read when a
// write starts; it is safe to share once configured.
type Statement struct {
	conn           *Connection
	blocking       bool
	maxConcurrency int
	reporter       CostReporter
}

// SetBlocking makes writes wait for their terminal event.
func (s *Statement) SetBlocking(blocking bool) *Statement {
	s.blocking = blocking
	return s
}

// SetMaxConcurrency bounds the writes MultiUpsert keeps in flight. Zero or
// negative means one write per document at once.
func (s *Statement) SetMaxConcurrency(n int) *Statement {
	s.maxConcurrency = n
	return s
}

// SetCostReporter receives the aggregate cost of each successful write.
func (s *Statement) SetCostReporter(r CostReporter) *Statement {
	s.reporter = r
	return s
}

// Upsert creates or replaces one document. doc may be a document.Document, JSON
// text as string or []byte, or any value that marshals to a JSON object; it
// must carry a string "id".
func (s *Statement) Upsert(ctx context.Context, doc any, onResult OnResult, onError OnError, onComplete OnComplete) error {
	body, id, err := document.Encode(doc)
	if err != nil {
		return err
	}

	logger := s.conn.logger.With(zap.String("document_id", id))
	source := func(ctx context.Context) <-chan writeResult {
		return s.conn.client.async.UpsertDocument(ctx, s.conn.link, body)
	}
	return s.run(ctx, "upsert", logger, source, onResult, onError, onComplete)
}

// Delete removes a document previously read from or written to the store; it
// is addressed by its self-link. onResult receives nil. Deleting a document
// that no longer exists reports a NotFoundError through onError.
func (s *Statement) Delete(ctx context.Context, doc document.Document, onResult OnResult, onError OnError, onComplete OnComplete) error {
	if doc.IsZero() {
		return storeerrors.NewValidationError("document", "document is required")
	}
	if doc.SelfLink() == "" {
		return storeerrors.NewValidationError("selfLink", "document has no self link; read it from the store first")
	}

	logger := s.conn.logger.With(zap.String("document_id", doc.ID()), zap.String("self_link", doc.SelfLink()))
	source := func(ctx context.Context) <-chan writeResult {
		return s.conn.client.async.DeleteDocument(ctx, doc.SelfLink())
	}
	return s.run(ctx, "delete", logger, source, onResult, onError, onComplete)
}

// run drives a write stream that yields one ResourceResponse per document.
func (s *Statement) run(
	ctx context.Context,
	operation string,
	logger *zap.Logger,
	source bridge.Source[storagemodels.ResourceResponse],
	onResult OnResult,
	onError OnError,
	onComplete OnComplete,
) error {
	client := s.conn.client
	reporter := s.reporter
	report := CostReport{Operation: operation}

	handlers := bridge.Handlers[storagemodels.ResourceResponse]{
		Next: func(resp storagemodels.ResourceResponse) error {
			report.add(1, resp.RequestCharge)

			var written *document.Document
			if resp.Resource != nil {
				doc, err := document.Wrap(resp.Resource)
				if err != nil {
					return err
				}
				written = &doc
				logger.Debug("write acknowledged", zap.String("id", doc.ID()), zap.Float64("request_charge", resp.RequestCharge))
			} else {
				logger.Debug("write acknowledged", zap.Float64("request_charge", resp.RequestCharge))
			}

			if onResult != nil {
				onResult(written)
			}
			return nil
		},
		Error: func(err error) {
			err = classify(operation, err)
			logger.Error("write failed", zap.Int("acknowledged", report.Documents), zap.Error(err))
			client.metrics.observe(report, OutcomeFailure)
			if onError == nil {
				logger.Warn("no error callback supplied, dropping error", zap.Error(err))
				return
			}
			onError(err)
		},
		Complete: func() {
			logger.Debug("write completed",
				zap.Int("documents", report.Documents),
				zap.Float64("request_charge", report.TotalCharge),
				zap.Float64("average_request_charge", report.Average()))
			client.metrics.observe(report, OutcomeSuccess)
			if reporter != nil {
				reporter(report)
			}
			if onComplete != nil {
				onComplete()
			}
		},
	}

	return bridge.Run(ctx, logger, source, handlers, s.conn.options(operation, s.blocking))
}
