/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/suparena/docstore/bridge"
	"github.com/suparena/docstore/document"
	storeerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

// Query is one paginated read. Configure it, then call Execute. A Query is not
// safe for concurrent use, but parameters are captured when Execute starts so it
// may be reconfigured and executed again.
type Query struct {
	conn         *Connection
	text         string
	params       []storagemodels.Param
	pageSize     int
	partitionKey *string
	blocking     bool
}

// SetBlocking makes Execute wait for the terminal event.
func (q *Query) SetBlocking(blocking bool) *Query {
	q.blocking = blocking
	return q
}

// SetMaxResultsPageSize bounds the documents per page. Negative means unbounded;
// zero is rejected by Execute.
func (q *Query) SetMaxResultsPageSize(n int) *Query {
	q.pageSize = n
	return q
}

// SetPartitionKey narrows the query to one partition. Without it the query
// scans across partitions.
func (q *Query) SetPartitionKey(key string) *Query {
	q.partitionKey = &key
	return q
}

// AddParam binds a named parameter such as "@id". Binding a name again replaces
// its value but keeps its original position.
func (q *Query) AddParam(name string, value any) *Query {
	for i := range q.params {
		if q.params[i].Name == name {
			q.params[i].Value = value
			return q
		}
	}
	q.params = append(q.params, storagemodels.Param{Name: name, Value: value})
	return q
}

// Text returns the query text.
func (q *Query) Text() string {
	return q.text
}

// Params returns a copy of the bound parameters in binding order.
func (q *Query) Params() []storagemodels.Param {
	return slices.Clone(q.params)
}

// Execute issues the query. onPage is required and receives every page in feed
// order; onError and onComplete may be nil. Configuration errors are returned
// before any I/O. A non-blocking call returns nil immediately and reports
// through the callbacks; a blocking call returns after one of onError or
// onComplete has run, or with a WaitTimeoutError or InterruptedError.
func (q *Query) Execute(ctx context.Context, onPage OnPage, onError OnError, onComplete OnComplete) error {
	if onPage == nil {
		return storeerrors.NewValidationError("onPage", "a page callback is required")
	}
	if q.text == "" {
		return storeerrors.NewValidationError("query", "query text is required")
	}
	if q.pageSize == 0 {
		return storeerrors.NewValidationError("pageSize", "page size must be positive, or negative for unbounded pages")
	}

	spec := storagemodels.QuerySpec{Text: q.text, Params: slices.Clone(q.params)}
	feedOpts := []storagemodels.FeedOption{storagemodels.WithPageSize(q.pageSize)}
	if q.partitionKey != nil {
		feedOpts = append(feedOpts, storagemodels.WithPartitionKey(*q.partitionKey))
	}
	opts := storagemodels.NewFeedOptions(feedOpts...)

	client := q.conn.client
	logger := q.conn.logger.With(zap.String("query", spec.Text), paramFields(spec.Params))
	logger.Debug("executing query", zap.Int("page_size", opts.PageSize), zap.Bool("cross_partition", opts.EnableCrossPartition))

	report := CostReport{Operation: "query"}
	pages := 0

	handlers := bridge.Handlers[storagemodels.FeedResponse]{
		Next: func(resp storagemodels.FeedResponse) error {
			page, err := document.WrapAll(resp.Documents)
			if err != nil {
				return err
			}
			pages++
			report.add(len(page), resp.RequestCharge)
			logger.Debug("query page",
				zap.Int("page", pages),
				zap.Int("documents", len(page)),
				zap.Float64("request_charge", resp.RequestCharge))
			onPage(page)
			return nil
		},
		Error: func(err error) {
			err = classify("query", err)
			logger.Error("query failed", zap.Int("pages", pages), zap.Error(err))
			client.metrics.observe(report, OutcomeFailure)
			if onError == nil {
				logger.Warn("no error callback supplied, dropping error", zap.Error(err))
				return
			}
			onError(err)
		},
		Complete: func() {
			logger.Debug("query completed",
				zap.Int("pages", pages),
				zap.Int("documents", report.Documents),
				zap.Float64("request_charge", report.TotalCharge))
			client.metrics.observe(report, OutcomeSuccess)
			if onComplete != nil {
				onComplete()
			}
		},
	}

	source := func(ctx context.Context) <-chan storagemodels.StreamResult[storagemodels.FeedResponse] {
		return client.async.QueryDocuments(ctx, q.conn.link, spec, opts)
	}
	return bridge.Run(ctx, logger, source, handlers, q.conn.options("query", q.blocking))
}

// classify wraps vendor failures as transport errors and leaves the facade's
// own typed errors untouched.
func classify(operation string, err error) error {
	switch {
	case storeerrors.IsCallbackPanic(err),
		storeerrors.IsInterrupted(err),
		storeerrors.IsNotFound(err),
		storeerrors.IsDecodeError(err),
		storeerrors.IsValidationError(err):
		return err
	default:
		return storeerrors.NewTransportError(operation, err)
	}
}
