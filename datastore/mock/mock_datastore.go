/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package mock provides an in-memory implementation of datastore.AsyncClient for testing
package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/suparena/docstore/datastore"
	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/registry"
	"github.com/suparena/docstore/storagemodels"
)

// Operation names passed to a ChargeFunc
const (
	OpQuery  = "query"
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// ChargeFunc computes the request charge of an operation touching the given document ids.
type ChargeFunc func(op string, ids []string) float64

// DefaultCharge charges one unit per query page plus one per document returned,
// five units per upsert and three per delete.
func DefaultCharge(op string, ids []string) float64 {
	switch op {
	case OpQuery:
		return 1 + float64(len(ids))
	case OpUpsert:
		return 5
	default:
		return 3
	}
}

// DataStore is an in-memory document store. Documents are kept in insertion
// order per collection link and queries see a snapshot taken when they start.
type DataStore struct {
	mu          sync.RWMutex
	collections map[string]*collection
	schemas     *registry.KeySchemaRegistry
	endpoint    string
	closed      *atomic.Bool

	latency     time.Duration
	charge      ChargeFunc
	queryError  func(spec storagemodels.QuerySpec) error
	upsertError func(id string) error
	deleteError func(selfLink string) error

	queries     *atomic.Int64
	writes      *atomic.Int64
	inFlight    *atomic.Int32
	maxInFlight *atomic.Int32
}

type collection struct {
	order []string
	docs  map[string]*record
}

type record struct {
	id   string
	self string
	body map[string]any
}

// New creates an empty in-memory store
func New() *DataStore {
	return &DataStore{
		collections: make(map[string]*collection),
		schemas:     registry.NewKeySchemaRegistry(),
		endpoint:    "memory://docstore",
		closed:      atomic.NewBool(false),
		charge:      DefaultCharge,
		queries:     atomic.NewInt64(0),
		writes:      atomic.NewInt64(0),
		inFlight:    atomic.NewInt32(0),
		maxInFlight: atomic.NewInt32(0),
	}
}

// WithKeySchemas uses the given registry to derive document keys per collection
func (m *DataStore) WithKeySchemas(schemas *registry.KeySchemaRegistry) *DataStore {
	m.schemas = schemas
	return m
}

// WithChargeFunc sets how request charges are computed
func (m *DataStore) WithChargeFunc(f ChargeFunc) *DataStore {
	m.charge = f
	return m
}

// WithLatency delays every emission by d
func (m *DataStore) WithLatency(d time.Duration) *DataStore {
	m.latency = d
	return m
}

// WithQueryError makes queries fail when f returns a non-nil error
func (m *DataStore) WithQueryError(f func(spec storagemodels.QuerySpec) error) *DataStore {
	m.queryError = f
	return m
}

// WithUpsertError makes upserts of the given document id fail when f returns a non-nil error
func (m *DataStore) WithUpsertError(f func(id string) error) *DataStore {
	m.upsertError = f
	return m
}

// WithDeleteError makes deletes fail when f returns a non-nil error
func (m *DataStore) WithDeleteError(f func(selfLink string) error) *DataStore {
	m.deleteError = f
	return m
}

// Endpoint identifies the in-memory store
func (m *DataStore) Endpoint() string {
	return m.endpoint
}

// Close marks the store closed; later operations fail
func (m *DataStore) Close() error {
	m.closed.Store(true)
	return nil
}

// Queries returns the number of queries started
func (m *DataStore) Queries() int64 {
	return m.queries.Load()
}

// Writes returns the number of upserts and deletes started
func (m *DataStore) Writes() int64 {
	return m.writes.Load()
}

// MaxInFlight returns the highest number of writes observed running at once
func (m *DataStore) MaxInFlight() int {
	return int(m.maxInFlight.Load())
}

// Count returns the number of documents stored under collectionLink
func (m *DataStore) Count(collectionLink string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.collections[collectionLink]; ok {
		return len(c.order)
	}
	return 0
}

// IDs returns the ids stored under collectionLink in insertion order
func (m *DataStore) IDs(collectionLink string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[collectionLink]
	if !ok {
		return nil
	}
	ids := make([]string, 0, len(c.order))
	for _, self := range c.order {
		ids = append(ids, c.docs[self].id)
	}
	return ids
}

// QueryDocuments streams the matching documents in pages of opts.PageSize
func (m *DataStore) QueryDocuments(ctx context.Context, collectionLink string, spec storagemodels.QuerySpec, opts storagemodels.FeedOptions) <-chan storagemodels.StreamResult[storagemodels.FeedResponse] {
	out := make(chan storagemodels.StreamResult[storagemodels.FeedResponse], bufferSize(opts.BufferSize))
	m.queries.Inc()

	go func() {
		defer close(out)

		matched, err := m.query(collectionLink, spec, opts)
		if err != nil {
			send(ctx, out, storagemodels.StreamResult[storagemodels.FeedResponse]{Error: err})
			return
		}

		pageSize := opts.PageSize
		if opts.Unbounded() || pageSize > len(matched) {
			pageSize = len(matched)
		}

		var index int64
		page := 0
		for start := 0; start < len(matched) || page == 0; start += pageSize {
			end := start + pageSize
			if end > len(matched) {
				end = len(matched)
			}
			page++

			docs := make([]storagemodels.NativeDocument, 0, end-start)
			ids := make([]string, 0, end-start)
			for _, d := range matched[start:end] {
				docs = append(docs, d)
				ids = append(ids, d.id)
			}

			var token string
			if end < len(matched) {
				token = fmt.Sprintf("%d", end)
			}

			if !m.wait(ctx) {
				return
			}
			ok := send(ctx, out, storagemodels.StreamResult[storagemodels.FeedResponse]{
				Item: storagemodels.FeedResponse{
					Documents:         docs,
					RequestCharge:     m.charge(OpQuery, ids),
					ContinuationToken: token,
				},
				Meta: storagemodels.StreamMeta{Index: index, PageNumber: page, Timestamp: time.Now()},
			})
			if !ok {
				return
			}
			index += int64(len(docs))

			if pageSize == 0 {
				return
			}
		}
	}()

	return out
}

func (m *DataStore) query(collectionLink string, spec storagemodels.QuerySpec, opts storagemodels.FeedOptions) ([]*Item, error) {
	if m.closed.Load() {
		return nil, fmt.Errorf("client is closed")
	}
	_, collName, err := datastore.ParseCollectionLink(collectionLink)
	if err != nil {
		return nil, err
	}
	if m.queryError != nil {
		if err := m.queryError(spec); err != nil {
			return nil, err
		}
	}
	if opts.PartitionKey == nil && !opts.EnableCrossPartition {
		return nil, fmt.Errorf("query against %s spans partitions but cross-partition queries are disabled", collectionLink)
	}

	q, err := compileQuery(spec)
	if err != nil {
		return nil, err
	}
	schema := m.schemas.Lookup(collName)

	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.collections[collectionLink]
	if !ok {
		return nil, nil
	}

	var matched []*Item
	for _, self := range c.order {
		rec := c.docs[self]
		if opts.PartitionKey != nil && rec.body[schema.PartitionKey] != *opts.PartitionKey {
			continue
		}
		if !q.matches(rec.body) {
			continue
		}
		item, err := rec.snapshot()
		if err != nil {
			return nil, err
		}
		matched = append(matched, item)
	}
	return matched, nil
}

// UpsertDocument creates or replaces a document, keyed by the collection's key schema
func (m *DataStore) UpsertDocument(ctx context.Context, collectionLink string, body []byte) <-chan storagemodels.StreamResult[storagemodels.ResourceResponse] {
	out := make(chan storagemodels.StreamResult[storagemodels.ResourceResponse], 1)
	m.writes.Inc()
	m.enter()

	go func() {
		defer close(out)
		defer m.inFlight.Dec()

		if !m.wait(ctx) {
			return
		}
		item, err := m.upsert(collectionLink, body)
		if err != nil {
			send(ctx, out, storagemodels.StreamResult[storagemodels.ResourceResponse]{Error: err})
			return
		}
		send(ctx, out, storagemodels.StreamResult[storagemodels.ResourceResponse]{
			Item: storagemodels.ResourceResponse{
				Resource:      item,
				RequestCharge: m.charge(OpUpsert, []string{item.id}),
			},
			Meta: storagemodels.StreamMeta{Timestamp: time.Now()},
		})
	}()

	return out
}

func (m *DataStore) upsert(collectionLink string, body []byte) (*Item, error) {
	if m.closed.Load() {
		return nil, fmt.Errorf("client is closed")
	}
	_, collName, err := datastore.ParseCollectionLink(collectionLink)
	if err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, fmt.Errorf("request body is not a JSON object: %w", err)
	}
	id, _ := fields["id"].(string)
	if id == "" {
		return nil, fmt.Errorf("request body has no string id")
	}
	if m.upsertError != nil {
		if err := m.upsertError(id); err != nil {
			return nil, err
		}
	}

	schema := m.schemas.Lookup(collName)
	keys := make([]string, 0, 2)
	for _, attr := range schema.Attributes() {
		v, ok := fields[attr].(string)
		if !ok || v == "" {
			return nil, fmt.Errorf("document %q has no string value for key attribute %q", id, attr)
		}
		keys = append(keys, v)
	}
	self := datastore.SelfLink(collectionLink, keys...)

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collectionLink]
	if !ok {
		c = &collection{docs: make(map[string]*record)}
		m.collections[collectionLink] = c
	}

	rid := uuid.NewString()
	if existing, ok := c.docs[self]; ok {
		rid, _ = existing.body["_rid"].(string)
	} else {
		c.order = append(c.order, self)
	}

	fields["_rid"] = rid
	fields["_self"] = self
	fields["_etag"] = uuid.NewString()
	fields["_ts"] = float64(time.Now().Unix())

	rec := &record{id: id, self: self, body: fields}
	c.docs[self] = rec
	return rec.snapshot()
}

// DeleteDocument removes the document addressed by selfLink
func (m *DataStore) DeleteDocument(ctx context.Context, selfLink string) <-chan storagemodels.StreamResult[storagemodels.ResourceResponse] {
	out := make(chan storagemodels.StreamResult[storagemodels.ResourceResponse], 1)
	m.writes.Inc()
	m.enter()

	go func() {
		defer close(out)
		defer m.inFlight.Dec()

		if !m.wait(ctx) {
			return
		}
		id, err := m.delete(selfLink)
		if err != nil {
			send(ctx, out, storagemodels.StreamResult[storagemodels.ResourceResponse]{Error: err})
			return
		}
		send(ctx, out, storagemodels.StreamResult[storagemodels.ResourceResponse]{
			Item: storagemodels.ResourceResponse{RequestCharge: m.charge(OpDelete, []string{id})},
			Meta: storagemodels.StreamMeta{Timestamp: time.Now()},
		})
	}()

	return out
}

func (m *DataStore) delete(selfLink string) (string, error) {
	if m.closed.Load() {
		return "", fmt.Errorf("client is closed")
	}
	collectionLink, _, err := datastore.ParseSelfLink(selfLink)
	if err != nil {
		return "", err
	}
	if m.deleteError != nil {
		if err := m.deleteError(selfLink); err != nil {
			return "", err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	c, ok := m.collections[collectionLink]
	if !ok {
		return "", errors.NewNotFoundError("document", selfLink)
	}
	rec, ok := c.docs[selfLink]
	if !ok {
		return "", errors.NewNotFoundError("document", selfLink)
	}

	delete(c.docs, selfLink)
	for i, s := range c.order {
		if s == selfLink {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return rec.id, nil
}

func (m *DataStore) enter() {
	n := m.inFlight.Inc()
	for {
		cur := m.maxInFlight.Load()
		if n <= cur || m.maxInFlight.CompareAndSwap(cur, n) {
			return
		}
	}
}

// wait applies the configured latency; it reports false if ctx ended first
func (m *DataStore) wait(ctx context.Context) bool {
	if m.latency <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func send[T any](ctx context.Context, out chan<- storagemodels.StreamResult[T], res storagemodels.StreamResult[T]) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- res:
		return true
	}
}

func bufferSize(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func (r *record) snapshot() (*Item, error) {
	raw, err := json.Marshal(r.body)
	if err != nil {
		return nil, err
	}
	return &Item{id: r.id, self: r.self, raw: raw}, nil
}

// Item is a stored document as returned by the in-memory store
type Item struct {
	id   string
	self string
	raw  []byte
}

// ID returns the document id
func (i *Item) ID() string { return i.id }

// SelfLink returns the document reference
func (i *Item) SelfLink() string { return i.self }

// JSON returns the stored payload including metadata
func (i *Item) JSON() ([]byte, error) { return i.raw, nil }

var _ datastore.AsyncClient = (*DataStore)(nil)
