/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/suparena/docstore/bridge"
	"github.com/suparena/docstore/config"
	"github.com/suparena/docstore/datastore"
	"github.com/suparena/docstore/datastore/ddb"
	"github.com/suparena/docstore/datastore/mock"
	"github.com/suparena/docstore/storagemodels"
)

// Client owns a vendor client and hands out connections to its collections.
// It is safe for concurrent use; the caller closes it when done.
type Client struct {
	async       datastore.AsyncClient
	logger      *zap.Logger
	metrics     *Metrics
	waitCeiling time.Duration
	pageSize    int

	mu          sync.RWMutex
	connections map[string]*Connection
	closed      *atomic.Bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger; nil selects a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	}
}

// WithMetrics records operation outcomes and request charges.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithWaitCeiling bounds how long a blocking operation waits for its terminal event.
func WithWaitCeiling(d time.Duration) Option {
	return func(c *Client) {
		c.waitCeiling = d
	}
}

// WithPageSize sets the page size new queries start with.
func WithPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

// NewClient wraps a vendor client.
func NewClient(async datastore.AsyncClient, opts ...Option) *Client {
	c := &Client{
		async:       async,
		logger:      zap.NewNop(),
		waitCeiling: bridge.DefaultCeiling,
		pageSize:    storagemodels.DefaultPageSize,
		connections: make(map[string]*Connection),
		closed:      atomic.NewBool(false),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("endpoint", async.Endpoint()))
	return c
}

// Open builds the backend named by cfg.Backend and wraps it in a Client.
// Settings from cfg apply first; opts override them.
func Open(ctx context.Context, cfg config.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opts = append([]Option{WithWaitCeiling(cfg.WaitCeiling), WithPageSize(cfg.PageSize)}, opts...)
	probe := &Client{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(probe)
	}

	var async datastore.AsyncClient
	switch cfg.Backend {
	case config.BackendDynamoDB:
		client, err := ddb.Open(ctx, cfg, probe.logger.Named("dynamodb"))
		if err != nil {
			return nil, err
		}
		async = client
	case config.BackendMemory:
		schemas, err := cfg.KeySchemas()
		if err != nil {
			return nil, err
		}
		async = mock.New().WithKeySchemas(schemas)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return NewClient(async, opts...), nil
}

// Connection returns the connection for a collection, creating it on first use.
func (c *Client) Connection(database, collection string) *Connection {
	link := datastore.CollectionLink(database, collection)

	c.mu.RLock()
	conn, ok := c.connections[link]
	c.mu.RUnlock()
	if ok {
		return conn
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if conn, ok := c.connections[link]; ok {
		return conn
	}
	conn = &Connection{
		client:     c,
		database:   database,
		collection: collection,
		link:       link,
		logger:     c.logger.With(zap.String("collection", link)),
	}
	c.connections[link] = conn
	return conn
}

// Endpoint identifies the store behind the client.
func (c *Client) Endpoint() string {
	return c.async.Endpoint()
}

// Close releases the vendor client. Calling it more than once is a no-op.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.mu.Lock()
	c.connections = make(map[string]*Connection)
	c.mu.Unlock()
	return c.async.Close()
}

// Connection addresses one collection. It is safe for concurrent use.
type Connection struct {
	client     *Client
	database   string
	collection string
	link       string
	logger     *zap.Logger
}

// CollectionLink returns the reference of the collection.
func (c *Connection) CollectionLink() string {
	return c.link
}

// Database returns the database name.
func (c *Connection) Database() string {
	return c.database
}

// Collection returns the collection name.
func (c *Connection) Collection() string {
	return c.collection
}

// GenerateQuery creates a query against the collection.
func (c *Connection) GenerateQuery(text string) *Query {
	return &Query{
		conn:     c,
		text:     text,
		pageSize: c.client.pageSize,
	}
}

// GenerateStatement creates a statement for writes to the collection.
func (c *Connection) GenerateStatement() *Statement {
	return &Statement{conn: c}
}

func (c *Connection) options(operation string, blocking bool) bridge.Options {
	return bridge.Options{
		Operation: operation,
		Blocking:  blocking,
		Ceiling:   c.client.waitCeiling,
	}
}
