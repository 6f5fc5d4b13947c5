/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/suparena/docstore/datastore/mock"
)

// Test types
type TestProduct struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category,omitempty"`
	Price    float64 `json:"price"`
}

func newTestClient(t *testing.T, store *mock.DataStore, opts ...Option) *Connection {
	t.Helper()
	opts = append([]Option{WithLogger(zaptest.NewLogger(t)), WithWaitCeiling(5 * time.Second)}, opts...)
	client := NewClient(store, opts...)
	t.Cleanup(func() { _ = client.Close() })
	return client.Connection("mydb", "product")
}
