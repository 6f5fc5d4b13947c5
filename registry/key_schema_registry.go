/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package registry

import (
	"fmt"
	"sort"
	"sync"
)

// KeySchema names the attributes that make up a document's primary key in a collection.
type KeySchema struct {
	// PartitionKey is the attribute a partition-scoped query narrows on.
	PartitionKey string `yaml:"partitionKey"`
	// SortKey is optional; when set the primary key is (PartitionKey, SortKey).
	SortKey string `yaml:"sortKey"`
}

// DefaultKeySchema partitions by document id.
var DefaultKeySchema = KeySchema{PartitionKey: "id"}

// Attributes returns the key attribute names in key order.
func (k KeySchema) Attributes() []string {
	if k.SortKey == "" {
		return []string{k.PartitionKey}
	}
	return []string{k.PartitionKey, k.SortKey}
}

// KeySchemaRegistry maps collection names to their key schema.
// It is owned by a single vendor client, not shared process-wide.
type KeySchemaRegistry struct {
	mu      sync.RWMutex
	schemas map[string]KeySchema
}

// NewKeySchemaRegistry returns an empty registry.
func NewKeySchemaRegistry() *KeySchemaRegistry {
	return &KeySchemaRegistry{schemas: make(map[string]KeySchema)}
}

// Register associates a collection with its key schema, replacing any earlier one.
func (r *KeySchemaRegistry) Register(collection string, schema KeySchema) error {
	if collection == "" {
		return fmt.Errorf("key schema registry: collection name is required")
	}
	if schema.PartitionKey == "" {
		return fmt.Errorf("key schema registry: collection %q has no partition key", collection)
	}
	if schema.SortKey == schema.PartitionKey {
		return fmt.Errorf("key schema registry: collection %q uses %q as both partition and sort key", collection, schema.PartitionKey)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[collection] = schema
	return nil
}

// Lookup returns the schema registered for collection, or DefaultKeySchema.
func (r *KeySchemaRegistry) Lookup(collection string) KeySchema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if s, ok := r.schemas[collection]; ok {
		return s
	}
	return DefaultKeySchema
}

// Collections lists registered collection names in sorted order.
func (r *KeySchemaRegistry) Collections() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
