/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/suparena/docstore/datastore"
	"github.com/suparena/docstore/registry"
)

const selfAttr = "_self"

// Item is a DynamoDB item rendered as a JSON document.
type Item struct {
	id   string
	self string
	raw  []byte
}

// ID returns the item's "id" attribute, empty for projections that omit it.
func (i *Item) ID() string { return i.id }

// SelfLink returns the link built from the item's key attributes, empty when
// a projection omits them.
func (i *Item) SelfLink() string { return i.self }

// JSON returns the item as a JSON object including "_self".
func (i *Item) JSON() ([]byte, error) { return i.raw, nil }

func newItem(collectionLink string, schema registry.KeySchema, av map[string]types.AttributeValue) (*Item, error) {
	var fields map[string]any
	if err := attributevalue.UnmarshalMap(av, &fields); err != nil {
		return nil, fmt.Errorf("failed to unmarshal item: %w", err)
	}
	if fields == nil {
		fields = map[string]any{}
	}

	id, _ := fields["id"].(string)
	self := ""
	if keys, ok := keyValues(schema, fields); ok {
		self = datastore.SelfLink(collectionLink, keys...)
		fields[selfAttr] = self
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to render item %q: %w", id, err)
	}
	return &Item{id: id, self: self, raw: raw}, nil
}

// keyValues extracts the string key attributes in key order.
func keyValues(schema registry.KeySchema, fields map[string]any) ([]string, bool) {
	attrs := schema.Attributes()
	keys := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		v, ok := fields[attr].(string)
		if !ok || v == "" {
			return nil, false
		}
		keys = append(keys, v)
	}
	return keys, true
}

// keyFromSelfLink rebuilds the primary key of the item addressed by keys.
func keyFromSelfLink(schema registry.KeySchema, keys []string) (map[string]types.AttributeValue, error) {
	attrs := schema.Attributes()
	if len(keys) != len(attrs) {
		return nil, fmt.Errorf("self link has %d key values, table key has %d attributes", len(keys), len(attrs))
	}
	key := make(map[string]types.AttributeValue, len(attrs))
	for i, attr := range attrs {
		key[attr] = &types.AttributeValueMemberS{Value: keys[i]}
	}
	return key, nil
}
