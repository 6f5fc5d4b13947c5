/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package document

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storeerrors "github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

type nativeDoc struct {
	id, self string
	body     string
	err      error
}

func (n *nativeDoc) ID() string            { return n.id }
func (n *nativeDoc) SelfLink() string      { return n.self }
func (n *nativeDoc) JSON() ([]byte, error) { return []byte(n.body), n.err }

type product struct {
	ID    string `json:"id"`
	Count int    `json:"count"`
	Desc  string `json:"desc"`
}

func TestFromJSON(t *testing.T) {
	doc, err := FromJSON(`{ "id": "record_1", "count": 3, "_self": "/dbs/mydb/colls/product/docs/abc" }`)
	require.NoError(t, err)

	assert.Equal(t, "record_1", doc.ID())
	assert.Equal(t, "/dbs/mydb/colls/product/docs/abc", doc.SelfLink())
	assert.JSONEq(t, `{"id":"record_1","count":3,"_self":"/dbs/mydb/colls/product/docs/abc"}`, doc.JSON())

	t.Run("NotAnObject", func(t *testing.T) {
		for _, raw := range []string{"", "[]", "42", "null", "{"} {
			_, err := FromJSON(raw)
			assert.True(t, storeerrors.IsValidationError(err), "input %q", raw)
		}
	})

	t.Run("NonStringID", func(t *testing.T) {
		_, err := FromJSON(`{"id": 7}`)
		assert.True(t, storeerrors.IsValidationError(err))
	})
}

func TestWrap(t *testing.T) {
	doc, err := Wrap(&nativeDoc{id: "record_1", self: "link", body: `{"id":"record_1"}`})
	require.NoError(t, err)
	assert.Equal(t, "record_1", doc.ID())
	assert.Equal(t, "link", doc.SelfLink())

	t.Run("Nil", func(t *testing.T) {
		_, err := Wrap(nil)
		assert.True(t, storeerrors.IsValidationError(err))

		var typedNil *nativeDoc
		_, err = Wrap(typedNil)
		assert.True(t, storeerrors.IsValidationError(err))
	})

	t.Run("RenderFailure", func(t *testing.T) {
		cause := errors.New("corrupt")
		_, err := Wrap(&nativeDoc{id: "x", err: cause})
		assert.ErrorIs(t, err, cause)
	})
}

func TestWrapAll(t *testing.T) {
	natives := []storagemodels.NativeDocument{
		&nativeDoc{id: "a", body: `{"id":"a"}`},
		&nativeDoc{id: "b", body: `{"id":"b"}`},
	}
	docs, err := WrapAll(natives)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].ID())
	assert.Equal(t, "b", docs[1].ID())

	_, err = WrapAll([]storagemodels.NativeDocument{natives[0], nil})
	assert.True(t, storeerrors.IsValidationError(err))
}

func TestDecode(t *testing.T) {
	doc, err := FromJSON(`{"id":"record_1","count":3,"desc":"description"}`)
	require.NoError(t, err)

	p, err := As[product](doc)
	require.NoError(t, err)
	assert.Equal(t, product{ID: "record_1", Count: 3, Desc: "description"}, p)

	m, err := As[map[string]any](doc)
	require.NoError(t, err)
	assert.Equal(t, "description", m["desc"])

	var into product
	require.NoError(t, doc.Decode(&into))
	assert.Equal(t, 3, into.Count)

	t.Run("Mismatch", func(t *testing.T) {
		bad, err := FromJSON(`{"id":"record_1","count":"three"}`)
		require.NoError(t, err)

		_, err = As[product](bad)
		assert.True(t, storeerrors.IsDecodeError(err))

		var de *storeerrors.DecodeError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "document.product", de.Target)
	})
}

func TestEncode(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		wantID string
		valid  bool
	}{
		{name: "struct", input: product{ID: "p1", Count: 1}, wantID: "p1", valid: true},
		{name: "pointer", input: &product{ID: "p2"}, wantID: "p2", valid: true},
		{name: "map", input: map[string]string{"id": "map_1", "desc": "description"}, wantID: "map_1", valid: true},
		{name: "string", input: `{"id":"s1"}`, wantID: "s1", valid: true},
		{name: "bytes", input: []byte(`{"id":"b1"}`), wantID: "b1", valid: true},
		{name: "raw message", input: json.RawMessage(`{"id":"r1"}`), wantID: "r1", valid: true},
		{name: "nil", input: nil},
		{name: "nil pointer", input: (*product)(nil)},
		{name: "nil map", input: map[string]string(nil)},
		{name: "missing id", input: product{Count: 1}},
		{name: "array", input: []int{1, 2}},
		{name: "unmarshalable", input: map[string]any{"id": "x", "ch": make(chan int)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, id, err := Encode(tt.input)
			if !tt.valid {
				assert.True(t, storeerrors.IsValidationError(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
			assert.True(t, json.Valid(raw))
		})
	}

	t.Run("Document", func(t *testing.T) {
		doc, err := FromJSON(`{"id":"d1"}`)
		require.NoError(t, err)

		_, id, err := Encode(doc)
		require.NoError(t, err)
		assert.Equal(t, "d1", id)

		_, _, err = Encode(Document{})
		assert.True(t, storeerrors.IsValidationError(err))
	})
}

func TestImmutable(t *testing.T) {
	doc, err := FromJSON(`{"id":"record_1"}`)
	require.NoError(t, err)

	b := doc.Bytes()
	b[0] = 'X'
	assert.Equal(t, `{"id":"record_1"}`, doc.JSON())
}
