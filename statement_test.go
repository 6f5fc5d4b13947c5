/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docstore/datastore/mock"
	"github.com/suparena/docstore/document"
	storeerrors "github.com/suparena/docstore/errors"
)

func queryIDs(t *testing.T, conn *Connection, id string) []string {
	t.Helper()
	var ids []string
	err := conn.GenerateQuery("SELECT * FROM c WHERE c.id = @id").
		AddParam("@id", id).
		SetBlocking(true).
		Execute(context.Background(), func(page []document.Document) {
			for _, d := range page {
				ids = append(ids, d.ID())
			}
		}, func(err error) { t.Errorf("query failed: %v", err) }, nil)
	require.NoError(t, err)
	return ids
}

func TestUpsertReturnsStoredDocument(t *testing.T) {
	conn := newTestClient(t, mock.New())

	var written *document.Document
	completed := false
	err := conn.GenerateStatement().SetBlocking(true).Upsert(context.Background(),
		TestProduct{ID: "p1", Name: "racket", Price: 99},
		func(doc *document.Document) { written = doc },
		func(err error) { t.Errorf("unexpected error: %v", err) },
		func() { completed = true })

	require.NoError(t, err)
	require.NotNil(t, written)
	assert.True(t, completed)
	assert.Equal(t, "p1", written.ID())
	assert.Equal(t, "/dbs/mydb/colls/product/docs/p1", written.SelfLink())

	p, err := document.As[TestProduct](*written)
	require.NoError(t, err)
	assert.Equal(t, "racket", p.Name)
}

func TestUpsertIsIdempotent(t *testing.T) {
	store := mock.New()
	conn := newTestClient(t, store)
	stmt := conn.GenerateStatement().SetBlocking(true)

	for _, name := range []string{"first", "second"} {
		require.NoError(t, stmt.Upsert(context.Background(), TestProduct{ID: "p1", Name: name}, nil, nil, nil))
	}

	assert.Equal(t, 1, store.Count(conn.CollectionLink()))
	repo := NewRepository[TestProduct](conn, "SELECT * FROM c")
	p, err := repo.Find(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "second", p.Name)
}

func TestUpsertAcceptsJSONAndDocuments(t *testing.T) {
	conn := newTestClient(t, mock.New())
	stmt := conn.GenerateStatement().SetBlocking(true)

	doc, err := document.FromJSON(`{"id":"from-doc","name":"a"}`)
	require.NoError(t, err)

	for _, v := range []any{`{"id":"from-string"}`, []byte(`{"id":"from-bytes"}`), doc} {
		require.NoError(t, stmt.Upsert(context.Background(), v, nil, nil, nil))
	}

	for _, id := range []string{"from-string", "from-bytes", "from-doc"} {
		assert.Equal(t, []string{id}, queryIDs(t, conn, id))
	}
}

func TestUpsertValidation(t *testing.T) {
	conn := newTestClient(t, mock.New())
	stmt := conn.GenerateStatement().SetBlocking(true)

	tests := []struct {
		name string
		doc  any
	}{
		{name: "nil", doc: nil},
		{name: "no id", doc: map[string]any{"name": "x"}},
		{name: "numeric id", doc: `{"id": 7}`},
		{name: "not an object", doc: `[1,2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := stmt.Upsert(context.Background(), tt.doc, nil, nil, nil)
			assert.True(t, storeerrors.IsValidationError(err), "got %v", err)
		})
	}
}

func TestUpsertFailureRoutedToOnError(t *testing.T) {
	rejected := errors.New("conflict")
	conn := newTestClient(t, mock.New().WithUpsertError(func(string) error { return rejected }))

	var got error
	completed := false
	err := conn.GenerateStatement().SetBlocking(true).Upsert(context.Background(),
		TestProduct{ID: "p1"}, nil, func(err error) { got = err }, func() { completed = true })

	require.NoError(t, err)
	assert.True(t, storeerrors.IsTransportError(got))
	assert.ErrorIs(t, got, rejected)
	assert.False(t, completed)
}

// Scenario C
func TestDeleteThenQueryReturnsNothing(t *testing.T) {
	conn := newTestClient(t, mock.New())

	var written *document.Document
	require.NoError(t, conn.GenerateStatement().SetBlocking(true).Upsert(context.Background(),
		TestProduct{ID: "record_1"}, func(doc *document.Document) { written = doc }, nil, nil))
	require.NotNil(t, written)

	results := 0
	var result *document.Document
	completed := false
	err := conn.GenerateStatement().SetBlocking(true).Delete(context.Background(), *written,
		func(doc *document.Document) {
			results++
			result = doc
		},
		func(err error) { t.Errorf("unexpected error: %v", err) },
		func() { completed = true })

	require.NoError(t, err)
	assert.Equal(t, 1, results)
	assert.Nil(t, result)
	assert.True(t, completed)
	assert.Empty(t, queryIDs(t, conn, "record_1"))
}

func TestDeleteMissingDocument(t *testing.T) {
	conn := newTestClient(t, mock.New())

	var written *document.Document
	stmt := conn.GenerateStatement().SetBlocking(true)
	require.NoError(t, stmt.Upsert(context.Background(), TestProduct{ID: "gone"}, func(doc *document.Document) { written = doc }, nil, nil))
	require.NoError(t, stmt.Delete(context.Background(), *written, nil, nil, nil))

	var got error
	err := stmt.Delete(context.Background(), *written, nil, func(err error) { got = err }, nil)
	require.NoError(t, err)
	assert.True(t, storeerrors.IsNotFound(got), "got %v", got)
}

func TestDeleteValidation(t *testing.T) {
	conn := newTestClient(t, mock.New())
	stmt := conn.GenerateStatement().SetBlocking(true)

	err := stmt.Delete(context.Background(), document.Document{}, nil, nil, nil)
	assert.True(t, storeerrors.IsValidationError(err))

	unread, err := document.FromJSON(`{"id":"never-stored"}`)
	require.NoError(t, err)
	err = stmt.Delete(context.Background(), unread, nil, nil, nil)
	assert.True(t, storeerrors.IsValidationError(err))
}

func TestCostReporterOnSingleWrite(t *testing.T) {
	conn := newTestClient(t, mock.New())

	var reports []CostReport
	stmt := conn.GenerateStatement().SetBlocking(true).SetCostReporter(func(r CostReport) { reports = append(reports, r) })
	require.NoError(t, stmt.Upsert(context.Background(), TestProduct{ID: "p1"}, nil, nil, nil))

	require.Len(t, reports, 1)
	assert.Equal(t, CostReport{Operation: "upsert", Documents: 1, TotalCharge: 5}, reports[0])
}
