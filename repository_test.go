/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docstore/datastore/mock"
	storeerrors "github.com/suparena/docstore/errors"
)

func TestRepository(t *testing.T) {
	ctx := context.Background()
	conn := newTestClient(t, mock.New())
	repo := NewRepository[TestProduct](conn, "SELECT * FROM product")

	t.Run("find on empty collection", func(t *testing.T) {
		_, err := repo.Find(ctx, "p1")
		assert.True(t, storeerrors.IsNotFound(err))

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("upsert and find", func(t *testing.T) {
		for _, p := range []TestProduct{
			{ID: "p1", Name: "racket", Price: 120},
			{ID: "p2", Name: "balls", Price: 4.5},
		} {
			doc, err := repo.Upsert(ctx, p)
			require.NoError(t, err)
			assert.Equal(t, p.ID, doc.ID())
			assert.NotEmpty(t, doc.SelfLink())
		}

		p, err := repo.Find(ctx, "p2")
		require.NoError(t, err)
		assert.Equal(t, TestProduct{ID: "p2", Name: "balls", Price: 4.5}, *p)

		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []TestProduct{
			{ID: "p1", Name: "racket", Price: 120},
			{ID: "p2", Name: "balls", Price: 4.5},
		}, all)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "p1"))

		_, err := repo.Find(ctx, "p1")
		assert.True(t, storeerrors.IsNotFound(err))

		err = repo.Delete(ctx, "p1")
		assert.True(t, storeerrors.IsNotFound(err))
	})
}

func TestRepositoryWithoutAlias(t *testing.T) {
	conn := newTestClient(t, mock.New())
	repo := NewRepository[TestProduct](conn, "not a query")

	_, err := repo.Find(context.Background(), "p1")
	assert.True(t, storeerrors.IsValidationError(err))
}

func TestRepositoryReturnsTransportErrors(t *testing.T) {
	conn := newTestClient(t, mock.New())
	require.NoError(t, conn.client.Close())

	repo := NewRepository[TestProduct](conn, "SELECT * FROM product")
	_, err := repo.FindAll(context.Background())
	assert.True(t, storeerrors.IsTransportError(err))
}
