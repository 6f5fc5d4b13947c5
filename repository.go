/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"context"
	"fmt"
	"regexp"

	"github.com/suparena/docstore/document"
	storeerrors "github.com/suparena/docstore/errors"
)

var aliasPattern = regexp.MustCompile(`(?i)\bFROM\s+(\w+)`)

// Repository provides blocking, type-safe access to the documents of one
// collection, decoded as T. Failures reported through callbacks are returned.
type Repository[T any] struct {
	conn      *Connection
	selectAll string
	alias     string
}

// NewRepository creates a repository over conn. selectAll is the query that
// lists the collection, such as "SELECT * FROM product"; its alias is reused to
// look documents up by id.
func NewRepository[T any](conn *Connection, selectAll string) *Repository[T] {
	r := &Repository[T]{conn: conn, selectAll: selectAll}
	if m := aliasPattern.FindStringSubmatch(selectAll); m != nil {
		r.alias = m[1]
	}
	return r
}

// Find returns the document with the given id, or a NotFoundError.
func (r *Repository[T]) Find(ctx context.Context, id string) (*T, error) {
	doc, err := r.findDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := document.As[T](doc)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// FindAll returns every document of the collection in feed order.
func (r *Repository[T]) FindAll(ctx context.Context) ([]T, error) {
	var docs []document.Document
	err := r.query(ctx, r.conn.GenerateQuery(r.selectAll), func(page []document.Document) {
		docs = append(docs, page...)
	})
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := document.As[T](doc)
		if err != nil {
			return nil, fmt.Errorf("document %q: %w", doc.ID(), err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Upsert writes v and returns the stored document.
func (r *Repository[T]) Upsert(ctx context.Context, v T) (document.Document, error) {
	var (
		written document.Document
		failure error
	)
	err := r.conn.GenerateStatement().SetBlocking(true).Upsert(ctx, v,
		func(doc *document.Document) {
			if doc != nil {
				written = *doc
			}
		},
		func(err error) { failure = err },
		nil)
	if err != nil {
		return document.Document{}, err
	}
	return written, failure
}

// Delete removes the document with the given id, or returns a NotFoundError.
func (r *Repository[T]) Delete(ctx context.Context, id string) error {
	doc, err := r.findDocument(ctx, id)
	if err != nil {
		return err
	}

	var failure error
	err = r.conn.GenerateStatement().SetBlocking(true).Delete(ctx, doc, nil,
		func(err error) { failure = err },
		nil)
	if err != nil {
		return err
	}
	return failure
}

func (r *Repository[T]) findDocument(ctx context.Context, id string) (document.Document, error) {
	if r.alias == "" {
		return document.Document{}, storeerrors.NewValidationError("selectAll", fmt.Sprintf("cannot find the collection alias in %q", r.selectAll))
	}

	q := r.conn.GenerateQuery(fmt.Sprintf("%s WHERE %s.id = @id", r.selectAll, r.alias)).
		AddParam("@id", id)

	var found []document.Document
	if err := r.query(ctx, q, func(page []document.Document) {
		found = append(found, page...)
	}); err != nil {
		return document.Document{}, err
	}
	if len(found) == 0 {
		return document.Document{}, storeerrors.NewNotFoundError(r.conn.Collection(), id)
	}
	return found[0], nil
}

func (r *Repository[T]) query(ctx context.Context, q *Query, onPage OnPage) error {
	var failure error
	err := q.SetBlocking(true).Execute(ctx, onPage, func(err error) { failure = err }, nil)
	if err != nil {
		return err
	}
	return failure
}
