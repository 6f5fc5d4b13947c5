/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package datastore

import (
	"context"

	"github.com/suparena/docstore/storagemodels"
)

// AsyncClient is the vendor client contract. Every method returns immediately
// with a stream; the work happens on goroutines owned by the implementation.
// Implementations must stop sending and close the stream once ctx is done.
type AsyncClient interface {
	// QueryDocuments streams the pages of a query against collectionLink.
	QueryDocuments(ctx context.Context, collectionLink string, spec storagemodels.QuerySpec, opts storagemodels.FeedOptions) <-chan storagemodels.StreamResult[storagemodels.FeedResponse]

	// UpsertDocument creates or replaces the document whose JSON body is given.
	// The stream yields one ResourceResponse.
	UpsertDocument(ctx context.Context, collectionLink string, body []byte) <-chan storagemodels.StreamResult[storagemodels.ResourceResponse]

	// DeleteDocument removes the document addressed by selfLink.
	// The stream yields one ResourceResponse with a nil Resource.
	DeleteDocument(ctx context.Context, selfLink string) <-chan storagemodels.StreamResult[storagemodels.ResourceResponse]

	// Endpoint identifies the store the client talks to.
	Endpoint() string

	// Close releases the client's resources.
	Close() error
}
