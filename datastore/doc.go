/*
Package datastore defines the vendor client contract that docstore runs its operations against.

The main interface is AsyncClient:

	type AsyncClient interface {
	    QueryDocuments(ctx, collectionLink, spec, opts) <-chan storagemodels.StreamResult[storagemodels.FeedResponse]
	    UpsertDocument(ctx, collectionLink, body) <-chan storagemodels.StreamResult[storagemodels.ResourceResponse]
	    DeleteDocument(ctx, selfLink) <-chan storagemodels.StreamResult[storagemodels.ResourceResponse]
	    Endpoint() string
	    Close() error
	}

Implementations:
  - ddb: Amazon DynamoDB, queries issued as PartiQL statements
  - mock: in-memory store with fault injection, used by tests and the CLI's offline mode

Collection links have the form /dbs/<database>/colls/<collection>; self-links append
/docs/<key>. ParseCollectionLink and ParseSelfLink split them back into their parts.
*/
package datastore
