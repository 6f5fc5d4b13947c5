/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

// NativeDocument is a document in the representation used by a vendor client.
// Callers never see it directly; the document package wraps it.
type NativeDocument interface {
	// ID is the document identity, unique per collection.
	ID() string
	// SelfLink is the store-assigned reference used to address the document.
	SelfLink() string
	// JSON renders the full payload, including store metadata, as a JSON object.
	JSON() ([]byte, error)
}

// Param is a named query parameter such as "@id".
type Param struct {
	Name  string
	Value any
}

// QuerySpec is the SQL-like query text together with its bound parameters.
type QuerySpec struct {
	// Text is passed through to the vendor client untouched.
	Text string
	// Params are ordered by first insertion.
	Params []Param
}

// FeedResponse is one page of a query feed.
type FeedResponse struct {
	// Documents holds the page in the order the store returned them.
	Documents []NativeDocument
	// RequestCharge is the store-reported cost of fetching this page.
	RequestCharge float64
	// ContinuationToken is empty on the last page.
	ContinuationToken string
}

// ResourceResponse is the outcome of a single write operation.
type ResourceResponse struct {
	// Resource is the written document; nil for deletes.
	Resource NativeDocument
	// RequestCharge is the store-reported cost of the write.
	RequestCharge float64
}
