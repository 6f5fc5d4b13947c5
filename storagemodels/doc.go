/*
Package storagemodels defines the data structures exchanged between docstore and a vendor client.

Key Types:

QuerySpec:
The query text and its named parameters:

	spec := QuerySpec{
	    Text:   "SELECT * FROM product p WHERE p.id = @id",
	    Params: []Param{{Name: "@id", Value: "record_1"}},
	}

FeedOptions:
Paging and partition scoping for a query feed:

	opts := NewFeedOptions(
	    WithPageSize(25),
	    WithPartitionKey("electronics"),
	)

StreamResult:
Every vendor operation is asynchronous and reports through a channel of StreamResult:

	type StreamResult[T any] struct {
	    Item  T          // FeedResponse for queries, ResourceResponse for writes
	    Error error      // terminal error
	    Meta  StreamMeta // index, page number, timestamp
	}

A result with a non-nil Error ends the stream; a closed channel is the completion event.
*/
package storagemodels
