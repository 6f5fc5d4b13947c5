package storagemodels

import (
	"time"
)

// StreamResult represents a single emission of an asynchronous vendor operation.
// A result carrying an Error is terminal; closing the channel signals completion.
type StreamResult[T any] struct {
	Item  T          // The emitted value
	Error error      // Terminal error, if any
	Meta  StreamMeta // Metadata about this emission
}

// StreamMeta contains metadata about an emission
type StreamMeta struct {
	Index      int64     // Emission index in stream (0-based)
	PageNumber int       // Feed page number (1-based), zero for writes
	Timestamp  time.Time // When the emission was produced
}

// FeedOptions configures a query feed
type FeedOptions struct {
	PageSize             int     // Max documents per page, negative means unbounded (default: 1000)
	PartitionKey         *string // Narrows the feed to a single partition
	EnableCrossPartition bool    // Must be set when PartitionKey is nil
	BufferSize           int     // Channel buffer size (default: 1)
}

// FeedOption is a functional option for configuring a feed
type FeedOption func(*FeedOptions)

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 1000

// DefaultFeedOptions returns default feed options
func DefaultFeedOptions() FeedOptions {
	return FeedOptions{
		PageSize:             DefaultPageSize,
		EnableCrossPartition: true,
		BufferSize:           1,
	}
}

// WithPageSize sets the page size bound
func WithPageSize(size int) FeedOption {
	return func(opts *FeedOptions) {
		opts.PageSize = size
	}
}

// WithPartitionKey narrows the feed to one partition and disables cross-partition scanning
func WithPartitionKey(key string) FeedOption {
	return func(opts *FeedOptions) {
		opts.PartitionKey = &key
		opts.EnableCrossPartition = false
	}
}

// WithBufferSize sets the channel buffer size
func WithBufferSize(size int) FeedOption {
	return func(opts *FeedOptions) {
		opts.BufferSize = size
	}
}

// Unbounded reports whether pages have no size limit.
func (o FeedOptions) Unbounded() bool {
	return o.PageSize < 0
}

// NewFeedOptions applies opts on top of the defaults.
func NewFeedOptions(opts ...FeedOption) FeedOptions {
	options := DefaultFeedOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}
