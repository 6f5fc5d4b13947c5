// Package bridge turns asynchronous vendor result streams into optionally blocking calls.
//
// Run subscribes a set of Handlers to a Source. A one-shot Gate, present only
// for blocking calls, is released by whichever terminal event fires first, even
// when the handler for that event panics. Blocking waits are bounded by a
// ceiling (one hour by default); when it elapses, or the caller's context ends,
// the operation is cancelled and Run returns a fatal error.
package bridge
