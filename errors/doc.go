/*
Package errors provides semantic error types for the docstore library.

The taxonomy follows how a failure reaches the caller:

	var (
	    ErrInvalidInput  = errors.New("invalid input")          // returned synchronously, before I/O
	    ErrTransport     = errors.New("transport failure")      // delivered via OnError, or logged and swallowed
	    ErrWaitTimeout   = errors.New("wait ceiling exceeded")  // returned by a blocking call
	    ErrInterrupted   = errors.New("wait interrupted")       // returned by a blocking call
	    ErrDecode        = errors.New("document decode failed")
	    ErrNotFound      = errors.New("document not found")
	    ErrCallbackPanic = errors.New("callback panicked")
	)

Usage:

	err := conn.GenerateQuery("SELECT * FROM product p").
	    SetBlocking(true).
	    Execute(ctx, onPage, nil, nil)
	if errors.IsValidationError(err) {
	    // a required callback or value was missing
	}
	if errors.IsWaitTimeout(err) {
	    // the store never reached a terminal event
	}

Typed errors implement Is() against their sentinel and, where they carry a cause,
Unwrap(), so both errors.Is and errors.As from the standard library work on them.
*/
package errors
