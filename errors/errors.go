/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
	"time"
)

// Common sentinel errors
var (
	// ErrNotFound is returned when a document is not found
	ErrNotFound = errors.New("document not found")

	// ErrInvalidInput is returned when input validation fails before any I/O
	ErrInvalidInput = errors.New("invalid input")

	// ErrTransport is returned for any failure surfaced by the vendor client
	ErrTransport = errors.New("transport failure")

	// ErrWaitTimeout is returned when a blocking call exceeds its wait ceiling
	ErrWaitTimeout = errors.New("wait ceiling exceeded")

	// ErrInterrupted is returned when a blocking wait is interrupted by its context
	ErrInterrupted = errors.New("wait interrupted")

	// ErrDecode is returned when a document payload does not match the requested shape
	ErrDecode = errors.New("document decode failed")

	// ErrCallbackPanic is returned when a caller supplied callback panics
	ErrCallbackPanic = errors.New("callback panicked")
)

// NotFoundError represents an error when a document is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// TransportError wraps a failure reported by the vendor client for an operation
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Operation, e.Err)
}

func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// WaitTimeoutError is returned by a blocking call whose gate was not released in time.
// The operation itself is cancelled when this happens.
type WaitTimeoutError struct {
	Operation string
	Ceiling   time.Duration
}

func (e *WaitTimeoutError) Error() string {
	return fmt.Sprintf("%s: no terminal signal within %s", e.Operation, e.Ceiling)
}

func (e *WaitTimeoutError) Is(target error) bool {
	return target == ErrWaitTimeout
}

// InterruptedError is returned when the caller's context ends during a blocking wait
type InterruptedError struct {
	Operation string
	Err       error
}

func (e *InterruptedError) Error() string {
	return fmt.Sprintf("interrupted while awaiting %s: %v", e.Operation, e.Err)
}

func (e *InterruptedError) Is(target error) bool {
	return target == ErrInterrupted
}

func (e *InterruptedError) Unwrap() error {
	return e.Err
}

// DecodeError represents a failed typed conversion of a document payload
type DecodeError struct {
	Target string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("cannot decode document into %s: %v", e.Target, e.Err)
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// CallbackPanicError carries the value recovered from a panicking callback
type CallbackPanicError struct {
	Callback string
	Value    any
}

func (e *CallbackPanicError) Error() string {
	return fmt.Sprintf("%s callback panicked: %v", e.Callback, e.Value)
}

func (e *CallbackPanicError) Is(target error) bool {
	return target == ErrCallbackPanic
}

// Helper functions for creating errors

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(docType, key string) error {
	return &NotFoundError{Type: docType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewTransportError wraps err as a TransportError unless it already is one
func NewTransportError(operation string, err error) error {
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Operation: operation, Err: err}
}

// NewWaitTimeoutError creates a new WaitTimeoutError
func NewWaitTimeoutError(operation string, ceiling time.Duration) error {
	return &WaitTimeoutError{Operation: operation, Ceiling: ceiling}
}

// NewInterruptedError creates a new InterruptedError
func NewInterruptedError(operation string, err error) error {
	return &InterruptedError{Operation: operation, Err: err}
}

// NewDecodeError creates a new DecodeError
func NewDecodeError(target string, err error) error {
	return &DecodeError{Target: target, Err: err}
}

// NewCallbackPanicError creates a new CallbackPanicError
func NewCallbackPanicError(callback string, value any) error {
	return &CallbackPanicError{Callback: callback, Value: value}
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsTransportError checks if an error came from the vendor client
func IsTransportError(err error) bool {
	return errors.Is(err, ErrTransport)
}

// IsWaitTimeout checks if an error is a wait ceiling timeout
func IsWaitTimeout(err error) bool {
	return errors.Is(err, ErrWaitTimeout)
}

// IsInterrupted checks if an error is an interrupted wait
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}

// IsDecodeError checks if an error is a decode error
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsCallbackPanic checks if an error came from a panicking callback
func IsCallbackPanic(err error) bool {
	return errors.Is(err, ErrCallbackPanic)
}
