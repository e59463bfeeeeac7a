package errors

import (
	"errors"
)

// Sentinel errors for different categories
var (
	// ErrInvalidInput - caller supplied a request the library cannot act on
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformedConversation - the message sequence violates tool-call /
	// tool-result pairing; correctable by the caller, usually via Normalize
	ErrMalformedConversation = errors.New("malformed conversation")

	// ErrNotFound - resource not found (model, transcript)
	ErrNotFound = errors.New("not found")

	// ErrPermissionDenied - provider rejected the credentials
	ErrPermissionDenied = errors.New("permission denied")

	// ErrTransient - transient error, safe to retry with backoff
	ErrTransient = errors.New("transient error")

	// ErrConflict - conflicting concurrent access (e.g. locked workspace)
	ErrConflict = errors.New("conflict")

	// ErrInternal - internal error; a bug in this program, not in the input
	ErrInternal = errors.New("internal error")
)
