package schemas

import (
	"fmt"
	"time"
)

// ErrorKind is the machine readable classification of a snapshot failure.
type ErrorKind string

const (
	// ErrKindChannelFailure covers failures reported by the execution channel
	// itself: permissions, target not found, timeouts.
	ErrKindChannelFailure ErrorKind = "CHANNEL_FAILURE"
	// ErrKindAmbiguousResponse means every tier of the resilience ladder
	// returned the success shaped placeholder value instead of data.
	ErrKindAmbiguousResponse ErrorKind = "AMBIGUOUS_RESPONSE"
	// ErrKindMalformedPayload means a string payload was not valid JSON.
	ErrKindMalformedPayload ErrorKind = "MALFORMED_PAYLOAD"
	// ErrKindEmptyResult means the channel produced neither data nor an error.
	ErrKindEmptyResult ErrorKind = "EMPTY_RESULT"
	// ErrKindNodeProcessing marks an individual element that threw during
	// extraction. Always recovered locally; never surfaces to the caller.
	ErrKindNodeProcessing ErrorKind = "NODE_PROCESSING_ERROR"
)

// SnapshotError is a structured snapshot failure. It satisfies the error
// interface so it can travel through normal error returns, and marshals to
// the error envelope defined for the CLI boundary.
type SnapshotError struct {
	Success   bool      `json:"success"`
	Message   string    `json:"error"`
	Code      ErrorKind `json:"code"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSnapshotError builds an error envelope stamped with the current time.
func NewSnapshotError(kind ErrorKind, format string, args ...any) *SnapshotError {
	return &SnapshotError{
		Success:   false,
		Message:   fmt.Sprintf(format, args...),
		Code:      kind,
		Timestamp: time.Now().UTC(),
	}
}

func (e *SnapshotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Kind returns the classification, defaulting to ChannelFailure for a nil
// receiver so callers can branch without nil checks.
func (e *SnapshotError) Kind() ErrorKind {
	if e == nil {
		return ErrKindChannelFailure
	}
	return e.Code
}
