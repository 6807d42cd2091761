package xmsg

import (
	"errors"
	"fmt"
)

var (
	// ErrUnregisteredType is returned when sending under a name that was never registered.
	// The message is dropped; this is an expected, recoverable condition.
	ErrUnregisteredType = errors.New("xmsg: unregistered message type")

	// ErrEmptyQueue is returned by Receive when no message is queued for the name.
	ErrEmptyQueue = errors.New("xmsg: message queue is empty")

	// ErrTypeMismatch matches every *TypeMismatchError.
	ErrTypeMismatch = errors.New("xmsg: payload type mismatch")

	ErrInvalidPayload   = errors.New("xmsg: invalid payload")
	ErrInvalidTypeName  = errors.New("xmsg: message type name must not be empty")
	ErrNegativeDelay    = errors.New("xmsg: delay must not be negative")
	ErrUnsupportedValue = errors.New("xmsg: unsupported payload value")
	ErrRouterClosed     = errors.New("xmsg: router is closed")

	ErrObserverPoolShutdownTimeout = errors.New("xmsg: observer pool shutdown timeout")
)

// TypeMismatchError reports a payload accessor called for the wrong kind.
type TypeMismatchError struct {
	Want Kind
	Got  Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("xmsg: payload type mismatch: want %s, got %s", e.Want, e.Got)
}

// Is allows errors.Is to match TypeMismatchError with ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch
}
