package ircprotocol

import (
	"errors"
	"fmt"
)

// Sentinel errors for the IRC client.
var (
	// ErrNotConnected indicates a send was attempted without an open connection.
	ErrNotConnected = errors.New("not connected")
)

// EncodingError reports an outbound command that cannot be represented on
// the wire. It is a caller bug and is never retried.
type EncodingError struct {
	Command string
	Param   string // Name of the offending parameter, if any
	Reason  string
}

// Error implements the error interface.
func (e *EncodingError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("cannot encode %s: parameter %q %s", e.Command, e.Param, e.Reason)
	}
	return fmt.Sprintf("cannot encode %s: %s", e.Command, e.Reason)
}

func newEncodingError(command, param, reason string) error {
	return &EncodingError{Command: command, Param: param, Reason: reason}
}

// MalformedLineError reports an inbound line that could not be parsed.
type MalformedLineError struct {
	Line   string
	Reason string
}

// Error implements the error interface.
func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("malformed line %q: %s", e.Line, e.Reason)
}

func newMalformedLineError(line, reason string) error {
	return &MalformedLineError{Line: line, Reason: reason}
}

// ConnectionError represents a transport-level failure.
type ConnectionError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connection failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("connection failed: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// NewConnectionError creates a new connection error.
func NewConnectionError(message string, cause error) error {
	return &ConnectionError{Message: message, Cause: cause}
}

// HandlerError wraps an error returned, or a panic raised, by a handler.
type HandlerError struct {
	Event string
	Err   error
}

// Error implements the error interface.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("handler for %s: %v", e.Event, e.Err)
}

// Unwrap returns the handler's error.
func (e *HandlerError) Unwrap() error {
	return e.Err
}
