package errors

import (
	"encoding/json"
	stderr "errors"
	"fmt"
	"strings"
	"time"
)

// ProcessSpawnError indicates that the backend process could not be created.
type ProcessSpawnError struct {
	Command []string
	Err     error
}

// Error is an implementation of the error interface.
func (e *ProcessSpawnError) Error() string {
	return fmt.Sprintf("spawning backend %q: %v", strings.Join(e.Command, " "), e.Err)
}

// Unwrap returns the underlying cause.
func (e *ProcessSpawnError) Unwrap() error { return e.Err }

// ProcessCrashedError indicates that the backend process exited while requests were outstanding.
type ProcessCrashedError struct {
	Pid         int
	ExitCode    int
	Interrupted bool
}

// Error is an implementation of the error interface.
func (e *ProcessCrashedError) Error() string {
	if e.Interrupted {
		return fmt.Sprintf("backend process %d interrupted by user", e.Pid)
	}
	return fmt.Sprintf("backend process %d exited with code %d", e.Pid, e.ExitCode)
}

// RestartError indicates that the backend could not be brought back after a crash.
type RestartError struct {
	Err error
}

// Error is an implementation of the error interface.
func (e *RestartError) Error() string {
	return fmt.Sprintf("restarting backend: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *RestartError) Unwrap() error { return e.Err }

// RequestTimeoutError indicates that no response arrived for a request before its deadline.
type RequestTimeoutError struct {
	Method  string
	ID      string
	Timeout time.Duration
}

// Error is an implementation of the error interface.
func (e *RequestTimeoutError) Error() string {
	return fmt.Sprintf("request timed out after %s: method=%s, id=%s", e.Timeout, e.Method, e.ID)
}

// RemoteError carries an error payload returned by the backend.
type RemoteError struct {
	Method  string
	Code    int64
	Message string
	Data    json.RawMessage
}

// Error is an implementation of the error interface.
func (e *RemoteError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("backend rejected %s (code %d): %s: %s", e.Method, e.Code, e.Message, string(e.Data))
	}
	return fmt.Sprintf("backend rejected %s (code %d): %s", e.Method, e.Code, e.Message)
}

// MalformedFrameError indicates an inbound frame that could not be parsed.
type MalformedFrameError struct {
	Header string
	Err    error
}

// Error is an implementation of the error interface.
func (e *MalformedFrameError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed frame header %q", e.Header)
	}
	return fmt.Sprintf("malformed frame %q: %v", e.Header, e.Err)
}

// Unwrap returns the underlying cause.
func (e *MalformedFrameError) Unwrap() error { return e.Err }

// IsMalformedFrame reports whether a MalformedFrameError is part of the error chain.
func IsMalformedFrame(e error) bool {
	var mf *MalformedFrameError
	return stderr.As(e, &mf)
}

// IsRecoverable reports whether the caller may retry after this error.
// Spawn and restart failures are fatal for the session and are never recoverable.
func IsRecoverable(e error) bool {
	var (
		crashed *ProcessCrashedError
		timeout *RequestTimeoutError
		remote  *RemoteError
	)
	switch {
	case stderr.As(e, &crashed):
		return !crashed.Interrupted
	case stderr.As(e, &timeout), stderr.As(e, &remote):
		return true
	}
	return false
}
