package errors

import (
	stderr "errors"
	"fmt"

	"github.com/gofrs/uuid"
)

// InvalidCellIndexError indicates that a cell edit referenced a cell that does not exist.
type InvalidCellIndexError struct {
	Op     string
	CellID int
	Length int
}

// Error is an implementation of the error interface.
func (e *InvalidCellIndexError) Error() string {
	return fmt.Sprintf("%s: cell %d does not exist (notebook has %d cells)", e.Op, e.CellID, e.Length)
}

// IsInvalidCellIndex reports whether an InvalidCellIndexError is part of the error chain.
func IsInvalidCellIndex(e error) bool {
	var invalid *InvalidCellIndexError
	return stderr.As(e, &invalid)
}

// NoConversationError indicates that a chat operation needs an active conversation.
type NoConversationError struct {
	Handle uuid.UUID
}

// Error is an implementation of the error interface.
func (e *NoConversationError) Error() string {
	return fmt.Sprintf("no active conversation for notebook %q", e.Handle)
}

// UnknownEditKindError indicates that a cell edit used an unsupported kind.
type UnknownEditKindError struct {
	Kind string
}

// Error is an implementation of the error interface.
func (e *UnknownEditKindError) Error() string {
	return fmt.Sprintf("unknown cell edit kind %q", e.Kind)
}
