package errors

import (
	stderr "errors"
	"fmt"

	"github.com/gofrs/uuid"
)

// UUIDNotFoundError reports a notebook handle or connection id that is unknown or already gone.
type UUIDNotFoundError struct {
	UUID uuid.UUID
	// Kind names what was looked up, e.g. "notebook". Empty reads as "UUID".
	Kind string
}

// Error is an implementation of the error interface.
func (n *UUIDNotFoundError) Error() string {
	kind := n.Kind
	if kind == "" {
		kind = "UUID"
	}
	return fmt.Sprintf("%s %q not found", kind, n.UUID)
}

// NotFoundUUID reports the missing id when a UUIDNotFoundError is anywhere in the chain.
func NotFoundUUID(e error) (_ uuid.UUID, ok bool) {
	var nf *UUIDNotFoundError
	if !stderr.As(e, &nf) {
		return uuid.Nil, false
	}
	return nf.UUID, true
}

// NoConnectionFoundError indicates that a request context carries no inbound connection.
type NoConnectionFoundError struct{}

// Error is an implementation of the error interface.
func (n *NoConnectionFoundError) Error() string {
	return "no connection found in context"
}
