package errors

import stderr "errors"

// New returns an error that formats as the given text.
// Each call to New returns a distinct error value even if the text is identical.
func New(msg string) error {
	return stderr.New(msg)
}

var (
	// NoHandleOnWireError reports that the request is missing a notebook handle.
	NoHandleOnWireError = New("notebook handle is required")
	// NoPathOnWireError reports that the request is missing a notebook path.
	NoPathOnWireError = New("notebook path is required")
	// ErrSessionClosed reports that the backend session has been shut down.
	ErrSessionClosed = New("backend session closed")
)

// IsBadRequest reports whether the error is a bad request from the caller.
func IsBadRequest(e error) bool {
	var (
		kind         *UnknownEditKindError
		conversation *NoConversationError
	)
	return stderr.Is(e, NoHandleOnWireError) ||
		stderr.Is(e, NoPathOnWireError) ||
		stderr.As(e, &kind) ||
		stderr.As(e, &conversation) ||
		IsInvalidCellIndex(e)
}
