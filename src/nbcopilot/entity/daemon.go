package entity

import "github.com/gofrs/uuid"

type keyType string

// ConnectionContextKey identifies the inbound connection a request arrived on.
const ConnectionContextKey keyType = "ConnectionUUID"

// Methods served to the notebook UI.
const (
	MethodNotebookOpen        = "notebook/open"
	MethodNotebookCellEdit    = "notebook/cellEdit"
	MethodNotebookPush        = "notebook/push"
	MethodNotebookCompletion  = "notebook/completion"
	MethodNotebookChangePath  = "notebook/changePath"
	MethodNotebookSetLanguage = "notebook/setLanguage"
	MethodNotebookSync        = "notebook/sync"
	MethodNotebookClose       = "notebook/close"
	MethodAuthLogin           = "auth/login"
	MethodAuthSignOut         = "auth/signOut"
	MethodAuthStatus          = "auth/status"
	MethodChatStart           = "chat/start"
	MethodChatTurn            = "chat/turn"
	MethodChatEnd             = "chat/end"
)

// Connection is one notebook UI attached to the daemon.
type Connection struct {
	UUID uuid.UUID `json:"uuid" zap:"uuid"`
	// Handles are the notebooks opened on this connection; they are closed when it drops.
	Handles []uuid.UUID `json:"handles" zap:"-"`
}

// OpenNotebookParams are the params of notebook/open.
type OpenNotebookParams struct {
	Path string `json:"path"`
}

// OpenNotebookResult is the result of notebook/open.
type OpenNotebookResult struct {
	Handle uuid.UUID `json:"handle"`
}

// HandleParams address an open notebook.
type HandleParams struct {
	Handle uuid.UUID `json:"handle"`
}

// CellEditParams are the params of notebook/cellEdit.
type CellEditParams struct {
	Handle  uuid.UUID    `json:"handle"`
	Kind    CellEditKind `json:"kind"`
	CellID  int          `json:"cellId"`
	Content string       `json:"content,omitempty"`
}

// CompletionParams are the params of notebook/completion. Line and Character are local to the cell.
type CompletionParams struct {
	Handle    uuid.UUID `json:"handle"`
	CellID    int       `json:"cellId"`
	Line      int       `json:"line"`
	Character int       `json:"character"`
}

// ChangePathParams are the params of notebook/changePath.
type ChangePathParams struct {
	Handle uuid.UUID `json:"handle"`
	Path   string    `json:"path"`
}

// SetLanguageParams are the params of notebook/setLanguage.
type SetLanguageParams struct {
	Handle   uuid.UUID `json:"handle"`
	Language string    `json:"language"`
}

// SyncResult is the result of notebook/sync.
type SyncResult struct {
	Code string `json:"code"`
}

// ChatParams are the params of chat/start and chat/turn.
type ChatParams struct {
	Handle  uuid.UUID `json:"handle"`
	Message string    `json:"message"`
}

