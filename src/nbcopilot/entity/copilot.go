package entity

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// Backend method names that go.lsp.dev/protocol does not define.
const (
	MethodGetCompletions      = "getCompletions"
	MethodSignInInitiate      = "signInInitiate"
	MethodSignOut             = "signOut"
	MethodCheckStatus         = "checkStatus"
	MethodConversationCreate  = "conversation/create"
	MethodConversationTurn    = "conversation/turn"
	MethodConversationDestroy = "conversation/destroy"
)

// Values reported in AuthStatus.Status.
const (
	AuthStatusAlreadySignedIn = "AlreadySignedIn"
	AuthStatusPendingLogin    = "PendingLogin"
	AuthStatusNotSignedIn     = "NotSignedIn"
	AuthStatusOK              = "OK"
)

// ChatWorkDoneTokenPrefix prefixes the notebook name in a conversation's progress token.
const ChatWorkDoneTokenPrefix = "copilot_chat://"

// DidChangeParams is a full replacement didChange notification.
// protocol.TextDocumentContentChangeEvent always carries a range, which makes the backend apply a partial edit.
type DidChangeParams struct {
	TextDocument   protocol.VersionedTextDocumentIdentifier `json:"textDocument"`
	ContentChanges []FullContentChange                      `json:"contentChanges"`
}

// FullContentChange replaces the whole document text.
type FullContentChange struct {
	Text string `json:"text"`
}

// CompletionDocument locates a completion request inside a versioned document.
type CompletionDocument struct {
	URI      uri.URI           `json:"uri"`
	Position protocol.Position `json:"position"`
	Version  int32             `json:"version"`
}

// GetCompletionsParams are the params of a getCompletions request.
type GetCompletionsParams struct {
	Doc CompletionDocument `json:"doc"`
}

// AuthStatus is the shape of the signInInitiate, checkStatus and signOut results.
// Only the fields the daemon logs are declared; callers receive the raw payload.
type AuthStatus struct {
	Status          string `json:"status"`
	User            string `json:"user,omitempty"`
	UserCode        string `json:"userCode,omitempty"`
	VerificationURI string `json:"verificationUri,omitempty"`
	ExpiresIn       int    `json:"expiresIn,omitempty"`
	Interval        int    `json:"interval,omitempty"`
}

// ConversationDocument is the document context attached to a conversation.
type ConversationDocument struct {
	URI        uri.URI `json:"uri"`
	LanguageID string  `json:"languageId"`
	Version    int32   `json:"version"`
	Text       string  `json:"text"`
}

// ConversationTurnRequest is one prior or initial turn of a conversation.
type ConversationTurnRequest struct {
	Request       string `json:"request"`
	WorkDoneToken string `json:"workDoneToken,omitempty"`
}

// ConversationCapabilities declares the backend skills a conversation may use.
type ConversationCapabilities struct {
	Skills    []string `json:"skills"`
	AllSkills bool     `json:"allSkills"`
}

// CreateConversationParams are the params of a conversation/create request.
type CreateConversationParams struct {
	Message            string                    `json:"message"`
	WorkDoneToken      string                    `json:"workDoneToken"`
	Doc                ConversationDocument      `json:"doc"`
	Source             string                    `json:"source"`
	ComputeSuggestions bool                      `json:"computeSuggestions"`
	Turns              []ConversationTurnRequest `json:"turns"`
	Capabilities       ConversationCapabilities  `json:"capabilities"`
}

// CreateConversationResult is the part of the conversation/create result the daemon keeps.
type CreateConversationResult struct {
	ConversationID string `json:"conversationId"`
}

// ConversationTurnParams are the params of a conversation/turn request.
type ConversationTurnParams struct {
	ConversationID string `json:"conversationId"`
	Message        string `json:"message"`
	WorkDoneToken  string `json:"workDoneToken"`
}

// DestroyConversationParams are the params of a conversation/destroy notification.
type DestroyConversationParams struct {
	ConversationID string `json:"conversationId"`
}

// Conversation is the active chat of one notebook.
type Conversation struct {
	ID            string `json:"id" zap:"id"`
	WorkDoneToken string `json:"workDoneToken" zap:"workDoneToken"`
}
