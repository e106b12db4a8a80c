package backend

import (
	"context"
	"encoding/json"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"go.lsp.dev/protocol"
)

func (s *session) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	return s.Notify(ctx, protocol.MethodTextDocumentDidOpen, params)
}

func (s *session) DidChange(ctx context.Context, params *entity.DidChangeParams) error {
	return s.Notify(ctx, protocol.MethodTextDocumentDidChange, params)
}

func (s *session) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	return s.Notify(ctx, protocol.MethodTextDocumentDidClose, params)
}

func (s *session) GetCompletions(ctx context.Context, params *entity.GetCompletionsParams) (json.RawMessage, error) {
	return s.callRaw(ctx, entity.MethodGetCompletions, params)
}

func (s *session) SignInInitiate(ctx context.Context) (json.RawMessage, error) {
	return s.callRaw(ctx, entity.MethodSignInInitiate, struct{}{})
}

func (s *session) SignOut(ctx context.Context) (json.RawMessage, error) {
	return s.callRaw(ctx, entity.MethodSignOut, struct{}{})
}

func (s *session) CheckStatus(ctx context.Context) (json.RawMessage, error) {
	return s.callRaw(ctx, entity.MethodCheckStatus, struct{}{})
}

func (s *session) CreateConversation(ctx context.Context, params *entity.CreateConversationParams) (json.RawMessage, error) {
	return s.callRaw(ctx, entity.MethodConversationCreate, params)
}

func (s *session) ConversationTurn(ctx context.Context, params *entity.ConversationTurnParams) (json.RawMessage, error) {
	return s.callRaw(ctx, entity.MethodConversationTurn, params)
}

func (s *session) DestroyConversation(ctx context.Context, params *entity.DestroyConversationParams) error {
	return s.Notify(ctx, entity.MethodConversationDestroy, params)
}

// callRaw returns the result payload unchanged.
func (s *session) callRaw(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	call, err := s.SendRequest(ctx, method, params)
	if err != nil {
		return nil, err
	}
	return call.Await(ctx)
}
