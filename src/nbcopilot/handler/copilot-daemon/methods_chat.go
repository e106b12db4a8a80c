package copilotdaemon

import (
	"context"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/mapper"
	"go.lsp.dev/jsonrpc2"
)

func (r *jsonRPCRouter) StartChat(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToChatParams(req)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	result, err := r.chat.StartConversation(ctx, params.Handle, params.Message)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}
	return reply(ctx, result, nil)
}

func (r *jsonRPCRouter) ChatTurn(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToChatParams(req)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	result, err := r.chat.SendTurn(ctx, params.Handle, params.Message)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}
	return reply(ctx, result, nil)
}

func (r *jsonRPCRouter) EndChat(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToHandleParams(req)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	err = r.chat.EndConversation(ctx, params.Handle)
	return reply(ctx, nil, toReplyError(err))
}
