package copilotdaemon

import (
	"context"

	"go.lsp.dev/jsonrpc2"
)

// Login starts the device flow and returns the backend's payload, which carries the code to show the user.
func (r *jsonRPCRouter) Login(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	_, result, err := r.auth.Login(ctx)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}
	return reply(ctx, result, nil)
}

func (r *jsonRPCRouter) SignOut(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.auth.SignOut(ctx)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}
	return reply(ctx, result, nil)
}

func (r *jsonRPCRouter) Status(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	result, err := r.auth.Status(ctx)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}
	return reply(ctx, result, nil)
}
