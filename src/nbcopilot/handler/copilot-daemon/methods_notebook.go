package copilotdaemon

import (
	"context"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/mapper"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/multierr"
)

func (r *jsonRPCRouter) OpenNotebook(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToOpenNotebookParams(req)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	handle, err := r.notebooks.OpenDocument(ctx, params.Path)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	if err := r.connections.AddHandle(ctx, r.uuid, handle); err != nil {
		// The connection is gone, so nothing would ever close this notebook.
		err = multierr.Append(err, r.notebooks.Close(ctx, handle))
		return reply(ctx, nil, toReplyError(err))
	}

	r.logger.Infow("opened notebook", "path", params.Path, "handle", handle.String())
	return reply(ctx, entity.OpenNotebookResult{Handle: handle}, nil)
}

func (r *jsonRPCRouter) CellEdit(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToCellEditParams(req)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	err = r.notebooks.ApplyCellEdit(ctx, params.Handle, params.Kind, params.CellID, params.Content)
	return reply(ctx, nil, toReplyError(err))
}

func (r *jsonRPCRouter) Push(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToHandleParams(req)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	err = r.notebooks.Push(ctx, params.Handle)
	return reply(ctx, nil, toReplyError(err))
}

func (r *jsonRPCRouter) Completion(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToCompletionParams(req)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	result, err := r.notebooks.RequestCompletion(ctx, params.Handle, params.CellID, params.Line, params.Character)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}
	return reply(ctx, result, nil)
}

func (r *jsonRPCRouter) ChangePath(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToChangePathParams(req)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	err = r.notebooks.ChangePath(ctx, params.Handle, params.Path)
	return reply(ctx, nil, toReplyError(err))
}

func (r *jsonRPCRouter) SetLanguage(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToSetLanguageParams(req)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	err = r.notebooks.SetLanguage(ctx, params.Handle, params.Language)
	return reply(ctx, nil, toReplyError(err))
}

func (r *jsonRPCRouter) Sync(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToHandleParams(req)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	code, err := r.notebooks.GetFullText(ctx, params.Handle)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}
	return reply(ctx, entity.SyncResult{Code: code}, nil)
}

// CloseNotebook ends the notebook's conversation, closes it on the backend and detaches it from the connection.
func (r *jsonRPCRouter) CloseNotebook(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error {
	params, err := mapper.RequestToHandleParams(req)
	if err != nil {
		return reply(ctx, nil, toReplyError(err))
	}

	err = releaseNotebook(ctx, r.chat, r.notebooks, params.Handle)
	if removeErr := r.connections.RemoveHandle(ctx, r.uuid, params.Handle); removeErr != nil {
		r.logger.Warnw("detaching notebook from connection", "handle", params.Handle.String(), "error", removeErr)
	}
	return reply(ctx, nil, toReplyError(err))
}
