package copilotdaemon

import (
	stderr "errors"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"go.lsp.dev/jsonrpc2"
)

// toReplyError picks the JSON-RPC error code the UI sees for err. The message is always err's full text.
func toReplyError(err error) error {
	if err == nil {
		return nil
	}

	var (
		wire   *jsonrpc2.Error
		remote *errors.RemoteError
	)
	switch {
	case stderr.As(err, &wire):
		return jsonrpc2.NewError(wire.Code, err.Error())
	case stderr.As(err, &remote):
		return jsonrpc2.NewError(jsonrpc2.Code(remote.Code), err.Error())
	case errors.IsBadRequest(err):
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
	}
	if _, ok := errors.NotFoundUUID(err); ok {
		return jsonrpc2.NewError(jsonrpc2.InvalidParams, err.Error())
	}
	return jsonrpc2.NewError(jsonrpc2.InternalError, err.Error())
}
