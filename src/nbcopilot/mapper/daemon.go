package mapper

import (
	"encoding/json"
	"fmt"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
)

// RequestToOpenNotebookParams maps the parameters of a notebook/open request.
func RequestToOpenNotebookParams(req jsonrpc2.Request) (*entity.OpenNotebookParams, error) {
	params := entity.OpenNotebookParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	if params.Path == "" {
		return nil, errors.NoPathOnWireError
	}
	return &params, nil
}

// RequestToHandleParams maps the parameters of a request that only addresses a notebook.
func RequestToHandleParams(req jsonrpc2.Request) (*entity.HandleParams, error) {
	params := entity.HandleParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	if err := requireHandle(params.Handle); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToCellEditParams maps the parameters of a notebook/cellEdit request.
func RequestToCellEditParams(req jsonrpc2.Request) (*entity.CellEditParams, error) {
	params := entity.CellEditParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	if err := requireHandle(params.Handle); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToCompletionParams maps the parameters of a notebook/completion request.
func RequestToCompletionParams(req jsonrpc2.Request) (*entity.CompletionParams, error) {
	params := entity.CompletionParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	if err := requireHandle(params.Handle); err != nil {
		return nil, err
	}
	if params.Line < 0 || params.Character < 0 {
		return nil, fmt.Errorf("%w: negative position %d:%d", jsonrpc2.ErrInvalidParams, params.Line, params.Character)
	}
	return &params, nil
}

// RequestToChangePathParams maps the parameters of a notebook/changePath request.
func RequestToChangePathParams(req jsonrpc2.Request) (*entity.ChangePathParams, error) {
	params := entity.ChangePathParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	if err := requireHandle(params.Handle); err != nil {
		return nil, err
	}
	if params.Path == "" {
		return nil, errors.NoPathOnWireError
	}
	return &params, nil
}

// RequestToSetLanguageParams maps the parameters of a notebook/setLanguage request.
func RequestToSetLanguageParams(req jsonrpc2.Request) (*entity.SetLanguageParams, error) {
	params := entity.SetLanguageParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	if err := requireHandle(params.Handle); err != nil {
		return nil, err
	}
	return &params, nil
}

// RequestToChatParams maps the parameters of a chat/start or chat/turn request.
func RequestToChatParams(req jsonrpc2.Request) (*entity.ChatParams, error) {
	params := entity.ChatParams{}
	if err := json.Unmarshal(req.Params(), &params); err != nil {
		return nil, wrapErrParse(err)
	}
	if err := requireHandle(params.Handle); err != nil {
		return nil, err
	}
	return &params, nil
}

func requireHandle(handle uuid.UUID) error {
	if handle == uuid.Nil {
		return errors.NoHandleOnWireError
	}
	return nil
}

func wrapErrParse(err error) error {
	return fmt.Errorf("%w: %w", jsonrpc2.ErrParse, err)
}
