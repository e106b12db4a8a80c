package copilotdaemon

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/factory"
	interrors "github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/mock/gomock"
)

func TestNotebookMethods(t *testing.T) {
	handle := factory.UUID()

	tests := []struct {
		name       string
		method     string
		params     interface{}
		setReturn  func(tr *testRouter, err error)
		wantResult interface{}
	}{
		{
			name:   "CellEdit",
			method: entity.MethodNotebookCellEdit,
			params: entity.CellEditParams{Handle: handle, Kind: entity.CellEditAdd, CellID: 1, Content: "import os"},
			setReturn: func(tr *testRouter, err error) {
				tr.notebooks.EXPECT().ApplyCellEdit(gomock.Any(), handle, entity.CellEditAdd, 1, "import os").Return(err)
			},
		},
		{
			name:   "Push",
			method: entity.MethodNotebookPush,
			params: entity.HandleParams{Handle: handle},
			setReturn: func(tr *testRouter, err error) {
				tr.notebooks.EXPECT().Push(gomock.Any(), handle).Return(err)
			},
		},
		{
			name:   "Completion",
			method: entity.MethodNotebookCompletion,
			params: entity.CompletionParams{Handle: handle, CellID: 2, Line: 1, Character: 4},
			setReturn: func(tr *testRouter, err error) {
				var result json.RawMessage
				if err == nil {
					result = json.RawMessage(`{"completions":[{"text":"print"}]}`)
				}
				tr.notebooks.EXPECT().RequestCompletion(gomock.Any(), handle, 2, 1, 4).Return(result, err)
			},
			wantResult: json.RawMessage(`{"completions":[{"text":"print"}]}`),
		},
		{
			name:   "ChangePath",
			method: entity.MethodNotebookChangePath,
			params: entity.ChangePathParams{Handle: handle, Path: "/home/user/renamed.ipynb"},
			setReturn: func(tr *testRouter, err error) {
				tr.notebooks.EXPECT().ChangePath(gomock.Any(), handle, "/home/user/renamed.ipynb").Return(err)
			},
		},
		{
			name:   "SetLanguage",
			method: entity.MethodNotebookSetLanguage,
			params: entity.SetLanguageParams{Handle: handle, Language: "r"},
			setReturn: func(tr *testRouter, err error) {
				tr.notebooks.EXPECT().SetLanguage(gomock.Any(), handle, "r").Return(err)
			},
		},
		{
			name:   "Sync",
			method: entity.MethodNotebookSync,
			params: entity.HandleParams{Handle: handle},
			setReturn: func(tr *testRouter, err error) {
				tr.notebooks.EXPECT().GetFullText(gomock.Any(), handle).Return("a = 1\n\nb = 2", err)
			},
			wantResult: entity.SyncResult{Code: "a = 1\n\nb = 2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestRouter(t)

			// Valid params.
			tt.setReturn(tr, nil)
			r := tr.call(t, tt.method, tt.params)
			require.NoError(t, r.err)
			assert.Equal(t, tt.wantResult, r.result)

			// Invalid params.
			r = tr.call(t, tt.method, 5)
			assert.Equal(t, jsonrpc2.ParseError, replyCode(t, r.err))

			// Missing handle.
			r = tr.call(t, tt.method, struct{}{})
			assert.Equal(t, jsonrpc2.InvalidParams, replyCode(t, r.err))

			// Controller error.
			tt.setReturn(tr, errors.New("err"))
			r = tr.call(t, tt.method, tt.params)
			assert.Equal(t, jsonrpc2.InternalError, replyCode(t, r.err))
			assert.ErrorContains(t, r.err, "err")
		})
	}
}

func TestOpenNotebook(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		tr := newTestRouter(t)
		handle := factory.UUID()
		tr.notebooks.EXPECT().OpenDocument(gomock.Any(), "/home/user/analysis.ipynb").Return(handle, nil)

		r := tr.call(t, entity.MethodNotebookOpen, entity.OpenNotebookParams{Path: "/home/user/analysis.ipynb"})
		require.NoError(t, r.err)
		assert.Equal(t, entity.OpenNotebookResult{Handle: handle}, r.result)

		conn, err := tr.connections.Get(context.Background(), tr.UUID())
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{handle}, conn.Handles)
	})

	t.Run("missing path", func(t *testing.T) {
		tr := newTestRouter(t)
		r := tr.call(t, entity.MethodNotebookOpen, entity.OpenNotebookParams{})
		assert.Equal(t, jsonrpc2.InvalidParams, replyCode(t, r.err))
		assert.ErrorContains(t, r.err, interrors.NoPathOnWireError.Error())
	})

	t.Run("controller error", func(t *testing.T) {
		tr := newTestRouter(t)
		tr.notebooks.EXPECT().OpenDocument(gomock.Any(), "/missing.ipynb").Return(uuid.Nil, errors.New("no such file"))

		r := tr.call(t, entity.MethodNotebookOpen, entity.OpenNotebookParams{Path: "/missing.ipynb"})
		assert.Equal(t, jsonrpc2.InternalError, replyCode(t, r.err))
	})

	t.Run("connection already removed", func(t *testing.T) {
		tr := newTestRouter(t)
		handle := factory.UUID()
		require.NoError(t, tr.connections.Delete(context.Background(), tr.UUID()))

		tr.notebooks.EXPECT().OpenDocument(gomock.Any(), "/home/user/late.ipynb").Return(handle, nil)
		tr.notebooks.EXPECT().Close(gomock.Any(), handle).Return(nil)

		r := tr.call(t, entity.MethodNotebookOpen, entity.OpenNotebookParams{Path: "/home/user/late.ipynb"})
		assert.Equal(t, jsonrpc2.InvalidParams, replyCode(t, r.err), "unknown connection")
	})
}

func TestCloseNotebook(t *testing.T) {
	tr := newTestRouter(t)
	handle, other := factory.UUID(), factory.UUID()
	require.NoError(t, tr.connections.AddHandle(context.Background(), tr.UUID(), handle))
	require.NoError(t, tr.connections.AddHandle(context.Background(), tr.UUID(), other))

	gomock.InOrder(
		tr.chat.EXPECT().Release(gomock.Any(), handle).Return(nil),
		tr.notebooks.EXPECT().Close(gomock.Any(), handle).Return(nil),
	)

	r := tr.call(t, entity.MethodNotebookClose, entity.HandleParams{Handle: handle})
	require.NoError(t, r.err)

	conn, err := tr.connections.Get(context.Background(), tr.UUID())
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{other}, conn.Handles)

	t.Run("unknown handle", func(t *testing.T) {
		unknown := factory.UUID()
		tr.chat.EXPECT().Release(gomock.Any(), unknown).Return(nil)
		tr.notebooks.EXPECT().Close(gomock.Any(), unknown).Return(&interrors.UUIDNotFoundError{UUID: unknown})

		r := tr.call(t, entity.MethodNotebookClose, entity.HandleParams{Handle: unknown})
		assert.Equal(t, jsonrpc2.InvalidParams, replyCode(t, r.err))
	})
}
