package copilotdaemon

import (
	"context"
	"errors"
	"testing"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/auth/authmock"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/chat/chatmock"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/notebook-sync/notebooksyncmock"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/factory"
	interrors "github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/jsonrpcfx/jsonrpcfxmock"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/mapper"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/repository/connection"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestNew(t *testing.T) {
	newParams := func(ctrl *gomock.Controller, jsonRPC *jsonrpcfxmock.MockJSONRPCModule) Params {
		scope := tally.NewTestScope("testing", make(map[string]string))
		return Params{
			JSONRPC:     jsonRPC,
			Notebooks:   notebooksyncmock.NewMockController(ctrl),
			Auth:        authmock.NewMockController(ctrl),
			Chat:        chatmock.NewMockController(ctrl),
			Connections: connection.New(scope),
			Logger:      zap.NewNop().Sugar(),
			Stats:       scope,
		}
	}

	t.Run("registers with the inbound", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		jsonRPC := jsonrpcfxmock.NewMockJSONRPCModule(ctrl)

		var registered interface{}
		jsonRPC.EXPECT().RegisterConnectionManager(gomock.Any()).DoAndReturn(func(m interface{}) error {
			registered = m
			return nil
		})

		h, err := New(newParams(ctrl, jsonRPC))
		require.NoError(t, err)
		assert.Same(t, h, registered)
	})

	t.Run("registration failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		jsonRPC := jsonrpcfxmock.NewMockJSONRPCModule(ctrl)
		jsonRPC.EXPECT().RegisterConnectionManager(gomock.Any()).Return(errors.New("duplicate"))

		_, err := New(newParams(ctrl, jsonRPC))
		assert.ErrorContains(t, err, "duplicate")
	})
}

func TestNewConnection(t *testing.T) {
	tr := newTestRouter(t)
	ctx := context.Background()

	second, err := tr.manager.NewConnection(ctx, nil)
	require.NoError(t, err)
	t.Cleanup(second.(*jsonRPCRouter).shutdown)

	assert.IsType(t, &jsonRPCRouter{}, second)
	assert.NotEqual(t, tr.UUID(), second.UUID())

	count, err := tr.connections.ConnectionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	gauges := tr.scope.Snapshot().Gauges()
	require.Contains(t, gauges, "testing.active_connections+")
	assert.EqualValues(t, 2, gauges["testing.active_connections+"].Value())
}

func TestRemoveConnection(t *testing.T) {
	ctx := context.Background()

	t.Run("closes every notebook the connection opened", func(t *testing.T) {
		tr := newTestRouter(t)
		first, second, gone := factory.UUID(), factory.UUID(), factory.UUID()
		for _, h := range []uuid.UUID{first, second, gone} {
			require.NoError(t, tr.connections.AddHandle(ctx, tr.UUID(), h))
		}

		tr.chat.EXPECT().Release(gomock.Any(), gomock.Any()).Return(nil).Times(3)
		for _, h := range []uuid.UUID{first, second} {
			tr.notebooks.EXPECT().Close(gomock.Any(), h).DoAndReturn(func(ctx context.Context, _ uuid.UUID) error {
				id, err := mapper.ContextToConnectionUUID(ctx)
				assert.NoError(t, err)
				assert.Equal(t, tr.UUID(), id)
				return nil
			})
		}
		// Already closed by the controller's shutdown.
		tr.notebooks.EXPECT().Close(gomock.Any(), gone).Return(&interrors.UUIDNotFoundError{UUID: gone})

		core, logs := observer.New(zap.WarnLevel)
		tr.manager.logger = zap.New(core).Sugar()

		tr.manager.RemoveConnection(ctx, tr.UUID())

		_, err := tr.connections.Get(ctx, tr.UUID())
		_, notFound := interrors.NotFoundUUID(err)
		assert.True(t, notFound)
		assert.Zero(t, logs.Len(), "a notebook that is already closed is not a failure")
	})

	t.Run("close failures are logged", func(t *testing.T) {
		tr := newTestRouter(t)
		handle := factory.UUID()
		require.NoError(t, tr.connections.AddHandle(ctx, tr.UUID(), handle))

		tr.chat.EXPECT().Release(gomock.Any(), handle).Return(nil)
		tr.notebooks.EXPECT().Close(gomock.Any(), handle).Return(interrors.ErrSessionClosed)

		core, logs := observer.New(zap.WarnLevel)
		tr.manager.logger = zap.New(core).Sugar()

		tr.manager.RemoveConnection(ctx, tr.UUID())
		assert.Equal(t, 1, logs.FilterMessage("closing notebooks of a dropped connection").Len())
	})

	t.Run("unknown connection", func(t *testing.T) {
		tr := newTestRouter(t)
		core, logs := observer.New(zap.WarnLevel)
		tr.manager.logger = zap.New(core).Sugar()

		tr.manager.RemoveConnection(ctx, factory.UUID())
		assert.Equal(t, 1, logs.FilterMessage("removing unknown connection").Len())

		count, err := tr.connections.ConnectionCount(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}
