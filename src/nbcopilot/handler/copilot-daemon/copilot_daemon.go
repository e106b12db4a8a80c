// Package copilotdaemon implements the JSON-RPC methods the notebook UI calls on the daemon.
package copilotdaemon

import (
	"context"
	"fmt"
	"sync"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/auth"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/chat"
	notebooksync "github.com/baolong281/jupyter-copilot/src/nbcopilot/controller/notebook-sync"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/jsonrpcfx"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/mapper"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/repository/connection"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Handler tracks the notebook UI connections and builds a Router for each.
type Handler interface {
	jsonrpcfx.ConnectionManager
}

// Params are inbound parameters to initialize a new Handler.
type Params struct {
	fx.In

	Notebooks   notebooksync.Controller
	Auth        auth.Controller
	Chat        chat.Controller
	Connections connection.Repository
	Logger      *zap.SugaredLogger
	Stats       tally.Scope
	// Resolved last so the inbound stops, and drops its connections, before the controllers do.
	JSONRPC jsonrpcfx.JSONRPCModule
}

type jsonRPCConnectionManager struct {
	notebooks   notebooksync.Controller
	auth        auth.Controller
	chat        chat.Controller
	connections connection.Repository
	logger      *zap.SugaredLogger
	stats       tally.Scope

	mu      sync.Mutex
	routers map[uuid.UUID]*jsonRPCRouter
}

// New constructs the Handler and registers it with the JSON-RPC inbound.
func New(p Params) (Handler, error) {
	c := &jsonRPCConnectionManager{
		notebooks:   p.Notebooks,
		auth:        p.Auth,
		chat:        p.Chat,
		connections: p.Connections,
		logger:      p.Logger.With("plugin", "copilot-daemon"),
		stats:       p.Stats.SubScope("json_rpc"),
		routers:     make(map[uuid.UUID]*jsonRPCRouter),
	}
	if err := p.JSONRPC.RegisterConnectionManager(c); err != nil {
		return nil, fmt.Errorf("registering connection manager: %w", err)
	}
	return c, nil
}

// NewConnection will store a new connection and return a router that includes its UUID.
func (c *jsonRPCConnectionManager) NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (jsonrpcfx.Router, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}
	if err := c.connections.Set(ctx, mapper.UUIDToConnection(id)); err != nil {
		return nil, fmt.Errorf("error while creating new connection: %w", err)
	}

	lifetime, end := context.WithCancel(context.Background())
	r := &jsonRPCRouter{
		uuid:        id,
		notebooks:   c.notebooks,
		auth:        c.auth,
		chat:        c.chat,
		connections: c.connections,
		logger:      c.logger.With("connection", id.String()),
		stats:       c.stats,
		lifetime:    lifetime,
		end:         end,
	}

	c.mu.Lock()
	c.routers[id] = r
	c.mu.Unlock()

	return r, nil
}

// RemoveConnection cleans up a closed connection, closing every notebook it left open.
func (c *jsonRPCConnectionManager) RemoveConnection(ctx context.Context, id uuid.UUID) {
	c.mu.Lock()
	r, ok := c.routers[id]
	delete(c.routers, id)
	c.mu.Unlock()
	if ok {
		r.shutdown()
	}

	ctx = context.WithValue(ctx, entity.ConnectionContextKey, id)
	conn, err := c.connections.Get(ctx, id)
	if err != nil {
		c.logger.Warnw("removing unknown connection", "connection", id.String(), "error", err)
		return
	}

	var errs error
	for _, handle := range conn.Handles {
		err := releaseNotebook(ctx, c.chat, c.notebooks, handle)
		if _, notFound := errors.NotFoundUUID(err); notFound {
			continue
		}
		errs = multierr.Append(errs, err)
	}
	if errs != nil {
		c.logger.Warnw("closing notebooks of a dropped connection", "connection", id.String(), "error", errs)
	}

	if err := c.connections.Delete(ctx, id); err != nil {
		c.logger.Warnw("deleting connection", "connection", id.String(), "error", err)
	}
}

// releaseNotebook ends the notebook's conversation and closes it on the backend.
func releaseNotebook(ctx context.Context, chats chat.Controller, notebooks notebooksync.Controller, handle uuid.UUID) error {
	return multierr.Append(
		chats.Release(ctx, handle),
		notebooks.Close(ctx, handle),
	)
}
