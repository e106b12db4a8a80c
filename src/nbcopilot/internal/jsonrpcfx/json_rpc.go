// Package jsonrpcfx serves the daemon's JSON-RPC 2.0 inbound over TCP.
package jsonrpcfx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/serverinfofile"
	"github.com/gofrs/uuid"
	"go.lsp.dev/jsonrpc2"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

//go:generate mockgen -source=json_rpc.go -destination=jsonrpcfxmock/json_rpc_mock.go -package=jsonrpcfxmock

const (
	_configKeyAddress = "jsonrpc.address"
	_outputKey        = "lsp-address"
)

// Module is an fx module to handle JSON-RPC requests.
var Module = fx.Provide(New)

// JSONRPCModule represents a module to manage JSON-RPC requests.
type JSONRPCModule interface {
	OnStart(ctx context.Context) error
	OnStop(ctx context.Context) error
	ServeStream(ctx context.Context, conn jsonrpc2.Conn) error
	RegisterConnectionManager(connectionManager ConnectionManager) error
}

// Router serves as the interface through which handling of requests will be implemented.
type Router interface {
	HandleReq(ctx context.Context, reply jsonrpc2.Replier, req jsonrpc2.Request) error
	UUID() uuid.UUID
}

// ConnectionManager will manage each active connection and its corresponding Router throughout the lifecycle of a connection.
type ConnectionManager interface {
	NewConnection(ctx context.Context, conn *jsonrpc2.Conn) (router Router, err error)
	RemoveConnection(ctx context.Context, id uuid.UUID)
}

type module struct {
	Address string `json:"address"`

	connectionMgr  ConnectionManager
	ln             net.Listener
	logger         *zap.SugaredLogger
	serverInfoFile serverinfofile.ServerInfoFile

	cancel  context.CancelFunc
	serving sync.WaitGroup
	connsMu sync.Mutex
	conns   map[jsonrpc2.Conn]struct{}
}

// Params define values to be used by the JSON-RPC module.
type Params struct {
	fx.In

	Config         config.Provider
	Lifecycle      fx.Lifecycle
	Logger         *zap.SugaredLogger
	ServerInfoFile serverinfofile.ServerInfoFile
}

// New creates a new server to handle JSON-RPC requests on the configured address.
func New(p Params) (JSONRPCModule, error) {
	if p.Lifecycle == nil || p.Config == nil {
		return nil, errors.New("required parameters are missing")
	}

	m := &module{
		logger:         p.Logger.With("plugin", "jsonrpc"),
		serverInfoFile: p.ServerInfoFile,
		conns:          make(map[jsonrpc2.Conn]struct{}),
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: m.OnStart,
		OnStop:  m.OnStop,
	})

	return m, nil
}

// OnStart listens on the configured address, publishes the bound address and begins accepting connections.
func (m *module) OnStart(ctx context.Context) error {
	if err := m.setup(); err != nil {
		return err
	}

	// A configured port of 0 is resolved by the listener.
	m.Address = m.ln.Addr().String()
	if err := m.serverInfoFile.UpdateField(_outputKey, m.Address); err != nil {
		m.ln.Close()
		m.ln = nil
		return fmt.Errorf("publishing %s: %w", _outputKey, err)
	}

	serveCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.serving.Add(1)
	go m.serve(serveCtx)

	m.logger.Infow("started JSON-RPC inbound", zap.String("address", m.Address))
	return nil
}

// OnStop stops accepting, closes every open connection and waits for their cleanup to finish.
func (m *module) OnStop(ctx context.Context) error {
	if m.ln == nil {
		return nil
	}

	m.cancel()
	err := m.ln.Close()
	if errors.Is(err, net.ErrClosed) {
		err = nil
	}

	m.connsMu.Lock()
	for conn := range m.conns {
		err = multierr.Append(err, ignoreClosed(conn.Close()))
	}
	m.connsMu.Unlock()

	done := make(chan struct{})
	go func() {
		m.serving.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		err = multierr.Append(err, fmt.Errorf("waiting for JSON-RPC connections to close: %w", ctx.Err()))
	}
	return err
}

// ServeStream is called when a new connection is initiated. Requests received via the connection will be routed to the handler, and answered via the connection's replier.
func (m *module) ServeStream(ctx context.Context, conn jsonrpc2.Conn) error {
	if m.connectionMgr == nil {
		m.logger.Errorf("cannot serve connection, no connection manager set")
		return errors.New("cannot serve connection, no connection manager set")
	}

	handler, err := m.connectionMgr.NewConnection(ctx, &conn)
	if err != nil {
		return err
	}
	m.logger.Infow("client connected", zap.Stringer("uuid", handler.UUID()))
	conn.Go(ctx, handler.HandleReq)

	<-conn.Done()

	// Cleanup talks to the backend, so it must outlive a stopping server.
	m.connectionMgr.RemoveConnection(context.WithoutCancel(ctx), handler.UUID())
	m.logger.Infow("client disconnected", zap.Stringer("uuid", handler.UUID()))

	return conn.Err()
}

// RegisterConnectionManager sets the connection manager, which keeps track of current active connections and provides a Router implementation.
func (m *module) RegisterConnectionManager(connectionMgr ConnectionManager) error {
	if m.connectionMgr != nil {
		return errors.New("cannot register a duplicate connection manager")
	}
	m.connectionMgr = connectionMgr
	return nil
}

// setup should be called after creation of a new handler to set initial values.
func (m *module) setup() error {
	if m.Address == "" {
		return errors.New("setup called before address is set")
	}

	addr, err := net.ResolveTCPAddr("tcp", m.Address)
	if err != nil {
		return err
	}

	ln, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return err
	}
	m.ln = ln
	return nil
}

// serve accepts connections until the listener is closed.
// jsonrpc2.Serve leaves connection goroutines behind once it returns, so connections are tracked here instead.
func (m *module) serve(ctx context.Context) {
	defer m.serving.Done()

	for {
		netConn, err := m.ln.Accept()
		if err != nil {
			if ctx.Err() == nil && !errors.Is(err, net.ErrClosed) {
				m.logger.Errorw("accepting JSON-RPC connection", "error", err)
			}
			return
		}

		conn := jsonrpc2.NewConn(jsonrpc2.NewStream(netConn))
		if !m.track(ctx, conn) {
			conn.Close()
			return
		}

		m.serving.Add(1)
		go func() {
			defer m.serving.Done()
			defer m.untrack(conn)

			if err := m.ServeStream(ctx, conn); err != nil && ctx.Err() == nil && !isClosedErr(err) {
				m.logger.Warnw("JSON-RPC connection ended with error", "error", err)
			}
		}()
	}
}

func (m *module) track(ctx context.Context, conn jsonrpc2.Conn) bool {
	m.connsMu.Lock()
	defer m.connsMu.Unlock()
	if ctx.Err() != nil {
		return false
	}
	m.conns[conn] = struct{}{}
	return true
}

func (m *module) untrack(conn jsonrpc2.Conn) {
	m.connsMu.Lock()
	defer m.connsMu.Unlock()
	delete(m.conns, conn)
}

// processConfig will parse the configuration for any values required by this module.
func (m *module) processConfig(cfg config.Provider) error {
	val := cfg.Get(_configKeyAddress)
	if err := val.Populate(&m.Address); err != nil {
		return fmt.Errorf("getting config field %q: %w", _configKeyAddress, err)
	}

	if m.Address == "" {
		return fmt.Errorf("missing field %q in config", _configKeyAddress)
	}

	return nil
}

func ignoreClosed(err error) error {
	if isClosedErr(err) {
		return nil
	}
	return err
}

func isClosedErr(err error) bool {
	return err == nil || errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF)
}
