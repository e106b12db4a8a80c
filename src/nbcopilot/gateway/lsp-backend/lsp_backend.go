// Package backend owns the language server child process and the framed JSON-RPC session with it.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/entity"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/clock"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/fs"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/logfilewriter"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/process"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/serverinfofile"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=lsp_backend.go -destination=backendmock/lsp_backend_mock.go -package=backendmock

const (
	_configKey      = "backend"
	_outputName     = "lsp-backend"
	_infoKeyPid     = "backend-pid"
	_metricsScope   = "backend"
	_errSendRequest = "sending %s to backend: %w"

	_defaultStartupGracePeriod = 500 * time.Millisecond
	_defaultRequestTimeout     = 10 * time.Second
	_defaultClientName         = "jupyter-copilot"
	_reapTimeout               = 5 * time.Second
	_bundleDebounce            = time.Second
)

// Module provides the backend Gateway.
var Module = fx.Provide(New)

// Gateway is the stable handle to the backend language server.
// The backend process behind it may be replaced after a crash; callers never observe which process served them.
type Gateway interface {
	// SendRequest registers a pending call and writes it to the backend. It blocks only until the backend is ready.
	SendRequest(ctx context.Context, method string, params interface{}) (*PendingCall, error)
	// Call sends a request, waits for it and decodes the result into result when it is not nil.
	Call(ctx context.Context, method string, params interface{}, result interface{}) error
	// Notify sends a notification. Notifications are never correlated with a response.
	Notify(ctx context.Context, method string, params interface{}) error

	// RegisterRestartCallback adds a callback run after every restart, in registration order.
	RegisterRestartCallback(cb RestartCallback) CallbackID
	// UnregisterRestartCallback removes a callback. Unknown ids are ignored.
	UnregisterRestartCallback(id CallbackID)
	// Restart replaces the backend process. It returns nil without doing anything when a restart is already running.
	Restart(ctx context.Context) error
	// PendingCount is the number of requests awaiting a response.
	PendingCount() int

	DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error
	DidChange(ctx context.Context, params *entity.DidChangeParams) error
	DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error
	GetCompletions(ctx context.Context, params *entity.GetCompletionsParams) (json.RawMessage, error)
	SignInInitiate(ctx context.Context) (json.RawMessage, error)
	SignOut(ctx context.Context) (json.RawMessage, error)
	CheckStatus(ctx context.Context) (json.RawMessage, error)
	CreateConversation(ctx context.Context, params *entity.CreateConversationParams) (json.RawMessage, error)
	ConversationTurn(ctx context.Context, params *entity.ConversationTurnParams) (json.RawMessage, error)
	DestroyConversation(ctx context.Context, params *entity.DestroyConversationParams) error
}

// Config is the backend section of the configuration.
type Config struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
	Dir     string   `yaml:"dir"`
	Env     []string `yaml:"env"`
	// Durations use time.ParseDuration syntax.
	StartupGracePeriod string `yaml:"startupGracePeriod"`
	RequestTimeout     string `yaml:"requestTimeout"`
	// WatchBundle restarts the backend when its script, the first of Args, is rebuilt.
	WatchBundle   bool   `yaml:"watchBundle"`
	ClientName    string `yaml:"clientName"`
	ClientVersion string `yaml:"clientVersion"`
}

// Params are inbound parameters to initialize a new Gateway.
type Params struct {
	fx.In

	Config         config.Provider
	Lifecycle      fx.Lifecycle
	Shutdowner     fx.Shutdowner `optional:"true"`
	Logger         *zap.SugaredLogger
	Stats          tally.Scope
	Launcher       process.Launcher
	Clock          clock.Clock
	FS             fs.FS
	ServerInfoFile serverinfofile.ServerInfoFile
}

type metrics struct {
	requests        tally.Counter
	timeouts        tally.Counter
	remoteErrors    tally.Counter
	malformedFrames tally.Counter
	restarts        tally.Counter
	crashes         tally.Counter
	latency         tally.Timer
}

type session struct {
	command     process.Command
	gracePeriod time.Duration
	timeout     time.Duration
	reapTimeout time.Duration
	clientInfo  protocol.ClientInfo

	logger   *zap.SugaredLogger
	launcher process.Launcher
	clock    clock.Clock
	infoFile serverinfofile.ServerInfoFile
	metrics  metrics
	onFatal  func(error)

	nextID    atomic.Int32
	pending   *pendingTable
	callbacks callbackRegistry
	writeMu   sync.Mutex

	stateMu    sync.Mutex
	conn       *connection
	generation int
	ready      chan struct{}
	gateOpen   bool
	fatalErr   error
	stopped    bool

	restarting atomic.Bool
	loops      sync.WaitGroup
	watcher    *bundleWatcher
}

// New creates the backend Gateway. The process is started by the application lifecycle.
func New(p Params) (Gateway, error) {
	cfg := Config{}
	if err := p.Config.Get(_configKey).Populate(&cfg); err != nil {
		return nil, fmt.Errorf("getting backend config: %w", err)
	}
	if cfg.Command == "" {
		return nil, fmt.Errorf("%s.command is required", _configKey)
	}

	gracePeriod, err := parseDuration(cfg.StartupGracePeriod, _defaultStartupGracePeriod)
	if err != nil {
		return nil, fmt.Errorf("parsing %s.startupGracePeriod: %w", _configKey, err)
	}
	timeout, err := parseDuration(cfg.RequestTimeout, _defaultRequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("parsing %s.requestTimeout: %w", _configKey, err)
	}
	if cfg.ClientName == "" {
		cfg.ClientName = _defaultClientName
	}

	logger := p.Logger.With("gateway", _outputName)
	stderr, err := logfilewriter.SetupOutputWriter(logfilewriter.Params{
		FS:             p.FS,
		Lifecycle:      p.Lifecycle,
		ServerInfoFile: p.ServerInfoFile,
		Logger:         logger,
	}, _outputName)
	if err != nil {
		return nil, fmt.Errorf("setting up backend output: %w", err)
	}

	stats := p.Stats.SubScope(_metricsScope)
	s := &session{
		command: process.Command{
			Path:   cfg.Command,
			Args:   cfg.Args,
			Dir:    cfg.Dir,
			Env:    cfg.Env,
			Stderr: stderr,
		},
		gracePeriod: gracePeriod,
		timeout:     timeout,
		reapTimeout: _reapTimeout,
		clientInfo:  protocol.ClientInfo{Name: cfg.ClientName, Version: cfg.ClientVersion},
		logger:      logger,
		launcher:    p.Launcher,
		clock:       p.Clock,
		infoFile:    p.ServerInfoFile,
		metrics: metrics{
			requests:        stats.Counter("requests"),
			timeouts:        stats.Counter("timeouts"),
			remoteErrors:    stats.Counter("remote_errors"),
			malformedFrames: stats.Counter("malformed_frames"),
			restarts:        stats.Counter("restarts"),
			crashes:         stats.Counter("crashes"),
			latency:         stats.Timer("request_latency"),
		},
		pending: newPendingTable(stats.Gauge("pending_requests")),
		ready:   make(chan struct{}),
	}
	if p.Shutdowner != nil {
		s.onFatal = func(err error) {
			if shutdownErr := p.Shutdowner.Shutdown(fx.ExitCode(1)); shutdownErr != nil {
				logger.Errorw("requesting shutdown after backend failure", "error", shutdownErr)
			}
		}
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := s.start(ctx); err != nil {
				return err
			}
			if cfg.WatchBundle && len(cfg.Args) > 0 {
				return s.watchBundle(resolveScript(cfg.Dir, cfg.Args[0]))
			}
			return nil
		},
		OnStop: s.stop,
	})

	return s, nil
}

func parseDuration(value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	return time.ParseDuration(value)
}

func resolveScript(dir, script string) string {
	if filepath.IsAbs(script) || dir == "" {
		return filepath.Clean(script)
	}
	return filepath.Join(dir, script)
}

func (s *session) SendRequest(ctx context.Context, method string, params interface{}) (*PendingCall, error) {
	conn, err := s.awaitReady(ctx, method)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, conn, method, params)
}

func (s *session) Call(ctx context.Context, method string, params interface{}, result interface{}) error {
	call, err := s.SendRequest(ctx, method, params)
	if err != nil {
		return err
	}

	raw, err := call.Await(ctx)
	if err != nil {
		return err
	}
	if result == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("decoding %s result: %w", method, err)
	}
	return nil
}

func (s *session) Notify(ctx context.Context, method string, params interface{}) error {
	conn, err := s.awaitReady(ctx, method)
	if err != nil {
		return err
	}
	return s.notify(ctx, conn, method, params)
}

func (s *session) RegisterRestartCallback(cb RestartCallback) CallbackID {
	return s.callbacks.register(cb)
}

func (s *session) UnregisterRestartCallback(id CallbackID) {
	s.callbacks.unregister(id)
}

func (s *session) Restart(ctx context.Context) error {
	s.stateMu.Lock()
	conn, stopped := s.conn, s.stopped
	s.stateMu.Unlock()
	if stopped {
		return fmt.Errorf("restarting backend: %w", errors.ErrSessionClosed)
	}

	if !s.restarting.CompareAndSwap(false, true) {
		s.logger.Infow("backend restart already in progress")
		return nil
	}
	s.logger.Infow("restarting backend on request")
	return s.restartLocked(ctx, conn, nil)
}

func (s *session) PendingCount() int {
	return s.pending.len()
}
