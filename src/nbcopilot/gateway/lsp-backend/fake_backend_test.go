package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/clock"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/fs"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/process"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/serverinfofile/serverinfofilemock"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const _testConfig = `
backend:
  command: node
  args: ["dist/language-server.js", "--stdio"]
  startupGracePeriod: 1ms
  requestTimeout: 2s
`

// fakeProcess is a backend process whose stdio are in-memory pipes.
type fakeProcess struct {
	pid     int
	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter

	done       chan struct{}
	once       sync.Once
	mu         sync.Mutex
	status     process.ExitStatus
	terminated bool
	killed     bool
	// ignoreTerm keeps the process running after Terminate, like a child that traps SIGTERM.
	ignoreTerm bool
}

func (p *fakeProcess) Pid() int { return p.pid }
func (p *fakeProcess) Stdin() io.WriteCloser { return p.stdinW }
func (p *fakeProcess) Stdout() io.ReadCloser { return p.stdoutR }
func (p *fakeProcess) Done() <-chan struct{} { return p.done }
func (p *fakeProcess) ExitStatus() process.ExitStatus {
	<-p.done
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *fakeProcess) Terminate() error {
	p.mu.Lock()
	p.terminated = true
	ignore := p.ignoreTerm
	p.mu.Unlock()
	if !ignore {
		p.exit(process.ExitStatus{Code: -1})
	}
	return nil
}

func (p *fakeProcess) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	p.exit(process.ExitStatus{Code: -1})
	return nil
}

func (p *fakeProcess) wasKilled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

func (p *fakeProcess) wasTerminated() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.terminated
}

// exit simulates the process ending with the given status.
func (p *fakeProcess) exit(status process.ExitStatus) {
	p.once.Do(func() {
		p.mu.Lock()
		p.status = status
		p.mu.Unlock()
		p.stdoutW.Close()
		p.stdinR.Close()
		close(p.done)
	})
}

type handlerFunc func(b *fakeBackend, msg jsonrpc2.Message)

// fakeBackend speaks the backend side of the protocol over a fakeProcess.
type fakeBackend struct {
	*fakeProcess
	stream   jsonrpc2.Stream
	outbox   chan []byte
	received chan jsonrpc2.Message
	handler  handlerFunc
}

func newFakeBackend(pid int, handler handlerFunc) *fakeBackend {
	stdinR, stdinW := io.Pipe()
	stdoutR, stdoutW := io.Pipe()
	b := &fakeBackend{
		fakeProcess: &fakeProcess{
			pid:     pid,
			stdinR:  stdinR,
			stdinW:  stdinW,
			stdoutR: stdoutR,
			stdoutW: stdoutW,
			done:    make(chan struct{}),
		},
		outbox:   make(chan []byte, 64),
		received: make(chan jsonrpc2.Message, 256),
		handler:  handler,
	}
	b.stream = NewStream(stdinR, stdoutW)
	go b.readLoop()
	go b.writeLoop()
	return b
}

func (b *fakeBackend) readLoop() {
	for {
		msg, _, err := b.stream.Read(context.Background())
		if err != nil {
			return
		}
		select {
		case b.received <- msg:
		default:
		}
		b.handler(b, msg)
	}
}

// writeLoop keeps backend writes off the read loop so that neither side of the pipes can block the other.
func (b *fakeBackend) writeLoop() {
	for {
		select {
		case data := <-b.outbox:
			if _, err := b.stdoutW.Write(data); err != nil {
				return
			}
		case <-b.done:
			return
		}
	}
}

func (b *fakeBackend) sendRaw(data string) {
	select {
	case b.outbox <- []byte(data):
	case <-b.done:
	}
}

func (b *fakeBackend) send(msg jsonrpc2.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		panic(err)
	}
	b.sendRaw(fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(data), data))
}

func (b *fakeBackend) reply(id jsonrpc2.ID, result interface{}) {
	resp, err := jsonrpc2.NewResponse(id, result, nil)
	if err != nil {
		panic(err)
	}
	b.send(resp)
}

// next returns the next message the backend received with the given method.
func (b *fakeBackend) next(t *testing.T, method string) jsonrpc2.Message {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg := <-b.received:
			if req, ok := msg.(jsonrpc2.Request); ok && req.Method() == method {
				return msg
			}
		case <-timeout:
			t.Fatalf("backend did not receive %s", method)
			return nil
		}
	}
}

// defaultHandler completes the handshake and echoes "echo" requests. Other calls are left unanswered.
func defaultHandler(b *fakeBackend, msg jsonrpc2.Message) {
	call, ok := msg.(*jsonrpc2.Call)
	if !ok {
		return
	}
	switch call.Method() {
	case protocol.MethodInitialize:
		b.reply(call.ID(), map[string]interface{}{"capabilities": map[string]interface{}{}})
	case "echo":
		b.reply(call.ID(), json.RawMessage(call.Params()))
	}
}

// fakeLauncher starts fakeBackends. Starts from failFrom onwards fail.
type fakeLauncher struct {
	mu       sync.Mutex
	handler  handlerFunc
	failFrom int
	commands []process.Command
	backends []*fakeBackend
}

func newFakeLauncher(handler handlerFunc) *fakeLauncher {
	if handler == nil {
		handler = defaultHandler
	}
	return &fakeLauncher{
		handler:  handler,
		failFrom: -1,
	}
}

func (l *fakeLauncher) Start(cmd process.Command) (process.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.commands = append(l.commands, cmd)
	if l.failFrom >= 0 && len(l.commands) > l.failFrom {
		return nil, errors.New("exec: \"node\": executable file not found in $PATH")
	}
	b := newFakeBackend(1000+len(l.backends), l.handler)
	l.backends = append(l.backends, b)
	return b, nil
}

func (l *fakeLauncher) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.backends)
}

func (l *fakeLauncher) backend(t *testing.T, i int) *fakeBackend {
	t.Helper()
	require.Eventually(t, func() bool { return l.count() > i }, 2*time.Second, 5*time.Millisecond)
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.backends[i]
}

type fakeShutdowner struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeShutdowner) Shutdown(...fx.ShutdownOption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func (f *fakeShutdowner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type testGateway struct {
	*session
	lc         *fxtest.Lifecycle
	launcher   *fakeLauncher
	scope      tally.TestScope
	shutdowner *fakeShutdowner
}

func newTestParams(t *testing.T, launcher process.Launcher, cfg string, logger *zap.SugaredLogger) Params {
	t.Helper()
	if cfg == "" {
		cfg = _testConfig
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	ctrl := gomock.NewController(t)
	infoFile := serverinfofilemock.NewMockServerInfoFile(ctrl)
	infoFile.EXPECT().UpdateField(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	provider, err := config.NewYAML(config.Source(strings.NewReader(cfg)))
	require.NoError(t, err)

	return Params{
		Config:         provider,
		Lifecycle:      fxtest.NewLifecycle(t),
		Shutdowner:     &fakeShutdowner{},
		Logger:         logger,
		Stats:          tally.NewTestScope("testing", nil),
		Launcher:       launcher,
		Clock:          clock.New(),
		FS:             fs.New(),
		ServerInfoFile: infoFile,
	}
}

func newTestGateway(t *testing.T, launcher *fakeLauncher, cfg string, logger *zap.SugaredLogger) *testGateway {
	t.Helper()
	p := newTestParams(t, launcher, cfg, logger)
	gw, err := New(p)
	require.NoError(t, err)

	return &testGateway{
		session:    gw.(*session),
		lc:         p.Lifecycle.(*fxtest.Lifecycle),
		launcher:   launcher,
		scope:      p.Stats.(tally.TestScope),
		shutdowner: p.Shutdowner.(*fakeShutdowner),
	}
}

func (g *testGateway) counter(name string) int64 {
	c, ok := g.scope.Snapshot().Counters()["testing.backend."+name+"+"]
	if !ok {
		return 0
	}
	return c.Value()
}
