package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/errors"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/process"
	"go.lsp.dev/jsonrpc2"
	"go.lsp.dev/protocol"
	"go.uber.org/multierr"
)

var errRestarted = errors.New("backend restarted before the request completed")

// connection is one generation of the backend process.
type connection struct {
	proc       process.Process
	stream     jsonrpc2.Stream
	generation int
	retired    atomic.Bool
}

func (s *session) start(ctx context.Context) error {
	// The startup handshake holds the restart flag so that an early crash fails it instead of restarting.
	s.restarting.Store(true)
	conn, err := s.bringUp(ctx)
	if err != nil {
		if conn != nil {
			s.retire(conn)
		}
		s.restarting.Store(false)
		return err
	}

	s.openGate()
	s.restarting.Store(false)
	s.logger.Infow("backend ready", "pid", conn.proc.Pid())
	s.recheck(conn)
	return nil
}

func (s *session) stop(ctx context.Context) error {
	s.stateMu.Lock()
	if s.stopped {
		s.stateMu.Unlock()
		return nil
	}
	s.stopped = true
	conn := s.conn
	if !s.gateOpen {
		close(s.ready)
		s.gateOpen = true
	}
	s.stateMu.Unlock()

	var err error
	if s.watcher != nil {
		err = multierr.Append(err, s.watcher.Close())
	}
	s.failPending(errors.ErrSessionClosed)
	if conn != nil {
		s.retire(conn)
	}

	done := make(chan struct{})
	go func() {
		s.loops.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		err = multierr.Append(err, fmt.Errorf("waiting for backend loops: %w", ctx.Err()))
	}
	return err
}

// bringUp spawns a new generation and performs the handshake. The caller holds the restart flag.
// On a handshake failure the new connection is returned with the error so that it can be retired.
func (s *session) bringUp(ctx context.Context) (*connection, error) {
	conn, err := s.spawn()
	if err != nil {
		return nil, err
	}

	s.clock.Sleep(s.gracePeriod)
	if err := s.handshake(ctx, conn); err != nil {
		return conn, fmt.Errorf("backend handshake: %w", err)
	}
	return conn, nil
}

func (s *session) spawn() (*connection, error) {
	proc, err := s.launcher.Start(s.command)
	if err != nil {
		return nil, &errors.ProcessSpawnError{
			Command: append([]string{s.command.Path}, s.command.Args...),
			Err:     err,
		}
	}

	s.stateMu.Lock()
	if s.stopped {
		s.stateMu.Unlock()
		if err := proc.Terminate(); err != nil {
			s.logger.Warnw("terminating backend spawned during shutdown", "pid", proc.Pid(), "error", err)
		}
		return nil, errors.ErrSessionClosed
	}
	s.generation++
	conn := &connection{
		proc:       proc,
		stream:     NewStream(proc.Stdout(), proc.Stdin()),
		generation: s.generation,
	}
	s.conn = conn
	s.loops.Add(2)
	s.stateMu.Unlock()

	go s.readLoop(conn)
	go s.monitor(conn)

	if err := s.infoFile.UpdateField(_infoKeyPid, strconv.Itoa(proc.Pid())); err != nil {
		s.logger.Warnw("recording backend pid", "error", err)
	}
	s.logger.Infow("backend started", "pid", proc.Pid(), "generation", conn.generation)
	return conn, nil
}

func (s *session) handshake(ctx context.Context, conn *connection) error {
	params := &protocol.InitializeParams{
		ProcessID:  int32(os.Getpid()),
		ClientInfo: &s.clientInfo,
		Capabilities: protocol.ClientCapabilities{
			Workspace: &protocol.WorkspaceClientCapabilities{
				WorkspaceFolders: true,
			},
		},
	}

	call, err := s.send(ctx, conn, protocol.MethodInitialize, params)
	if err != nil {
		return err
	}
	if _, err := call.Await(ctx); err != nil {
		return err
	}
	return s.notify(ctx, conn, protocol.MethodInitialized, &protocol.InitializedParams{})
}

// awaitReady blocks until the current generation has completed its handshake.
// The wait is bounded by the request timeout.
func (s *session) awaitReady(ctx context.Context, method string) (*connection, error) {
	var expired chan struct{}
	for {
		s.stateMu.Lock()
		stopped, fatalErr, open, ready, conn := s.stopped, s.fatalErr, s.gateOpen, s.ready, s.conn
		s.stateMu.Unlock()

		switch {
		case stopped:
			return nil, errors.ErrSessionClosed
		case fatalErr != nil:
			return nil, fatalErr
		case open:
			return conn, nil
		}

		if expired == nil {
			expired = make(chan struct{})
			timer := s.clock.AfterFunc(s.timeout, func() { close(expired) })
			defer timer.Stop()
		}

		select {
		case <-ready:
		case <-expired:
			return nil, &errors.RequestTimeoutError{Method: method, ID: "-", Timeout: s.timeout}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (s *session) closeGate() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	if s.gateOpen {
		s.ready = make(chan struct{})
		s.gateOpen = false
	}
}

func (s *session) openGate() {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	s.fatalErr = nil
	if !s.gateOpen {
		close(s.ready)
		s.gateOpen = true
	}
}

func (s *session) isStopped() bool {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.stopped
}

func (s *session) send(ctx context.Context, conn *connection, method string, params interface{}) (*PendingCall, error) {
	id := jsonrpc2.NewNumberID(s.nextID.Add(1))
	msg, err := jsonrpc2.NewCall(id, method, params)
	if err != nil {
		return nil, fmt.Errorf("encoding %s params: %w", method, err)
	}

	// Register before writing: the response can arrive before Write returns.
	call := newPendingCall(id, method, s.clock.Now())
	s.pending.add(call)
	call.setTimer(s.clock.AfterFunc(s.timeout, func() { s.expire(call) }))

	if err := s.write(ctx, conn, msg); err != nil {
		if _, ok := s.pending.remove(id); ok {
			call.complete(nil, err)
		}
		return nil, fmt.Errorf(_errSendRequest, method, err)
	}
	s.metrics.requests.Inc(1)
	return call, nil
}

func (s *session) notify(ctx context.Context, conn *connection, method string, params interface{}) error {
	msg, err := jsonrpc2.NewNotification(method, params)
	if err != nil {
		return fmt.Errorf("encoding %s params: %w", method, err)
	}
	if err := s.write(ctx, conn, msg); err != nil {
		return fmt.Errorf(_errSendRequest, method, err)
	}
	return nil
}

func (s *session) write(ctx context.Context, conn *connection, msg jsonrpc2.Message) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_, err := conn.stream.Write(ctx, msg)
	return err
}

func (s *session) expire(call *PendingCall) {
	if _, ok := s.pending.remove(call.id); !ok {
		return
	}
	s.metrics.timeouts.Inc(1)
	s.logger.Warnw("backend request timed out", "method", call.method, "id", call.idString(), "timeout", s.timeout)
	call.complete(nil, &errors.RequestTimeoutError{Method: call.method, ID: call.idString(), Timeout: s.timeout})
}

func (s *session) failPending(err error) {
	for _, call := range s.pending.drain() {
		call.complete(nil, err)
	}
}

func (s *session) readLoop(conn *connection) {
	defer s.loops.Done()

	ctx := context.Background()
	for {
		msg, _, err := conn.stream.Read(ctx)
		if err != nil {
			if errors.IsMalformedFrame(err) {
				s.metrics.malformedFrames.Inc(1)
				s.logger.Warnw("skipping malformed frame from backend", "generation", conn.generation, "error", err)
				continue
			}
			if !conn.retired.Load() {
				s.logger.Debugw("backend output closed", "generation", conn.generation, "error", err)
			}
			return
		}
		s.dispatch(ctx, conn, msg)
	}
}

func (s *session) dispatch(ctx context.Context, conn *connection, msg jsonrpc2.Message) {
	switch m := msg.(type) {
	case *jsonrpc2.Response:
		s.resolve(m)
	case *jsonrpc2.Call:
		// Server to client requests such as workspace/configuration get an empty result.
		s.logger.Debugw("answering backend request", "method", m.Method())
		resp, err := jsonrpc2.NewResponse(m.ID(), nil, nil)
		if err == nil {
			err = s.write(ctx, conn, resp)
		}
		if err != nil {
			s.logger.Warnw("answering backend request", "method", m.Method(), "error", err)
		}
	case *jsonrpc2.Notification:
		s.logger.Debugw("backend notification", "method", m.Method(), "params", string(m.Params()))
	}
}

func (s *session) resolve(resp *jsonrpc2.Response) {
	call, ok := s.pending.remove(resp.ID())
	if !ok {
		s.logger.Debugw("ignoring response without a pending request", "id", fmt.Sprint(resp.ID()))
		return
	}

	s.metrics.latency.Record(s.clock.Now().Sub(call.sent))
	if err := resp.Err(); err != nil {
		s.metrics.remoteErrors.Inc(1)
		call.complete(nil, remoteError(call.method, err))
		return
	}
	call.complete(json.RawMessage(resp.Result()), nil)
}

func remoteError(method string, err error) *errors.RemoteError {
	rpcErr, ok := err.(*jsonrpc2.Error)
	if !ok {
		return &errors.RemoteError{Method: method, Message: err.Error()}
	}

	remote := &errors.RemoteError{Method: method, Code: int64(rpcErr.Code), Message: rpcErr.Message}
	if rpcErr.Data != nil {
		remote.Data = append(remote.Data, *rpcErr.Data...)
	}
	return remote
}

func (s *session) monitor(conn *connection) {
	defer s.loops.Done()
	<-conn.proc.Done()
	s.handleExit(conn)
}

// recheck handles an exit that happened while the restart flag was held.
func (s *session) recheck(conn *connection) {
	select {
	case <-conn.proc.Done():
		s.handleExit(conn)
	default:
	}
}

func (s *session) handleExit(conn *connection) {
	if conn.retired.Load() || s.isStopped() {
		return
	}

	status := conn.proc.ExitStatus()
	crash := &errors.ProcessCrashedError{
		Pid:         conn.proc.Pid(),
		ExitCode:    status.Code,
		Interrupted: status.Interrupted,
	}

	if status.Interrupted {
		s.logger.Infow("backend interrupted by user, not restarting", "pid", crash.Pid)
		s.retire(conn)
		s.stateMu.Lock()
		s.fatalErr = crash
		if !s.gateOpen {
			close(s.ready)
			s.gateOpen = true
		}
		s.stateMu.Unlock()
		s.failPending(crash)
		return
	}

	if !s.restarting.CompareAndSwap(false, true) {
		// The holder of the flag rechecks its own generation once it is done.
		if !conn.retired.Load() {
			s.failPending(crash)
		}
		return
	}
	if conn.retired.Load() {
		s.restarting.Store(false)
		return
	}

	s.metrics.crashes.Inc(1)
	s.logger.Warnw("backend exited unexpectedly", "pid", crash.Pid, "exitCode", crash.ExitCode, "error", status.Err)
	if err := s.restartLocked(context.Background(), conn, crash); err != nil {
		s.logger.Errorw("backend restart failed", "error", err)
	}
}

// restartLocked replaces old with a new generation. The caller holds the restart flag; it is released on return.
func (s *session) restartLocked(ctx context.Context, old *connection, cause error) error {
	if cause == nil {
		cause = errRestarted
	}

	s.closeGate()
	s.failPending(cause)
	if old != nil {
		s.retire(old)
	}

	conn, err := s.bringUp(ctx)
	if err != nil {
		if conn != nil {
			s.retire(conn)
		}
		s.restarting.Store(false)
		if s.isStopped() {
			return errors.ErrSessionClosed
		}
		restartErr := &errors.RestartError{Err: err}
		s.fail(restartErr)
		return restartErr
	}

	s.openGate()
	s.metrics.restarts.Inc(1)
	s.logger.Infow("backend restarted", "pid", conn.proc.Pid(), "generation", conn.generation)
	for _, cb := range s.callbacks.snapshot() {
		cb(ctx)
	}

	s.restarting.Store(false)
	s.recheck(conn)
	return nil
}

// fail makes the session unusable and reports the failure to the operator.
func (s *session) fail(err error) {
	s.stateMu.Lock()
	s.fatalErr = err
	if !s.gateOpen {
		close(s.ready)
		s.gateOpen = true
	}
	s.stateMu.Unlock()

	s.failPending(err)
	s.logger.Errorw("backend session failed, giving up", "error", err)
	if s.onFatal != nil {
		s.onFatal(err)
	}
}

// retire stops a generation and reaps its process.
func (s *session) retire(conn *connection) {
	if !conn.retired.CompareAndSwap(false, true) {
		return
	}

	if err := multierr.Append(conn.stream.Close(), conn.proc.Terminate()); err != nil {
		s.logger.Debugw("closing backend process", "pid", conn.proc.Pid(), "error", err)
	}
	if s.waitExit(conn.proc, s.reapTimeout) {
		return
	}

	s.logger.Warnw("backend did not exit after terminate, killing it", "pid", conn.proc.Pid())
	if err := conn.proc.Kill(); err != nil {
		s.logger.Errorw("killing backend process", "pid", conn.proc.Pid(), "error", err)
		return
	}
	if !s.waitExit(conn.proc, s.reapTimeout) {
		s.logger.Errorw("backend did not exit after kill", "pid", conn.proc.Pid())
	}
}

func (s *session) waitExit(proc process.Process, timeout time.Duration) bool {
	expired := make(chan struct{})
	timer := s.clock.AfterFunc(timeout, func() { close(expired) })
	defer timer.Stop()

	select {
	case <-proc.Done():
		return true
	case <-expired:
		return false
	}
}
