package process

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=process.go -destination=processmock/process_mock.go -package=processmock

// InterruptExitCode is the exit code reported by a process stopped with Ctrl+C.
const InterruptExitCode = 130

// Module provides a Launcher that logs through the application logger.
var Module = fx.Provide(func(logger *zap.SugaredLogger) Launcher {
	return NewLauncher(WithLogger(logger))
})

// Command describes a long-running child process to start.
type Command struct {
	Path string
	Args []string
	Dir  string
	Env  []string
	// Stderr receives the child's standard error. Discarded when nil.
	Stderr io.Writer
}

// Launcher starts child processes whose stdio is owned by the caller.
type Launcher interface {
	Start(cmd Command) (Process, error)
}

// Process is a running child with piped stdin and stdout.
type Process interface {
	Pid() int
	Stdin() io.WriteCloser
	// Stdout reaches EOF after the process exits; the caller closes it.
	Stdout() io.ReadCloser
	// Done is closed once the process has exited and been reaped.
	Done() <-chan struct{}
	// ExitStatus is valid once Done is closed.
	ExitStatus() ExitStatus
	// Terminate asks the process to stop, killing it if it cannot be signalled.
	Terminate() error
	// Kill stops the process with SIGKILL. It is a no-op once the process has been reaped.
	Kill() error
}

// ExitStatus describes how a process ended.
type ExitStatus struct {
	Code        int
	Interrupted bool
	// Err is set when waiting failed for a reason other than a non-zero exit.
	Err error
}

type launcher struct {
	Logger *zap.SugaredLogger
	// StartFunc may be replaced in tests.
	StartFunc func(cmd *exec.Cmd) error
}

// Option defines options to customize the launcher's behavior.
type Option func(*launcher)

// WithLogger overrides the default noop logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(l *launcher) {
		l.Logger = logger
	}
}

// WithStartFunc provides customized start behavior.
func WithStartFunc(startFunc func(cmd *exec.Cmd) error) Option {
	return func(l *launcher) {
		l.StartFunc = startFunc
	}
}

// NewLauncher creates a Launcher backed by "os/exec".
func NewLauncher(opts ...Option) Launcher {
	l := &launcher{
		Logger:    zap.NewNop().Sugar(),
		StartFunc: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start logs the command, starts it and reaps it in the background.
func (l *launcher) Start(c Command) (Process, error) {
	cmd := exec.Command(c.Path, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}
	cmd.Stderr = c.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	// Wait must not close stdout while buffered frames are still unread, so
	// the read end is owned by the caller instead of exec.
	stdout, childStdout, err := os.Pipe()
	if err != nil {
		stdin.Close()
		return nil, err
	}
	cmd.Stdout = childStdout

	l.logCommand(cmd)
	err = l.StartFunc(cmd)
	childStdout.Close()
	if err != nil {
		stdin.Close()
		stdout.Close()
		return nil, err
	}

	p := &cmdProcess{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdout,
		done:   make(chan struct{}),
	}
	go p.wait()
	return p, nil
}

// Logs the command specified: Path, Dir, Args
func (l *launcher) logCommand(cmd *exec.Cmd) {
	l.Logger.Infow("Exec",
		"Path", cmd.Path,
		"Dir", cmd.Dir,
		"Args", cmd.Args[1:], // First arg is always the command itself
	)
}

type cmdProcess struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.ReadCloser
	done   chan struct{}
	status ExitStatus
}

func (p *cmdProcess) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}
	return p.cmd.Process.Pid
}

func (p *cmdProcess) Stdin() io.WriteCloser { return p.stdin }

func (p *cmdProcess) Stdout() io.ReadCloser { return p.stdout }

func (p *cmdProcess) Done() <-chan struct{} { return p.done }

func (p *cmdProcess) ExitStatus() ExitStatus {
	<-p.done
	return p.status
}

func (p *cmdProcess) Terminate() error {
	select {
	case <-p.done:
		return nil
	default:
	}

	err := p.cmd.Process.Signal(syscall.SIGTERM)
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (p *cmdProcess) Kill() error {
	select {
	case <-p.done:
		return nil
	default:
	}

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

func (p *cmdProcess) wait() {
	err := p.cmd.Wait()
	p.status = exitStatus(p.cmd.ProcessState, err)
	close(p.done)
}

func exitStatus(state *os.ProcessState, err error) ExitStatus {
	if state == nil {
		return ExitStatus{Code: -1, Err: err}
	}

	status := ExitStatus{Code: state.ExitCode()}
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() && ws.Signal() == syscall.SIGINT {
		status.Interrupted = true
	}
	if status.Code == InterruptExitCode {
		status.Interrupted = true
	}

	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		status.Err = err
	}
	return status
}
