package process

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const _helperEnv = "NBCOPILOT_HELPER_PROCESS"

func TestMain(m *testing.M) {
	if mode := os.Getenv(_helperEnv); mode != "" {
		helperMain(mode)
		return
	}
	goleak.VerifyTestMain(m)
}

// helperMain lets the test binary stand in for a backend process.
func helperMain(mode string) {
	switch mode {
	case "exit3":
		os.Exit(3)
	case "interrupt":
		os.Exit(InterruptExitCode)
	case "echo":
		io.Copy(os.Stdout, os.Stdin)
		os.Exit(0)
	case "stderr":
		fmt.Fprintln(os.Stderr, "boom")
		os.Exit(1)
	case "sleep":
		time.Sleep(time.Minute)
		os.Exit(0)
	case "ignore-term":
		signal.Ignore(syscall.SIGTERM)
		fmt.Println("ready")
		time.Sleep(time.Minute)
		os.Exit(0)
	}
	os.Exit(2)
}

func helperCommand(mode string) Command {
	return Command{
		Path: os.Args[0],
		Env:  []string{_helperEnv + "=" + mode},
	}
}

func waitDone(t *testing.T, p Process) ExitStatus {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("process did not exit")
	}
	p.Stdout().Close()
	return p.ExitStatus()
}

func TestExitStatus(t *testing.T) {
	tests := []struct {
		name            string
		mode            string
		wantCode        int
		wantInterrupted bool
	}{
		{
			name:     "non-zero exit",
			mode:     "exit3",
			wantCode: 3,
		},
		{
			name:            "user interrupt",
			mode:            "interrupt",
			wantCode:        InterruptExitCode,
			wantInterrupted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewLauncher().Start(helperCommand(tt.mode))
			require.NoError(t, err)
			assert.NotZero(t, p.Pid())

			status := waitDone(t, p)
			assert.Equal(t, tt.wantCode, status.Code)
			assert.Equal(t, tt.wantInterrupted, status.Interrupted)
			assert.NoError(t, status.Err)
		})
	}
}

func TestStdio(t *testing.T) {
	p, err := NewLauncher().Start(helperCommand("echo"))
	require.NoError(t, err)

	_, err = p.Stdin().Write([]byte("Content-Length: 2\r\n\r\n{}"))
	require.NoError(t, err)
	require.NoError(t, p.Stdin().Close())

	out, err := io.ReadAll(p.Stdout())
	require.NoError(t, err)
	assert.Equal(t, "Content-Length: 2\r\n\r\n{}", string(out))
	assert.Equal(t, 0, waitDone(t, p).Code)
}

func TestStderr(t *testing.T) {
	var stderr bytes.Buffer
	cmd := helperCommand("stderr")
	cmd.Stderr = &stderr

	p, err := NewLauncher().Start(cmd)
	require.NoError(t, err)
	assert.Equal(t, 1, waitDone(t, p).Code)
	assert.Equal(t, "boom\n", stderr.String())
}

func TestTerminate(t *testing.T) {
	p, err := NewLauncher().Start(helperCommand("sleep"))
	require.NoError(t, err)

	require.NoError(t, p.Terminate())
	status := waitDone(t, p)
	assert.NotEqual(t, 0, status.Code)
	assert.False(t, status.Interrupted)

	// Terminating a reaped process is a no-op.
	assert.NoError(t, p.Terminate())
}

func TestKill(t *testing.T) {
	p, err := NewLauncher().Start(helperCommand("ignore-term"))
	require.NoError(t, err)

	// Wait until SIGTERM is ignored before sending it.
	ready := make([]byte, len("ready\n"))
	_, err = io.ReadFull(p.Stdout(), ready)
	require.NoError(t, err)

	require.NoError(t, p.Terminate())
	select {
	case <-p.Done():
		t.Fatal("process exited on SIGTERM")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, p.Kill())
	status := waitDone(t, p)
	assert.NotEqual(t, 0, status.Code)

	// Killing a reaped process is a no-op.
	assert.NoError(t, p.Kill())
}

func TestStartFailure(t *testing.T) {
	t.Run("missing executable", func(t *testing.T) {
		_, err := NewLauncher().Start(Command{Path: "/nonexistent/language-server"})
		assert.Error(t, err)
	})

	t.Run("start func error is returned and command is logged", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		l := NewLauncher(
			WithLogger(zap.New(core).Sugar()),
			WithStartFunc(func(cmd *exec.Cmd) error { return errors.New("permission denied") }),
		)

		_, err := l.Start(Command{Path: os.Args[0], Args: []string{"server.js", "--stdio"}})
		assert.EqualError(t, err, "permission denied")

		entries := logs.FilterMessage("Exec").All()
		require.Len(t, entries, 1)
		assert.Equal(t, []interface{}{"server.js", "--stdio"}, entries[0].ContextMap()["Args"])
	})
}
