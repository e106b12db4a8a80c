package logfilewriter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/fs"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/serverinfofile"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const _fmtOutputKey = "output:%s"

// Params define the dependencies for SetupOutputWriter.
type Params struct {
	FS             fs.FS
	Lifecycle      fx.Lifecycle
	ServerInfoFile serverinfofile.ServerInfoFile
	// Logger, when set, also receives every line at debug level.
	Logger *zap.SugaredLogger
}

// SetupOutputWriter creates a writer that stores human readable output from a child process in a temporary file.
// The file path is stored in the server info file so that the user can tail it.
func SetupOutputWriter(p Params, name string) (io.Writer, error) {
	logsDirPath := filepath.Join(os.TempDir(), "nbcopilot", name)
	if err := p.FS.MkdirAll(logsDirPath); err != nil {
		return nil, err
	}

	logFile, err := p.FS.TempFile(logsDirPath, "*.log")
	if err != nil {
		return nil, err
	}

	if err := p.ServerInfoFile.UpdateField(fmt.Sprintf(_fmtOutputKey, name), logFile.Name()); err != nil {
		logFile.Close()
		return nil, err
	}

	// Write via a logger for formatting, timestamp, and buffering.
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(logFile),
		zap.InfoLevel,
	)
	w := &lineWriter{
		file:   zap.New(core).Sugar(),
		mirror: p.Logger,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			w.Flush()
			w.file.Sync()
			logFile.Close()
			return p.FS.Remove(logFile.Name())
		},
	})

	return w, nil
}

// lineWriter logs each complete line written to it. Partial lines are held until their newline arrives,
// since a child process may split a line across several writes.
type lineWriter struct {
	mu      sync.Mutex
	pending []byte
	file    *zap.SugaredLogger
	mirror  *zap.SugaredLogger
}

// Write implements the io.Writer interface.
func (w *lineWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending = append(w.pending, p...)
	for {
		i := bytes.IndexByte(w.pending, '\n')
		if i < 0 {
			break
		}
		w.emit(w.pending[:i])
		w.pending = w.pending[i+1:]
	}
	return len(p), nil
}

// Flush logs any trailing partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.emit(w.pending)
	w.pending = nil
}

func (w *lineWriter) emit(line []byte) {
	line = bytes.TrimRight(line, "\r")
	if len(line) == 0 {
		return
	}
	w.file.Info(string(line))
	if w.mirror != nil {
		w.mirror.Debug(string(line))
	}
}
