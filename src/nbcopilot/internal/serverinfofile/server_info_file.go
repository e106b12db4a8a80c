package serverinfofile

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

//go:generate mockgen -source=server_info_file.go -destination=serverinfofilemock/server_info_file_mock.go -package=serverinfofilemock

const _configKeyInfoFile = "serverInfoFilePath"

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// ServerInfoFile manages the contents of a single JSON file describing the running daemon.
// The notebook UI reads it to find the listen address, the backend pid and the backend output log.
type ServerInfoFile interface {
	UpdateField(key string, value string) error
	Path() string
}

type module struct {
	infofile     string
	fs           fs.FS
	logger       *zap.SugaredLogger
	fileContents map[string]string
	mu           sync.Mutex
}

// Params define values to be used by ServerInfoFile.
type Params struct {
	fx.In

	Config    config.Provider
	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
	FS        fs.FS
}

// New creates a new ServerInfoFile which manages contents of a single server info file.
func New(p Params) (ServerInfoFile, error) {
	m := module{
		fs:           p.FS,
		logger:       p.Logger,
		fileContents: make(map[string]string),
	}

	if err := m.processConfig(p.Config); err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: m.OnStop,
	})

	return &m, nil
}

// OnStop removes the info file so that stale connection details are never picked up.
func (m *module) OnStop(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	exists, err := m.fs.FileExists(m.infofile)
	if err != nil || !exists {
		return err
	}
	return m.fs.Remove(m.infofile)
}

func (m *module) UpdateField(key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fileContents[key] = value
	jsonOutput, err := json.MarshalIndent(m.fileContents, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	if err := m.fs.WriteFile(m.infofile, jsonOutput); err != nil {
		return fmt.Errorf("writing info file: %w", err)
	}
	m.logger.Infow("server info saved", zap.String("file", m.infofile), zap.String(key, value))
	return nil
}

func (m *module) Path() string {
	return m.infofile
}

func (m *module) processConfig(cfg config.Provider) error {
	if err := cfg.Get(_configKeyInfoFile).Populate(&m.infofile); err != nil {
		return fmt.Errorf("getting config field %q: %w", _configKeyInfoFile, err)
	}

	if m.infofile == "" {
		return fmt.Errorf("missing field %q in config", _configKeyInfoFile)
	}

	return nil
}
