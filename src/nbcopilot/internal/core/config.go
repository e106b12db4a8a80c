package core

import (
	"fmt"
	"os"
	"path/filepath"

	uber_config "go.uber.org/config"
	"go.uber.org/fx"
	"gopkg.in/yaml.v3"
)

const (
	_envConfigDir     = "NBCOPILOT_CONFIG_DIR"
	_defaultConfigDir = "src/nbcopilot/config"
	_metaFile         = "meta.yaml"
)

var ConfigModule = fx.Options(
	fx.Provide(NewConfig),
)

type Config struct {
	provider uber_config.Provider
}

func (c Config) Get(path string) uber_config.Value {
	return c.provider.Get(path)
}

func (c Config) Name() string {
	return "config"
}

// meta lists the configuration files to merge, in increasing priority.
type meta struct {
	Files []string `yaml:"files"`
}

// NewConfig merges the files listed in meta.yaml, expanding environment variables.
func NewConfig() (uber_config.Provider, error) {
	configDir := getConfigDir()

	files, err := readMeta(filepath.Join(configDir, _metaFile))
	if err != nil {
		return nil, err
	}

	// Missing files are skipped so that environment specific overrides stay optional.
	var options []uber_config.YAMLOption
	for _, file := range files {
		fullPath := filepath.Join(configDir, file)
		if _, err := os.Stat(fullPath); err == nil {
			options = append(options, uber_config.File(fullPath))
		}
	}

	if len(options) == 0 {
		return nil, fmt.Errorf("no configuration files found in %s", configDir)
	}
	options = append(options, uber_config.Expand(os.LookupEnv))

	provider, err := uber_config.NewYAML(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return Config{provider: provider}, nil
}

func readMeta(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load meta configuration: %w", err)
	}

	var m meta
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to read files list from %s: %w", _metaFile, err)
	}
	return m.Files, nil
}

// getConfigDir returns the path to the configuration directory
func getConfigDir() string {
	if configDir := os.Getenv(_envConfigDir); configDir != "" {
		return configDir
	}

	// Relative to the workspace root, where the binary is expected to run.
	return _defaultConfigDir
}
