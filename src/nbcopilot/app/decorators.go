package app

import (
	"fmt"
	"os"
	"path"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/fs"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Context describes where the daemon runs.
type Context struct {
	Environment        string `yaml:"environment"`
	RuntimeEnvironment string `yaml:"runtimeEnvironment"`
}

const (
	// EnvLocal indicates that the daemon is running next to a local notebook server.
	EnvLocal = "local"

	// EnvDevelopment indicates that the daemon is running from a development checkout.
	EnvDevelopment = "development"

	_envNbcopilotEnvironment = "NBCOPILOT_ENVIRONMENT"
	_configKeyInfoFile       = "serverInfoFilePath"
)

func decorateEnvContext(env Context) Context {
	envValue := EnvLocal
	if os.Getenv(_envNbcopilotEnvironment) == EnvDevelopment {
		envValue = EnvDevelopment
	}

	env.Environment = envValue
	env.RuntimeEnvironment = envValue
	return env
}

// DecorateConfigParams is the set of dependencies required to decorate the config.Provider.
type DecorateConfigParams struct {
	fx.In

	Env Context
	Cfg config.Provider
	FS  fs.FS
}

// decorateConfigProvider includes any steps that modify the config.Provider before it is used, or use its data for any startup related activities.
func decorateConfigProvider(p DecorateConfigParams) (config.Provider, error) {
	combined, err := ensureLogFolder(p.Cfg, p.FS)
	if err != nil {
		return nil, fmt.Errorf("ensuring log folder: %w", err)
	}
	if err := ensureInfoFileFolder(combined, p.FS); err != nil {
		return nil, fmt.Errorf("ensuring server info folder: %w", err)
	}

	return combined, nil
}

// ensureInfoFileFolder creates the directory the notebook UI reads the server info file from.
func ensureInfoFileFolder(cfg config.Provider, fs fs.FS) error {
	var infoFile string
	if err := cfg.Get(_configKeyInfoFile).Populate(&infoFile); err != nil {
		return fmt.Errorf("loading %s: %w", _configKeyInfoFile, err)
	}
	if infoFile == "" {
		return nil
	}
	return fs.MkdirAll(path.Dir(infoFile))
}

// ensureLogFolder creates the directory of every file sink in logging.outputPaths.
func ensureLogFolder(cfg config.Provider, fs fs.FS) (config.Provider, error) {
	var c zap.Config
	if err := cfg.Get("logging").Populate(&c); err != nil {
		return nil, fmt.Errorf("loading logging config: %w", err)
	}

	for _, outputPath := range c.OutputPaths {
		if outputPath == "stdout" || outputPath == "stderr" {
			continue
		}
		dir := path.Dir(outputPath)
		if err := fs.MkdirAll(dir); err != nil {
			return nil, fmt.Errorf("creating logging directory: %w", err)
		}
	}

	return cfg, nil
}
