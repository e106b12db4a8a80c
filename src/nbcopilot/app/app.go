package app

import (
	"context"
	"fmt"
	"time"

	"github.com/baolong281/jupyter-copilot/src/nbcopilot/gateway"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/handler"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/clock"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/core"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/fs"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/jsonrpcfx"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/nbformat"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/process"
	"github.com/baolong281/jupyter-copilot/src/nbcopilot/internal/serverinfofile"
	tally "github.com/uber-go/tally/v4"
	"go.uber.org/config"
	"go.uber.org/fx"
)

// Module defines the notebook daemon application module.
var Module = fx.Options(
	gateway.Module, // outbounds
	handler.Module, // inbounds
	jsonrpcfx.Module,
	fs.Module,
	process.Module,
	nbformat.Module,
	serverinfofile.Module,
	core.ConfigModule,
	core.LoggerModule,
	fx.Provide(clock.New),
	fx.Provide(newMetricsScope),
	fx.Decorate(decorateEnvContext),
	fx.Decorate(decorateConfigProvider),
	fx.Provide(func() Context {
		return Context{
			Environment:        EnvLocal,
			RuntimeEnvironment: EnvLocal,
		}
	}),
)

const (
	_metricsKey            = "metrics"
	_defaultReportInterval = time.Second
)

type metricsConfig struct {
	ReportInterval string `yaml:"reportInterval"`
}

// newMetricsScope returns the root scope every component cuts its sub-scope from.
func newMetricsScope(lc fx.Lifecycle, cfg config.Provider) (tally.Scope, error) {
	var mc metricsConfig
	if err := cfg.Get(_metricsKey).Populate(&mc); err != nil {
		return nil, fmt.Errorf("loading metrics config: %w", err)
	}

	interval := _defaultReportInterval
	if mc.ReportInterval != "" {
		d, err := time.ParseDuration(mc.ReportInterval)
		if err != nil {
			return nil, fmt.Errorf("parsing %s.reportInterval: %w", _metricsKey, err)
		}
		interval = d
	}

	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Tags: map[string]string{"service": "nbcopilot"},
	}, interval)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return closer.Close()
		},
	})
	return scope, nil
}
