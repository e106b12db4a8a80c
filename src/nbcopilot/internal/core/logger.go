package core

import (
	"context"
	"os"

	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig is the `logging` block of the daemon config.
type LoggingConfig struct {
	Level       string   `yaml:"level"`
	Development bool     `yaml:"development"`
	Encoding    string   `yaml:"encoding"`
	OutputPaths []string `yaml:"outputPaths"`
	// InitialFields are attached to every entry.
	InitialFields map[string]string `yaml:"initialFields"`
}

// LoggerModule provides the sugared logger used across the daemon and its desugared form.
var LoggerModule = fx.Options(
	fx.Provide(NewSugaredLogger),
	fx.Provide(NewLogger),
)

func NewLogger(sugar *zap.SugaredLogger) *zap.Logger {
	return sugar.Desugar()
}

// NewSugaredLogger builds the daemon logger from the `logging` config.
// Several daemons can share a log directory, so every entry carries the daemon's pid.
// Output files opened here are synced and closed when the application stops.
func NewSugaredLogger(provider config.Provider, lc fx.Lifecycle) (*zap.SugaredLogger, error) {
	var loggingConfig LoggingConfig
	if err := provider.Get("logging").Populate(&loggingConfig); err != nil {
		return nil, err
	}

	level, err := zapcore.ParseLevel(loggingConfig.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	if loggingConfig.Development {
		encoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	var encoder zapcore.Encoder
	switch loggingConfig.Encoding {
	case "console":
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	// Default to stdout when no output paths are configured.
	outputPaths := loggingConfig.OutputPaths
	if len(outputPaths) == 0 {
		outputPaths = []string{"stdout"}
	}
	sink, closeSink, err := zap.Open(outputPaths...)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(encoder, sink, level)

	fields := []zap.Field{zap.Int("daemonPid", os.Getpid())}
	for key, value := range loggingConfig.InitialFields {
		fields = append(fields, zap.String(key, value))
	}
	opts := []zap.Option{zap.Fields(fields...)}
	if loggingConfig.Development {
		opts = append(opts, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	logger := zap.New(core, opts...)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Syncing stdout fails on some platforms, which is not worth failing shutdown for.
			_ = logger.Sync()
			closeSink()
			return nil
		},
	})

	return logger.Sugar(), nil
}
