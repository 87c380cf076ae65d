package zap

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	callerSkipFrames = 1

	// DefaultOTelLibraryName is the instrumentation scope used when Config leaves it empty.
	DefaultOTelLibraryName = "github.com/mystrive/lib-dbconn"
)

// Environment selects the baseline logger profile.
type Environment string

const (
	EnvironmentProduction  Environment = "production"
	EnvironmentStaging     Environment = "staging"
	EnvironmentDevelopment Environment = "development"
	EnvironmentLocal       Environment = "local"
)

// ParseEnvironment maps an ENV_NAME style value onto an Environment.
func ParseEnvironment(name string) (Environment, error) {
	env := Environment(strings.ToLower(strings.TrimSpace(name)))

	switch env {
	case EnvironmentProduction, EnvironmentStaging, EnvironmentDevelopment, EnvironmentLocal:
		return env, nil
	default:
		return "", fmt.Errorf("invalid environment %q", name)
	}
}

// Config holds logger initialization inputs.
type Config struct {
	Environment     Environment
	Level           string
	OTelLibraryName string
}

func (c Config) validate() error {
	if _, err := ParseEnvironment(string(c.Environment)); err != nil {
		return err
	}

	return nil
}

// New builds a JSON logger for cfg.Environment. Local and development
// profiles default to debug, everything else to info; cfg.Level overrides both.
func New(cfg Config) (*Logger, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid zap config: %w", err)
	}

	library := cfg.OTelLibraryName
	if strings.TrimSpace(library) == "" {
		library = DefaultOTelLibraryName
	}

	level, err := resolveLevel(cfg)
	if err != nil {
		return nil, err
	}

	baseConfig := buildConfigByEnvironment(cfg.Environment)
	baseConfig.Level = level
	baseConfig.DisableStacktrace = true

	built, err := baseConfig.Build(
		zap.AddCallerSkip(callerSkipFrames),
		zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return zapcore.NewTee(core, otelzap.NewCore(library))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{logger: built, atomicLevel: level}, nil
}

func resolveLevel(cfg Config) (zap.AtomicLevel, error) {
	if strings.TrimSpace(cfg.Level) != "" {
		var parsed zapcore.Level
		if err := parsed.Set(cfg.Level); err != nil {
			return zap.AtomicLevel{}, fmt.Errorf("invalid level %q: %w", cfg.Level, err)
		}

		return zap.NewAtomicLevelAt(parsed), nil
	}

	if cfg.Environment == EnvironmentDevelopment || cfg.Environment == EnvironmentLocal {
		return zap.NewAtomicLevelAt(zapcore.DebugLevel), nil
	}

	return zap.NewAtomicLevelAt(zapcore.InfoLevel), nil
}

func buildConfigByEnvironment(environment Environment) zap.Config {
	cfg := zap.NewProductionConfig()
	if environment == EnvironmentDevelopment || environment == EnvironmentLocal {
		cfg = zap.NewDevelopmentConfig()
	}

	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	return cfg
}
