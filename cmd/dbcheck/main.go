// Package main implements dbcheck, a one-shot MySQL connectivity probe.
//
// dbcheck resolves the connection settings from the environment the same way
// applications using uncommons/mysql do, opens one session, pings it and
// releases it.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mystrive/lib-dbconn/uncommons"
	constant "github.com/mystrive/lib-dbconn/uncommons/constants"
	"github.com/mystrive/lib-dbconn/uncommons/log"
	"github.com/mystrive/lib-dbconn/uncommons/mysql"
	"github.com/mystrive/lib-dbconn/uncommons/zap"
)

// Config holds the command-line options of dbcheck.
type Config struct {
	EnvFile        string        // dotenv file loaded before resolving
	DevCredentials bool          // allow the local root/admin fallback
	Timeout        time.Duration // dial timeout and ping deadline
	LogLevel       string        // zap level override
	Environment    string        // zap environment profile
	TLS            string        // go-sql-driver TLS profile
}

const (
	exitFailure       = 1
	exitConfiguration = 2
)

var (
	// Set via ldflags during build.
	version = "dev"
)

func main() {
	rootCmd := newRootCommand()

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, err.Error())
		}

		os.Exit(exitCode(err))
	}
}

func newRootCommand() *cobra.Command {
	var cfg Config

	rootCmd := &cobra.Command{
		Use:   "dbcheck",
		Short: "Check that the configured MySQL database is reachable",
		Long: `dbcheck resolves HOST, PORT, DATABASE_NAME, USERNAME and PASSWORD from the
environment, opens one MySQL session, pings it and releases it.

Exit codes:
  0  the database accepted the connection
  1  the driver or the network failed
  2  the configuration is incomplete`,
		Example: `  dbcheck                              # Use the process environment
  dbcheck --env-file .env.staging      # Load a dotenv file first
  dbcheck --dev-credentials --env local`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), &cfg)
		},
	}

	rootCmd.Flags().StringVar(&cfg.EnvFile, "env-file", "", "Load variables from a dotenv file before resolving")
	rootCmd.Flags().BoolVar(&cfg.DevCredentials, "dev-credentials", false, "Fall back to the local development account when USERNAME or PASSWORD is unset")
	rootCmd.Flags().DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "Dial timeout and ping deadline")
	rootCmd.Flags().StringVar(&cfg.LogLevel, "log-level", "", "Log level (debug, info, warn, error); defaults to the environment profile")
	rootCmd.Flags().StringVar(&cfg.Environment, "env", uncommons.GetenvOrDefault(constant.EnvName, string(zap.EnvironmentLocal)), "Logger profile: production, staging, development or local")
	rootCmd.Flags().StringVar(&cfg.TLS, "tls", "", "TLS profile: true, skip-verify or preferred; disabled when empty")

	return rootCmd
}

func run(ctx context.Context, cfg *Config) error {
	if ctx == nil {
		ctx = context.Background()
	}

	environment, err := zap.ParseEnvironment(cfg.Environment)
	if err != nil {
		return errWithCode(fmt.Errorf("logger: %w", err), exitFailure)
	}

	if cfg.EnvFile != "" {
		if err := uncommons.LoadEnvFile(cfg.EnvFile); err != nil {
			return errWithCode(err, exitFailure)
		}
	} else if environment == zap.EnvironmentLocal {
		uncommons.InitLocalEnvConfig()
	}

	logger, err := zap.New(zap.Config{Environment: environment, Level: cfg.LogLevel})
	if err != nil {
		return errWithCode(fmt.Errorf("logger: %w", err), exitFailure)
	}

	defer func() {
		_ = logger.Sync(context.Background())
	}()

	opts := []mysql.Option{
		mysql.WithLogger(logger),
		mysql.WithConnectTimeout(cfg.Timeout),
		mysql.WithTLSConfig(cfg.TLS),
	}

	if cfg.DevCredentials {
		opts = append(opts, mysql.WithDevelopmentCredentials())
	}

	provider := mysql.New(opts...)
	production := environment == zap.EnvironmentProduction

	conn, err := provider.Connect(ctx)
	if err != nil {
		log.SafeError(logger, ctx, "dbcheck failed", err, production)

		if errors.Is(err, mysql.ErrConfiguration) {
			return errWithCode(err, exitConfiguration)
		}

		return errWithCode(err, exitFailure)
	}

	defer provider.Release(ctx, conn)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	if err := conn.PingContext(pingCtx); err != nil {
		log.SafeError(logger, ctx, "mysql ping failed", err, production)

		return errWithCode(fmt.Errorf("ping %s: %w", conn.Config().Address(), err), exitFailure)
	}

	logger.Log(ctx, log.LevelInfo, "mysql is reachable", log.String("target", conn.Config().String()))

	return nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}

	var cErr *codedError
	if errors.As(err, &cErr) {
		return cErr.code
	}

	return exitFailure
}

func errWithCode(err error, code int) error {
	return &codedError{err: err, code: code}
}

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}

	return ""
}

func (e *codedError) Unwrap() error {
	return e.err
}
