package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	constant "github.com/mystrive/lib-dbconn/uncommons/constants"
	"github.com/mystrive/lib-dbconn/uncommons/internal/nilcheck"
	"github.com/mystrive/lib-dbconn/uncommons/log"
	libOpentelemetry "github.com/mystrive/lib-dbconn/uncommons/opentelemetry"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName   = "github.com/mystrive/lib-dbconn/uncommons/mysql"
	defaultConnectTimeout = 10 * time.Second
	tlsDisabled           = "false"
)

var (
	newConnectorFn = func(cfg *gomysql.Config) (driver.Connector, error) {
		return gomysql.NewConnector(cfg)
	}

	openDBFn = sql.OpenDB
)

// Provider opens and releases MySQL connections. It holds no connection
// state and is safe for concurrent use.
type Provider struct {
	logger                 log.Logger
	lookupEnv              func(string) (string, bool)
	connectTimeout         time.Duration
	tlsConfig              string
	developmentCredentials bool
	tracer                 trace.Tracer
	failures               metric.Int64Counter
}

// Option customizes a Provider.
type Option func(*providerOptions)

type providerOptions struct {
	logger                 log.Logger
	lookupEnv              func(string) (string, bool)
	connectTimeout         time.Duration
	tlsConfig              string
	developmentCredentials bool
	tracerProvider         trace.TracerProvider
	meterProvider          metric.MeterProvider
}

// WithLogger sets the logger. Nil keeps the no-op default.
func WithLogger(logger log.Logger) Option {
	return func(o *providerOptions) {
		if !nilcheck.Interface(logger) {
			o.logger = logger
		}
	}
}

// WithLookupEnv replaces os.LookupEnv as the configuration source.
func WithLookupEnv(lookup func(string) (string, bool)) Option {
	return func(o *providerOptions) {
		if lookup != nil {
			o.lookupEnv = lookup
		}
	}
}

// WithConnectTimeout bounds the TCP dial. Non-positive values keep the 10s default.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(o *providerOptions) {
		if timeout > 0 {
			o.connectTimeout = timeout
		}
	}
}

// WithTLSConfig selects a go-sql-driver TLS profile: "true", "skip-verify",
// "preferred", or a name registered with mysql.RegisterTLSConfig. TLS is off by default.
func WithTLSConfig(name string) Option {
	return func(o *providerOptions) {
		if name != "" {
			o.tlsConfig = name
		}
	}
}

// WithDevelopmentCredentials lets resolution fall back to the local
// root/admin account when USERNAME or PASSWORD is unset.
func WithDevelopmentCredentials() Option {
	return func(o *providerOptions) {
		o.developmentCredentials = true
	}
}

// WithTracerProvider overrides the global OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *providerOptions) {
		if !nilcheck.Interface(tp) {
			o.tracerProvider = tp
		}
	}
}

// WithMeterProvider overrides the global OpenTelemetry meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *providerOptions) {
		if !nilcheck.Interface(mp) {
			o.meterProvider = mp
		}
	}
}

// New builds a Provider.
func New(opts ...Option) *Provider {
	o := providerOptions{
		logger:         log.NewNop(),
		lookupEnv:      os.LookupEnv,
		connectTimeout: defaultConnectTimeout,
		tlsConfig:      tlsDisabled,
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	p := &Provider{
		logger:                 o.logger,
		lookupEnv:              o.lookupEnv,
		connectTimeout:         o.connectTimeout,
		tlsConfig:              o.tlsConfig,
		developmentCredentials: o.developmentCredentials,
		tracer:                 o.tracerProvider.Tracer(instrumentationName),
	}

	failures, err := o.meterProvider.Meter(instrumentationName).Int64Counter(
		constant.MetricConnectionFailures,
		metric.WithUnit("1"),
		metric.WithDescription("Total number of mysql connection attempts that did not produce a connection"),
	)
	if err != nil {
		p.logger.Log(context.Background(), log.LevelWarn, "mysql failure counter unavailable", log.Err(err))

		failures = metricnoop.Int64Counter{}
	}

	p.failures = failures

	return p
}

// Connect resolves the configuration and acquires a connection with it.
func (p *Provider) Connect(ctx context.Context) (*Conn, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	return p.Acquire(ctx, p.ResolveConfig(ctx))
}

// Acquire makes one connection attempt with cfg.
//
// An invalid cfg fails with a *ConfigError before the driver is touched.
// Driver and network failures come back as ErrDriverUnavailable or a
// *ConnectionError. There is no retry.
func (p *Provider) Acquire(ctx context.Context, cfg Config) (*Conn, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	ctx, span := p.tracer.Start(ctx, "mysql.acquire",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(spanAttributes(cfg)...),
	)
	defer span.End()

	if err := cfg.Validate(); err != nil {
		p.recordFailure(ctx, constant.FailureReasonConfiguration)
		p.logger.Log(ctx, log.LevelError, "refusing to connect to mysql with incomplete configuration", log.Err(err))
		libOpentelemetry.HandleSpanError(span, "Invalid mysql configuration", err)

		return nil, err
	}

	connector, err := newConnectorFn(p.driverConfig(cfg))
	if err != nil {
		driverErr := fmt.Errorf("%w: %w", ErrDriverUnavailable, err)

		p.recordFailure(ctx, constant.FailureReasonDriver)
		p.logger.Log(ctx, log.LevelError, "mysql driver cannot be initialised", log.Err(driverErr))
		libOpentelemetry.HandleSpanError(span, "Mysql driver unavailable", driverErr)

		return nil, driverErr
	}

	logger := p.logger.With(
		log.String("host", cfg.Host),
		log.Int("port", cfg.Port),
		log.String("database", cfg.DatabaseName),
	)

	logger.Log(ctx, log.LevelInfo, "connecting to mysql")

	db := openDBFn(connector)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(0)

	sqlConn, err := db.Conn(ctx)
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Log(ctx, log.LevelWarn, "failed to discard mysql handle after connection failure", log.Err(closeErr))
		}

		connErr := newConnectionError(cfg, err)

		p.recordFailure(ctx, constant.FailureReasonConnection)
		logger.Log(ctx, log.LevelError, "failed to connect to mysql", log.Err(connErr))
		libOpentelemetry.HandleSpanError(span, "Failed to connect to mysql", connErr)

		return nil, connErr
	}

	logger.Log(ctx, log.LevelInfo, "connected to mysql")

	return &Conn{db: db, conn: sqlConn, cfg: cfg}, nil
}

// Release closes conn. A nil or already released conn is a no-op. Close
// failures are logged at error level and never returned.
func (p *Provider) Release(ctx context.Context, conn *Conn) {
	if conn == nil || !conn.markReleased() {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, span := p.tracer.Start(ctx, "mysql.release",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(spanAttributes(conn.cfg)...),
	)
	defer span.End()

	if err := conn.close(); err != nil {
		closeErr := fmt.Errorf("%w: %w", ErrClose, err)

		p.logger.Log(ctx, log.LevelError, "failed to close mysql connection",
			log.String("host", conn.cfg.Host),
			log.String("database", conn.cfg.DatabaseName),
			log.Err(closeErr),
		)
		libOpentelemetry.HandleSpanError(span, "Failed to close mysql connection", closeErr)

		return
	}

	p.logger.Log(ctx, log.LevelInfo, "mysql connection closed",
		log.String("host", conn.cfg.Host),
		log.String("database", conn.cfg.DatabaseName),
	)
}

func (p *Provider) driverConfig(cfg Config) *gomysql.Config {
	driverCfg := gomysql.NewConfig()
	driverCfg.User = cfg.Username
	driverCfg.Passwd = cfg.Password
	driverCfg.Net = "tcp"
	driverCfg.Addr = cfg.Address()
	driverCfg.DBName = cfg.DatabaseName
	driverCfg.ParseTime = true
	driverCfg.Loc = time.UTC
	driverCfg.Timeout = p.connectTimeout
	driverCfg.TLSConfig = p.tlsConfig
	driverCfg.Logger = &driverLogger{logger: p.logger}

	return driverCfg
}

func (p *Provider) recordFailure(ctx context.Context, reason string) {
	p.failures.Add(ctx, 1, metric.WithAttributes(attribute.String(constant.AttrFailureReason, reason)))
}

func spanAttributes(cfg Config) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(constant.AttrDBSystem, constant.DBSystemMySQL),
		attribute.String(constant.AttrDBName, cfg.DatabaseName),
		attribute.String(constant.AttrServerAddress, cfg.Host),
		attribute.Int(constant.AttrServerPort, cfg.Port),
	}
}

// driverLogger routes go-sql-driver diagnostics into the provider logger.
type driverLogger struct {
	logger log.Logger
}

func (l *driverLogger) Print(v ...any) {
	l.logger.Log(context.Background(), log.LevelWarn, "mysql driver: "+fmt.Sprint(v...))
}
