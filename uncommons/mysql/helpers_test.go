//go:build unit

package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	gomysql "github.com/go-sql-driver/mysql"
	"github.com/mystrive/lib-dbconn/uncommons/log"
)

type logEntry struct {
	level  log.Level
	msg    string
	fields map[string]any
}

// recordingLogger captures events for assertions. Children share the parent's sink.
type recordingLogger struct {
	mu      *sync.Mutex
	entries *[]logEntry
	fields  []log.Field
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{mu: &sync.Mutex{}, entries: &[]logEntry{}}
}

func (l *recordingLogger) Log(_ context.Context, level log.Level, msg string, fields ...log.Field) {
	merged := make(map[string]any, len(l.fields)+len(fields))
	for _, f := range l.fields {
		merged[f.Key] = f.Value
	}

	for _, f := range fields {
		merged[f.Key] = f.Value
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	*l.entries = append(*l.entries, logEntry{level: level, msg: msg, fields: merged})
}

func (l *recordingLogger) With(fields ...log.Field) log.Logger {
	child := append(append([]log.Field{}, l.fields...), fields...)

	return &recordingLogger{mu: l.mu, entries: l.entries, fields: child}
}

func (l *recordingLogger) WithGroup(string) log.Logger { return l }

func (l *recordingLogger) Enabled(log.Level) bool { return true }

func (l *recordingLogger) Sync(context.Context) error { return nil }

func (l *recordingLogger) all() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	return append([]logEntry(nil), *l.entries...)
}

func (l *recordingLogger) atLevel(level log.Level) []logEntry {
	var out []logEntry

	for _, e := range l.all() {
		if e.level == level {
			out = append(out, e)
		}
	}

	return out
}

func envFrom(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func fullEnv() map[string]string {
	return map[string]string{
		"HOST":          "db.internal",
		"PORT":          "3307",
		"DATABASE_NAME": "mystrive_db",
		"USERNAME":      "mystrive_user",
		"PASSWORD":      "mystrive_password",
	}
}

func validConfig() Config {
	return Config{
		Host:         "db.internal",
		Port:         3306,
		DatabaseName: "mystrive_db",
		Username:     "mystrive_user",
		Password:     "mystrive_password",
	}
}

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) { return nil, errors.New("not supported") }

type fakeDriverConn struct {
	closed  *atomic.Int32
	pingErr error
}

func (c *fakeDriverConn) Prepare(string) (driver.Stmt, error) { return nil, errors.New("not supported") }

func (c *fakeDriverConn) Close() error {
	c.closed.Add(1)
	return nil
}

func (c *fakeDriverConn) Begin() (driver.Tx, error) { return nil, errors.New("not supported") }

func (c *fakeDriverConn) Ping(context.Context) error { return c.pingErr }

// fakeConnector stands in for the go-sql-driver connector. It implements
// io.Closer so sql.DB.Close surfaces closeErr.
type fakeConnector struct {
	connectErr  error
	closeErr    error
	connects    atomic.Int32
	connsClosed atomic.Int32
	closes      atomic.Int32
	config      *gomysql.Config
}

func (f *fakeConnector) Connect(context.Context) (driver.Conn, error) {
	f.connects.Add(1)

	if f.connectErr != nil {
		return nil, f.connectErr
	}

	return &fakeDriverConn{closed: &f.connsClosed}, nil
}

func (f *fakeConnector) Driver() driver.Driver { return fakeDriver{} }

func (f *fakeConnector) Close() error {
	f.closes.Add(1)
	return f.closeErr
}

// withPatchedDependencies replaces the package-level driver seams.
// Tests using it must NOT call t.Parallel().
func withPatchedDependencies(
	t *testing.T,
	connectorFn func(*gomysql.Config) (driver.Connector, error),
	openFn func(driver.Connector) *sql.DB,
) {
	t.Helper()

	originalConnector := newConnectorFn
	originalOpen := openDBFn

	if connectorFn != nil {
		newConnectorFn = connectorFn
	}

	if openFn != nil {
		openDBFn = openFn
	}

	t.Cleanup(func() {
		newConnectorFn = originalConnector
		openDBFn = originalOpen
	})
}

// patchConnector installs fake as the connector and counts driver calls.
func patchConnector(t *testing.T, fake *fakeConnector) *atomic.Int32 {
	t.Helper()

	var calls atomic.Int32

	withPatchedDependencies(t, func(cfg *gomysql.Config) (driver.Connector, error) {
		calls.Add(1)
		fake.config = cfg

		return fake, nil
	}, nil)

	return &calls
}
