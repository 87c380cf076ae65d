//go:build integration

package mysql

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"
)

// setupMySQLContainer starts a disposable MySQL server and returns the
// environment a Provider needs to reach it.
func setupMySQLContainer(t *testing.T) (map[string]string, func()) {
	t.Helper()

	ctx := context.Background()

	container, err := tcmysql.Run(ctx,
		"mysql:8.0.36",
		tcmysql.WithDatabase("mystrive_db"),
		tcmysql.WithUsername("mystrive"),
		tcmysql.WithPassword("mystrive"),
	)
	require.NoError(t, err)

	host, err := container.Host(ctx)
	require.NoError(t, err)

	port, err := container.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	env := map[string]string{
		"HOST":          host,
		"PORT":          strconv.Itoa(port.Int()),
		"DATABASE_NAME": "mystrive_db",
		"USERNAME":      "mystrive",
		"PASSWORD":      "mystrive",
	}

	return env, func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	}
}

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestIntegration_MySQL_ConnectQueryRelease(t *testing.T) {
	env, cleanup := setupMySQLContainer(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	provider := New(WithLookupEnv(lookupFrom(env)))

	conn, err := provider.Connect(ctx)
	require.NoError(t, err, "Connect() should succeed against running container")
	require.NotNil(t, conn)

	var one int
	require.NoError(t, conn.SQL().QueryRowContext(ctx, "SELECT 1").Scan(&one))
	assert.Equal(t, 1, one)

	var database string
	require.NoError(t, conn.SQL().QueryRowContext(ctx, "SELECT DATABASE()").Scan(&database))
	assert.Equal(t, "mystrive_db", database)

	require.NoError(t, conn.PingContext(ctx))

	provider.Release(ctx, conn)

	assert.True(t, conn.Released())
	assert.ErrorIs(t, conn.PingContext(ctx), ErrConnReleased)
}

func TestIntegration_MySQL_SessionsAreNotShared(t *testing.T) {
	env, cleanup := setupMySQLContainer(t)
	t.Cleanup(cleanup)

	ctx := context.Background()
	provider := New(WithLookupEnv(lookupFrom(env)))

	first, err := provider.Connect(ctx)
	require.NoError(t, err)

	defer provider.Release(ctx, first)

	second, err := provider.Connect(ctx)
	require.NoError(t, err)

	defer provider.Release(ctx, second)

	var firstID, secondID int64
	require.NoError(t, first.SQL().QueryRowContext(ctx, "SELECT CONNECTION_ID()").Scan(&firstID))
	require.NoError(t, second.SQL().QueryRowContext(ctx, "SELECT CONNECTION_ID()").Scan(&secondID))

	assert.NotEqual(t, firstID, secondID)
}

func TestIntegration_MySQL_WrongPassword(t *testing.T) {
	env, cleanup := setupMySQLContainer(t)
	t.Cleanup(cleanup)

	env["PASSWORD"] = "not-the-password"

	conn, err := New(WithLookupEnv(lookupFrom(env))).Connect(context.Background())

	require.Error(t, err)
	assert.Nil(t, conn)
	assert.ErrorIs(t, err, ErrConnection)
	assert.NotErrorIs(t, err, ErrConfiguration)
	assert.NotContains(t, err.Error(), "not-the-password")
}

func TestIntegration_MySQL_UnknownDatabase(t *testing.T) {
	env, cleanup := setupMySQLContainer(t)
	t.Cleanup(cleanup)

	env["DATABASE_NAME"] = "missing_db"

	conn, err := New(WithLookupEnv(lookupFrom(env))).Connect(context.Background())

	require.Error(t, err)
	assert.Nil(t, conn)
	assert.ErrorIs(t, err, ErrConnection)
}
