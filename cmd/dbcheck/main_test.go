//go:build unit

package main

import (
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/mystrive/lib-dbconn/uncommons/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setConnectionEnv(t *testing.T, values map[string]string) {
	t.Helper()

	for _, key := range []string{"HOST", "PORT", "DATABASE_NAME", "USERNAME", "PASSWORD"} {
		t.Setenv(key, values[key])
	}
}

func execute(t *testing.T, args ...string) error {
	t.Helper()

	cmd := newRootCommand()
	cmd.SetArgs(args)

	return cmd.Execute()
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, 0, exitCode(nil))
	assert.Equal(t, exitFailure, exitCode(errors.New("boom")))
	assert.Equal(t, exitConfiguration, exitCode(errWithCode(mysql.ErrConfiguration, exitConfiguration)))
	assert.Equal(t, exitFailure, exitCode(errWithCode(nil, exitFailure)))
}

func TestCodedErrorUnwraps(t *testing.T) {
	err := errWithCode(&mysql.ConfigError{Fields: []string{"username"}}, exitConfiguration)

	assert.ErrorIs(t, err, mysql.ErrConfiguration)
	assert.Equal(t, "invalid mysql config: missing or invalid username", err.Error())
	assert.Empty(t, errWithCode(nil, exitFailure).Error())
}

func TestRunMissingCredentialsExitsWithConfigurationCode(t *testing.T) {
	setConnectionEnv(t, map[string]string{
		"HOST":          "db.internal",
		"PORT":          "3306",
		"DATABASE_NAME": "mystrive_db",
	})

	err := execute(t, "--env", "production")

	require.Error(t, err)
	assert.ErrorIs(t, err, mysql.ErrConfiguration)
	assert.Equal(t, exitConfiguration, exitCode(err))
}

func TestRunUnreachableHostExitsWithFailureCode(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())

	setConnectionEnv(t, map[string]string{
		"HOST":          "127.0.0.1",
		"PORT":          strconv.Itoa(port),
		"DATABASE_NAME": "mystrive_db",
		"USERNAME":      "mystrive",
		"PASSWORD":      "mystrive",
	})

	err = execute(t, "--env", "production", "--timeout", "2s")

	require.Error(t, err)
	assert.ErrorIs(t, err, mysql.ErrConnection)
	assert.Equal(t, exitFailure, exitCode(err))
}

func TestRunRejectsUnknownEnvironment(t *testing.T) {
	err := execute(t, "--env", "moon")

	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
	assert.Contains(t, err.Error(), "invalid environment")
}

func TestRunRejectsMissingEnvFile(t *testing.T) {
	err := execute(t, "--env", "production", "--env-file", filepath.Join(t.TempDir(), "missing.env"))

	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
	assert.Contains(t, err.Error(), "missing.env")
}

func TestRunLoadsEnvFile(t *testing.T) {
	setConnectionEnv(t, map[string]string{})

	for _, key := range []string{"HOST", "PORT", "DATABASE_NAME", "USERNAME", "PASSWORD"} {
		require.NoError(t, os.Unsetenv(key))
	}

	path := filepath.Join(t.TempDir(), "db.env")
	require.NoError(t, os.WriteFile(path, []byte("HOST=db.internal\nPORT=3306\nDATABASE_NAME=mystrive_db\nUSERNAME=mystrive\n"), 0o600))

	err := execute(t, "--env", "production", "--env-file", path)

	require.Error(t, err)
	assert.Equal(t, exitConfiguration, exitCode(err))
	assert.Equal(t, "invalid mysql config: missing or invalid password", err.Error())
	assert.Equal(t, "mystrive", os.Getenv("USERNAME"))
}

func TestRunRejectsPositionalArguments(t *testing.T) {
	err := execute(t, "extra")

	require.Error(t, err)
	assert.Equal(t, exitFailure, exitCode(err))
}
