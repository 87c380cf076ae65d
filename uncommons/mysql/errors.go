package mysql

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilContext is returned when a required context is nil.
	ErrNilContext = errors.New("context cannot be nil")
	// ErrConfiguration matches every *ConfigError.
	ErrConfiguration = errors.New("invalid mysql config")
	// ErrDriverUnavailable is returned when the driver cannot build a connector for the config.
	ErrDriverUnavailable = errors.New("mysql driver unavailable")
	// ErrConnection matches every *ConnectionError.
	ErrConnection = errors.New("mysql connection failed")
	// ErrClose wraps failures while releasing a connection. It is only ever logged.
	ErrClose = errors.New("mysql close failed")
	// ErrConnReleased is returned when a released Conn is used.
	ErrConnReleased = errors.New("mysql connection already released")
)

// ConfigError lists the config fields that are missing or out of range.
type ConfigError struct {
	Fields []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: missing or invalid %s", ErrConfiguration, strings.Join(e.Fields, ", "))
}

// Is makes errors.Is(err, ErrConfiguration) hold.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfiguration
}

// ConnectionError carries the driver failure for one connection attempt.
//
// Error() never contains the password; Unwrap returns the untouched driver error.
type ConnectionError struct {
	Host string
	Port int
	Err  error

	message string
}

func newConnectionError(cfg Config, err error) *ConnectionError {
	return &ConnectionError{
		Host:    cfg.Host,
		Port:    cfg.Port,
		Err:     err,
		message: scrubSecret(err.Error(), cfg.Password),
	}
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConnection, Config{Host: e.Host, Port: e.Port}.Address(), e.message)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrConnection) hold.
func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

func scrubSecret(message, secret string) string {
	if secret == "" {
		return message
	}

	return strings.ReplaceAll(message, secret, "***")
}
