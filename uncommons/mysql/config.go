package mysql

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Compiled-in fallbacks for local development.
const (
	DefaultHost         = "localhost"
	DefaultPort         = 3306
	DefaultDatabaseName = "mystrive_db"

	developmentUsername = "root"
	developmentPassword = "admin"
)

const maxPort = 65535

// Config identifies a MySQL endpoint and the credentials used against it.
type Config struct {
	Host         string
	Port         int
	DatabaseName string
	Username     string
	Password     string
}

// Validate reports every field that prevents a connection attempt.
func (cfg Config) Validate() error {
	var fields []string

	if strings.TrimSpace(cfg.Host) == "" {
		fields = append(fields, "host")
	}

	if cfg.Port < 1 || cfg.Port > maxPort {
		fields = append(fields, "port")
	}

	if strings.TrimSpace(cfg.DatabaseName) == "" {
		fields = append(fields, "database_name")
	}

	if strings.TrimSpace(cfg.Username) == "" {
		fields = append(fields, "username")
	}

	if cfg.Password == "" {
		fields = append(fields, "password")
	}

	if len(fields) > 0 {
		return &ConfigError{Fields: fields}
	}

	return nil
}

// Address returns host:port, bracketing IPv6 literals.
func (cfg Config) Address() string {
	return net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
}

// String renders the config without the password.
func (cfg Config) String() string {
	password := ""
	if cfg.Password != "" {
		password = "***"
	}

	return fmt.Sprintf("mysql://%s:%s@%s/%s", cfg.Username, password, cfg.Address(), cfg.DatabaseName)
}
