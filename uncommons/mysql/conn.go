package mysql

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
)

// Conn is one live MySQL session owned by the caller that acquired it.
//
// It wraps a *sql.Conn taken from a private *sql.DB capped at a single
// connection, so nothing is pooled or shared between acquisitions.
type Conn struct {
	db       *sql.DB
	conn     *sql.Conn
	cfg      Config
	released atomic.Bool
}

// SQL returns the underlying session, or nil once released.
func (c *Conn) SQL() *sql.Conn {
	if c == nil || c.released.Load() {
		return nil
	}

	return c.conn
}

// Config returns the configuration the session was opened with.
func (c *Conn) Config() Config {
	if c == nil {
		return Config{}
	}

	return c.cfg
}

// Released reports whether Release already ran for this Conn.
func (c *Conn) Released() bool {
	return c == nil || c.released.Load()
}

// PingContext checks the session is still alive.
func (c *Conn) PingContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}

	session := c.SQL()
	if session == nil {
		return ErrConnReleased
	}

	return session.PingContext(ctx)
}

func (c *Conn) markReleased() bool {
	return c.released.CompareAndSwap(false, true)
}

func (c *Conn) close() error {
	var errs []error

	if c.conn != nil {
		if err := c.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			errs = append(errs, err)
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
