// Package log defines the logging interface used across lib-dbconn.
//
// Callers depend on Logger; backends (the zap package, GoLogger, NopLogger)
// implement it so connection code never imports a concrete logger.
package log
