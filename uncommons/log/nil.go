package log

import "context"

// NopLogger discards every event.
type NopLogger struct{}

// NewNop returns a logger that discards every event.
func NewNop() Logger {
	return &NopLogger{}
}

// Log drops the event.
func (l *NopLogger) Log(_ context.Context, _ Level, _ string, _ ...Field) {}

// With returns the same no-op logger.
//
//nolint:ireturn
func (l *NopLogger) With(_ ...Field) Logger {
	return l
}

// WithGroup returns the same no-op logger.
//
//nolint:ireturn
func (l *NopLogger) WithGroup(_ string) Logger {
	return l
}

// Enabled always returns false.
func (l *NopLogger) Enabled(_ Level) bool {
	return false
}

// Sync always returns nil.
func (l *NopLogger) Sync(_ context.Context) error { return nil }
