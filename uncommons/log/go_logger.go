package log

import (
	"context"
	"fmt"
	stdlog "log"
	"strings"
)

// logControlCharReplacer escapes control characters that can forge log lines (CWE-117).
var logControlCharReplacer = strings.NewReplacer(
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func sanitizeLogString(s string) string {
	return logControlCharReplacer.Replace(s)
}

// GoLogger writes events through the standard library logger.
//
// Output looks like `[warn] message key=value`. Messages and string field
// values are sanitized against log injection.
type GoLogger struct {
	Level  Level
	Output *stdlog.Logger

	fields []Field
	group  string
}

var _ Logger = (*GoLogger)(nil)

// NewGoLogger returns a GoLogger writing through the default stdlib logger.
func NewGoLogger(level Level) *GoLogger {
	return &GoLogger{Level: level}
}

// Enabled reports whether events at level are written.
func (l *GoLogger) Enabled(level Level) bool {
	if l == nil {
		return false
	}

	return l.Level >= level
}

// Log writes the event when its level is enabled.
func (l *GoLogger) Log(_ context.Context, level Level, msg string, fields ...Field) {
	if !l.Enabled(level) {
		return
	}

	l.output().Print(l.format(level, msg, fields))
}

// With returns a child logger carrying the extra fields.
//
//nolint:ireturn
func (l *GoLogger) With(fields ...Field) Logger {
	if l == nil {
		return &GoLogger{}
	}

	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)

	for _, f := range fields {
		merged = append(merged, l.qualify(f))
	}

	return &GoLogger{Level: l.Level, Output: l.Output, fields: merged, group: l.group}
}

// WithGroup returns a child logger that prefixes later field keys with name.
//
//nolint:ireturn
func (l *GoLogger) WithGroup(name string) Logger {
	if l == nil {
		return &GoLogger{}
	}

	group := name
	if l.group != "" {
		group = l.group + "." + name
	}

	return &GoLogger{Level: l.Level, Output: l.Output, fields: l.fields, group: group}
}

// Sync is a no-op; the stdlib logger does not buffer.
func (l *GoLogger) Sync(_ context.Context) error { return nil }

func (l *GoLogger) output() *stdlog.Logger {
	if l.Output != nil {
		return l.Output
	}

	return stdlog.Default()
}

func (l *GoLogger) qualify(f Field) Field {
	if l.group == "" {
		return f
	}

	return Field{Key: l.group + "." + f.Key, Value: f.Value}
}

func (l *GoLogger) format(level Level, msg string, fields []Field) string {
	var b strings.Builder

	b.WriteString("[")
	b.WriteString(level.String())
	b.WriteString("] ")
	b.WriteString(sanitizeLogString(msg))

	all := make([]Field, 0, len(l.fields)+len(fields))
	all = append(all, l.fields...)

	for _, f := range fields {
		all = append(all, l.qualify(f))
	}

	for _, f := range all {
		b.WriteString(" ")
		b.WriteString(sanitizeLogString(f.Key))
		b.WriteString("=")
		b.WriteString(formatValue(f.Value))
	}

	return b.String()
}

func formatValue(value any) string {
	switch v := value.(type) {
	case string:
		return sanitizeLogString(v)
	case error:
		if v == nil {
			return "<nil>"
		}

		return sanitizeLogString(v.Error())
	default:
		return sanitizeLogString(fmt.Sprint(v))
	}
}
