// Package zap adapts go.uber.org/zap to the log.Logger interface.
//
// New builds a JSON logger for an Environment profile and tees every entry
// into the OpenTelemetry log bridge; Log adds trace_id and span_id when the
// context carries a live span.
package zap
