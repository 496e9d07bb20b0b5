package logger

// Logger is the logging interface used by the core packages. Adapters live
// under infra/logger so the numeric core stays free of logging dependencies.
type Logger interface {
	Debugf(format string, args ...any)
	// Debugw logs a message with structured fields.
	Debugw(msg string, fields map[string]any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}
