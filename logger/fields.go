package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across actorgen.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"

	// Generation
	FieldFile    = "file"
	FieldOutput  = "output"
	FieldPackage = "package"
	FieldActor   = "actor"
	FieldShape   = "shape"
	FieldHook    = "hook"

	// Runtime
	FieldMessage = "msg_type"
	FieldState   = "state"

	// Timing and counts
	FieldDurationMS = "duration_ms"
	FieldCount      = "count"

	// Errors
	FieldError = "error"
)

// ComponentLogger returns a named logger for a specific component. Every
// entry carries the component name under FieldComponent.
//
// Example:
//
//	log := logger.ComponentLogger("watch")
//	log.Infow("regenerated", logger.FieldFile, path)
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name).With(FieldComponent, name)
}

// ChildLogger creates a child logger with additional context.
//
// Example:
//
//	actorLog := logger.ChildLogger(base, logger.FieldActor, "Counter")
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
