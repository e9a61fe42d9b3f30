package logger

import corelogger "github.com/chargeway/chargeway/core/logger"

// Alias the core interface for convenience.
// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.Nop

// New returns a Logger for the given component at the default info level.
// The output format follows APP_ENV; NewWithOptions exposes the full knobs.
func New(component string) Logger {
	return NewWithOptions(component, "", "")
}
