package scenetree

import "github.com/rs/zerolog"

var logger = zerolog.Nop()

// SetLogger replaces the package logger. Attach, Destroy and reparenting are
// logged at debug level; enabled cascades at trace level. The default logger
// discards everything.
func SetLogger(l zerolog.Logger) {
	logger = l
}

// Logger returns the current package logger.
func Logger() *zerolog.Logger {
	return &logger
}
