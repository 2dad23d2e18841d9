// Package observability exposes the minimal logging surface the
// planning engine depends on: a Logger interface callers can supply
// their own structured backend for, defaulting to the standard
// library's log package so no logging library is pulled in unused.
package observability

import "log"

// Logger is the only logging capability the engine requires.
type Logger interface {
	Printf(format string, args ...any)
}

type stdLogger struct{}

func (stdLogger) Printf(format string, args ...any) {
	log.Printf(format, args...)
}

var current Logger = stdLogger{}

// SetLogger installs l as the engine-wide logger. A nil l restores the
// stdlib-backed default.
func SetLogger(l Logger) {
	if l == nil {
		l = stdLogger{}
	}
	current = l
}

// Log returns the currently installed Logger.
func Log() Logger {
	return current
}
