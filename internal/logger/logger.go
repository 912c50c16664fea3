package logger

import "strings"

// Log levels used across the application.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

// Output encodings.
const (
	ConsoleEncoding = "console"
	JSONEncoding    = "json"
)

// Options selects level and encoding for New.
type Options struct {
	Level    string
	Encoding string
}

// New builds a logger from options. Unknown levels fall back to debug,
// unknown encodings to console.
func New(opts Options) *Logger {
	return newZapLogger(strings.ToLower(strings.TrimSpace(opts.Level)), opts.Encoding)
}

// Nop returns a logger that discards everything. Handy in tests.
func Nop() *Logger {
	return newNopLogger()
}
