package ircprotocol

import (
	"fmt"
	stdlog "log"

	"github.com/go-log/log"
)

// SetLogger sets the package default logger. Clients created without
// WithLogger pick it up at call time, including clients created before
// SetLogger was called.
func SetLogger(logger log.Logger) {
	log.DefaultLogger = logger
}

// stdlibDepth points Lshortfile output at the ircprotocol call site when
// LogLogger is installed through SetLogger.
const stdlibDepth = 4

// LogLogger writes through the standard library log package, so it follows
// log.SetOutput and log.SetFlags.
type LogLogger struct{}

// Log writes v with a trailing newline.
func (l *LogLogger) Log(v ...interface{}) {
	stdlog.Output(stdlibDepth, fmt.Sprintln(v...))
}

// Logf writes a formatted message.
func (l *LogLogger) Logf(format string, v ...interface{}) {
	stdlog.Output(stdlibDepth, fmt.Sprintf(format, v...))
}

// NopLogger discards everything.
type NopLogger struct{}

func (l *NopLogger) Log(v ...interface{}) {}

func (l *NopLogger) Logf(format string, v ...interface{}) {}

// defaultLogger resolves the package default at call time.
type defaultLogger struct{}

func (defaultLogger) Log(v ...interface{}) { log.Log(v...) }

func (defaultLogger) Logf(format string, v ...interface{}) { log.Logf(format, v...) }
