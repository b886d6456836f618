// =============================================================================
// logging.go - Diagnostic Logging
// =============================================================================
//
// Chat output goes to stdout; diagnostics go through zap. By default they
// are discarded so they don't interleave with the REPL. --log <path> (or
// log_file in the config) sends them to a file, and "--log stderr" to the
// terminal. "--log stdlog" also writes to the terminal, but protocol
// messages keep the standard log package's format.
//
// The ircprotocol package logs through the small go-log interface, so
// zapLogger bridges the two. main installs the result with
// ircprotocol.SetLogger.
//
// =============================================================================

package main

import (
	"fmt"

	"github.com/go-log/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ircbottom/ircbottom/ircprotocol"
)

// Log destinations that are not file paths.
const (
	logStderr = "stderr"
	logStdout = "stdout"
	logStdlib = "stdlog"
)

// logsToFile reports whether dest names a file that needs syncing.
func logsToFile(dest string) bool {
	switch dest {
	case "", logStderr, logStdout, logStdlib:
		return false
	}
	return true
}

// newLogger builds the zap logger for the given destination. An empty path
// yields a no-op logger.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}

	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{path}
	if path == logStdlib {
		cfg.OutputPaths = []string{logStderr}
	}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("open log %s: %w", path, err)
	}
	return logger, nil
}

// GO CONCEPT: Adapters Through Implicit Interfaces
// -------------------------------------------------
// ircprotocol.WithLogger wants a github.com/go-log/log Logger, which is just
// two methods: Log(v ...interface{}) and Logf(format, v ...interface{}).
// Any type with those methods satisfies it; zapLogger never names the
// interface it implements.

// zapLogger adapts a zap logger to the go-log Logger interface.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

func newZapLogger(logger *zap.Logger) zapLogger {
	return zapLogger{sugar: logger.Sugar()}
}

// Log logs v at info level.
func (l zapLogger) Log(v ...interface{}) {
	l.sugar.Info(v...)
}

// Logf logs a formatted message at info level.
func (l zapLogger) Logf(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

// protocolLogger returns the logger ircprotocol should use for dest.
func protocolLogger(dest string, logger *zap.Logger) log.Logger {
	if dest == logStdlib {
		return &ircprotocol.LogLogger{}
	}
	return newZapLogger(logger)
}
