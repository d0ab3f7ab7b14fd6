// Package logger provides the process-wide structured logger for lexora.
// Messages go to stderr through zap; --verbose lowers the level to debug
// so users can follow chunking, embedding and sync decisions.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	level             = zapcore.WarnLevel
	output  io.Writer = os.Stderr
	sugar             = build()
)

// build constructs the zap logger from the current settings.
// Callers must hold mu for writing, except during package init.
func build() *zap.SugaredLogger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""

	lvl := level
	if verbose {
		lvl = zapcore.DebugLevel
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(output), lvl)
	return zap.New(core).Sugar()
}

// SetVerbose enables or disables debug logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	sugar = build()
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetLevel sets the minimum level logged when verbose mode is off.
// Accepts zap level names (debug, info, warn, error) in any case, plus
// "warning" as an alias of warn.
func SetLevel(name string) error {
	if strings.EqualFold(strings.TrimSpace(name), "warning") {
		name = "warn"
	}
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	mu.Lock()
	defer mu.Unlock()
	level = lvl
	sugar = build()
	return nil
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
	sugar = build()
}

func current() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return sugar
}

// Debug logs a message with optional key/value pairs at debug level.
func Debug(msg string, keysAndValues ...any) {
	current().Debugw(msg, keysAndValues...)
}

// Info logs at info level.
func Info(msg string, keysAndValues ...any) {
	current().Infow(msg, keysAndValues...)
}

// Warn logs at warn level.
func Warn(msg string, keysAndValues ...any) {
	current().Warnw(msg, keysAndValues...)
}

// Error logs at error level.
func Error(msg string, keysAndValues ...any) {
	current().Errorw(msg, keysAndValues...)
}

// Section marks the start of a pipeline stage in verbose output.
func Section(name string) {
	current().Debugw("=== " + name + " ===")
}

// Sync flushes buffered log entries.
func Sync() error {
	return current().Sync()
}
