// Package logger is the ambient leveled logger used across the framework
// core. It is backed by log/slog, the same logging substrate
// internal/transport drives one layer up through httplog.NewLogger, so a
// log aggregator sees one consistent record shape (text-handler key=value
// pairs) whether a line came from the transport's request logger or from
// a Debug/Info/Warn/Error call deeper in the dispatcher.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"runtime/debug"
	"strings"

	"github.com/FreePeak/mcp-framework/pkg/core"
)

// Level is slog's own level type, re-exported so callers comparing against
// LevelDebug/LevelInfo/LevelWarn/LevelError never need to import log/slog
// themselves for a simple level check.
type Level = slog.Level

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var logger *slog.Logger

// Initialize sets up the package logger at the given level, writing to
// core.GetLogWriter() — os.Stderr normally, io.Discard when
// MCP_DISABLE_LOGGING is set, so that knob silences every call through
// this package in one place rather than each call site checking it.
func Initialize(level string) {
	logger = slog.New(slog.NewTextHandler(core.GetLogWriter(), &slog.HandlerOptions{Level: levelFromString(level)}))
}

// InitializeWithWriter sets up the package logger at the given level
// against an explicit writer, bypassing core.GetLogWriter() — used when a
// caller (e.g. a stdio-transport file redirect) must own the destination
// itself.
func InitializeWithWriter(level string, writer *os.File) {
	logger = slog.New(slog.NewTextHandler(writer, &slog.HandlerOptions{Level: levelFromString(level)}))
}

func levelFromString(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ensure lazily initializes the package logger at info level, so a call
// made before main wires up Initialize still lands somewhere instead of
// panicking on a nil logger.
func ensure() *slog.Logger {
	if logger == nil {
		Initialize("info")
	}
	return logger
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	ensure().Debug(fmt.Sprintf(format, v...))
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	ensure().Info(fmt.Sprintf(format, v...))
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	ensure().Warn(fmt.Sprintf(format, v...))
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	ensure().Error(fmt.Sprintf(format, v...))
}

// ErrorWithStack logs an error together with the caller's stack trace.
func ErrorWithStack(err error) {
	if err == nil {
		return
	}
	ensure().Error(fmt.Sprintf("%v", err), "stack", string(debug.Stack()))
}

// RequestLog logs an inbound HTTP request at debug level.
func RequestLog(method, url, sessionID, body string) {
	ensure().Debug("http request", "method", method, "url", url, "session_id", sessionID, "body", body)
}

// ResponseLog logs an outbound HTTP response at debug level.
func ResponseLog(statusCode int, sessionID, body string) {
	ensure().Debug("http response", "status", statusCode, "session_id", sessionID, "body", body)
}

// SSEEventLog logs a single SSE event at debug level.
func SSEEventLog(eventType, sessionID, data string) {
	ensure().Debug("sse event", "event", eventType, "session_id", sessionID, "data", data)
}

// RequestResponseLog logs an MCP method's inbound request paired with
// every outbound item it produced, correlated by method and session id.
func RequestResponseLog(method, sessionID, requestData, responseData string) {
	ensure().Debug("dispatch", "method", method, "session_id", sessionID, "request", requestData, "response", responseData)
}
