// Package logger provides structured logging for nilkv.
//
// This package wraps log/slog for structured logging:
//
//   - logger.go: handler configuration and the Logger interface
//   - context.go: context-aware logging with request IDs
//
// Features:
//
//   - JSON and text output formats
//   - Log level filtering, adjustable at runtime
//   - Context propagation for per-request loggers, keyed to the request ID
//     internal/server/httpserver's RequestID() middleware assigns
package logger
