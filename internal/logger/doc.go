// Package logger wraps zap with a global sugared console logger.
//
// Regular messages are written to stdout and errors to stderr, so the
// confirmation lines of a run can be piped separately from failures.
// Context helpers (ToContext/FromContext/WithName/WithKV) let services carry a
// scoped logger without threading it through every call.
package logger
