// Package logger provides structured logging for the keepwarm daemon with a
// dual sink: every record is written to stdout and, best-effort, to a log
// file. It wraps the standard log/slog package and provides a simple
// interface for application-wide logging.
package logger
