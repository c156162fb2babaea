package logging

import (
	"log/slog"
	"os"
)

// New creates a slog.Logger with the given level and format. format can be
// "json" or "text" (default json).
func New(level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// ParseLevel converts a string log level to slog.Level. Valid values:
// "debug", "info", "warn", "error". Invalid values fall back to info.
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Common field names so dispatcher and receiver log the same way.
const (
	FieldModel     = "model"
	FieldOperation = "operation"
	FieldRecordID  = "record_id"
	FieldError     = "error"
)

// Model returns a slog attribute for the model name.
func Model(name string) slog.Attr {
	return slog.String(FieldModel, name)
}

// Operation returns a slog attribute for the sync operation.
func Operation(op string) slog.Attr {
	return slog.String(FieldOperation, op)
}

// RecordID returns a slog attribute for the record identifier.
func RecordID(id string) slog.Attr {
	return slog.String(FieldRecordID, id)
}

// Error returns a slog attribute for an error value.
func Error(err error) slog.Attr {
	return slog.String(FieldError, err.Error())
}
