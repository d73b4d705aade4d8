package common

import (
	"context"
	"io"
	"log/slog"

	"github.com/jomc/jomc/pkg/model"
)

// DescriptionMarkdown simply allows for getting markdown text.
type DescriptionMarkdown interface {
	DescriptionMarkdown() string
}

// ToolContext is shared by the components of a single run.
// It is passed explicitly; there are no package level defaults.
type ToolContext struct {
	// Logger receives all log records, it is never nil after Defaults.
	Logger *slog.Logger

	// ClassesDirectory is the directory holding the class files.
	ClassesDirectory string

	// Workers is the size of the worker pool for batch operations.
	// Zero means sequential execution, a negative value means unbounded.
	Workers int

	// ModelIdentifier names the model the processed modules belong to.
	ModelIdentifier string

	// ValueParsers parse property values during validation.
	ValueParsers model.ValueParsers
}

// DefaultModelIdentifier is the identifier of the JOMC object model.
const DefaultModelIdentifier = "http://jomc.org/model"

// Defaults fills in unset values and returns t.
func (t *ToolContext) Defaults() *ToolContext {
	if t.Logger == nil {
		t.Logger = DiscardLogger()
	}
	if t.ModelIdentifier == "" {
		t.ModelIdentifier = DefaultModelIdentifier
	}
	if t.ValueParsers == nil {
		t.ValueParsers = model.DefaultValueParsers()
	}
	return t
}

// DiscardLogger returns a logger that drops every record.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// contextKey is a custom key type for contexts
type contextKey struct{}

// WithLogger returns a context carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// LoggerFrom returns the logger carried by ctx, or fallback if there is none.
func LoggerFrom(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
		return logger
	}
	if fallback == nil {
		return DiscardLogger()
	}
	return fallback
}
