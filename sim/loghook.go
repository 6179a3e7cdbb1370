package sim

import (
	"context"
	"log/slog"
	"reflect"
)

// A LogHook writes every hook invocation into a structured logger. Items
// that implement slog.LogValuer are logged by value, other items by type.
type LogHook struct {
	Logger *slog.Logger
	Level  slog.Level
}

// NewLogHook returns a LogHook that logs at debug level.
func NewLogHook(logger *slog.Logger) *LogHook {
	return &LogHook{Logger: logger, Level: slog.LevelDebug}
}

// Func writes the hook information into the logger
func (h *LogHook) Func(ctx HookCtx) {
	if !h.Logger.Enabled(context.Background(), h.Level) {
		return
	}

	attrs := []any{}

	if ctx.Pos != nil {
		attrs = append(attrs, "pos", ctx.Pos.Name)
	}

	if ctx.Domain != nil {
		attrs = append(attrs, "domain", reflect.TypeOf(ctx.Domain).String())
	}

	switch item := ctx.Item.(type) {
	case nil:
	case slog.LogValuer:
		attrs = append(attrs, "item", item)
	default:
		attrs = append(attrs, "item", reflect.TypeOf(item).String())
	}

	h.Logger.Log(context.Background(), h.Level, "hook", attrs...)
}
