package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one pipeline run.
	FieldRunID = "run_id"
	// FieldRecipientIndex is the zero-based position of the recipient being assembled.
	FieldRecipientIndex = "recipient_index"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldEventType classifies lifecycle log lines (stage_start, stage_complete, ...).
	FieldEventType = "event_type"
)

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	recipientKey contextKey = "recipient_index"
	stageKey     contextKey = "stage"
)

// WithRunID annotates context with the run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// WithRecipient annotates context with the recipient index.
func WithRecipient(ctx context.Context, index int) context.Context {
	return context.WithValue(ctx, recipientKey, index)
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// RecipientFromContext returns the recipient index if present.
func RecipientFromContext(ctx context.Context) (int, bool) {
	idx, ok := ctx.Value(recipientKey).(int)
	return idx, ok
}

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := ctx.Value(runIDKey).(string); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if idx, ok := RecipientFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldRecipientIndex, idx))
	}
	if stage, ok := ctx.Value(stageKey).(string); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	return fields
}

// WithContext returns a logger augmented with structured fields derived from the supplied context.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
