// Package correlation tags every user-initiated operation with a short ID so
// the log lines it produces can be grouped after the fact.
package correlation

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

type ctxKey struct{}

// NewID returns a fresh 8-character operation ID.
func NewID() string {
	return uuid.NewString()[:8]
}

// WithID stores id on the context.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// ID reports the operation ID carried by ctx, if any.
func ID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}

// Handler decorates another slog.Handler, stamping each record with the
// operation ID found on its context. Records without one pass through
// untouched.
type Handler struct {
	next slog.Handler
}

func NewHandler(next slog.Handler) *Handler {
	return &Handler{next: next}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	if id, ok := ID(ctx); ok {
		r = r.Clone()
		r.AddAttrs(slog.String("correlation_id", id))
	}
	return h.next.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{next: h.next.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{next: h.next.WithGroup(name)}
}
