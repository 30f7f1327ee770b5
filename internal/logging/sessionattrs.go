package logging

import (
	"context"
	"log/slog"
)

// ContextProvider supplies the attributes of the moment, looked up at
// record time rather than at logger construction. The bridge wires it
// to the active session so every record carries the scene it belongs
// to.
type ContextProvider func() []slog.Attr

// sessionAttrHandler decorates records with the provider's attributes
// before they reach the sinks.
type sessionAttrHandler struct {
	next     slog.Handler
	provider ContextProvider
}

func newSessionAttrs(next slog.Handler, provider ContextProvider) *sessionAttrHandler {
	return &sessionAttrHandler{next: next, provider: provider}
}

func (h *sessionAttrHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle asks the provider for the current attributes and stamps them
// onto a clone, so the caller's record is never mutated.
func (h *sessionAttrHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider == nil {
		return h.next.Handle(ctx, r)
	}
	attrs := h.provider()
	if len(attrs) == 0 {
		return h.next.Handle(ctx, r)
	}
	stamped := r.Clone()
	stamped.AddAttrs(attrs...)
	return h.next.Handle(ctx, stamped)
}

func (h *sessionAttrHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	return &sessionAttrHandler{next: h.next.WithAttrs(attrs), provider: h.provider}
}

func (h *sessionAttrHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &sessionAttrHandler{next: h.next.WithGroup(name), provider: h.provider}
}
