package logging

import (
	"context"
	"errors"
	"log/slog"
)

// fanoutHandler copies every record to a set of sinks: the log file,
// and optionally Graylog and OTel. Nil sinks are dropped at
// construction so Setup can pass whatever it has.
type fanoutHandler struct {
	sinks []slog.Handler
}

func newFanout(sinks ...slog.Handler) *fanoutHandler {
	f := &fanoutHandler{sinks: make([]slog.Handler, 0, len(sinks))}
	for _, s := range sinks {
		if s != nil {
			f.sinks = append(f.sinks, s)
		}
	}
	return f
}

// fork derives a new fanout with every sink transformed, for the
// WithAttrs/WithGroup chain.
func (f *fanoutHandler) fork(transform func(slog.Handler) slog.Handler) *fanoutHandler {
	next := make([]slog.Handler, len(f.sinks))
	for i, s := range f.sinks {
		next[i] = transform(s)
	}
	return &fanoutHandler{sinks: next}
}

// Enabled reports whether any sink wants records at this level.
func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, s := range f.sinks {
		if s.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle delivers the record to every enabled sink. One sink failing
// does not stop the others; the errors come back joined.
func (f *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, s := range f.sinks {
		if !s.Enabled(ctx, r.Level) {
			continue
		}
		if err := s.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return f
	}
	return f.fork(func(s slog.Handler) slog.Handler { return s.WithAttrs(attrs) })
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return f
	}
	return f.fork(func(s slog.Handler) slog.Handler { return s.WithGroup(name) })
}
