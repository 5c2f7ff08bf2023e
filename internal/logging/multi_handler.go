package logging

import (
	"context"
	"errors"
	"log/slog"
)

// MultiHandler fans each record out to several handlers, so one run can
// log to the terminal and to a JSON log file at the same time.
type MultiHandler []slog.Handler

// NewMultiHandler bundles handlers into a single slog.Handler.
func NewMultiHandler(handlers ...slog.Handler) MultiHandler {
	return MultiHandler(handlers)
}

// Enabled reports whether any member handles records at this level.
func (m MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes the record to every member enabled for its level. All
// members see the record even when an earlier one fails; the failures
// are joined into the returned error.
func (m MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// WithAttrs applies the attributes to every member.
func (m MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make(MultiHandler, len(m))
	for i, h := range m {
		next[i] = h.WithAttrs(attrs)
	}
	return next
}

// WithGroup applies the group to every member.
func (m MultiHandler) WithGroup(name string) slog.Handler {
	next := make(MultiHandler, len(m))
	for i, h := range m {
		next[i] = h.WithGroup(name)
	}
	return next
}
