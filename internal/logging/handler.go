package logging

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// palette holds the colors used for terminal output.
type palette struct {
	time  *color.Color
	debug *color.Color
	info  *color.Color
	warn  *color.Color
	err   *color.Color
	key   *color.Color
}

// Handler implements slog.Handler with compact, colorized text output
// for terminals. Color is applied only when the writer supports it.
type Handler struct {
	opts   slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	colors *palette
	attrs  []slog.Attr
	groups []string
}

// NewHandler creates a text handler writing to out.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{
		out: out,
		mu:  &sync.Mutex{},
	}
	if opts != nil {
		h.opts = *opts
	}
	if SupportsColor(out) {
		h.colors = &palette{
			time:  color.New(color.FgHiBlack),
			debug: color.New(color.FgMagenta),
			info:  color.New(color.FgGreen),
			warn:  color.New(color.FgYellow),
			err:   color.New(color.FgRed, color.Bold),
			key:   color.New(color.FgCyan),
		}
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	min := slog.LevelInfo
	if h.opts.Level != nil {
		min = h.opts.Level.Level()
	}
	return level >= min
}

// Handle formats the record as a single line and writes it to out.
func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	var line bytes.Buffer

	if !r.Time.IsZero() {
		stamp := r.Time.Format(time.Kitchen)
		if h.colors != nil {
			stamp = h.colors.time.Sprint(stamp)
		}
		fmt.Fprintf(&line, "%s ", stamp)
	}

	fmt.Fprintf(&line, "%-5s ", h.levelLabel(r.Level))
	line.WriteString(r.Message)

	for _, a := range h.attrs {
		h.appendAttr(&line, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&line, a)
		return true
	})
	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(line.Bytes())
	return err
}

// levelLabel renders the level name, colored per severity when enabled.
func (h *Handler) levelLabel(level slog.Level) string {
	label := level.String()
	if h.colors == nil {
		return label
	}
	switch {
	case level >= slog.LevelError:
		return h.colors.err.Sprint(label)
	case level >= slog.LevelWarn:
		return h.colors.warn.Sprint(label)
	case level >= slog.LevelInfo:
		return h.colors.info.Sprint(label)
	default:
		return h.colors.debug.Sprint(label)
	}
}

// appendAttr writes one " key=value" pair, prefixing the key with any
// open group names.
func (h *Handler) appendAttr(line *bytes.Buffer, a slog.Attr) {
	key := a.Key
	if len(h.groups) > 0 {
		key = strings.Join(h.groups, ".") + "." + key
	}
	if h.colors != nil {
		key = h.colors.key.Sprint(key)
	}
	fmt.Fprintf(line, " %s=%v", key, a.Value.Any())
}

// WithAttrs returns a handler that prepends attrs to every record.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	next.attrs = append(next.attrs, h.attrs...)
	next.attrs = append(next.attrs, attrs...)
	return &next
}

// WithGroup returns a handler that qualifies attribute keys with name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = make([]string, 0, len(h.groups)+1)
	next.groups = append(next.groups, h.groups...)
	next.groups = append(next.groups, name)
	return &next
}
