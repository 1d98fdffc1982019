package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/swiftplan/internal/ui/output"
	"go.trai.ch/swiftplan/internal/ui/style"
)

type levelStyle struct {
	prefix string
	color  string
}

var levelStyles = map[slog.Level]levelStyle{
	slog.LevelDebug: {prefix: style.Tilde + " ", color: string(style.Mist)},
	slog.LevelInfo:  {color: string(style.Slate)},
	slog.LevelWarn:  {prefix: style.Warning + " ", color: string(style.Yellow)},
	slog.LevelError: {prefix: style.Cross + " ", color: string(style.Red)},
}

// PrettyHandler is a slog.Handler writing one colored line per record,
// with attributes rendered as key=value pairs.
type PrettyHandler struct {
	out   *termenv.Output
	level slog.Leveler
	attrs []string
	group string
}

// NewPrettyHandler returns a handler writing to w, or stderr when w is nil.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}
	return &PrettyHandler{out: output.New(w), level: level}
}

// Enabled reports whether records at level are written.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle writes r.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	ls, ok := levelStyles[r.Level]
	if !ok {
		ls = levelStyles[slog.LevelInfo]
	}

	var line strings.Builder
	line.WriteString(ls.prefix)
	line.WriteString(r.Message)
	for _, attr := range h.attrs {
		line.WriteString(" ")
		line.WriteString(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		line.WriteString(" ")
		line.WriteString(formatAttr(h.group, attr))
		return true
	})

	styled := h.out.String(line.String()).Foreground(termenv.RGBColor(ls.color))
	_, err := h.out.WriteString(styled.String() + "\n")
	return err
}

// WithAttrs returns a handler that appends attrs to every record. The
// attrs keep the group that was open when they were added.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = make([]string, len(h.attrs), len(h.attrs)+len(attrs))
	copy(next.attrs, h.attrs)
	for _, attr := range attrs {
		next.attrs = append(next.attrs, formatAttr(h.group, attr))
	}
	return &next
}

// WithGroup returns a handler that prefixes subsequent keys with name.
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	if h.group != "" {
		name = h.group + "." + name
	}
	next.group = name
	return &next
}

func formatAttr(group string, attr slog.Attr) string {
	key := attr.Key
	if group != "" {
		key = group + "." + key
	}
	value := attr.Value.Resolve().String()
	if value == "" || strings.ContainsAny(value, " \t\n\"") {
		value = strconv.Quote(value)
	}
	return key + "=" + value
}
