package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// SetupColors disables colors if asked to, or if f is not a terminal.
func SetupColors(f *os.File, noColors bool) {
	color.NoColor = noColors || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// Handler is a slog.Handler printing records
// in the same format as the other messages of this package.
//
// Debug records are only printed if Verbose is set,
// and only errors are printed if Silent is set.
type Handler struct {
	mu     *sync.Mutex
	out    io.Writer
	prefix string
	attrs  []slog.Attr
}

// NewHandler returns a handler writing to out.
func NewHandler(out io.Writer) *Handler {
	return &Handler{
		mu:  &sync.Mutex{},
		out: out,
	}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	switch {
	case level >= slog.LevelError:
		return true
	case Silent:
		return false
	case level < slog.LevelInfo:
		return Verbose
	default:
		return true
	}
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder

	switch {
	case r.Level >= slog.LevelError:
		sb.WriteString(failure.prefix())
	case r.Level >= slog.LevelWarn:
		sb.WriteString(warning.prefix())
	default:
		sb.WriteString(info.prefix())
	}

	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&sb, "", a)
	}

	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, h.prefix, a)
		return true
	})

	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.out, sb.String())
	return err
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	h2.attrs = append(h2.attrs, h.attrs...)
	for _, a := range attrs {
		a.Key = h.prefix + a.Key
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.prefix = h.prefix + name + "."
	return &h2
}

func writeAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()

	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			writeAttr(sb, prefix, ga)
		}
		return
	}

	sb.WriteString(" " + color.New(color.Faint).Sprint(prefix+a.Key+"=") + fmt.Sprint(a.Value.Any()))
}
