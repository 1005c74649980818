package main

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

// useColor reports whether output to w should be colored: always when
// forced, otherwise only for terminals.
func useColor(w io.Writer, force bool) bool {
	if force {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// palette holds the colors used for command output.
type palette struct {
	ok, fail, key, dim *color.Color
}

func newPalette(w io.Writer, force bool) palette {
	p := palette{
		ok:   color.New(color.FgGreen, color.Bold),
		fail: color.New(color.FgRed, color.Bold),
		key:  color.New(color.FgCyan),
		dim:  color.New(color.Faint),
	}
	on := useColor(w, force)
	for _, c := range []*color.Color{p.ok, p.fail, p.key, p.dim} {
		if on {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// levelHandler is a compact slog handler printing "LEVEL msg k=v ...",
// with the level colored.
type levelHandler struct {
	mu    *sync.Mutex
	w     io.Writer
	attrs []slog.Attr
	color bool
}

func newLogger(w io.Writer, force bool) *slog.Logger {
	on := useColor(w, force)
	if on {
		for _, c := range levelColors {
			c.EnableColor()
		}
	}
	return slog.New(&levelHandler{mu: &sync.Mutex{}, w: w, color: on})
}

var levelColors = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgHiBlack),
	slog.LevelInfo:  color.New(color.FgBlue),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed, color.Bold),
}

func (h *levelHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *levelHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	level := fmt.Sprintf("%-5s", r.Level.String())
	if c, ok := levelColors[r.Level]; ok && h.color {
		level = c.Sprint(level)
	}
	b.WriteString(level)
	b.WriteByte(' ')
	b.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := *h
	n.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &n
}

func (h *levelHandler) WithGroup(string) slog.Handler { return h }
