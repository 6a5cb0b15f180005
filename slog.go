package vgaconsole

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// LevelDevSlog sits between slog.LevelDebug and slog.LevelInfo and maps to LevelDev.
const LevelDevSlog = slog.Level(-2)

// SlogLevel maps a slog level onto a console level.
// Info and above are LevelInfo, (Debug, Info) is LevelDev, Debug and below is LevelDebug.
func SlogLevel(l slog.Level) Level {
	switch {
	case l >= slog.LevelInfo:
		return LevelInfo
	case l > slog.LevelDebug:
		return LevelDev
	}
	return LevelDebug
}

// SlogHandler routes log/slog records to a Device through PrintAtLevel,
// one line per record: message then key=value attributes.
//
// Example:
//
//	logger := slog.New(vgaconsole.NewSlogHandler(dev))
//	logger.Info("mapped", "addr", "0xb8000")
//	// [INFO]  mapped addr=0xb8000
type SlogHandler struct {
	dev    *Device
	attrs  string
	prefix string
}

// NewSlogHandler creates a handler writing to dev.
func NewSlogHandler(dev *Device) *SlogHandler {
	return &SlogHandler{dev: dev}
}

// Enabled reports whether the device lets level through.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return SlogLevel(level) <= h.dev.MaxLevel()
}

// Handle draws the record. Filtered records are not an error.
func (h *SlogHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	sb.WriteString(r.Message)
	sb.WriteString(h.attrs)
	r.Attrs(func(a slog.Attr) bool {
		appendAttr(&sb, h.prefix, a)
		return true
	})
	if r.Level >= slog.LevelWarn {
		sb.WriteString(" level=")
		sb.WriteString(r.Level.String())
	}
	sb.WriteByte('\n')

	err := h.dev.PrintAtLevel(SlogLevel(r.Level), "%s", EncodeString(sb.String()))
	if errors.Is(err, ErrFiltered) {
		return nil
	}
	return err
}

// WithAttrs returns a handler that appends attrs to every record.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	var sb strings.Builder
	sb.WriteString(h.attrs)
	for _, a := range attrs {
		appendAttr(&sb, h.prefix, a)
	}
	return &SlogHandler{dev: h.dev, attrs: sb.String(), prefix: h.prefix}
}

// WithGroup returns a handler that qualifies later attribute keys with name.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SlogHandler{dev: h.dev, attrs: h.attrs, prefix: h.prefix + name + "."}
}

func appendAttr(sb *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	if a.Value.Kind() == slog.KindGroup {
		group := prefix
		if a.Key != "" {
			group += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			appendAttr(sb, group, ga)
		}
		return
	}
	sb.WriteByte(' ')
	sb.WriteString(prefix)
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(a.Value.String())
}

var _ slog.Handler = (*SlogHandler)(nil)
