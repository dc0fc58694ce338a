package logging

import (
	"context"
	"log/slog"
)

// Wrap exposes l as a *slog.Logger.
func Wrap(l Log) *slog.Logger {
	if h, ok := l.(*levelLogger); ok {
		return slog.New(h)
	}
	return slog.Default()
}

func (ll *levelLogger) Enabled(ctx context.Context, level slog.Level) bool {
	return ll.LogEnabled(fromSlogLevel(level))
}

func (ll *levelLogger) Handle(ctx context.Context, r slog.Record) error {
	args := []any{r.Message}
	r.Attrs(func(a slog.Attr) bool {
		args = append(args, a.Key+"="+a.Value.String())
		return true
	})
	ll._log(fromSlogLevel(r.Level), 2, args)
	return nil
}

func (ll *levelLogger) WithAttrs(attrs []slog.Attr) slog.Handler {
	ret := *ll
	ret.attrs = append(append([]slog.Attr{}, ll.attrs...), attrs...)
	return &ret
}

// WithGroup returns a logger named after the group.
func (ll *levelLogger) WithGroup(name string) slog.Handler {
	if name == "" {
		return ll
	}
	ret := *ll
	ret.name = ll.name + "." + name
	ret.level = GetLevel(ret.name)
	return &ret
}

func fromSlogLevel(level slog.Level) Level {
	switch {
	case level < slog.LevelDebug:
		return LevelTrace
	case level < slog.LevelInfo:
		return LevelDebug
	case level < slog.LevelWarn:
		return LevelInfo
	case level < slog.LevelError:
		return LevelWarn
	default:
		return LevelError
	}
}
