package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type zerologAdapter struct {
	log zerolog.Logger
}

// NewWithOptions creates a zerolog-backed Logger. Level is one of debug,
// info, warn or error (empty means info). Format is "console" or "json"; an
// empty format follows APP_ENV, with "dev" selecting console output. Every
// line carries the service and component fields.
func NewWithOptions(component, level, format string) Logger {
	return newAdapter(os.Stdout, component, level, format)
}

func newAdapter(out io.Writer, component, level, format string) Logger {
	lvl := zerolog.InfoLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(level)); err == nil && parsed != zerolog.NoLevel {
			lvl = parsed
		}
	}
	if format == "" && strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		format = "console"
	}
	if format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(out).Level(lvl).With().
		Timestamp().
		Str("service", "chargeway").
		Str("component", component).
		Logger()
	return &zerologAdapter{log: z}
}

func (l *zerologAdapter) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *zerologAdapter) Debugw(msg string, fields map[string]any) {
	ev := l.log.Debug()
	for k, v := range fields {
		ev = ev.Interface(k, v)
	}
	ev.Msg(msg)
}

func (l *zerologAdapter) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *zerologAdapter) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *zerologAdapter) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
