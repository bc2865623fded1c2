package logging

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	l zerolog.Logger
}

// NewZerologLogger wraps the given zerolog.Logger.
func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{l: l}
}

func (z *ZerologLogger) Debug(ctx context.Context, msg string, args ...any) {
	applyFields(z.l.Debug(), args).Msg(msg)
}

func (z *ZerologLogger) Info(ctx context.Context, msg string, args ...any) {
	applyFields(z.l.Info(), args).Msg(msg)
}

func (z *ZerologLogger) Warn(ctx context.Context, msg string, args ...any) {
	applyFields(z.l.Warn(), args).Msg(msg)
}

func (z *ZerologLogger) Error(ctx context.Context, msg string, args ...any) {
	applyFields(z.l.Error(), args).Msg(msg)
}

func (z *ZerologLogger) With(args ...any) Logger {
	c := z.l.With()
	for i := 0; i+1 < len(args); i += 2 {
		c = c.Interface(keyAt(args, i), args[i+1])
	}
	return &ZerologLogger{l: c.Logger()}
}

// applyFields attaches key–value pairs to a zerolog event. An odd trailing
// argument is logged under the key "!BADKEY" rather than dropped.
func applyFields(e *zerolog.Event, args []any) *zerolog.Event {
	i := 0
	for ; i+1 < len(args); i += 2 {
		e = e.Interface(keyAt(args, i), args[i+1])
	}
	if i < len(args) {
		e = e.Interface("!BADKEY", args[i])
	}
	return e
}

func keyAt(args []any, i int) string {
	if s, ok := args[i].(string); ok {
		return s
	}
	return fmt.Sprint(args[i])
}
