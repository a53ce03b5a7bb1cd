// Package log defines the logger used across vidscribe.
//
// Components accept any Logger and default to Noop, so the TUI and tests can
// run without output.
package log

import "context"

// Kv is a helper type for structured logging key-value pairs.
type Kv = map[string]any

// Logger is the logger used by the app.
type Logger interface {
	Infof(format string, args ...any)
	Warningf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
	WithValues(values Kv) Logger
	WithCtxValues(ctx context.Context) Logger
	SetValuesOnCtx(parent context.Context, values Kv) context.Context
}

type contextKey string

const contextLogValuesKey = contextKey("internal-log")

// CtxWithValues returns a copy of parent with the log values merged into the
// ones already present.
func CtxWithValues(parent context.Context, kv Kv) context.Context {
	current := ValuesFromCtx(parent)
	merged := make(Kv, len(current)+len(kv))
	for k, v := range current {
		merged[k] = v
	}
	for k, v := range kv {
		merged[k] = v
	}
	return context.WithValue(parent, contextLogValuesKey, merged)
}

// ValuesFromCtx returns the log values stored on the context.
func ValuesFromCtx(ctx context.Context) Kv {
	if ctx == nil {
		return Kv{}
	}
	v, ok := ctx.Value(contextLogValuesKey).(Kv)
	if !ok {
		return Kv{}
	}
	return v
}

// Noop logger doesn't log anything.
var Noop = noop(0)

type noop int

func (noop) Infof(format string, args ...any) {}
func (noop) Warningf(format string, args ...any) {}
func (noop) Errorf(format string, args ...any) {}
func (noop) Debugf(format string, args ...any) {}
func (n noop) WithValues(values Kv) Logger { return n }
func (n noop) WithCtxValues(ctx context.Context) Logger { return n }
func (noop) SetValuesOnCtx(parent context.Context, values Kv) context.Context {
	return parent
}
