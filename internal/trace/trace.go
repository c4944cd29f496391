// Package trace gates verbose logging per subsystem.
package trace

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gammon_sgf/internal/errors"
)

type Realm string

const (
	RealmParser Realm = "parser"
	RealmCooker Realm = "cooker"
	RealmMatch  Realm = "match"
)

// Realms lists every realm accepted by ParseRealm.
var Realms = []Realm{RealmParser, RealmCooker, RealmMatch}

// ParseRealm validates a configured realm name. The empty string disables
// tracing.
func ParseRealm(s string) (Realm, error) {
	if s == "" {
		return "", nil
	}
	for _, r := range Realms {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("%w: %q", errors.ErrUnknownRealm, s)
}

// Tracer hands out named loggers. Debug loggers are live only for the
// enabled realm and write at every level, whatever the level of the base
// logger; Log loggers are always live and carry warnings.
type Tracer struct {
	log     *zap.SugaredLogger
	verbose *zap.SugaredLogger
	enabled Realm
	nop     *zap.SugaredLogger
}

func New(log *zap.SugaredLogger, realm Realm) *Tracer {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	t := &Tracer{
		log:     log,
		enabled: realm,
		nop:     zap.NewNop().Sugar(),
	}
	if realm != "" {
		t.verbose = log.Desugar().WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
			return verboseCore{c}
		})).Named(string(realm)).Sugar()
	}
	return t
}

// verboseCore lets entries of any level through to the wrapped core.
type verboseCore struct {
	zapcore.Core
}

func (c verboseCore) Enabled(zapcore.Level) bool { return true }

func (c verboseCore) With(fields []zapcore.Field) zapcore.Core {
	return verboseCore{c.Core.With(fields)}
}

func (c verboseCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return ce.AddCore(e, c)
}

// Nop returns a tracer that drops everything.
func Nop() *Tracer {
	return New(nil, "")
}

func (t *Tracer) Enabled(r Realm) bool {
	return t != nil && t.enabled != "" && t.enabled == r
}

func (t *Tracer) Debug(r Realm) *zap.SugaredLogger {
	if !t.Enabled(r) {
		if t == nil {
			return zap.NewNop().Sugar()
		}
		return t.nop
	}
	return t.verbose
}

func (t *Tracer) Log(r Realm) *zap.SugaredLogger {
	if t == nil {
		return zap.NewNop().Sugar()
	}
	return t.log.Named(string(r))
}
