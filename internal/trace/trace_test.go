package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gammon_sgf/internal/errors"
)

func TestParseRealm(t *testing.T) {
	for _, r := range []string{"parser", "cooker", "match", ""} {
		got, err := ParseRealm(r)
		require.NoError(t, err)
		assert.Equal(t, Realm(r), got)
	}

	_, err := ParseRealm("renderer")
	assert.True(t, errors.Is(err, errors.ErrUnknownRealm))
}

// TestTracer_DebugOnlyForEnabledRealm checks that verbose output is gated
// while warnings always pass.
func TestTracer_DebugOnlyForEnabledRealm(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := New(zap.New(core).Sugar(), RealmCooker)

	tr.Debug(RealmParser).Debugw("token")
	tr.Debug(RealmCooker).Debugw("property", "id", "B")
	tr.Log(RealmMatch).Warnw("skipped analysis")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "cooker", entries[0].LoggerName)
	assert.Equal(t, "property", entries[0].Message)
	assert.Equal(t, "match", entries[1].LoggerName)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
}

func TestTracer_NilIsSilent(t *testing.T) {
	var tr *Tracer
	assert.False(t, tr.Enabled(RealmParser))
	tr.Debug(RealmParser).Debug("nothing")
	tr.Log(RealmParser).Warn("nothing")
}

func TestTracer_DebugAtProductionLevel(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tr := New(zap.New(core).Sugar(), RealmParser)

	tr.Debug(RealmParser).With("file", "a.sgf").Debugw("parsed", "trees", 1)
	tr.Debug(RealmCooker).Debugw("property")
	tr.Log(RealmParser).Debugw("dropped")
	tr.Log(RealmParser).Infow("kept")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "parser", entries[0].LoggerName)
	assert.Equal(t, map[string]any{"file": "a.sgf", "trees": int64(1)}, entries[0].ContextMap())
	assert.Equal(t, "kept", entries[1].Message)
}
