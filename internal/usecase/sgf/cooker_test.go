package sgf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"gammon_sgf/internal/domain/backgammon"
	sgf "gammon_sgf/internal/domain/sgf"
	"gammon_sgf/internal/errors"
	"gammon_sgf/internal/trace"
)

func cook(t *testing.T, in string) (*sgf.Collection, error) {
	t.Helper()
	raw, err := Parse("t.sgf", []byte(in))
	require.NoError(t, err)
	return NewCooker(backgammon.Registry(), nil).Cook(raw, nil)
}

func rootOf(c *sgf.Collection) *sgf.Node {
	n, _ := c.RootNode(c.Trees[0])
	return n
}

func TestCook_Generic(t *testing.T) {
	c, err := cook(t, `(;FF[4]GM[1]SZ[19]C[hi\]there]DD[];B[aa])`)
	require.NoError(t, err)
	assert.Equal(t, sgf.Generic(), c.Tree(c.Trees[0]).Flavor)

	root := rootOf(c)
	v, _ := root.Get("SZ")
	assert.Equal(t, sgf.Number(19), v)
	v, _ = root.Get("C")
	assert.Equal(t, sgf.Text("hi]there"), v)
	v, _ = root.Get("DD")
	assert.Equal(t, sgf.List{EList: true}, v)

	v, _ = c.Node(c.Tree(c.Trees[0]).Nodes[1]).Get("B")
	assert.Equal(t, sgf.GenericMove("aa"), v)
}

func TestCook_Backgammon(t *testing.T) {
	c, err := cook(t, "(;GM[6]MI[length:5][game:1];B[31qtst];W[double])")
	require.NoError(t, err)
	assert.Equal(t, backgammon.Flavor(), c.Tree(c.Trees[0]).Flavor)

	want, err := backgammon.ParseMove("31qtst")
	require.NoError(t, err)
	v, _ := c.Node(c.Tree(c.Trees[0]).Nodes[1]).Get("B")
	assert.Equal(t, want, v)

	mi, _ := rootOf(c).Get("MI")
	info, err := backgammon.DecodeMatchInfo(mi)
	require.NoError(t, err)
	assert.Equal(t, 5, info.Length)
	assert.Equal(t, 1, info.Game)
}

func TestCook_ExplicitFlavor(t *testing.T) {
	raw, err := Parse("t.sgf", []byte("(;GM[6];B[31qtst])"))
	require.NoError(t, err)
	c, err := NewCooker(backgammon.Registry(), nil).Cook(raw, sgf.Generic())
	require.NoError(t, err)

	v, _ := c.Node(c.Tree(c.Trees[0]).Nodes[1]).Get("B")
	assert.Equal(t, sgf.GenericMove("31qtst"), v)
}

func TestCook_LeavesInputRaw(t *testing.T) {
	raw, err := Parse("t.sgf", []byte("(;GM[6];B[31qtst])"))
	require.NoError(t, err)
	_, err = NewCooker(backgammon.Registry(), nil).Cook(raw, nil)
	require.NoError(t, err)

	v, _ := raw.Node(raw.Tree(raw.Trees[0]).Nodes[1]).Get("B")
	assert.Equal(t, sgf.Raw{"31qtst"}, v)
}

func TestCook_Recook(t *testing.T) {
	c, err := cook(t, `(;GM[6]C[a\]b]MI[length:3];B[31qtst];W[resign:2])`)
	require.NoError(t, err)
	again, err := NewCooker(backgammon.Registry(), nil).Cook(c, nil)
	require.NoError(t, err)
	assert.Equal(t, SerializeSGF(c), SerializeSGF(again))
}

func TestCook_InvalidValue(t *testing.T) {
	_, err := cook(t, "(;GM[1]SZ[abc])")
	require.Error(t, err)

	var e *errors.Error
	require.True(t, errors.As(err, &e))
	assert.Equal(t, errors.KindSemantics, e.Kind)
	assert.Equal(t, "SZ", e.Property)
	assert.Equal(t, 1, e.Line)
	assert.Equal(t, 8, e.Column)
	assert.Contains(t, e.Error(), "invalid value [abc]")
}

func TestCook_Exclusions(t *testing.T) {
	_, err := cook(t, "(;GM[1];B[aa]W[bb])")
	require.Error(t, err)
	assert.Equal(t, errors.KindSemantics, errors.KindOf(err))
	assert.Contains(t, err.Error(), "properties B and W are mutually exclusive")

	_, err = cook(t, "(;GM[6];BC[1]DC[])")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "properties BC and DC are mutually exclusive")
}

func TestCook_Charsets(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		wantC  sgf.Text
		wantCA sgf.Value
	}{
		{"declared latin-1", "(;GM[1]CA[ISO-8859-1]C[caf\xe9])", "café", sgf.SimpleText("UTF-8")},
		{"detected latin-1", "(;GM[1]C[caf\xe9])", "café", nil},
		{"utf-8", "(;GM[1]CA[UTF-8]C[café])", "café", sgf.SimpleText("UTF-8")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := cook(t, tt.in)
			require.NoError(t, err)
			v, _ := rootOf(c).Get("C")
			assert.Equal(t, tt.wantC, v)
			ca, _ := rootOf(c).Get("CA")
			assert.Equal(t, tt.wantCA, ca)
		})
	}
}

func observed() (*trace.Tracer, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.WarnLevel)
	return trace.New(zap.New(core).Sugar(), ""), logs
}

func TestCook_UnknownPropertyKeptRaw(t *testing.T) {
	tr, logs := observed()
	raw, err := Parse("t.sgf", []byte("(;GM[1]XX[1][2])"))
	require.NoError(t, err)
	c, err := NewCooker(backgammon.Registry(), tr).Cook(raw, nil)
	require.NoError(t, err)

	v, _ := rootOf(c).Get("XX")
	assert.Equal(t, sgf.Raw{"1", "2"}, v)

	warned := logs.FilterMessage("unknown property kept raw").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "XX", warned[0].ContextMap()["id"])
	assert.Equal(t, "cooker", warned[0].LoggerName)
}

func TestCook_UnknownGameAndCharset(t *testing.T) {
	tr, logs := observed()
	raw, err := Parse("t.sgf", []byte("(;GM[99]CA[klingon]C[x])"))
	require.NoError(t, err)
	c, err := NewCooker(backgammon.Registry(), tr).Cook(raw, nil)
	require.NoError(t, err)

	assert.Equal(t, sgf.Generic(), c.Tree(c.Trees[0]).Flavor)
	assert.Equal(t, 1, logs.FilterMessage("no flavor for game, using generic").Len())
	assert.Equal(t, 1, logs.FilterMessage("unknown charset, reading as UTF-8").Len())
	ca, _ := rootOf(c).Get("CA")
	assert.Equal(t, sgf.SimpleText("klingon"), ca)
}
