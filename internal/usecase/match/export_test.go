package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gammon_sgf/internal/domain/backgammon"
	match "gammon_sgf/internal/domain/match"
	"gammon_sgf/internal/errors"
	sgfuc "gammon_sgf/internal/usecase/sgf"
)

// roundTrip exports m, writes it out and reconstructs the result.
func roundTrip(t *testing.T, m *match.Match) (*match.Match, string) {
	t.Helper()
	c, err := Export(m)
	require.NoError(t, err)
	text := sgfuc.SerializeSGF(c)
	again, err := reconstruct(t, text, Options{StrictMoves: true})
	require.NoError(t, err, text)
	return again, text
}

func assertSameMatch(t *testing.T, want, got *match.Match) {
	t.Helper()
	assert.Equal(t, want.Length, got.Length)
	assert.Equal(t, want.Crawford, got.Crawford)
	assert.Equal(t, want.Jacoby, got.Jacoby)
	assert.Equal(t, want.Players, got.Players)
	require.Len(t, got.Games, len(want.Games))
	for i, g := range want.Games {
		h := got.Games[i]
		assert.Equal(t, g.Crawford, h.Crawford, "game %d", g.Number)
		assert.Equal(t, g.Initial(), h.Initial(), "game %d", g.Number)
		assert.Equal(t, g.Entries(), h.Entries(), "game %d", g.Number)
		assert.Equal(t, g.Over(), h.Over(), "game %d", g.Number)
		assert.Equal(t, g.Winner(), h.Winner(), "game %d", g.Number)
		assert.Equal(t, g.Points(), h.Points(), "game %d", g.Number)
	}
}

func TestExport_RoundTrip(t *testing.T) {
	in := "(;GM[6]MI[length:3][game:1][ws:0][bs:0]RU[Crawford]PB[alice]PW[bob]" +
		";B[31qtst]LU[0.2]GB[1]DO[]A[0][qtst E ver 3 0 1 0 0 0.55 0.15 0.01 0.1 0.005 0.1 0.12][lnlm E ver 3 0 1 0 0 0.52 0.14 0.01 0.1 0.005 0.05 0.06]" +
		";W[31hefe]UC[1]" +
		";B[double]BC[1]DA[E ver 3 2C 0 0 1 0.6 0.2 0.01 0.1 0.01 0.3 0.4 0.6 0.2 0.01 0.1 0.01 0.3 0.5]" +
		";W[take]DA[X ver 3 Trials 1296 nd 0.5 0.1 0 0 0 0.1 0.1 dt 0.4 0.1 0 0 0 -0.1 -0.2]" +
		";W[resign:1];B[accept])" +
		"(;GM[6];B[resign:1];W[accept])" +
		"(;GM[6]RE[B+2R])"
	m, err := reconstruct(t, in, Options{StrictMoves: true})
	require.NoError(t, err)
	require.Len(t, m.Games, 3)
	require.Empty(t, m.Warnings)

	again, text := roundTrip(t, m)
	assertSameMatch(t, m, again)
	assert.Contains(t, text, "RU[Crawford:CrawfordGame]")
	assert.Contains(t, text, "PB[alice]PW[bob]")
	assert.Contains(t, text, ";B[31qtst]LU[0.2]GB[1]")

	twice, _ := roundTrip(t, again)
	assertSameMatch(t, m, twice)
}

func TestExport_Setup(t *testing.T) {
	m, err := reconstruct(t, "(;GM[6]AB[w]AW[b]PL[B]DI[21]CV[2]CO[w];B[21wz])", Options{})
	require.NoError(t, err)
	g := m.Games[0]
	require.True(t, g.Over())
	assert.Equal(t, match.White, g.Winner())
	assert.Equal(t, 2, g.Points())

	again, text := roundTrip(t, m)
	assertSameMatch(t, m, again)
	assert.Contains(t, text, "\n;AB[w]AW[b]PL[B]DI[21]CV[2]CO[w]\n;B[21wz])")
	assert.Contains(t, text, "RE[B+2]")
}

func TestExport_AllEmpty(t *testing.T) {
	m := match.New(0)
	g := m.StartGame([2]int{}, false)
	p := match.Empty()
	p.Off = [2]int{match.Checkers, match.Checkers}
	require.NoError(t, g.SetInitial(p))

	c, err := Export(m)
	require.NoError(t, err)
	text := sgfuc.SerializeSGF(c)
	assert.Contains(t, text, "AE[a][b][c]")
	assert.Contains(t, text, "[x][y]")
}

func TestExport_PresetDiceLuck(t *testing.T) {
	m, err := reconstruct(t, "(;GM[6]PL[B]DI[31];B[31qtst]LU[0.3]GW[1])", Options{})
	require.NoError(t, err)

	again, text := roundTrip(t, m)
	assert.Contains(t, text, ";B[31qtst]LU[")
	assert.Contains(t, text, "GW[1]")
	assertSameMatch(t, m, again)
}

func TestExport_Errors(t *testing.T) {
	m := match.New(0)
	g := m.StartGame([2]int{}, false)
	require.NoError(t, g.Append(match.White, match.Roll{Dice: [2]int{3, 1}}, nil, time.Time{}))
	_, err := Export(m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roll 31 is not followed by a move")

	m = match.New(0)
	m.StartGame([2]int{}, false)
	g = m.StartGame([2]int{}, false)
	p := g.Initial()
	p.Cube = 2
	require.NoError(t, g.SetInitial(p))
	_, err = Export(m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrSetupNotFirstGame))
}

func TestExport_Flavor(t *testing.T) {
	m, err := reconstruct(t, "(;GM[6])(;GM[6])", Options{})
	require.NoError(t, err)
	c, err := Export(m)
	require.NoError(t, err)
	require.Len(t, c.Trees, 2)
	for _, top := range c.Trees {
		assert.Same(t, backgammon.Flavor(), c.Tree(top).Flavor)
	}
	assert.Equal(t, m.ID.String(), c.Name)
}
