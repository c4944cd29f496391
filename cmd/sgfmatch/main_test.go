package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gammon_sgf/internal/bootstrap"
	repo "gammon_sgf/internal/repository"
	"gammon_sgf/internal/usecase/game"
	"gammon_sgf/internal/utils"
)

const crawfordMatch = "(;GM[6]MI[length:3][game:1][ws:0][bs:0]RU[Crawford]PB[alice]PW[bob]" +
	";B[31qtst];W[double];B[take];W[resign:1];B[accept])" +
	"(;GM[6];B[resign:1];W[accept])"

func setup(t *testing.T) (*game.GameUseCase, *repo.MatchRepository, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := repo.NewMatchRepository(bootstrap.Config{}, nil, fs)
	uc, err := game.NewGameUseCase(store, bootstrap.Config{}, nil)
	require.NoError(t, err)
	return uc, store, fs
}

func TestRun_File(t *testing.T) {
	uc, store, fs := setup(t)
	require.NoError(t, afero.WriteFile(fs, "m.sgf", []byte(crawfordMatch), 0o644))

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), uc, store, "m.sgf", options{moves: true}, nil, &out))
	assert.Equal(t, "m.sgf: alice (white) vs bob (black), 3 points\n"+
		"game 1: 0-0, alice wins 2\n"+
		"  2 white 31: 8/5 6/5\n"+
		"  3 black double\n"+
		"  4 white take\n"+
		"  5 black resign 1\n"+
		"  6 white accept\n"+
		"  white wins 2\n"+
		"game 2: 2-0 crawford, bob wins 1\n"+
		"  1 white resign 1\n"+
		"  2 black accept\n"+
		"  black wins 1\n"+
		"score: 2-1\n", out.String())
}

func TestRun_StdinWrite(t *testing.T) {
	uc, store, fs := setup(t)

	var out bytes.Buffer
	err := run(context.Background(), uc, store, "-", options{write: "copy.sgf"}, strings.NewReader(crawfordMatch), &out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "<stdin>: alice (white)"))

	written, err := afero.ReadFile(fs, "copy.sgf")
	require.NoError(t, err)
	assert.Contains(t, string(written), "RU[Crawford:CrawfordGame]")

	out.Reset()
	require.NoError(t, run(context.Background(), uc, store, "copy.sgf", options{}, nil, &out))
	assert.Contains(t, out.String(), "score: 2-1\n")
}

func TestRun_Directory(t *testing.T) {
	uc, store, fs := setup(t)
	require.NoError(t, afero.WriteFile(fs, "lib/a.sgf", []byte(crawfordMatch), 0o644))
	require.NoError(t, afero.WriteFile(fs, "lib/b.sgf", []byte("(;GM[6]"), 0o644))

	var out bytes.Buffer
	err := run(context.Background(), uc, store, "lib", options{}, nil, &out)
	require.Error(t, err)
	assert.Equal(t, "1 of 2 files failed", err.Error())
	assert.Contains(t, out.String(), "lib/a.sgf: alice (white)")
	assert.Contains(t, out.String(), "lib/b.sgf: lib/b.sgf:1:8: syntax error")

	err = run(context.Background(), uc, store, "lib", options{write: "x.sgf"}, nil, &out)
	require.Error(t, err)
}

func TestPrintMatch_Variants(t *testing.T) {
	uc, _, _ := setup(t)
	in := "(;GM[6];B[31qtst]A[0][qtst E ver 3 0 1 0 0 0.55 0.15 0.01 0.1 0.005 0.1 0.12][lnlm E ver 3 0 1 0 0 0.52 0.14 0.01 0.1 0.005 0.05 0.06])"
	m, _, err := uc.ReadMatch(context.Background(), "v.sgf", strings.NewReader(in))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, printMatch(&out, "v.sgf", m, options{variants: true}))
	assert.Contains(t, out.String(), "  action 2:\n")
	assert.Contains(t, out.String(), "   *1. 8/5 6/5 ")
	assert.Contains(t, out.String(), "    2. 13/12 13/11 ")
	assert.Contains(t, out.String(), "+0.100\n")
	assert.Contains(t, out.String(), "game 1: 0-0, unfinished after 2 actions\n")
}

func TestRun_JSON(t *testing.T) {
	uc, store, _ := setup(t)

	var out bytes.Buffer
	err := run(context.Background(), uc, store, "-", options{json: true}, strings.NewReader(crawfordMatch), &out)
	require.NoError(t, err)

	var r matchReport
	require.NoError(t, utils.DecodeJSON(&out, &r))
	assert.Equal(t, "<stdin>", r.Name)
	assert.Equal(t, [2]string{"alice", "bob"}, r.Players)
	assert.Equal(t, [2]int{2, 1}, r.Scores)
	assert.False(t, r.Over)
	require.Len(t, r.Games, 2)
	assert.True(t, r.Games[1].Crawford)
	assert.Equal(t, "black", r.Games[1].Winner)
	assert.Equal(t, [2]int{2, 0}, r.Games[1].Initial.Scores)
	assert.Equal(t, "2 white 31: 8/5 6/5", r.Games[0].Actions[0])
	assert.Empty(t, r.Warnings)
}
