package repo

import (
	"context"
	"io"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gammon_sgf/internal/bootstrap"
	"gammon_sgf/internal/errors"
)

func newRepo(t *testing.T) (*MatchRepository, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	return NewMatchRepository(bootstrap.Config{}, nil, fs), fs
}

func TestMatchRepository_SaveOpen(t *testing.T) {
	r, fs := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SaveSGF(ctx, "matches/a.sgf", "(;GM[6])\n"))
	require.NoError(t, r.SaveSGF(ctx, "matches/a.sgf", "(;GM[6]FF[4])\n"))

	f, err := r.OpenSGF(ctx, "matches/a.sgf")
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "(;GM[6]FF[4])\n", string(data))

	// no temporary file is left behind
	entries, err := afero.ReadDir(fs, "matches")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestMatchRepository_OpenMissing(t *testing.T) {
	r, _ := newRepo(t)
	_, err := r.OpenSGF(context.Background(), "nope.sgf")
	require.Error(t, err)
	assert.Equal(t, errors.KindIO, errors.KindOf(err))
	assert.Contains(t, err.Error(), "nope.sgf")
}

func TestMatchRepository_Cancelled(t *testing.T) {
	r, fs := newRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.SaveSGF(ctx, "a.sgf", "(;GM[6])")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCancelled))
	exists, _ := afero.Exists(fs, "a.sgf")
	assert.False(t, exists)

	_, err = r.OpenSGF(ctx, "a.sgf")
	assert.True(t, errors.Is(err, errors.ErrCancelled))
}

func TestMatchRepository_List(t *testing.T) {
	r, fs := newRepo(t)
	ctx := context.Background()
	for _, name := range []string{"lib/b.sgf", "lib/a.SGF", "lib/sub/c.sgf", "lib/notes.txt"} {
		require.NoError(t, afero.WriteFile(fs, name, []byte("x"), 0o644))
	}

	keys, err := r.ListSGF(ctx, "lib")
	require.NoError(t, err)
	assert.Equal(t, []string{"lib/a.SGF", "lib/b.sgf", "lib/sub/c.sgf"}, keys)

	dir, err := r.IsDir("lib")
	require.NoError(t, err)
	assert.True(t, dir)
	dir, err = r.IsDir("lib/b.sgf")
	require.NoError(t, err)
	assert.False(t, dir)
	dir, err = r.IsDir("missing")
	require.NoError(t, err)
	assert.False(t, dir)

	_, err = r.ListSGF(ctx, "missing")
	require.Error(t, err)
	assert.Equal(t, errors.KindIO, errors.KindOf(err))
}
