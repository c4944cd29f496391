package repo

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"gammon_sgf/internal/bootstrap"
	"gammon_sgf/internal/errors"
)

// SGFExt is the extension of stored collections.
const SGFExt = ".sgf"

// MatchRepository stores SGF collections as files. Keys are paths on fs.
type MatchRepository struct {
	cfg bootstrap.Config
	log *zap.SugaredLogger
	fs  afero.Fs
}

func NewMatchRepository(cfg bootstrap.Config, log *zap.SugaredLogger, fs afero.Fs) *MatchRepository {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &MatchRepository{
		cfg: cfg,
		log: log,
		fs:  fs,
	}
}

// OpenSGF opens the collection stored under key. The caller closes it.
func (r *MatchRepository) OpenSGF(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.KindIO, errors.ErrCancelled, "%v", err)
	}
	f, err := r.fs.Open(key)
	if err != nil {
		return nil, &errors.Error{Kind: errors.KindIO, Msg: "open failed", File: key, Err: err}
	}
	r.log.Debugw("opened sgf", "key", key)
	return f, nil
}

// SaveSGF writes sgfText under key. The text goes to a temporary file
// first and replaces key only once it is complete.
func (r *MatchRepository) SaveSGF(ctx context.Context, key string, sgfText string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(errors.KindIO, errors.ErrCancelled, "%v", err)
	}
	if dir := filepath.Dir(key); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return &errors.Error{Kind: errors.KindIO, Msg: "create directory failed", File: key, Err: err}
		}
	}

	tmp := key + "." + uuid.NewString() + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, []byte(sgfText), 0o644); err != nil {
		_ = r.fs.Remove(tmp)
		return &errors.Error{Kind: errors.KindIO, Msg: "write failed", File: key, Err: err}
	}
	if err := r.fs.Rename(tmp, key); err != nil {
		_ = r.fs.Remove(tmp)
		return &errors.Error{Kind: errors.KindIO, Msg: "rename failed", File: key, Err: err}
	}
	r.log.Infow("saved sgf", "key", key, "bytes", len(sgfText))
	return nil
}

// ListSGF returns the keys of every collection below dir, sorted.
func (r *MatchRepository) ListSGF(ctx context.Context, dir string) ([]string, error) {
	var keys []string
	err := afero.Walk(r.fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrap(errors.KindIO, errors.ErrCancelled, "%v", err)
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), SGFExt) {
			keys = append(keys, path)
		}
		return nil
	})
	if err != nil {
		if errors.KindOf(err) == errors.KindIO {
			return nil, err
		}
		return nil, &errors.Error{Kind: errors.KindIO, Msg: "list failed", File: dir, Err: err}
	}
	sort.Strings(keys)
	return keys, nil
}

// IsDir reports whether key names a directory.
func (r *MatchRepository) IsDir(key string) (bool, error) {
	ok, err := afero.IsDir(r.fs, key)
	if err != nil && !os.IsNotExist(err) {
		return false, &errors.Error{Kind: errors.KindIO, Msg: "stat failed", File: key, Err: err}
	}
	return ok, nil
}
