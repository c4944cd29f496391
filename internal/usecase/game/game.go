package game

import (
	"context"
	"io"

	"go.uber.org/zap"

	"gammon_sgf/internal/bootstrap"
	"gammon_sgf/internal/domain/backgammon"
	match "gammon_sgf/internal/domain/match"
	sgf "gammon_sgf/internal/domain/sgf"
	"gammon_sgf/internal/trace"
	matchuc "gammon_sgf/internal/usecase/match"
	sgfuc "gammon_sgf/internal/usecase/sgf"
)

type MatchStore interface {
	OpenSGF(ctx context.Context, key string) (io.ReadCloser, error)
	SaveSGF(ctx context.Context, key string, sgfText string) error
}

// GameUseCase ties the parser, the cooker and the reconstructor to a
// store of SGF files.
type GameUseCase struct {
	store         MatchStore
	log           *zap.SugaredLogger
	parser        *sgfuc.Parser
	cooker        *sgfuc.Cooker
	reconstructor *matchuc.Reconstructor
}

func NewGameUseCase(store MatchStore, cfg bootstrap.Config, log *zap.SugaredLogger) (*GameUseCase, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	realm, err := trace.ParseRealm(cfg.TraceRealm)
	if err != nil {
		return nil, err
	}
	tracer := trace.New(log, realm)
	opts := matchuc.Options{
		StrictCubeOwner: cfg.StrictCubeOwner,
		StrictMoves:     cfg.StrictMoves,
	}
	return &GameUseCase{
		store:         store,
		log:           log,
		parser:        sgfuc.NewParser(tracer, cfg.ReadChunkSize),
		cooker:        sgfuc.NewCooker(backgammon.Registry(), tracer),
		reconstructor: matchuc.NewReconstructor(opts, tracer),
	}, nil
}

// Parse builds the raw tree of data.
func (g *GameUseCase) Parse(name string, data []byte) (*sgf.Collection, error) {
	return g.parser.Parse(name, data)
}

// Cook types every property of raw, picking the flavor of each tree from
// its GM property.
func (g *GameUseCase) Cook(raw *sgf.Collection) (*sgf.Collection, error) {
	return g.cooker.Cook(raw, nil)
}

func (g *GameUseCase) Write(w io.Writer, c *sgf.Collection) (int64, error) {
	return sgfuc.Write(w, c)
}

func (g *GameUseCase) ReconstructMatch(c *sgf.Collection) (*match.Match, error) {
	return g.reconstructor.Reconstruct(c)
}

// ReadMatch parses, cooks and reconstructs the collection read from r.
func (g *GameUseCase) ReadMatch(ctx context.Context, name string, r io.Reader) (*match.Match, *sgf.Collection, error) {
	raw, err := g.parser.ParseReader(ctx, name, r)
	if err != nil {
		return nil, nil, err
	}
	cooked, err := g.Cook(raw)
	if err != nil {
		return nil, nil, err
	}
	m, err := g.ReconstructMatch(cooked)
	if err != nil {
		return nil, cooked, err
	}
	g.log.Debugw("read match", "file", name, "games", len(m.Games), "warnings", len(m.Warnings))
	return m, cooked, nil
}

// LoadMatch reads the match stored under key.
func (g *GameUseCase) LoadMatch(ctx context.Context, key string) (*match.Match, error) {
	f, err := g.store.OpenSGF(ctx, key)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, _, err := g.ReadMatch(ctx, key, f)
	return m, err
}

// SaveMatch exports m and stores it under key.
func (g *GameUseCase) SaveMatch(ctx context.Context, key string, m *match.Match) error {
	c, err := matchuc.Export(m)
	if err != nil {
		return err
	}
	return g.store.SaveSGF(ctx, key, sgfuc.SerializeSGF(c))
}
