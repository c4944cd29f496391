package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"gammon_sgf/internal/bootstrap"
	match "gammon_sgf/internal/domain/match"
	repo "gammon_sgf/internal/repository"
	"gammon_sgf/internal/usecase/game"
)

type options struct {
	write    string
	moves    bool
	variants bool
	json     bool
}

func main() {
	flags := pflag.NewFlagSet("sgfmatch", pflag.ExitOnError)
	cfgPath := flags.String("config", "", "optional config file")
	var opts options
	flags.StringVar(&opts.write, "write", "", "write the reconstructed match to this file")
	flags.BoolVar(&opts.moves, "moves", false, "list the actions of every game")
	flags.BoolVar(&opts.variants, "variants", false, "list the analysed variants of every play")
	flags.BoolVar(&opts.json, "json", false, "print a JSON report instead of the summary")
	bootstrap.RegisterFlags(flags)
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: sgfmatch [flags] file.sgf|dir|-\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])
	if flags.NArg() != 1 {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := bootstrap.Setup(*cfgPath, flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup configuration: %v\n", err)
		os.Exit(2)
	}
	logger := NewLogger(cfg.LogDevelopment)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := repo.NewMatchRepository(*cfg, logger, afero.NewOsFs())
	uc, err := game.NewGameUseCase(store, *cfg, logger)
	if err != nil {
		logger.Errorw("Failed to initialize", "error", err)
		os.Exit(2)
	}

	if err := run(ctx, uc, store, flags.Arg(0), opts, os.Stdin, os.Stdout); err != nil {
		logger.Errorw("Failed", "error", err)
		os.Exit(1)
	}
}

func NewLogger(development bool) *zap.SugaredLogger {
	build := zap.NewProduction
	if development {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

// run reads the match at arg ("-" for stdin, a directory for every SGF
// file below it) and prints a summary of each.
func run(ctx context.Context, uc *game.GameUseCase, store *repo.MatchRepository, arg string, opts options, stdin io.Reader, w io.Writer) error {
	if arg == "-" {
		m, _, err := uc.ReadMatch(ctx, "<stdin>", stdin)
		if err != nil {
			return err
		}
		return report(ctx, uc, w, "<stdin>", m, opts)
	}

	dir, err := store.IsDir(arg)
	if err != nil {
		return err
	}
	if !dir {
		m, err := uc.LoadMatch(ctx, arg)
		if err != nil {
			return err
		}
		return report(ctx, uc, w, arg, m, opts)
	}

	if opts.write != "" {
		return fmt.Errorf("--write needs a single file, %s is a directory", arg)
	}
	keys, err := store.ListSGF(ctx, arg)
	if err != nil {
		return err
	}
	failed := 0
	for _, key := range keys {
		m, err := uc.LoadMatch(ctx, key)
		if err != nil {
			failed++
			fmt.Fprintf(w, "%s: %v\n", key, err)
			continue
		}
		if err := report(ctx, uc, w, key, m, opts); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(keys))
	}
	return nil
}

func report(ctx context.Context, uc *game.GameUseCase, w io.Writer, name string, m *match.Match, opts options) error {
	show := printMatch
	if opts.json {
		show = func(w io.Writer, name string, m *match.Match, _ options) error {
			return writeReport(w, name, m)
		}
	}
	if err := show(w, name, m, opts); err != nil {
		return err
	}
	if opts.write != "" {
		return uc.SaveMatch(ctx, opts.write, m)
	}
	return nil
}

func playerName(m *match.Match, s match.Side) string {
	if name := m.Player(s); name != "" {
		return name
	}
	return s.String()
}

func printMatch(w io.Writer, name string, m *match.Match, opts options) error {
	length := "money"
	if m.Length > 0 {
		length = fmt.Sprintf("%d points", m.Length)
	}
	fmt.Fprintf(w, "%s: %s (white) vs %s (black), %s\n",
		name, playerName(m, match.White), playerName(m, match.Black), length)

	for _, g := range m.Games {
		start := g.Initial().Scores
		fmt.Fprintf(w, "game %d: %d-%d", g.Number, start[0], start[1])
		if g.Crawford {
			fmt.Fprint(w, " crawford")
		}
		if g.Over() {
			fmt.Fprintf(w, ", %s wins %d", playerName(m, g.Winner()), g.Points())
		} else {
			fmt.Fprintf(w, ", unfinished after %d actions", g.Len())
		}
		fmt.Fprintln(w)

		if opts.moves {
			lines, err := game.ListGame(m, g.Number)
			if err != nil {
				return err
			}
			for _, l := range lines {
				fmt.Fprintf(w, "  %s\n", l)
			}
		}
		if opts.variants {
			printVariants(w, g)
		}
	}

	s := m.Scores()
	fmt.Fprintf(w, "score: %d-%d", s[0], s[1])
	if m.Over() {
		fmt.Fprint(w, ", match over")
	}
	fmt.Fprintln(w)
	if len(m.Warnings) > 0 {
		fmt.Fprintf(w, "warnings: %d\n", len(m.Warnings))
		for _, err := range m.Warnings {
			fmt.Fprintf(w, "  %v\n", err)
		}
	}
	return nil
}

func printVariants(w io.Writer, g *match.Game) {
	for i := range g.Entries() {
		header := false
		for v := range g.Variants(i) {
			if !header {
				fmt.Fprintf(w, "  action %d:\n", i+1)
				header = true
			}
			mark := " "
			if v.Played {
				mark = "*"
			}
			fmt.Fprintf(w, "   %s%d. %-24s %-14s %+.3f\n", mark, v.Index+1, v.Move, v.Kind, v.Equity)
		}
	}
}
