package match

import (
	"strconv"

	"gammon_sgf/internal/domain/backgammon"
	match "gammon_sgf/internal/domain/match"
	sgf "gammon_sgf/internal/domain/sgf"
	"gammon_sgf/internal/errors"
)

// Export builds a cooked backgammon collection from m, one tree per game.
// Reconstructing the export yields an equivalent match.
func Export(m *match.Match) (*sgf.Collection, error) {
	c := sgf.NewCollection(m.ID.String())
	for i, g := range m.Games {
		x := &exporter{m: m, g: g, c: c, top: c.AddTree(sgf.NoTree)}
		c.Tree(x.top).Flavor = backgammon.Flavor()
		if err := x.game(i == 0); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type exporter struct {
	m   *match.Match
	g   *match.Game
	c   *sgf.Collection
	top sgf.TreeID
}

func (x *exporter) node(props ...sgf.Property) error {
	id := x.c.AddNode(x.top)
	for _, p := range props {
		if err := x.c.SetProperty(id, p); err != nil {
			return errors.Wrap(errors.KindInvariant, err, "game %d", x.g.Number)
		}
	}
	return nil
}

func (x *exporter) game(first bool) error {
	initial := x.g.Initial()
	if err := x.node(x.root(initial)...); err != nil {
		return err
	}
	if setup := setupProperties(initial); len(setup) > 0 {
		if !first {
			return errors.Wrap(errors.KindSemantics, errors.ErrSetupNotFirstGame, "game %d", x.g.Number)
		}
		if err := x.node(setup...); err != nil {
			return err
		}
	}

	entries := x.g.Entries()
	for i := 0; i < len(entries); i++ {
		e := entries[i]
		id := sgfColor(e.Side).String()
		var props []sgf.Property
		switch a := e.Action.(type) {
		case match.Roll:
			if i+1 >= len(entries) {
				return errors.New(errors.KindSemantics, "game %d: roll %d%d is not followed by a move", x.g.Number, a.Dice[0], a.Dice[1])
			}
			mv, ok := entries[i+1].Action.(match.Move)
			if !ok || entries[i+1].Side != e.Side {
				return errors.New(errors.KindSemantics, "game %d: roll %d%d is not followed by a move", x.g.Number, a.Dice[0], a.Dice[1])
			}
			props = append(props, sgf.Property{ID: id, Value: backgammon.PlayOf(mv.Dice[0], mv.Dice[1], mv.Movements)})
			if l, ok := e.Analysis.(*match.RollLuck); ok {
				props = append(props, luckProperties(l, e.Side)...)
			}
			i++
			props = append(props, analysisProperties(entries[i].Analysis, true)...)
		case match.Move:
			props = append(props, sgf.Property{ID: id, Value: backgammon.PlayOf(a.Dice[0], a.Dice[1], a.Movements)})
			if ma, ok := e.Analysis.(*match.MoveAnalysis); ok && ma.Luck != nil {
				props = append(props, luckProperties(ma.Luck, e.Side)...)
			}
			props = append(props, analysisProperties(e.Analysis, true)...)
		default:
			props = append(props, sgf.Property{ID: id, Value: actionMove(e.Action)})
			props = append(props, analysisProperties(e.Analysis, false)...)
		}
		if err := x.node(props...); err != nil {
			return err
		}
	}
	return nil
}

func actionMove(a match.Action) backgammon.Move {
	switch a := a.(type) {
	case match.Double:
		return backgammon.Move{Action: backgammon.ActionDouble}
	case match.Take:
		return backgammon.Move{Action: backgammon.ActionTake}
	case match.Drop:
		return backgammon.Move{Action: backgammon.ActionDrop}
	case match.Resign:
		return backgammon.Move{Action: backgammon.ActionResign, Points: a.Points}
	case match.Accept:
		return backgammon.Move{Action: backgammon.ActionAccept}
	case match.Reject:
		return backgammon.Move{Action: backgammon.ActionReject}
	}
	return backgammon.Move{Action: backgammon.ActionPass}
}

func (x *exporter) root(initial match.Position) []sgf.Property {
	props := []sgf.Property{
		{ID: "FF", Value: sgf.Number(4)},
		{ID: "GM", Value: sgf.Number(backgammon.Game)},
		{ID: "CA", Value: sgf.SimpleText("UTF-8")},
	}
	info := backgammon.MatchInfo{
		Length:     x.m.Length,
		Game:       x.g.Number,
		BlackScore: initial.Scores[match.White.Index()],
		WhiteScore: initial.Scores[match.Black.Index()],
	}
	props = append(props, sgf.Property{ID: "MI", Value: info.Encode()})
	if name := x.m.Player(match.White); name != "" {
		props = append(props, sgf.Property{ID: "PB", Value: sgf.SimpleText(name)})
	}
	if name := x.m.Player(match.Black); name != "" {
		props = append(props, sgf.Property{ID: "PW", Value: sgf.SimpleText(name)})
	}
	rules := backgammon.Rules{Crawford: x.m.Crawford, CrawfordGame: x.g.Crawford, Jacoby: x.m.Jacoby}
	if s := rules.String(); s != "" {
		props = append(props, sgf.Property{ID: "RU", Value: sgf.SimpleText(s)})
	}
	if x.g.Over() {
		res := backgammon.Result{
			Outcome: backgammon.OutcomeWin,
			Winner:  sgfColor(x.g.Winner()),
			Score:   x.g.Points(),
		}
		if entries := x.g.Entries(); len(entries) > 0 {
			if _, ok := entries[len(entries)-1].Action.(match.Accept); ok {
				res.Cause = backgammon.CauseResignation
			}
		}
		props = append(props, sgf.Property{ID: "RE", Value: res})
	}
	return props
}

// setupProperties describes how initial differs from the opening
// position.
func setupProperties(initial match.Position) []sgf.Property {
	opening := match.Initial()
	var props []sgf.Property
	if !initial.SameBoard(&opening) {
		for _, side := range []match.Side{match.White, match.Black} {
			var stones []sgf.Value
			for pt := 24; pt >= 1; pt-- {
				for k := initial.Count(side, pt); k > 0; k-- {
					stones = append(stones, backgammon.Stone(backgammon.LetterOf(pt)))
				}
			}
			for k := initial.Bar[side.Index()]; k > 0; k-- {
				stones = append(stones, backgammon.Stone(backgammon.LetterBar))
			}
			if len(stones) == 0 {
				continue
			}
			id := "A" + sgfColor(side).String()
			props = append(props, sgf.Property{ID: id, Value: sgf.List{Items: stones}})
		}
		if len(props) == 0 {
			props = append(props, sgf.Property{ID: "AE", Value: sgf.List{Items: allPoints()}})
		}
	}
	if initial.Turn != match.NoSide {
		props = append(props, sgf.Property{ID: "PL", Value: sgfColor(initial.Turn)})
	}
	if initial.Dice != [2]int{} {
		props = append(props, sgf.Property{ID: "DI", Value: sgf.Number(10*initial.Dice[0] + initial.Dice[1])})
	}
	if initial.Cube != 1 {
		props = append(props, sgf.Property{ID: "CV", Value: sgf.Number(initial.Cube)})
	}
	if initial.CubeOwner != match.NoSide {
		owner := backgammon.OwnerBlack
		if sgfColor(initial.CubeOwner) == sgf.White {
			owner = backgammon.OwnerWhite
		}
		props = append(props, sgf.Property{ID: "CO", Value: sgf.SimpleText(owner.String())})
	}
	return props
}

func allPoints() []sgf.Value {
	out := make([]sgf.Value, 0, backgammon.LetterBar+1)
	for i := 0; i <= backgammon.LetterBar; i++ {
		out = append(out, backgammon.Point(i))
	}
	return out
}

// analysisProperties renders a cube or checker analysis.
func analysisProperties(an match.Analysis, checker bool) []sgf.Property {
	ma, ok := an.(*match.MoveAnalysis)
	if !ok {
		return nil
	}
	var props []sgf.Property
	if ma.Cube != nil {
		props = append(props, sgf.Property{ID: "DA", Value: sgf.SimpleText(FormatEval(*ma.Cube))})
	}
	props = append(props, gradeProperties(ma.CubeGrade, "DC", "BC")...)
	if !checker {
		return props
	}
	if len(ma.Variants) > 0 {
		items := []sgf.Value{sgf.SimpleText(strconv.Itoa(ma.Played))}
		for _, v := range ma.Variants {
			items = append(items, sgf.SimpleText(formatVariant(v)))
		}
		props = append(props, sgf.Property{ID: "A", Value: sgf.List{Items: items}})
	}
	return append(props, gradeProperties(ma.MoveGrade, "DO", "BM")...)
}
