package match

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"gammon_sgf/internal/domain/backgammon"
	match "gammon_sgf/internal/domain/match"
	sgf "gammon_sgf/internal/domain/sgf"
	"gammon_sgf/internal/errors"
	"gammon_sgf/internal/trace"
)

type Options struct {
	// StrictCubeOwner reads CP as the copyright only, never as cube owner.
	StrictCubeOwner bool
	// StrictMoves fails on plays that break the dice rules.
	StrictMoves bool
}

// Reconstructor replays cooked backgammon trees into a Match.
type Reconstructor struct {
	opts   Options
	tracer *trace.Tracer
}

func NewReconstructor(opts Options, tracer *trace.Tracer) *Reconstructor {
	return &Reconstructor{opts: opts, tracer: tracer}
}

// Reconstruct builds one match from every backgammon tree of c, one game
// per tree. Trees of other flavors are skipped. Only the main line of each
// tree is replayed.
func (r *Reconstructor) Reconstruct(c *sgf.Collection) (*match.Match, error) {
	run := &replay{
		r:    r,
		c:    c,
		log:  r.tracer.Debug(trace.RealmMatch),
		warn: r.tracer.Log(trace.RealmMatch),
	}
	for _, top := range c.Trees {
		f := c.Tree(top).Flavor
		if f == nil || f.Game != backgammon.Game {
			run.log.Debugw("skipping tree", "tree", top)
			continue
		}
		if err := run.tree(top); err != nil {
			return nil, err
		}
	}
	if run.m == nil {
		return nil, &errors.Error{
			Kind: errors.KindSemantics,
			Msg:  "no backgammon game tree",
			File: c.Name,
			Err:  errors.ErrNoGame,
		}
	}
	run.m.Warnings = multierr.Errors(run.warnings)
	return run.m, nil
}

type replay struct {
	r        *Reconstructor
	c        *sgf.Collection
	m        *match.Match
	g        *match.Game
	warnings error
	log      *zap.SugaredLogger
	warn     *zap.SugaredLogger
}

// warnf records a non-fatal issue in the match warnings.
func (p *replay) warnf(at *sgf.Property, cause error, format string, args ...any) {
	err := p.errorAt(at, errors.KindSemantics, cause, format, args...)
	p.warn.Warnw(err.Error(), "game", p.g.Number)
	p.warnings = multierr.Append(p.warnings, err)
}

func (p *replay) errorAt(at *sgf.Property, kind errors.Kind, cause error, format string, args ...any) *errors.Error {
	e := &errors.Error{Kind: kind, Msg: fmt.Sprintf(format, args...), File: p.c.Name, Err: cause}
	if at != nil {
		e.Property = at.ID
		e.Offset, e.Line, e.Column = at.Pos.Offset, at.Pos.Line, at.Pos.Column
	}
	return e
}

// tree replays one top-level tree as the next game of the match.
func (p *replay) tree(top sgf.TreeID) error {
	root, ok := p.c.RootNode(top)
	if !ok {
		return nil
	}

	var info backgammon.MatchInfo
	hasInfo := false
	if mi, ok := root.Property("MI"); ok {
		decoded, err := backgammon.DecodeMatchInfo(mi.Value)
		if err != nil {
			return p.errorAt(mi, errors.KindSemantics, err, "invalid match info")
		}
		info, hasInfo = decoded, true
	}
	var rules backgammon.Rules
	if v, ok := root.Get("RU"); ok {
		rules = backgammon.ParseRules(textOf(v))
	}

	if p.m == nil {
		p.m = match.New(info.Length)
		p.m.Crawford = rules.Crawford
		p.m.Jacoby = rules.Jacoby
	}
	if v, ok := root.Get("PB"); ok {
		p.m.Players[match.White.Index()] = textOf(v)
	}
	if v, ok := root.Get("PW"); ok {
		p.m.Players[match.Black.Index()] = textOf(v)
	}

	scores := p.m.Scores()
	if hasInfo {
		scores[match.White.Index()] = info.BlackScore
		scores[match.Black.Index()] = info.WhiteScore
	}
	p.g = p.m.StartGame(scores, rules.CrawfordGame)
	p.log.Debugw("game", "number", p.g.Number, "scores", scores, "crawford", p.g.Crawford)

	variations, err := p.hasVariations(top)
	if err != nil {
		return err
	}
	if variations {
		p.warnf(nil, nil, "game %d: variations ignored, replaying the main line", p.g.Number)
	}
	for _, id := range p.c.MainLine(top) {
		if err := p.node(p.c.Node(id)); err != nil {
			return err
		}
	}
	return p.close(root)
}

var errVariation = fmt.Errorf("variation")

func (p *replay) hasVariations(top sgf.TreeID) (bool, error) {
	err := p.c.Walk(top, func(id sgf.NodeID) error {
		if len(p.c.Tree(p.c.Node(id).Tree).Children) > 1 {
			return errVariation
		}
		return nil
	})
	if errors.Is(err, errVariation) {
		return true, nil
	}
	return false, err
}

var setupIDs = []string{"AE", "AB", "AW", "PL", "DI", "CV", "CO", "CP"}

func (p *replay) node(n *sgf.Node) error {
	if err := p.setup(n); err != nil {
		return err
	}
	for _, id := range []string{"B", "W"} {
		if prop, ok := n.Property(id); ok {
			return p.move(n, prop, sideOf(sgf.Color(id[0])))
		}
	}
	return nil
}

// isSetup reports whether prop takes part in the setup. CP doubles as the
// copyright; it names the cube owner only when it reads as one.
func (p *replay) isSetup(prop *sgf.Property) bool {
	if prop.ID != "CP" {
		return true
	}
	if p.r.opts.StrictCubeOwner {
		return false
	}
	_, err := backgammon.ParseOwner(textOf(prop.Value))
	return err == nil
}

// setup applies the setup properties of n to the initial position.
func (p *replay) setup(n *sgf.Node) error {
	var first *sgf.Property
	for _, id := range setupIDs {
		if prop, ok := n.Property(id); ok && p.isSetup(prop) {
			first = prop
			break
		}
	}
	if first == nil {
		return nil
	}
	if len(p.m.Games) > 1 {
		return p.errorAt(first, errors.KindSemantics, errors.ErrSetupNotFirstGame, "game %d", p.g.Number)
	}
	if p.g.Len() > 0 {
		return p.errorAt(first, errors.KindSemantics, errors.ErrSetupAfterAction, "")
	}

	pos := p.g.Initial()
	if err := p.board(n, &pos); err != nil {
		return err
	}
	if prop, ok := n.Property("PL"); ok {
		if c, ok := prop.Value.(sgf.Color); ok {
			pos.Turn = sideOf(c)
		}
	}
	if prop, ok := n.Property("DI"); ok {
		num, _ := prop.Value.(sgf.Number)
		d1, d2, err := backgammon.DecodeDice(int(num))
		if err != nil {
			return p.errorAt(prop, errors.KindSemantics, err, "")
		}
		pos.Dice = [2]int{d1, d2}
	}
	if prop, ok := n.Property("CV"); ok {
		num, _ := prop.Value.(sgf.Number)
		if !backgammon.ValidCube(int(num)) {
			return p.errorAt(prop, errors.KindSemantics, nil, "invalid cube value %d", num)
		}
		pos.Cube = int(num)
	}
	for _, id := range []string{"CO", "CP"} {
		prop, ok := n.Property(id)
		if !ok || !p.isSetup(prop) {
			continue
		}
		owner, err := backgammon.ParseOwner(textOf(prop.Value))
		if err != nil {
			return p.errorAt(prop, errors.KindSemantics, err, "")
		}
		pos.CubeOwner = ownerSide(owner)
		if pos.CubeOwner != match.NoSide && !pos.Crawford {
			pos.MayDouble[pos.CubeOwner.Index()] = true
			pos.MayDouble[pos.CubeOwner.Opponent().Index()] = false
		}
		break
	}

	if err := p.g.SetInitial(pos); err != nil {
		return p.errorAt(first, errors.KindSemantics, err, "")
	}
	p.log.Debugw("setup", "game", p.g.Number, "turn", pos.Turn, "dice", pos.Dice, "cube", pos.Cube)
	return nil
}

func ownerSide(o backgammon.Owner) match.Side {
	switch o {
	case backgammon.OwnerBlack:
		return match.White
	case backgammon.OwnerWhite:
		return match.Black
	}
	return match.NoSide
}

// board applies AE, AB and AW. With AB or AW present the board starts
// empty; missing checkers are then borne off.
func (p *replay) board(n *sgf.Node, pos *match.Position) error {
	ae, hasAE := n.Property("AE")
	ab, hasAB := n.Property("AB")
	aw, hasAW := n.Property("AW")
	if !hasAE && !hasAB && !hasAW {
		return nil
	}
	if hasAB || hasAW {
		pos.Points = [24]int{}
		pos.Bar = [2]int{}
		pos.Off = [2]int{}
	}
	if hasAE {
		for _, v := range listItems(ae.Value) {
			pt, ok := v.(backgammon.Point)
			if !ok {
				continue
			}
			switch int(pt) {
			case backgammon.LetterBar:
				pos.Bar = [2]int{}
			case backgammon.LetterOff:
			default:
				pos.Points[pt.Board()-1] = 0
			}
		}
	}
	add := func(prop *sgf.Property, side match.Side) error {
		for _, v := range listItems(prop.Value) {
			s, ok := v.(backgammon.Stone)
			if !ok {
				continue
			}
			switch int(s) {
			case backgammon.LetterBar:
				pos.Bar[side.Index()]++
			case backgammon.LetterOff:
				pos.Off[side.Index()]++
			default:
				i := s.Board() - 1
				if pos.Points[i]*int(side) < 0 {
					return p.errorAt(prop, errors.KindSemantics, nil, "point %d holds checkers of both sides", i+1)
				}
				pos.Points[i] += int(side)
			}
		}
		return nil
	}
	if hasAB {
		if err := add(ab, match.White); err != nil {
			return err
		}
	}
	if hasAW {
		if err := add(aw, match.Black); err != nil {
			return err
		}
	}

	for _, side := range []match.Side{match.White, match.Black} {
		k := pos.Checkers(side)
		if k > match.Checkers {
			return p.errorAt(nil, errors.KindSemantics, errors.ErrCheckerCount, "%s has %d checkers", side, k)
		}
		pos.Off[side.Index()] += match.Checkers - k
	}
	return nil
}

func listItems(v sgf.Value) []sgf.Value {
	if l, ok := v.(sgf.List); ok {
		return l.Items
	}
	return nil
}

func (p *replay) context() match.Context {
	pos := p.g.Current()
	return match.Context{Length: pos.MatchLength, Cube: pos.Cube, Scores: pos.Scores, Crawford: pos.Crawford}
}

// move dispatches the move property of n.
func (p *replay) move(n *sgf.Node, prop *sgf.Property, side match.Side) error {
	mv, ok := prop.Value.(backgammon.Move)
	if !ok {
		return p.errorAt(prop, errors.KindSemantics, nil, "move is not cooked as backgammon")
	}

	switch mv.Action {
	case backgammon.ActionPass:
		return nil
	case backgammon.ActionPlay:
		return p.play(n, prop, side, mv)
	case backgammon.ActionDouble:
		return p.append(prop, side, match.Double{}, p.cubeAnalysis(n, false))
	case backgammon.ActionTake:
		return p.append(prop, side, match.Take{}, p.cubeAnalysis(n, true))
	case backgammon.ActionDrop:
		return p.append(prop, side, match.Drop{}, p.cubeAnalysis(n, true))
	case backgammon.ActionResign:
		return p.append(prop, side, match.Resign{Points: mv.Points}, nil)
	case backgammon.ActionAccept:
		return p.append(prop, side, match.Accept{}, nil)
	case backgammon.ActionReject:
		return p.append(prop, side, match.Reject{}, nil)
	}
	return p.errorAt(prop, errors.KindInvariant, nil, "unknown move action %v", mv.Action)
}

func (p *replay) play(n *sgf.Node, prop *sgf.Property, side match.Side, mv backgammon.Move) error {
	pos := p.g.Current()
	preset := p.g.Phase() == match.PhaseMoving && pos.Turn == side &&
		(pos.Dice == mv.Dice || pos.Dice == [2]int{mv.Dice[1], mv.Dice[0]})
	if !preset {
		var an match.Analysis
		if l := luckOf(n, side); l != nil {
			an = l
		}
		if err := p.append(prop, side, match.Roll{Dice: mv.Dice}, an); err != nil {
			return err
		}
		pos = p.g.Current()
	}

	an := p.checkerAnalysis(n)
	if preset {
		if l := luckOf(n, side); l != nil {
			an = p.withLuck(an, l)
		}
	}
	movements := mv.Internal()
	illegal := pos.CheckMove(side, mv.Dice[0], mv.Dice[1], movements)
	if err := p.append(prop, side, match.Move{Dice: mv.Dice, Movements: movements}, an); err != nil {
		return err
	}
	if illegal != nil {
		if p.r.opts.StrictMoves {
			return p.errorAt(prop, errors.KindIllegalAction, illegal, "")
		}
		p.warnf(prop, illegal, "")
	}
	return nil
}

func (p *replay) append(prop *sgf.Property, side match.Side, a match.Action, an match.Analysis) error {
	if err := p.g.Append(side, a, an, time.Time{}); err != nil {
		return p.errorAt(prop, errors.KindIllegalAction, err, "game %d: %s by %s", p.g.Number, a, side)
	}
	p.log.Debugw("action", "game", p.g.Number, "side", side, "action", a.String())
	return nil
}

// cubeAnalysis reads DA with BC or DC. Responses to a double may redouble.
func (p *replay) cubeAnalysis(n *sgf.Node, response bool) match.Analysis {
	da, hasDA := n.Property("DA")
	g := cubeGrade(n)
	if !hasDA && g == 0 {
		return nil
	}
	an := &match.MoveAnalysis{
		Context:   p.context(),
		CubeGrade: g,
		Played:    -1,
		MayDouble: p.g.Current().MayDouble,
	}
	if response {
		an.MayDouble = [2]bool{true, true}
	}
	if hasDA {
		if e, ok := p.eval(da); ok {
			an.Cube = &e
		}
	}
	return an
}

// checkerAnalysis reads A, DA and the grades of a checker play.
func (p *replay) checkerAnalysis(n *sgf.Node) match.Analysis {
	a, hasA := n.Property("A")
	an, _ := p.cubeAnalysis(n, false).(*match.MoveAnalysis)
	g := moveGrade(n)
	if an == nil && !hasA && g == 0 {
		return nil
	}
	if an == nil {
		an = &match.MoveAnalysis{Context: p.context(), Played: -1, MayDouble: p.g.Current().MayDouble}
	}
	an.MoveGrade = g
	if hasA {
		played, variants, err := parseVariants(simpleTexts(a.Value))
		if err != nil {
			p.analysisWarning(a, err)
		} else {
			an.Played, an.Variants = played, variants
		}
	}
	return an
}

// withLuck carries the luck of a preset roll on the analysis of the play.
func (p *replay) withLuck(an match.Analysis, l *match.RollLuck) match.Analysis {
	ma, _ := an.(*match.MoveAnalysis)
	if ma == nil {
		ma = &match.MoveAnalysis{Context: p.context(), Played: -1, MayDouble: p.g.Current().MayDouble}
	}
	ma.Luck = l
	return ma
}

func (p *replay) eval(prop *sgf.Property) (match.Evaluation, bool) {
	e, err := ParseEval(textOf(prop.Value))
	if err != nil {
		p.analysisWarning(prop, err)
		return e, false
	}
	return e, true
}

func (p *replay) analysisWarning(prop *sgf.Property, err error) {
	if errors.Is(err, errors.ErrUnsupportedVersion) {
		p.warnf(prop, err, "skipping analysis")
		return
	}
	p.warnf(prop, err, "skipping malformed analysis")
}

// close ends a game left open when RE names a resignation: the loser
// resigns the recorded value and the winner accepts.
func (p *replay) close(root *sgf.Node) error {
	prop, ok := root.Property("RE")
	if !ok {
		return nil
	}
	res, ok := prop.Value.(backgammon.Result)
	if !ok || res.Outcome != backgammon.OutcomeWin {
		return nil
	}
	winner := sideOf(res.Winner)
	if p.g.Over() {
		if p.g.Winner() != winner {
			p.warnf(prop, nil, "result %s disagrees with the game, won by %s", res, p.g.Winner())
		}
		return nil
	}
	if res.Cause != backgammon.CauseResignation {
		return nil
	}

	if p.g.Phase() == match.PhasePendingResign {
		return p.append(prop, winner, match.Accept{}, nil)
	}
	value := 1
	if cube := p.g.Current().Cube; res.Score > 0 {
		value = res.Score / cube
	}
	value = min(max(value, 1), 3)
	if err := p.append(prop, winner.Opponent(), match.Resign{Points: value}, nil); err != nil {
		return err
	}
	return p.append(prop, winner, match.Accept{}, nil)
}
