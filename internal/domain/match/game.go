package match

import (
	"fmt"
	"time"

	"gammon_sgf/internal/errors"
)

// Phase is the state of a game between two actions.
type Phase int

const (
	PhaseRolling Phase = iota
	PhaseMoving
	PhasePendingCube
	PhasePendingResign
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseRolling:
		return "rolling"
	case PhaseMoving:
		return "moving"
	case PhasePendingCube:
		return "pending cube"
	case PhasePendingResign:
		return "pending resign"
	}
	return "over"
}

// Entry is one recorded action.
type Entry struct {
	Action   Action    `json:"action"`
	Analysis Analysis  `json:"analysis,omitempty"`
	Side     Side      `json:"side"`
	Time     time.Time `json:"time"`
}

// state is everything a fold over the entries carries.
type state struct {
	pos     Position
	phase   Phase
	resume  Phase
	offerer Side
	winner  Side
	points  int
	gammon  int // 1 single, 2 gammon, 3 backgammon
	jacoby  bool
}

// Game is one game of a match. The current position is derived by folding
// the entries over the initial position.
type Game struct {
	Number   int  `json:"number"`
	Crawford bool `json:"crawford"`
	Jacoby   bool `json:"jacoby"`

	initial Position
	entries []Entry
	cur     state
}

// NewGame starts a game from initial. A position with dice already set
// starts in the moving phase.
func NewGame(number int, initial Position) *Game {
	g := &Game{Number: number, Crawford: initial.Crawford}
	g.initial = initial
	g.cur = g.start()
	return g
}

func (g *Game) start() state {
	s := state{pos: g.initial, phase: PhaseRolling, jacoby: g.Jacoby}
	if g.initial.Dice[0] != 0 && g.initial.Turn != NoSide {
		s.phase = PhaseMoving
	}
	return s
}

func (g *Game) Initial() Position { return g.initial }

// SetInitial replaces the initial position. It fails once an action has
// been recorded.
func (g *Game) SetInitial(p Position) error {
	if len(g.entries) > 0 {
		return errors.ErrSetupAfterAction
	}
	g.initial = p
	g.Crawford = p.Crawford
	g.cur = g.start()
	return nil
}

// SetJacoby enables the Jacoby rule for a money game.
func (g *Game) SetJacoby(on bool) {
	g.Jacoby = on
	if len(g.entries) == 0 {
		g.cur = g.start()
	}
}

func (g *Game) Entries() []Entry { return g.entries }

func (g *Game) Len() int { return len(g.entries) }

func (g *Game) Current() Position { return g.cur.pos }

func (g *Game) Phase() Phase { return g.cur.phase }

func (g *Game) Over() bool { return g.cur.phase == PhaseOver }

// Winner and Points are set once the game is over.
func (g *Game) Winner() Side { return g.cur.winner }

func (g *Game) Points() int { return g.cur.points }

// Gammon is 1 for a single game, 2 for a gammon and 3 for a backgammon.
func (g *Game) Gammon() int { return g.cur.gammon }

// Append records an action of side. Actions that do not fit the current
// phase are rejected and leave the game unchanged.
func (g *Game) Append(side Side, a Action, an Analysis, at time.Time) error {
	next, err := g.cur.apply(side, a)
	if err != nil {
		return err
	}
	g.entries = append(g.entries, Entry{Action: a, Analysis: an, Side: side, Time: at})
	g.cur = next
	return nil
}

// PositionAt returns the position before entry n; PositionAt(Len()) is the
// current position.
func (g *Game) PositionAt(n int) (Position, error) {
	if n < 0 || n > len(g.entries) {
		return Position{}, fmt.Errorf("position %d out of range [0,%d]", n, len(g.entries))
	}
	s := g.start()
	for _, e := range g.entries[:n] {
		next, err := s.apply(e.Side, e.Action)
		if err != nil {
			return Position{}, errors.Wrap(errors.KindInvariant, err, "replaying entry")
		}
		s = next
	}
	return s.pos, nil
}

func (s state) apply(side Side, a Action) (state, error) {
	if s.phase == PhaseOver {
		return s, errors.ErrGameOver
	}
	if side != White && side != Black {
		return s, errors.ErrNotYourTurn
	}
	switch a := a.(type) {
	case Roll:
		return s.roll(side, a)
	case Move:
		return s.move(side, a)
	case Double:
		return s.double(side)
	case Take:
		return s.take(side)
	case Drop:
		return s.drop(side)
	case Resign:
		return s.resign(side, a)
	case Accept:
		return s.accept(side)
	case Reject:
		return s.reject(side)
	}
	return s, errors.New(errors.KindInvariant, "unknown action %T", a)
}

func (s state) roll(side Side, r Roll) (state, error) {
	switch s.phase {
	case PhaseMoving:
		return s, errors.ErrAlreadyRolled
	case PhaseRolling:
	default:
		return s, errors.ErrPendingDecision
	}
	if s.pos.Turn != NoSide && s.pos.Turn != side {
		return s, errors.ErrNotYourTurn
	}
	for _, d := range r.Dice {
		if d < 1 || d > 6 {
			return s, fmt.Errorf("%w: invalid die %d", errors.ErrIllegalMove, d)
		}
	}
	s.pos.Dice = r.Dice
	s.pos.Turn = side
	s.phase = PhaseMoving
	return s, nil
}

func (s state) move(side Side, m Move) (state, error) {
	switch s.phase {
	case PhaseRolling:
		return s, errors.ErrNotRolled
	case PhaseMoving:
	default:
		return s, errors.ErrPendingDecision
	}
	if s.pos.Turn != side {
		return s, errors.ErrNotYourTurn
	}
	if m.Dice != s.pos.Dice && m.Dice != [2]int{s.pos.Dice[1], s.pos.Dice[0]} {
		return s, fmt.Errorf("%w: dice %d%d do not match the roll %d%d",
			errors.ErrIllegalMove, m.Dice[0], m.Dice[1], s.pos.Dice[0], s.pos.Dice[1])
	}
	pos, err := s.pos.Apply(side, m.Movements)
	if err != nil {
		return s, err
	}
	s.pos = pos
	s.pos.Dice = [2]int{}
	if s.pos.BorneOff(side) == Checkers {
		s.gammon = s.pos.gammonOf(side)
		value := s.gammon
		if s.jacoby && s.pos.MatchLength == 0 && s.pos.CubeOwner == NoSide {
			value = 1
		}
		return s.finish(side, s.pos.Cube*value), nil
	}
	s.pos.Turn = side.Opponent()
	s.phase = PhaseRolling
	return s, nil
}

// gammonOf grades the win of side: 1 single, 2 gammon, 3 backgammon.
func (p *Position) gammonOf(side Side) int {
	loser := side.Opponent()
	if p.Off[loser.Index()] > 0 {
		return 1
	}
	if p.Bar[loser.Index()] > 0 {
		return 3
	}
	// the winner's home board is the loser's 19..24
	for r := 19; r <= 24; r++ {
		if p.ownAt(loser, r) > 0 {
			return 3
		}
	}
	return 2
}

func (s state) double(side Side) (state, error) {
	if s.phase != PhaseRolling {
		if s.phase == PhaseMoving {
			return s, errors.ErrAlreadyRolled
		}
		return s, errors.ErrPendingDecision
	}
	if s.pos.Turn != NoSide && s.pos.Turn != side {
		return s, errors.ErrNotYourTurn
	}
	if s.pos.Crawford || !s.pos.MayDouble[side.Index()] ||
		(s.pos.CubeOwner != NoSide && s.pos.CubeOwner != side) {
		return s, errors.ErrDoubleNotAllowed
	}
	s.pos.Turn = side
	s.offerer = side
	s.phase = PhasePendingCube
	return s, nil
}

func (s state) take(side Side) (state, error) {
	if s.phase != PhasePendingCube {
		return s, errors.ErrNoPendingDouble
	}
	if side != s.offerer.Opponent() {
		return s, errors.ErrNotYourTurn
	}
	s.pos.Cube *= 2
	s.pos.CubeOwner = side
	s.pos.MayDouble = [2]bool{true, true}
	s.pos.Turn = s.offerer
	s.phase = PhaseRolling
	return s, nil
}

func (s state) drop(side Side) (state, error) {
	if s.phase != PhasePendingCube {
		return s, errors.ErrNoPendingDouble
	}
	if side != s.offerer.Opponent() {
		return s, errors.ErrNotYourTurn
	}
	s.gammon = 1
	return s.finish(s.offerer, s.pos.Cube), nil
}

func (s state) resign(side Side, r Resign) (state, error) {
	if s.phase != PhaseRolling && s.phase != PhaseMoving {
		return s, errors.ErrPendingDecision
	}
	if r.Points < 1 || r.Points > 3 {
		return s, fmt.Errorf("%w: cannot resign %d points", errors.ErrIllegalMove, r.Points)
	}
	s.resume = s.phase
	s.offerer = side
	s.pos.Resigned = r.Points
	s.phase = PhasePendingResign
	return s, nil
}

func (s state) accept(side Side) (state, error) {
	if s.phase != PhasePendingResign {
		return s, errors.ErrNoPendingResign
	}
	if side != s.offerer.Opponent() {
		return s, errors.ErrNotYourTurn
	}
	s.gammon = s.pos.Resigned
	return s.finish(side, s.pos.Cube*s.pos.Resigned), nil
}

func (s state) reject(side Side) (state, error) {
	if s.phase != PhasePendingResign {
		return s, errors.ErrNoPendingResign
	}
	if side != s.offerer.Opponent() {
		return s, errors.ErrNotYourTurn
	}
	s.pos.Resigned = 0
	s.phase = s.resume
	return s, nil
}

func (s state) finish(winner Side, points int) state {
	s.winner = winner
	s.points = points
	s.phase = PhaseOver
	s.pos.Scores[winner.Index()] += points
	return s
}
