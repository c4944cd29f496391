package match

import (
	"fmt"
	"strconv"
	"strings"

	"gammon_sgf/internal/errors"
)

// Side is a player. White moves from 24 down to 1 and bears off to 0, Black
// moves from 1 up to 24 and bears off to 25.
type Side int

const (
	Black  Side = -1
	NoSide Side = 0
	White  Side = 1
)

func (s Side) Opponent() Side { return -s }

// Index is the slot of s in two element arrays: 0 white, 1 black.
func (s Side) Index() int {
	if s == Black {
		return 1
	}
	return 0
}

func (s Side) String() string {
	switch s {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

// Checkers is the number of checkers per side.
const Checkers = 15

// Position is the state of a board between two actions.
type Position struct {
	Points      [24]int `json:"points"` // Points[i] is point i+1; positive white, negative black
	Bar         [2]int  `json:"bar"`
	Off         [2]int  `json:"off"`
	Cube        int     `json:"cube"`
	CubeOwner   Side    `json:"cube_owner"`
	Dice        [2]int  `json:"dice"`
	Turn        Side    `json:"turn"`
	Scores      [2]int  `json:"scores"`
	MatchLength int     `json:"match_length"`
	MayDouble   [2]bool `json:"may_double"`
	Crawford    bool    `json:"crawford"`
	Resigned    int     `json:"resigned"`
}

// Initial returns the opening position: centered cube of 1, nobody on roll.
func Initial() Position {
	p := Empty()
	for pt, n := range map[int]int{24: 2, 13: 5, 8: 3, 6: 5} {
		p.Points[pt-1] = n
		p.Points[25-pt-1] = -n
	}
	return p
}

// Empty returns a position without checkers.
func Empty() Position {
	return Position{Cube: 1, MayDouble: [2]bool{true, true}}
}

// rel converts a board coordinate into the mover's own numbering: the bar
// is 25 and off is 0 for both sides.
func rel(side Side, pt int) int {
	if side == Black {
		return 25 - pt
	}
	return pt
}

// abs is the inverse of rel.
func abs(side Side, r int) int {
	return rel(side, r)
}

// Count returns the number of checkers side has on board point pt (1..24).
func (p *Position) Count(side Side, pt int) int {
	if pt < 1 || pt > 24 {
		return 0
	}
	n := p.Points[pt-1] * int(side)
	if n < 0 {
		return 0
	}
	return n
}

func (p *Position) ownAt(side Side, r int) int {
	switch r {
	case 25:
		return p.Bar[side.Index()]
	case 0:
		return p.Off[side.Index()]
	}
	return p.Count(side, abs(side, r))
}

func (p *Position) add(side Side, r, n int) {
	switch r {
	case 25:
		p.Bar[side.Index()] += n
	case 0:
		p.Off[side.Index()] += n
	default:
		p.Points[abs(side, r)-1] += n * int(side)
	}
}

// Checkers counts every checker of side, on the board, the bar and off.
func (p *Position) Checkers(side Side) int {
	n := p.Bar[side.Index()] + p.Off[side.Index()]
	for pt := 1; pt <= 24; pt++ {
		n += p.Count(side, pt)
	}
	return n
}

func (p *Position) BorneOff(side Side) int {
	return p.Off[side.Index()]
}

// Pips is the pip count of side.
func (p *Position) Pips(side Side) int {
	n := 25 * p.Bar[side.Index()]
	for r := 1; r <= 24; r++ {
		n += r * p.ownAt(side, r)
	}
	return n
}

// Validate checks the checker invariant: fifteen per side, no negative
// counts.
func (p *Position) Validate() error {
	for _, s := range []Side{White, Black} {
		if p.Bar[s.Index()] < 0 || p.Off[s.Index()] < 0 {
			return fmt.Errorf("%w: negative count for %s", errors.ErrCheckerCount, s)
		}
		if n := p.Checkers(s); n != Checkers {
			return fmt.Errorf("%w: %s has %d", errors.ErrCheckerCount, s, n)
		}
	}
	return nil
}

func (p *Position) allHome(side Side) bool {
	if p.Bar[side.Index()] > 0 {
		return false
	}
	for r := 7; r <= 24; r++ {
		if p.ownAt(side, r) > 0 {
			return false
		}
	}
	return true
}

// SameBoard compares checker placement only.
func (p *Position) SameBoard(q *Position) bool {
	return p.Points == q.Points && p.Bar == q.Bar && p.Off == q.Off
}

// step moves one checker of side between two board coordinates.
func (p *Position) step(side Side, from, to int) (hit bool, err error) {
	if from < 0 || from > 25 || to < 0 || to > 25 {
		return false, fmt.Errorf("%w: %d/%d is off the board", errors.ErrIllegalMove, from, to)
	}
	rf, rt := rel(side, from), rel(side, to)
	if rf <= rt {
		return false, fmt.Errorf("%w: %s cannot move %d/%d", errors.ErrIllegalMove, side, from, to)
	}
	if p.ownAt(side, rf) == 0 {
		return false, fmt.Errorf("%w: no %s checker on %d", errors.ErrIllegalMove, side, from)
	}
	if rf != 25 && p.Bar[side.Index()] > 0 {
		return false, fmt.Errorf("%w: %s must enter from the bar", errors.ErrIllegalMove, side)
	}
	if rt == 0 && !p.allHome(side) {
		return false, fmt.Errorf("%w: %s cannot bear off yet", errors.ErrIllegalMove, side)
	}
	if rt != 0 {
		switch p.Count(side.Opponent(), to) {
		case 0:
		case 1:
			hit = true
		default:
			return false, fmt.Errorf("%w: point %d is blocked", errors.ErrIllegalMove, to)
		}
	}

	p.add(side, rf, -1)
	if hit {
		p.Points[to-1] = 0
		p.Bar[side.Opponent().Index()]++
	}
	p.add(side, rt, 1)
	return hit, nil
}

// Apply returns the position after side plays movements. Movements are
// tried in the given order first; a movement that cannot be played yet is
// retried after the others. p is not modified.
func (p Position) Apply(side Side, movements [][2]int) (Position, error) {
	if side != White && side != Black {
		return p, fmt.Errorf("%w: no side to move", errors.ErrIllegalMove)
	}
	q := p
	pending := append([][2]int(nil), movements...)
	for len(pending) > 0 {
		var firstErr error
		done := -1
		for i, mv := range pending {
			trial := q
			if _, err := trial.step(side, mv[0], mv[1]); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			q, done = trial, i
			break
		}
		if done < 0 {
			return p, firstErr
		}
		pending = append(pending[:done], pending[done+1:]...)
	}
	return q, nil
}

// FormatMove renders a play in the usual notation: "8/5 6/5", "bar/22*",
// "6/off", "13/11(2)". Points are numbered from the mover's side.
func (p Position) FormatMove(side Side, movements [][2]int) string {
	if len(movements) == 0 {
		return "cannot move"
	}
	q := p
	tokens := make([]string, 0, len(movements))
	for _, mv := range movements {
		var b strings.Builder
		rf, rt := rel(side, mv[0]), rel(side, mv[1])
		if rf == 25 {
			b.WriteString("bar")
		} else {
			b.WriteString(strconv.Itoa(rf))
		}
		b.WriteByte('/')
		if rt == 0 {
			b.WriteString("off")
		} else {
			b.WriteString(strconv.Itoa(rt))
		}
		if hit, err := q.step(side, mv[0], mv[1]); err == nil && hit {
			b.WriteByte('*')
		}
		tokens = append(tokens, b.String())
	}

	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		j := i + 1
		for j < len(tokens) && tokens[j] == tokens[i] {
			j++
		}
		if j-i > 1 {
			out = append(out, fmt.Sprintf("%s(%d)", tokens[i], j-i))
		} else {
			out = append(out, tokens[i])
		}
		i = j
	}
	return strings.Join(out, " ")
}
