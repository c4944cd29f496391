package match

import (
	"fmt"
	"sort"

	"gammon_sgf/internal/domain/backgammon"
	"gammon_sgf/internal/errors"
)

// Play is one legal way to use a roll.
type Play struct {
	Movements [][2]int
	Result    Position
}

// LegalPlays returns every distinct legal play of side for the roll d1 d2.
// Only plays using the maximum number of dice are returned and, when only
// one die can be used, the higher one wins if possible.
func (p Position) LegalPlays(side Side, d1, d2 int) []Play {
	orders := [][]int{{d1, d2}, {d2, d1}}
	if d1 == d2 {
		orders = [][]int{{d1, d1, d1, d1}}
	}

	type candidate struct {
		play Play
		dice []int
	}
	var all []candidate
	best := 0
	var walk func(q Position, dice []int, used []int, path [][2]int)
	walk = func(q Position, dice []int, used []int, path [][2]int) {
		moved := false
		if len(dice) > 0 {
			d := dice[0]
			for r := 25; r >= 1; r-- {
				if q.ownAt(side, r) == 0 || !q.canUse(side, r, d) {
					continue
				}
				to := r - d
				if to < 0 {
					to = 0
				}
				next := q
				if _, err := next.step(side, abs(side, r), abs(side, to)); err != nil {
					continue
				}
				moved = true
				walk(next, dice[1:], append(append([]int(nil), used...), d),
					append(append([][2]int(nil), path...), [2]int{abs(side, r), abs(side, to)}))
			}
		}
		if moved {
			return
		}
		if len(path) > best {
			best = len(path)
		}
		all = append(all, candidate{play: Play{Movements: path, Result: q}, dice: used})
	}
	for _, order := range orders {
		walk(p, order, nil, nil)
	}

	var plays []Play
	if best == 1 && d1 != d2 {
		high := max(d1, d2)
		for _, c := range all {
			if len(c.play.Movements) == 1 && c.dice[0] == high {
				plays = append(plays, c.play)
			}
		}
	}
	if len(plays) == 0 {
		for _, c := range all {
			if len(c.play.Movements) == best {
				plays = append(plays, c.play)
			}
		}
	}
	return dedupPlays(plays)
}

// canUse reports whether a checker on the mover's point r may move d pips,
// honouring the bear-off rules.
func (p *Position) canUse(side Side, r, d int) bool {
	to := r - d
	if to > 0 {
		return true
	}
	if !p.allHome(side) {
		return false
	}
	if to == 0 {
		return true
	}
	for higher := r + 1; higher <= 6; higher++ {
		if p.ownAt(side, higher) > 0 {
			return false
		}
	}
	return true
}

func dedupPlays(plays []Play) []Play {
	out := plays[:0]
	for _, pl := range plays {
		backgammon.SortMovements(pl.Movements)
		dup := false
		for _, o := range out {
			if o.Result.SameBoard(&pl.Result) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, pl)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Movements, out[j].Movements
		for k := 0; k < len(a) && k < len(b); k++ {
			if a[k] != b[k] {
				return backgammon.MovementBefore(a[k], b[k])
			}
		}
		return len(a) < len(b)
	})
	return out
}

// CheckMove verifies that movements are a legal play of side for the roll.
// Combined movements such as 24/13 for a 6-5 are accepted.
func (p Position) CheckMove(side Side, d1, d2 int, movements [][2]int) error {
	if d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return fmt.Errorf("%w: invalid roll %d%d", errors.ErrIllegalMove, d1, d2)
	}
	res, err := p.Apply(side, movements)
	if err != nil {
		return err
	}
	plays := p.LegalPlays(side, d1, d2)
	if len(plays) == 1 && len(plays[0].Movements) == 0 {
		if len(movements) == 0 {
			return nil
		}
		return fmt.Errorf("%w: %s has no legal play with %d%d", errors.ErrIllegalMove, side, d1, d2)
	}
	for i := range plays {
		if plays[i].Result.SameBoard(&res) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s does not use %d%d correctly", errors.ErrIllegalMove, p.FormatMove(side, movements), d1, d2)
}
