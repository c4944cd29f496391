package game

import (
	"fmt"
	"strings"

	match "gammon_sgf/internal/domain/match"
	"gammon_sgf/internal/errors"
)

var gradeMarks = [...]string{"", "?!", "?", "??"}

// ListGame renders the actions of game number (1-based) one per line, in
// the usual notation: "3 white 31: 8/5 6/5". Plays marked bad by the
// analysis carry "?!", "?" or "??".
func ListGame(m *match.Match, number int) ([]string, error) {
	if number < 1 || number > len(m.Games) {
		return nil, fmt.Errorf("%w: game %d of %d", errors.ErrNoGame, number, len(m.Games))
	}
	g := m.Games[number-1]

	var lines []string
	var sB strings.Builder
	for i, e := range g.Entries() {
		if _, ok := e.Action.(match.Roll); ok {
			// the move that follows names the dice
			if i+1 < len(g.Entries()) {
				if _, ok := g.Entries()[i+1].Action.(match.Move); ok {
					continue
				}
			}
		}
		sB.Reset()
		fmt.Fprintf(&sB, "%d %s ", i+1, e.Side)
		switch a := e.Action.(type) {
		case match.Move:
			before, err := g.PositionAt(i)
			if err != nil {
				return nil, err
			}
			fmt.Fprintf(&sB, "%d%d: %s", a.Dice[0], a.Dice[1], before.FormatMove(e.Side, a.Movements))
		default:
			sB.WriteString(a.String())
		}
		if an, ok := e.Analysis.(*match.MoveAnalysis); ok {
			grade := max(an.MoveGrade, an.CubeGrade)
			if grade > 0 && grade < len(gradeMarks) {
				sB.WriteString(gradeMarks[grade])
			}
		}
		lines = append(lines, sB.String())
	}
	if g.Over() {
		lines = append(lines, fmt.Sprintf("%s wins %d", g.Winner(), g.Points()))
	}
	return lines, nil
}
