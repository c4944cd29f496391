package match

import (
	"fmt"
	"strings"
)

// Action is one entry of a game record. The set of actions is closed:
// Roll, Move, Double, Take, Drop, Resign, Accept and Reject.
type Action interface {
	isAction()
	String() string
}

type Roll struct {
	Dice [2]int `json:"dice"`
}

// Move is a checker play in board coordinates.
type Move struct {
	Dice      [2]int   `json:"dice"`
	Movements [][2]int `json:"movements"`
}

type Double struct{}

type Take struct{}

type Drop struct{}

// Resign offers the game for Points times the cube: 1 single, 2 gammon,
// 3 backgammon.
type Resign struct {
	Points int `json:"points"`
}

type Accept struct{}

type Reject struct{}

func (Roll) isAction()   {}
func (Move) isAction()   {}
func (Double) isAction() {}
func (Take) isAction()   {}
func (Drop) isAction()   {}
func (Resign) isAction() {}
func (Accept) isAction() {}
func (Reject) isAction() {}

func (r Roll) String() string { return fmt.Sprintf("roll %d%d", r.Dice[0], r.Dice[1]) }

func (m Move) String() string {
	parts := make([]string, len(m.Movements))
	for i, mv := range m.Movements {
		parts[i] = fmt.Sprintf("%d/%d", mv[0], mv[1])
	}
	return fmt.Sprintf("move %d%d %s", m.Dice[0], m.Dice[1], strings.Join(parts, " "))
}

func (Double) String() string   { return "double" }
func (Take) String() string     { return "take" }
func (Drop) String() string     { return "drop" }
func (r Resign) String() string { return fmt.Sprintf("resign %d", r.Points) }
func (Accept) String() string   { return "accept" }
func (Reject) String() string   { return "reject" }
