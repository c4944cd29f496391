package backgammon

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gammon_sgf/internal/domain/sgf"
)

// Action is the variant of a move property.
type Action int

const (
	ActionPass Action = iota
	ActionPlay        // dice followed by 0..4 movements
	ActionDouble
	ActionTake
	ActionDrop
	ActionResign
	ActionAccept
	ActionReject
)

var actionWords = map[Action]string{
	ActionDouble: "double",
	ActionTake:   "take",
	ActionDrop:   "drop",
	ActionResign: "resign",
	ActionAccept: "accept",
	ActionReject: "reject",
}

func (a Action) String() string {
	switch a {
	case ActionPass:
		return "pass"
	case ActionPlay:
		return "play"
	}
	return actionWords[a]
}

// Movement is one checker movement in SGF letter indices.
type Movement struct {
	From, To int
}

// Move is the value of B and W.
type Move struct {
	Action    Action
	Dice      [2]int
	Movements []Movement
	Points    int // resign value
}

func (Move) Kind() sgf.Kind { return sgf.KindMove }

func (m Move) AppendText(dst []byte, _ bool) []byte {
	switch m.Action {
	case ActionPass:
		return dst
	case ActionPlay:
		dst = append(dst, byte('0'+m.Dice[0]), byte('0'+m.Dice[1]))
		return AppendMovements(dst, m.Movements)
	case ActionResign:
		dst = append(dst, "resign:"...)
		return strconv.AppendInt(dst, int64(m.Points), 10)
	}
	return append(dst, actionWords[m.Action]...)
}

func (m Move) String() string {
	return string(m.AppendText(nil, false))
}

// ParseMove parses the unescaped payload of a move property.
func ParseMove(text string) (Move, error) {
	if text == "" {
		return Move{Action: ActionPass}, nil
	}
	lower := strings.ToLower(text)
	for a, w := range actionWords {
		if a != ActionResign && lower == w {
			return Move{Action: a}, nil
		}
	}
	if rest, ok := strings.CutPrefix(lower, "resign:"); ok {
		n, err := strconv.Atoi(rest)
		if err != nil || n < 1 {
			return Move{}, fmt.Errorf("invalid resignation %q", text)
		}
		return Move{Action: ActionResign, Points: n}, nil
	}
	return parsePlay(text)
}

func parsePlay(text string) (Move, error) {
	if len(text) < 2 || len(text)%2 != 0 || len(text) > 10 {
		return Move{}, fmt.Errorf("invalid move %q", text)
	}
	m := Move{Action: ActionPlay}
	for i := 0; i < 2; i++ {
		d := int(text[i] - '0')
		if d < 1 || d > 6 {
			return Move{}, fmt.Errorf("invalid die %q in move %q", text[i], text)
		}
		m.Dice[i] = d
	}
	mvs, err := ParseMovements(text[2:])
	if err != nil {
		return Move{}, fmt.Errorf("%w in move %q", err, text)
	}
	m.Movements = mvs
	return m, nil
}

// ParseMovements reads letter pairs such as "qtst".
func ParseMovements(letters string) ([]Movement, error) {
	if len(letters)%2 != 0 {
		return nil, fmt.Errorf("odd movement letters %q", letters)
	}
	var out []Movement
	for i := 0; i < len(letters); i += 2 {
		from, ok1 := parseLetter(letters[i])
		to, ok2 := parseLetter(letters[i+1])
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("invalid movement %q", letters[i:i+2])
		}
		out = append(out, Movement{From: from, To: to})
	}
	return out, nil
}

// AppendMovements appends the letter pairs of mvs.
func AppendMovements(dst []byte, mvs []Movement) []byte {
	for _, mv := range mvs {
		dst = append(dst, letter(mv.From), letter(mv.To))
	}
	return dst
}

// InternalOf maps movements onto board coordinates and sorts them.
func InternalOf(mvs []Movement) [][2]int {
	out := make([][2]int, len(mvs))
	for i, mv := range mvs {
		f, t := ToInternal(mv)
		out[i] = [2]int{f, t}
	}
	SortMovements(out)
	return out
}

// ToInternal maps an SGF movement onto board coordinates. The bar letter
// and the off letter are resolved by the direction of the movement; a
// destination on either letter bears off.
func ToInternal(mv Movement) (from, to int) {
	f, t := mv.From+1, mv.To+1
	if mv.From == LetterBar {
		if mv.To < 6 {
			f = 0
		} else {
			f = 25
		}
	}
	if mv.To >= LetterBar {
		if mv.From < 6 {
			t = 0
		} else {
			t = 25
		}
	}
	return 25 - f, 25 - t
}

// ToSGF is the inverse of ToInternal.
func ToSGF(from, to int) Movement {
	mv := Movement{From: 24 - from, To: 24 - to}
	if from == 0 || from == 25 {
		mv.From = LetterBar
	}
	if to == 0 || to == 25 {
		mv.To = LetterOff
	}
	return mv
}

// Internal returns the movements of m in board coordinates, highest source
// first and ties broken by the higher destination.
func (m Move) Internal() [][2]int {
	return InternalOf(m.Movements)
}

// SortMovements orders movements highest source first, ties broken by the
// higher destination.
func SortMovements(mvs [][2]int) {
	sort.SliceStable(mvs, func(i, j int) bool {
		return MovementBefore(mvs[i], mvs[j])
	})
}

// MovementBefore is the order of SortMovements.
func MovementBefore(a, b [2]int) bool {
	if a[0] != b[0] {
		return a[0] > b[0]
	}
	return a[1] > b[1]
}

// PlayOf builds the move property of a checker play given in board
// coordinates.
func PlayOf(d1, d2 int, movements [][2]int) Move {
	m := Move{Action: ActionPlay, Dice: [2]int{d1, d2}}
	for _, mv := range movements {
		m.Movements = append(m.Movements, ToSGF(mv[0], mv[1]))
	}
	return m
}
