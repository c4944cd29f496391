// Package backgammon holds the backgammon concretions of the SGF value
// model and the mapping between SGF letters and board points.
package backgammon

import (
	"fmt"

	"gammon_sgf/internal/domain/sgf"
)

// Letter indices with a fixed meaning. a..x address the 24 play points.
const (
	LetterBar = 24 // y
	LetterOff = 25 // z
)

func letter(i int) byte {
	return byte('a' + i)
}

func parseLetter(c byte) (int, bool) {
	if c < 'a' || c > 'z' {
		return 0, false
	}
	return int(c - 'a'), true
}

// Point is an SGF point letter. Its normalized value is the letter index.
type Point int

func (Point) Kind() sgf.Kind { return sgf.KindPoint }

func (p Point) AppendText(dst []byte, _ bool) []byte {
	return append(dst, letter(int(p)))
}

func (p Point) Normalized() int { return int(p) }

// Board returns the board point (1..24) addressed by p, or 0 for the bar and
// off letters.
func (p Point) Board() int {
	return boardPoint(int(p))
}

// Stone places one checker; it addresses the board like Point.
type Stone int

func (Stone) Kind() sgf.Kind { return sgf.KindStone }

func (s Stone) AppendText(dst []byte, _ bool) []byte {
	return append(dst, letter(int(s)))
}

func (s Stone) Normalized() int { return int(s) }

func (s Stone) Board() int {
	return boardPoint(int(s))
}

func boardPoint(i int) int {
	if i < 0 || i >= LetterBar {
		return 0
	}
	return 24 - i
}

// LetterOf is the inverse of Point.Board for board points 1..24.
func LetterOf(board int) Point {
	return Point(24 - board)
}

type codec struct{}

func (codec) ParseMove(text string) (sgf.Value, error) {
	return ParseMove(text)
}

func (codec) ParsePoint(text string) (sgf.Point, error) {
	i, err := parseSingleLetter(text)
	if err != nil {
		return nil, err
	}
	return Point(i), nil
}

func (codec) ParseStone(text string) (sgf.Value, error) {
	i, err := parseSingleLetter(text)
	if err != nil {
		return nil, err
	}
	return Stone(i), nil
}

// ExpandRange expands "a:y" style ranges, bounds included.
func (codec) ExpandRange(from, to sgf.Point) ([]sgf.Point, error) {
	a, b := from.Normalized(), to.Normalized()
	if a > b {
		return nil, fmt.Errorf("invalid point range %c:%c", letter(a), letter(b))
	}
	out := make([]sgf.Point, 0, b-a+1)
	for i := a; i <= b; i++ {
		out = append(out, Point(i))
	}
	return out, nil
}

func parseSingleLetter(text string) (int, error) {
	if len(text) != 1 {
		return 0, fmt.Errorf("invalid point %q", text)
	}
	i, ok := parseLetter(text[0])
	if !ok {
		return 0, fmt.Errorf("invalid point %q", text)
	}
	return i, nil
}

// Codec returns the backgammon board codec.
func Codec() sgf.BoardCodec { return codec{} }
