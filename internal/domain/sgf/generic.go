package sgf

import (
	"fmt"
	"sync"
)

// GenericGame is the GM number the generic flavor answers to.
const GenericGame = 1

// GenericPoint is an SGF-4 board point: two letters, a-z for 0-25 and A-Z
// for 26-51.
type GenericPoint struct {
	X, Y int
}

func (GenericPoint) Kind() Kind { return KindPoint }

func (p GenericPoint) AppendText(dst []byte, _ bool) []byte {
	return append(dst, coordLetter(p.X), coordLetter(p.Y))
}

func (p GenericPoint) Normalized() int {
	return p.X*52 + p.Y
}

func coordLetter(i int) byte {
	if i < 26 {
		return byte('a' + i)
	}
	return byte('A' + i - 26)
}

func letterCoord(c byte) (int, bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 26, true
	}
	return 0, false
}

// GenericMove is an uninterpreted move; the empty move is a pass.
type GenericMove string

func (GenericMove) Kind() Kind { return KindMove }

func (m GenericMove) AppendText(dst []byte, composed bool) []byte {
	return AppendEscaped(dst, string(m), composed)
}

func (m GenericMove) Pass() bool { return m == "" }

type genericCodec struct{}

func (genericCodec) ParseMove(text string) (Value, error) {
	return GenericMove(text), nil
}

func (genericCodec) ParsePoint(text string) (Point, error) {
	if len(text) != 2 {
		return nil, fmt.Errorf("invalid point %q", text)
	}
	x, okx := letterCoord(text[0])
	y, oky := letterCoord(text[1])
	if !okx || !oky {
		return nil, fmt.Errorf("invalid point %q", text)
	}
	return GenericPoint{X: x, Y: y}, nil
}

func (c genericCodec) ParseStone(text string) (Value, error) {
	return c.ParsePoint(text)
}

// ExpandRange expands the rectangle spanned by two corners.
func (genericCodec) ExpandRange(from, to Point) ([]Point, error) {
	a, ok1 := from.(GenericPoint)
	b, ok2 := to.(GenericPoint)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("cannot expand %q:%q", TextOf(from), TextOf(to))
	}
	if a.X > b.X || a.Y > b.Y {
		return nil, fmt.Errorf("invalid rectangle %s:%s", TextOf(a), TextOf(b))
	}
	out := make([]Point, 0, (b.X-a.X+1)*(b.Y-a.Y+1))
	for x := a.X; x <= b.X; x++ {
		for y := a.Y; y <= b.Y; y++ {
			out = append(out, GenericPoint{X: x, Y: y})
		}
	}
	return out, nil
}

// GenericCodec returns the board codec of the generic flavor.
func GenericCodec() BoardCodec { return genericCodec{} }

// GenericDecls lists every general SGF-4 property.
func GenericDecls() []Decl {
	points := ListOf(TypePoint)
	return []Decl{
		// move
		{ID: "B", Type: TypeMove},
		{ID: "W", Type: TypeMove},
		{ID: "KO", Type: TypeNone},
		{ID: "MN", Type: TypeNumber},
		// setup
		{ID: "AB", Type: ListOf(TypeStone)},
		{ID: "AW", Type: ListOf(TypeStone)},
		{ID: "AE", Type: points},
		{ID: "PL", Type: TypeColor},
		// node annotation
		{ID: "C", Type: TypeText},
		{ID: "DM", Type: TypeDouble},
		{ID: "GB", Type: TypeDouble},
		{ID: "GW", Type: TypeDouble},
		{ID: "HO", Type: TypeDouble},
		{ID: "N", Type: TypeSimpleText},
		{ID: "UC", Type: TypeDouble},
		{ID: "V", Type: TypeReal},
		// move annotation
		{ID: "BM", Type: TypeDouble},
		{ID: "DO", Type: TypeNone},
		{ID: "IT", Type: TypeNone},
		{ID: "TE", Type: TypeDouble},
		// markup
		{ID: "AR", Type: ListOf(ComposeOf(TypePoint, TypePoint))},
		{ID: "CR", Type: points},
		{ID: "DD", Type: EListOf(TypePoint), Inherit: true},
		{ID: "LB", Type: ListOf(ComposeOf(TypePoint, TypeSimpleText))},
		{ID: "LN", Type: ListOf(ComposeOf(TypePoint, TypePoint))},
		{ID: "MA", Type: points},
		{ID: "SL", Type: points},
		{ID: "SQ", Type: points},
		{ID: "TR", Type: points},
		// root
		{ID: "AP", Type: ComposeOf(TypeSimpleText, TypeSimpleText)},
		{ID: "CA", Type: TypeSimpleText},
		{ID: "FF", Type: TypeNumber},
		{ID: "GM", Type: TypeNumber},
		{ID: "ST", Type: TypeNumber},
		{ID: "SZ", Type: OneOf(TypeNumber, ComposeOf(TypeNumber, TypeNumber))},
		// game info
		{ID: "AN", Type: TypeSimpleText},
		{ID: "BR", Type: TypeSimpleText},
		{ID: "BT", Type: TypeSimpleText},
		{ID: "CP", Type: TypeSimpleText},
		{ID: "DT", Type: TypeSimpleText},
		{ID: "EV", Type: TypeSimpleText},
		{ID: "GC", Type: TypeText},
		{ID: "GN", Type: TypeSimpleText},
		{ID: "ON", Type: TypeSimpleText},
		{ID: "OT", Type: TypeSimpleText},
		{ID: "PB", Type: TypeSimpleText},
		{ID: "PC", Type: TypeSimpleText},
		{ID: "PW", Type: TypeSimpleText},
		{ID: "RE", Type: TypeSimpleText},
		{ID: "RO", Type: TypeSimpleText},
		{ID: "RU", Type: TypeSimpleText},
		{ID: "SO", Type: TypeSimpleText},
		{ID: "TM", Type: TypeReal},
		{ID: "US", Type: TypeSimpleText},
		{ID: "WR", Type: TypeSimpleText},
		{ID: "WT", Type: TypeSimpleText},
		// timing
		{ID: "BL", Type: TypeReal},
		{ID: "OB", Type: TypeNumber},
		{ID: "OW", Type: TypeNumber},
		{ID: "WL", Type: TypeReal},
		// misc
		{ID: "FG", Type: OneOf(TypeNone, ComposeOf(TypeNumber, TypeSimpleText))},
		{ID: "PM", Type: TypeNumber, Inherit: true},
		{ID: "VW", Type: EListOf(TypePoint), Inherit: true},
	}
}

// GenericExclusions are the SGF-4 groups of properties that may not share
// a node.
func GenericExclusions() [][]string {
	return [][]string{
		{"B", "W"},
		{"GB", "GW", "DM", "UC"},
		{"BM", "DO", "IT", "TE"},
	}
}

var (
	genericOnce   sync.Once
	genericFlavor *Flavor
)

// Generic returns the shared generic SGF-4 flavor.
func Generic() *Flavor {
	genericOnce.Do(func() {
		genericFlavor = NewFlavor("generic", GenericGame, genericCodec{}, GenericDecls(), GenericExclusions())
	})
	return genericFlavor
}
