package sgf

import (
	"fmt"
	"sort"
)

// Point is a board location. Normalized returns an integer that is equal for
// two points exactly when they address the same location.
type Point interface {
	Value
	Normalized() int
}

// BoardCodec parses the game specific leaf kinds of a flavor. Each method
// receives the unescaped bracket text.
type BoardCodec interface {
	ParseMove(text string) (Value, error)
	ParsePoint(text string) (Point, error)
	ParseStone(text string) (Value, error)
}

// RangeExpander is implemented by codecs that accept compressed point
// lists such as "aa:cc".
type RangeExpander interface {
	ExpandRange(from, to Point) ([]Point, error)
}

// Decl declares one property id of a flavor.
type Decl struct {
	ID      string
	Type    Type
	Inherit bool
}

// Flavor is the rule set of one game family. Flavors are built once and
// never modified afterwards.
type Flavor struct {
	Name  string
	Game  int
	Codec BoardCodec

	decls      map[string]Decl
	exclusions [][]string
}

func NewFlavor(name string, game int, codec BoardCodec, decls []Decl, exclusions [][]string) *Flavor {
	f := &Flavor{
		Name:  name,
		Game:  game,
		Codec: codec,
		decls: make(map[string]Decl, len(decls)),
	}
	for _, d := range decls {
		f.decls[d.ID] = d
	}
	f.exclusions = append(f.exclusions, exclusions...)
	return f
}

// Extend derives a flavor from f. decls override or add declarations,
// exclusions are appended to those of f.
func (f *Flavor) Extend(name string, game int, codec BoardCodec, decls []Decl, exclusions [][]string) *Flavor {
	base := make([]Decl, 0, len(f.decls)+len(decls))
	for _, d := range f.decls {
		base = append(base, d)
	}
	base = append(base, decls...)
	return NewFlavor(name, game, codec, base, append(append([][]string(nil), f.exclusions...), exclusions...))
}

func (f *Flavor) Lookup(id string) (Decl, bool) {
	d, ok := f.decls[id]
	return d, ok
}

// Decls returns every declaration sorted by id.
func (f *Flavor) Decls() []Decl {
	out := make([]Decl, 0, len(f.decls))
	for _, d := range f.decls {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Exclusions returns the groups of ids of which a node may carry at most one.
func (f *Flavor) Exclusions() [][]string {
	return f.exclusions
}

// CheckExclusions reports the first pair of mutually exclusive ids on n.
func (f *Flavor) CheckExclusions(n *Node) error {
	for _, group := range f.exclusions {
		first := ""
		for _, id := range group {
			if !n.Has(id) {
				continue
			}
			if first != "" {
				return fmt.Errorf("properties %s and %s are mutually exclusive", first, id)
			}
			first = id
		}
	}
	return nil
}

func (f *Flavor) String() string {
	return fmt.Sprintf("%s (GM[%d])", f.Name, f.Game)
}

// Registry maps GM numbers to flavors.
type Registry struct {
	fallback *Flavor
	byGame   map[int]*Flavor
}

// NewRegistry builds a registry whose unknown games resolve to fallback.
func NewRegistry(fallback *Flavor, flavors ...*Flavor) *Registry {
	r := &Registry{fallback: fallback, byGame: make(map[int]*Flavor)}
	r.byGame[fallback.Game] = fallback
	for _, f := range flavors {
		r.byGame[f.Game] = f
	}
	return r
}

func (r *Registry) ForGame(gm int) *Flavor {
	if f, ok := r.byGame[gm]; ok {
		return f
	}
	return r.fallback
}

// Known reports whether gm has a flavor of its own.
func (r *Registry) Known(gm int) bool {
	_, ok := r.byGame[gm]
	return ok
}

func (r *Registry) Fallback() *Flavor {
	return r.fallback
}
