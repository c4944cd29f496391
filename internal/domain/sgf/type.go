package sgf

import (
	"fmt"
	"strings"
)

// Cardinality says how many bracketed values a property carries.
type Cardinality int

const (
	CardinalitySingle Cardinality = iota
	CardinalityList               // one or more
	CardinalityEList              // zero or more; [] is the empty list
)

func (c Cardinality) String() string {
	switch c {
	case CardinalityList:
		return "list"
	case CardinalityEList:
		return "elist"
	}
	return "single"
}

// Type describes the value of a property. Leaf kinds are the zero-argument
// Type* variables; the composite kinds are built by ListOf, EListOf,
// ComposeOf and OneOf.
type Type struct {
	Kind  Kind
	name  string
	elem  *Type
	left  *Type
	right *Type
	alts  []Type
	parse func(text string) (Value, error)
}

var (
	TypeNone       = Type{Kind: KindNone}
	TypeNumber     = Type{Kind: KindNumber}
	TypeReal       = Type{Kind: KindReal}
	TypeDouble     = Type{Kind: KindDouble}
	TypeColor      = Type{Kind: KindColor}
	TypeSimpleText = Type{Kind: KindSimpleText}
	TypeText       = Type{Kind: KindText}
	TypeMove       = Type{Kind: KindMove}
	TypeStone      = Type{Kind: KindStone}
	TypePoint      = Type{Kind: KindPoint}
)

func ListOf(elem Type) Type {
	return Type{Kind: KindList, elem: &elem}
}

func EListOf(elem Type) Type {
	return Type{Kind: KindEList, elem: &elem}
}

func ComposeOf(left, right Type) Type {
	return Type{Kind: KindCompose, left: &left, right: &right}
}

// OneOf accepts the first alternative that parses.
func OneOf(alts ...Type) Type {
	return Type{Kind: KindOneOf, alts: alts}
}

// Custom declares a flavor specific leaf. parse receives the value after
// SimpleText normalization.
func Custom(name string, parse func(text string) (Value, error)) Type {
	return Type{Kind: KindCustom, name: name, parse: parse}
}

func (t Type) Elem() (Type, bool) {
	if t.elem == nil {
		return Type{}, false
	}
	return *t.elem, true
}

func (t Type) Cardinality() Cardinality {
	switch t.Kind {
	case KindList:
		return CardinalityList
	case KindEList:
		return CardinalityEList
	}
	return CardinalitySingle
}

func (t Type) String() string {
	switch t.Kind {
	case KindList, KindEList:
		return t.Kind.String() + "(" + t.elem.String() + ")"
	case KindCompose:
		return "Compose(" + t.left.String() + "," + t.right.String() + ")"
	case KindOneOf:
		names := make([]string, len(t.alts))
		for i, a := range t.alts {
			names[i] = a.String()
		}
		return strings.Join(names, "|")
	case KindCustom:
		return t.name
	}
	return t.Kind.String()
}

// Parse cooks the raw values of one property, enforcing the cardinality of
// t and, for point lists, that no point appears twice.
func (t Type) Parse(raw []string, f *Flavor) (Value, error) {
	switch t.Kind {
	case KindList, KindEList:
		return t.parseList(raw, f)
	}
	if len(raw) != 1 {
		return nil, fmt.Errorf("expected exactly one value, got %d", len(raw))
	}
	return t.parseOne(raw[0], f)
}

func (t Type) parseList(raw []string, f *Flavor) (Value, error) {
	list := List{EList: t.Kind == KindEList}
	if len(raw) == 0 || (len(raw) == 1 && raw[0] == "") {
		if list.EList {
			return list, nil
		}
		if len(raw) == 0 {
			return nil, fmt.Errorf("expected at least one value")
		}
	}

	var seen map[int]string
	if t.elem.Kind == KindPoint {
		seen = make(map[int]string)
	}
	for _, r := range raw {
		items, err := t.elem.parseItem(r, f)
		if err != nil {
			return nil, err
		}
		for _, v := range items {
			if seen != nil {
				p, ok := v.(Point)
				if !ok {
					return nil, fmt.Errorf("point %q has no normalized value", r)
				}
				if prev, dup := seen[p.Normalized()]; dup {
					return nil, fmt.Errorf("duplicate point %q (same as %q)", TextOf(v), prev)
				}
				seen[p.Normalized()] = TextOf(v)
			}
			list.Items = append(list.Items, v)
		}
	}
	return list, nil
}

// parseItem parses one list element. A point element may be a compressed
// range "from:to" when the board codec supports it.
func (t Type) parseItem(raw string, f *Flavor) ([]Value, error) {
	if t.Kind == KindPoint {
		if left, right, ok := SplitCompose(raw); ok {
			return expandRange(left, right, f)
		}
	}
	v, err := t.parseOne(raw, f)
	if err != nil {
		return nil, err
	}
	return []Value{v}, nil
}

func expandRange(left, right string, f *Flavor) ([]Value, error) {
	ex, ok := f.Codec.(RangeExpander)
	if !ok {
		return nil, fmt.Errorf("flavor %s does not support point ranges", f.Name)
	}
	from, err := f.Codec.ParsePoint(Unescape(left))
	if err != nil {
		return nil, err
	}
	to, err := f.Codec.ParsePoint(Unescape(right))
	if err != nil {
		return nil, err
	}
	points, err := ex.ExpandRange(from, to)
	if err != nil {
		return nil, err
	}
	out := make([]Value, len(points))
	for i, p := range points {
		out[i] = p
	}
	return out, nil
}

func (t Type) parseOne(raw string, f *Flavor) (Value, error) {
	switch t.Kind {
	case KindNone:
		return ParseNone(raw)
	case KindNumber:
		return ParseNumber(raw)
	case KindReal:
		return ParseReal(raw)
	case KindDouble:
		return ParseDouble(raw)
	case KindColor:
		return ParseColor(raw)
	case KindSimpleText:
		return ParseSimpleText(raw), nil
	case KindText:
		return ParseText(raw), nil
	case KindMove:
		return f.Codec.ParseMove(Unescape(raw))
	case KindStone:
		return f.Codec.ParseStone(Unescape(raw))
	case KindPoint:
		return f.Codec.ParsePoint(Unescape(raw))
	case KindCompose:
		left, right, ok := SplitCompose(raw)
		if !ok {
			return nil, fmt.Errorf("expected composed value %s, got %q", t, raw)
		}
		l, err := t.left.parseOne(left, f)
		if err != nil {
			return nil, err
		}
		r, err := t.right.parseOne(right, f)
		if err != nil {
			return nil, err
		}
		return Compose{Left: l, Right: r}, nil
	case KindOneOf:
		for _, alt := range t.alts {
			if v, err := alt.parseOne(raw, f); err == nil {
				return v, nil
			}
		}
		return nil, fmt.Errorf("value %q is none of %s", raw, t)
	case KindCustom:
		return t.parse(NormalizeSimpleText(raw))
	}
	return nil, fmt.Errorf("cannot parse a %s value", t)
}
