package sgf

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind tags the concrete type behind a Value.
type Kind int

const (
	KindRaw Kind = iota
	KindNone
	KindNumber
	KindReal
	KindDouble
	KindColor
	KindSimpleText
	KindText
	KindMove
	KindStone
	KindPoint
	KindCompose
	KindList
	KindEList
	KindOneOf
	KindCustom
)

var kindNames = [...]string{
	KindRaw:        "Raw",
	KindNone:       "None",
	KindNumber:     "Number",
	KindReal:       "Real",
	KindDouble:     "Double",
	KindColor:      "Color",
	KindSimpleText: "SimpleText",
	KindText:       "Text",
	KindMove:       "Move",
	KindStone:      "Stone",
	KindPoint:      "Point",
	KindCompose:    "Compose",
	KindList:       "List",
	KindEList:      "EList",
	KindOneOf:      "OneOf",
	KindCustom:     "Custom",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is a property value. Raw values come from the parser, every other
// kind from the cooker. AppendText appends the escaped text that goes
// between the brackets; list values join their items with "][".
type Value interface {
	Kind() Kind
	AppendText(dst []byte, composed bool) []byte
}

// TextOf renders v the way it appears between the brackets.
func TextOf(v Value) string {
	return string(v.AppendText(nil, false))
}

// Raw holds the verbatim bracket contents of an uncooked property.
type Raw []string

func (Raw) Kind() Kind { return KindRaw }

func (r Raw) AppendText(dst []byte, _ bool) []byte {
	for i, s := range r {
		if i > 0 {
			dst = append(dst, "]["...)
		}
		dst = append(dst, s...)
	}
	return dst
}

type None struct{}

func (None) Kind() Kind { return KindNone }

func (None) AppendText(dst []byte, _ bool) []byte { return dst }

type Number int64

func (Number) Kind() Kind { return KindNumber }

func (n Number) AppendText(dst []byte, _ bool) []byte {
	return strconv.AppendInt(dst, int64(n), 10)
}

type Real float64

func (Real) Kind() Kind { return KindReal }

func (r Real) AppendText(dst []byte, _ bool) []byte {
	return strconv.AppendFloat(dst, float64(r), 'f', -1, 64)
}

// Double is the emphasis of an annotation: 1 normal, 2 very.
type Double int

const (
	DoubleNormal Double = 1
	DoubleVery   Double = 2
)

func (Double) Kind() Kind { return KindDouble }

func (d Double) AppendText(dst []byte, _ bool) []byte {
	return strconv.AppendInt(dst, int64(d), 10)
}

type Color byte

const (
	Black Color = 'B'
	White Color = 'W'
)

func (Color) Kind() Kind { return KindColor }

func (c Color) AppendText(dst []byte, _ bool) []byte {
	return append(dst, byte(c))
}

func (c Color) Opponent() Color {
	if c == Black {
		return White
	}
	return Black
}

func (c Color) String() string {
	return string(rune(c))
}

type SimpleText string

func (SimpleText) Kind() Kind { return KindSimpleText }

func (s SimpleText) AppendText(dst []byte, composed bool) []byte {
	return AppendEscaped(dst, string(s), composed)
}

type Text string

func (Text) Kind() Kind { return KindText }

func (s Text) AppendText(dst []byte, composed bool) []byte {
	return AppendEscaped(dst, string(s), composed)
}

type Compose struct {
	Left, Right Value
}

func (Compose) Kind() Kind { return KindCompose }

func (c Compose) AppendText(dst []byte, _ bool) []byte {
	dst = c.Left.AppendText(dst, true)
	dst = append(dst, ':')
	return c.Right.AppendText(dst, true)
}

// List is the value of a list or elist property. An empty elist renders as
// the single empty value.
type List struct {
	Items []Value
	EList bool
}

func (l List) Kind() Kind {
	if l.EList {
		return KindEList
	}
	return KindList
}

func (l List) AppendText(dst []byte, _ bool) []byte {
	for i, v := range l.Items {
		if i > 0 {
			dst = append(dst, "]["...)
		}
		dst = v.AppendText(dst, false)
	}
	return dst
}

var (
	numberRE = regexp.MustCompile(`^[+-]?[0-9]+$`)
	realRE   = regexp.MustCompile(`^[+-]?[0-9]+(\.[0-9]+)?$|^[+-]?\.[0-9]+$`)
)

func ParseNumber(raw string) (Number, error) {
	s := strings.TrimSpace(Unescape(raw))
	if !numberRE.MatchString(s) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("number %q out of range", raw)
	}
	return Number(n), nil
}

func ParseReal(raw string) (Real, error) {
	s := strings.TrimSpace(Unescape(raw))
	if !realRE.MatchString(s) {
		return 0, fmt.Errorf("invalid real %q", raw)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("real %q out of range", raw)
	}
	return Real(f), nil
}

func ParseDouble(raw string) (Double, error) {
	switch strings.TrimSpace(Unescape(raw)) {
	case "1":
		return DoubleNormal, nil
	case "2":
		return DoubleVery, nil
	}
	return 0, fmt.Errorf("invalid double %q", raw)
}

func ParseColor(raw string) (Color, error) {
	switch strings.TrimSpace(Unescape(raw)) {
	case "B":
		return Black, nil
	case "W":
		return White, nil
	}
	return 0, fmt.Errorf("invalid color %q", raw)
}

func ParseNone(raw string) (None, error) {
	if strings.TrimSpace(raw) != "" {
		return None{}, fmt.Errorf("expected empty value, got %q", raw)
	}
	return None{}, nil
}

func ParseSimpleText(raw string) SimpleText {
	return SimpleText(NormalizeSimpleText(raw))
}

func ParseText(raw string) Text {
	return Text(NormalizeText(raw))
}
