package backgammon

import (
	"fmt"
	"strconv"
	"strings"

	"gammon_sgf/internal/domain/sgf"
)

// MatchInfoItem is one key:value entry of MI.
type MatchInfoItem struct {
	Key, Value string
}

func (MatchInfoItem) Kind() sgf.Kind { return sgf.KindCustom }

func (m MatchInfoItem) AppendText(dst []byte, _ bool) []byte {
	dst = sgf.AppendEscaped(dst, m.Key, true)
	dst = append(dst, ':')
	return sgf.AppendEscaped(dst, m.Value, false)
}

func ParseMatchInfoItem(text string) (MatchInfoItem, error) {
	key, value, ok := strings.Cut(text, ":")
	if !ok || key == "" {
		return MatchInfoItem{}, fmt.Errorf("invalid match info %q", text)
	}
	return MatchInfoItem{Key: key, Value: value}, nil
}

var MatchInfoItemType = sgf.Custom("MatchInfoItem", func(text string) (sgf.Value, error) {
	return ParseMatchInfoItem(text)
})

// MatchInfo is the decoded MI property. Scores are in SGF colours.
type MatchInfo struct {
	Length     int
	Game       int // 1 based, 0 when absent
	BlackScore int
	WhiteScore int
	Extra      []MatchInfoItem
}

// DecodeMatchInfo reads the known keys of an MI list. Unknown keys are kept
// in Extra.
func DecodeMatchInfo(v sgf.Value) (MatchInfo, error) {
	var mi MatchInfo
	l, ok := v.(sgf.List)
	if !ok {
		return mi, fmt.Errorf("MI is a %s, not a list", v.Kind())
	}
	for _, it := range l.Items {
		item, ok := it.(MatchInfoItem)
		if !ok {
			return mi, fmt.Errorf("unexpected MI item %q", sgf.TextOf(it))
		}
		var dst *int
		switch item.Key {
		case "length":
			dst = &mi.Length
		case "game":
			dst = &mi.Game
		case "bs":
			dst = &mi.BlackScore
		case "ws":
			dst = &mi.WhiteScore
		default:
			mi.Extra = append(mi.Extra, item)
			continue
		}
		n, err := strconv.Atoi(item.Value)
		if err != nil || n < 0 {
			return mi, fmt.Errorf("invalid MI %s %q", item.Key, item.Value)
		}
		*dst = n
	}
	return mi, nil
}

// Encode renders mi as an MI value.
func (mi MatchInfo) Encode() sgf.List {
	l := sgf.List{EList: true}
	add := func(k string, v int) {
		l.Items = append(l.Items, MatchInfoItem{Key: k, Value: strconv.Itoa(v)})
	}
	add("length", mi.Length)
	if mi.Game > 0 {
		add("game", mi.Game)
	}
	add("ws", mi.WhiteScore)
	add("bs", mi.BlackScore)
	for _, it := range mi.Extra {
		l.Items = append(l.Items, it)
	}
	return l
}

// Rules is the decoded RU property.
type Rules struct {
	Crawford     bool
	CrawfordGame bool
	Jacoby       bool
	Other        []string
}

// ParseRules reads RU. Words are separated by colons, e.g.
// "Crawford:CrawfordGame".
func ParseRules(text string) Rules {
	var r Rules
	for _, w := range strings.Split(text, ":") {
		switch strings.TrimSpace(w) {
		case "":
		case "Crawford":
			r.Crawford = true
		case "CrawfordGame":
			r.Crawford = true
			r.CrawfordGame = true
		case "Jacoby":
			r.Jacoby = true
		default:
			r.Other = append(r.Other, w)
		}
	}
	return r
}

func (r Rules) String() string {
	var words []string
	if r.Crawford {
		words = append(words, "Crawford")
	}
	if r.CrawfordGame {
		words = append(words, "CrawfordGame")
	}
	if r.Jacoby {
		words = append(words, "Jacoby")
	}
	words = append(words, r.Other...)
	return strings.Join(words, ":")
}

// Owner is the cube owner named by CO, in SGF colours.
type Owner int

const (
	OwnerCentered Owner = iota
	OwnerBlack
	OwnerWhite
)

func (o Owner) String() string {
	switch o {
	case OwnerBlack:
		return "b"
	case OwnerWhite:
		return "w"
	}
	return "c"
}

// ParseOwner reads the cube owner tokens accepted by CO and CP.
func ParseOwner(text string) (Owner, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "b", "black":
		return OwnerBlack, nil
	case "w", "white":
		return OwnerWhite, nil
	case "n", "none", "nobody", "noone", "c", "centered", "centred", "center", "centre":
		return OwnerCentered, nil
	}
	return OwnerCentered, fmt.Errorf("invalid cube owner %q", text)
}

// DecodeDice splits DI (10*d1 + d2).
func DecodeDice(n int) (d1, d2 int, err error) {
	d1, d2 = n/10, n%10
	if n < 11 || n > 66 || d1 < 1 || d1 > 6 || d2 < 1 || d2 > 6 {
		return 0, 0, fmt.Errorf("invalid dice %d", n)
	}
	return d1, d2, nil
}

// ValidCube reports whether v is a legal cube value.
func ValidCube(v int) bool {
	return v >= 1 && v&(v-1) == 0
}
