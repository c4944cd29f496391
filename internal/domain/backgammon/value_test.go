package backgammon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gammon_sgf/internal/domain/sgf"
)

func TestCodec_Points(t *testing.T) {
	p, err := Codec().ParsePoint("a")
	require.NoError(t, err)
	assert.Equal(t, Point(0), p)
	assert.Equal(t, 24, p.(Point).Board())
	assert.Equal(t, 0, Point(LetterBar).Board())
	assert.Equal(t, Point(5), LetterOf(19))

	s, err := Codec().ParseStone("x")
	require.NoError(t, err)
	assert.Equal(t, Stone(23), s)
	assert.Equal(t, 1, s.(Stone).Board())

	for _, bad := range []string{"", "A", "ab", "1"} {
		_, err := Codec().ParsePoint(bad)
		assert.Error(t, err, bad)
	}
}

func TestAE_Range(t *testing.T) {
	d, ok := Flavor().Lookup("AE")
	require.True(t, ok)
	v, err := d.Type.Parse([]string{"a:y"}, Flavor())
	require.NoError(t, err)
	assert.Len(t, v.(sgf.List).Items, 25)

	_, err = d.Type.Parse([]string{"c:a"}, Flavor())
	assert.Error(t, err)
}

// TestAE_Duplicate checks point set dedup under the backgammon flavor.
func TestAE_Duplicate(t *testing.T) {
	d, _ := Flavor().Lookup("AE")
	_, err := d.Type.Parse([]string{"a", "a"}, Flavor())
	assert.Error(t, err)
	_, err = d.Type.Parse([]string{"a:c", "b"}, Flavor())
	assert.Error(t, err)
	_, err = d.Type.Parse([]string{"a", "b"}, Flavor())
	assert.NoError(t, err)
}

func TestAB_DuplicatesAllowed(t *testing.T) {
	d, _ := Flavor().Lookup("AB")
	v, err := d.Type.Parse([]string{"a", "a", "x"}, Flavor())
	require.NoError(t, err)
	assert.Equal(t, "a][a][x", sgf.TextOf(v))
}

func TestParseResult(t *testing.T) {
	cases := []struct {
		text  string
		want  Result
		canon string
	}{
		{"W+2R", Result{Winner: sgf.White, Score: 2, Cause: CauseResignation}, "W+2R"},
		{"B+", Result{Winner: sgf.Black}, "B+"},
		{"B+Resign", Result{Winner: sgf.Black, Cause: CauseResignation}, "B+R"},
		{"W+4T", Result{Winner: sgf.White, Score: 4, Cause: CauseTimeout}, "W+4T"},
		{"W+Forfeit", Result{Winner: sgf.White, Cause: CauseForfeit}, "W+F"},
		{"B+3", Result{Winner: sgf.Black, Score: 3}, "B+3"},
		{"0", Result{Outcome: OutcomeDraw}, "0"},
		{"Draw", Result{Outcome: OutcomeDraw}, "0"},
		{"Void", Result{Outcome: OutcomeVoid}, "Void"},
		{"?", Result{Outcome: OutcomeUnknown}, "?"},
	}
	for _, c := range cases {
		r, err := ParseResult(c.text)
		require.NoError(t, err, c.text)
		assert.Equal(t, c.want, r, c.text)
		assert.Equal(t, c.canon, r.String(), c.text)
	}
	for _, bad := range []string{"", "X+1", "W-2", "W+2Q", "B"} {
		_, err := ParseResult(bad)
		assert.Error(t, err, bad)
	}
}

func TestDecodeMatchInfo(t *testing.T) {
	d, _ := Flavor().Lookup("MI")
	v, err := d.Type.Parse([]string{"length:7", "game:2", "bs:3", "ws:1", "dmb:unlimited"}, Flavor())
	require.NoError(t, err)

	mi, err := DecodeMatchInfo(v)
	require.NoError(t, err)
	assert.Equal(t, 7, mi.Length)
	assert.Equal(t, 2, mi.Game)
	assert.Equal(t, 3, mi.BlackScore)
	assert.Equal(t, 1, mi.WhiteScore)
	assert.Equal(t, []MatchInfoItem{{Key: "dmb", Value: "unlimited"}}, mi.Extra)

	assert.Equal(t, "length:7][game:2][ws:1][bs:3][dmb:unlimited", sgf.TextOf(mi.Encode()))

	v, err = d.Type.Parse([]string{"length:x"}, Flavor())
	require.NoError(t, err)
	_, err = DecodeMatchInfo(v)
	assert.Error(t, err)

	_, err = d.Type.Parse([]string{"nocolon"}, Flavor())
	assert.Error(t, err)
}

func TestParseRules(t *testing.T) {
	r := ParseRules("Crawford:CrawfordGame")
	assert.True(t, r.Crawford)
	assert.True(t, r.CrawfordGame)
	assert.Equal(t, "Crawford:CrawfordGame", r.String())

	r = ParseRules("Jacoby")
	assert.False(t, r.Crawford)
	assert.True(t, r.Jacoby)
}

func TestParseOwner(t *testing.T) {
	for text, want := range map[string]Owner{"b": OwnerBlack, "White": OwnerWhite, "centred": OwnerCentered, "nobody": OwnerCentered} {
		o, err := ParseOwner(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, o, text)
	}
	_, err := ParseOwner("me")
	assert.Error(t, err)
}

func TestDecodeDice(t *testing.T) {
	d1, d2, err := DecodeDice(53)
	require.NoError(t, err)
	assert.Equal(t, [2]int{5, 3}, [2]int{d1, d2})
	for _, bad := range []int{0, 10, 17, 70, 67, 5} {
		_, _, err := DecodeDice(bad)
		assert.Error(t, err, bad)
	}
}

func TestValidCube(t *testing.T) {
	assert.True(t, ValidCube(1))
	assert.True(t, ValidCube(64))
	assert.False(t, ValidCube(0))
	assert.False(t, ValidCube(3))
}

// bgSample returns a valid raw value for a backgammon declaration.
func bgSample(d sgf.Decl, i int) string {
	switch d.ID {
	case "B", "W":
		return "31qtst"
	case "RE":
		return "W+1"
	case "MI":
		return []string{"length:1", "game:1"}[i]
	case "AB", "AW", "AE":
		return []string{"a", "b"}[i]
	case "DI":
		return "31"
	}
	return ""
}

// TestFlavor_Cardinality cooks every backgammon-specific declaration with
// 0, 1 and 2 values.
func TestFlavor_Cardinality(t *testing.T) {
	f := Flavor()
	for _, d := range decls() {
		d, _ := f.Lookup(d.ID)
		sample := func(i int) string {
			if s := bgSample(d, i); s != "" {
				return s
			}
			switch d.Type.Kind {
			case sgf.KindNumber, sgf.KindReal, sgf.KindDouble:
				return "1"
			case sgf.KindColor:
				return "B"
			case sgf.KindNone:
				return ""
			}
			return "text"
		}
		for n := 0; n <= 2; n++ {
			raw := make([]string, n)
			for i := range raw {
				raw[i] = sample(i)
			}
			_, err := d.Type.Parse(raw, f)
			want := n == 1 ||
				(n == 2 && d.Type.Cardinality() != sgf.CardinalitySingle) ||
				(n == 0 && d.Type.Cardinality() == sgf.CardinalityEList)
			if want {
				assert.NoError(t, err, "%s with %d values", d.ID, n)
			} else {
				assert.Error(t, err, "%s with %d values", d.ID, n)
			}
		}
	}
}

func TestRegistry(t *testing.T) {
	assert.Same(t, Flavor(), Registry().ForGame(Game))
	assert.Same(t, sgf.Generic(), Registry().ForGame(1))

	d, ok := Flavor().Lookup("C")
	require.True(t, ok)
	assert.Equal(t, sgf.KindText, d.Type.Kind)
	assert.Error(t, Flavor().CheckExclusions(&sgf.Node{Properties: []sgf.Property{{ID: "BC"}, {ID: "DC"}}}))
}
