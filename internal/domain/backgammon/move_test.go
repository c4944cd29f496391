package backgammon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMove_Play(t *testing.T) {
	m, err := ParseMove("31qtst")
	require.NoError(t, err)
	assert.Equal(t, ActionPlay, m.Action)
	assert.Equal(t, [2]int{3, 1}, m.Dice)
	assert.Equal(t, []Movement{{16, 19}, {18, 19}}, m.Movements)
	assert.Equal(t, [][2]int{{8, 5}, {6, 5}}, m.Internal())
}

// TestParseMove_ByteRoundTrip checks that a play is written back as read.
func TestParseMove_ByteRoundTrip(t *testing.T) {
	for _, text := range []string{"65xywv", "31qtst", "66aabbccdd", "21", "54yaza"} {
		m, err := ParseMove(text)
		require.NoError(t, err, text)
		assert.Equal(t, text, m.String())
	}
}

func TestParseMove_Specials(t *testing.T) {
	cases := map[string]Move{
		"":          {Action: ActionPass},
		"double":    {Action: ActionDouble},
		"Take":      {Action: ActionTake},
		"DROP":      {Action: ActionDrop},
		"accept":    {Action: ActionAccept},
		"reject":    {Action: ActionReject},
		"resign:2":  {Action: ActionResign, Points: 2},
		"Resign:3":  {Action: ActionResign, Points: 3},
	}
	for text, want := range cases {
		m, err := ParseMove(text)
		require.NoError(t, err, text)
		assert.Equal(t, want, m, text)
	}

	m, _ := ParseMove("Take")
	assert.Equal(t, "take", m.String())
	m, _ = ParseMove("Resign:3")
	assert.Equal(t, "resign:3", m.String())
}

func TestParseMove_Invalid(t *testing.T) {
	for _, text := range []string{"7", "71ab", "30ab", "31a", "31aAbb", "31aabbccddee", "resign:", "resign:x", "resign:0", "redouble"} {
		_, err := ParseMove(text)
		assert.Error(t, err, text)
	}
}

// TestRemap_S6 checks the board coordinates of a bear-off letter pair.
func TestRemap_S6(t *testing.T) {
	m, err := ParseMove("65xywv")
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{2, 3}, {1, 0}}, m.Internal())
}

func TestRemap_BarEntry(t *testing.T) {
	from, to := ToInternal(Movement{From: LetterBar, To: 2})
	assert.Equal(t, 25, from)
	assert.Equal(t, 22, to)

	from, to = ToInternal(Movement{From: LetterBar, To: 21})
	assert.Equal(t, 0, from)
	assert.Equal(t, 3, to)
}

// TestRemap_Involution round trips every legal SGF movement and every
// legal board movement.
func TestRemap_Involution(t *testing.T) {
	for from := 0; from <= LetterBar; from++ {
		for to := 0; to <= LetterOff; to++ {
			if to == LetterBar || from == to || (from == LetterBar && to == LetterOff) {
				continue
			}
			mv := Movement{From: from, To: to}
			f, tt := ToInternal(mv)
			assert.Equal(t, mv, ToSGF(f, tt), "%v", mv)
		}
	}

	// white moves down, black moves up
	for from := 1; from <= 25; from++ {
		for to := 0; to < from && to <= 24; to++ {
			if from == 25 && to < 19 || to == 0 && from > 6 {
				continue
			}
			f, tt := ToInternal(ToSGF(from, to))
			assert.Equal(t, [2]int{from, to}, [2]int{f, tt}, "white %d/%d", from, to)
		}
	}
	for from := 0; from <= 24; from++ {
		for to := from + 1; to <= 25; to++ {
			if from == 0 && to > 6 || to == 25 && from < 19 {
				continue
			}
			f, tt := ToInternal(ToSGF(from, to))
			assert.Equal(t, [2]int{from, to}, [2]int{f, tt}, "black %d/%d", from, to)
		}
	}
}

func TestPlayOf(t *testing.T) {
	m := PlayOf(3, 1, [][2]int{{8, 5}, {6, 5}})
	assert.Equal(t, "31qtst", m.String())

	m = PlayOf(6, 5, [][2]int{{25, 19}, {6, 0}})
	assert.Equal(t, "65yfsz", m.String())
}

func TestSortMovements(t *testing.T) {
	mvs := [][2]int{{6, 5}, {8, 5}, {8, 2}, {13, 7}, {25, 20}}
	SortMovements(mvs)
	assert.Equal(t, [][2]int{{25, 20}, {13, 7}, {8, 5}, {8, 2}, {6, 5}}, mvs)

	assert.True(t, MovementBefore([2]int{8, 5}, [2]int{8, 2}))
	assert.False(t, MovementBefore([2]int{6, 5}, [2]int{8, 2}))
}

func TestParseMovements(t *testing.T) {
	mvs, err := ParseMovements("qtst")
	require.NoError(t, err)
	assert.Equal(t, []Movement{{16, 19}, {18, 19}}, mvs)
	assert.Equal(t, "qtst", string(AppendMovements(nil, mvs)))
	assert.Equal(t, [][2]int{{8, 5}, {6, 5}}, InternalOf(mvs))

	mvs, err = ParseMovements("")
	require.NoError(t, err)
	assert.Empty(t, mvs)

	for _, bad := range []string{"q", "qT", "q1"} {
		_, err := ParseMovements(bad)
		assert.Error(t, err, bad)
	}
}
