package match

import (
	"github.com/google/uuid"

	"gammon_sgf/internal/errors"
)

// Match is a sequence of games between two players.
type Match struct {
	ID       uuid.UUID `json:"id"`
	Players  [2]string `json:"players"` // indexed by Side.Index
	Length   int       `json:"length"`  // 0 for money play
	Crawford bool      `json:"crawford"`
	Jacoby   bool      `json:"jacoby"`
	Games    []*Game   `json:"games"`
	Warnings []error   `json:"-"`
}

func New(length int) *Match {
	return &Match{ID: uuid.New(), Length: length}
}

func (m *Match) Player(s Side) string {
	return m.Players[s.Index()]
}

// Current returns the last game.
func (m *Match) Current() (*Game, error) {
	if len(m.Games) == 0 {
		return nil, errors.ErrNoGame
	}
	return m.Games[len(m.Games)-1], nil
}

// Scores returns the running scores: the score at the start of the last
// game plus its result when it is over.
func (m *Match) Scores() [2]int {
	g, err := m.Current()
	if err != nil {
		return [2]int{}
	}
	return g.Current().Scores
}

// Over reports whether a match to Length points has been decided.
func (m *Match) Over() bool {
	if m.Length == 0 {
		return false
	}
	s := m.Scores()
	return s[0] >= m.Length || s[1] >= m.Length
}

// crawfordTaken reports whether an earlier game was the Crawford game.
func (m *Match) crawfordTaken() bool {
	for _, g := range m.Games {
		if g.Crawford {
			return true
		}
	}
	return false
}

// StartGame appends a game starting at scores from the opening position.
// The game is the Crawford game when the rule is on and it is the first
// game in which either side needs one point, or when marked explicitly.
func (m *Match) StartGame(scores [2]int, markedCrawford bool) *Game {
	p := Initial()
	p.Scores = scores
	p.MatchLength = m.Length
	if m.Crawford && m.Length > 0 && !m.crawfordTaken() {
		p.Crawford = markedCrawford ||
			scores[0] == m.Length-1 || scores[1] == m.Length-1
	}
	if p.Crawford {
		p.MayDouble = [2]bool{}
	}
	g := NewGame(len(m.Games)+1, p)
	g.SetJacoby(m.Jacoby && m.Length == 0)
	m.Games = append(m.Games, g)
	return g
}
