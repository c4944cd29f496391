package match

import "fmt"

// Analysis annotates an action. It is either a RollLuck or a MoveAnalysis.
type Analysis interface {
	isAnalysis()
}

type LuckType int

const (
	LuckNone LuckType = iota
	LuckUnknown
	LuckLucky
	LuckVeryLucky
	LuckUnlucky
	LuckVeryUnlucky
)

var luckNames = [...]string{"none", "unknown", "lucky", "very lucky", "unlucky", "very unlucky"}

func (l LuckType) String() string {
	if l >= 0 && int(l) < len(luckNames) {
		return luckNames[l]
	}
	return fmt.Sprintf("LuckType(%d)", int(l))
}

// RollLuck is the luck of a roll. Value is in equity.
type RollLuck struct {
	Type  LuckType `json:"type"`
	Value float64  `json:"value"`
}

// Output is the result vector of an evaluation.
type Output struct {
	Win            float64 `json:"win"`
	WinGammon      float64 `json:"win_gammon"`
	WinBackgammon  float64 `json:"win_backgammon"`
	LoseGammon     float64 `json:"lose_gammon"`
	LoseBackgammon float64 `json:"lose_backgammon"`
	Equity         float64 `json:"equity"`
	CubefulEquity  float64 `json:"cubeful_equity"`
}

// OutputOf reads the seven values of a result vector.
func OutputOf(v []float64) Output {
	var a [7]float64
	copy(a[:], v)
	return Output{a[0], a[1], a[2], a[3], a[4], a[5], a[6]}
}

func (o Output) Lose() float64 { return 1 - o.Win }

type EvalKind int

const (
	KindEvaluation EvalKind = iota
	KindRollout
)

// EvalContext describes how an evaluation was obtained.
type EvalContext struct {
	Plies         int     `json:"plies"`
	Cubeful       bool    `json:"cubeful"`
	Deterministic bool    `json:"deterministic"`
	Noise         float64 `json:"noise"`
	Prune         bool    `json:"prune"`
}

// Evaluation is an evaluation or a rollout. A cube decision carries two
// outputs (no double, double/take), a checker variant carries one.
type Evaluation struct {
	Kind    EvalKind    `json:"kind"`
	Context EvalContext `json:"context"`
	Trials  int         `json:"trials,omitempty"`
	Labels  []string    `json:"labels,omitempty"`
	Outputs []Output    `json:"outputs"`
}

// Describe names the evaluation the way analysis listings do:
// "2-ply cubeful", "rollout 1296 trials".
func (e Evaluation) Describe() string {
	if e.Kind == KindRollout {
		return fmt.Sprintf("rollout %d trials", e.Trials)
	}
	s := fmt.Sprintf("%d-ply", e.Context.Plies)
	if e.Context.Cubeful {
		s += " cubeful"
	}
	return s
}

// Context is the match context an analysis was made in.
type Context struct {
	Length   int    `json:"length"`
	Cube     int    `json:"cube"`
	Scores   [2]int `json:"scores"`
	Crawford bool   `json:"crawford"`
}

// Variant is one candidate play of a checker decision.
type Variant struct {
	Movements [][2]int   `json:"movements"`
	Eval      Evaluation `json:"eval"`
}

// MoveAnalysis annotates a cube or checker decision. Grades range from 0
// (fine) to 3 (very bad).
type MoveAnalysis struct {
	Context   Context     `json:"context"`
	Cube      *Evaluation `json:"cube,omitempty"`
	CubeGrade int         `json:"cube_grade"`
	Variants  []Variant   `json:"variants,omitempty"`
	Played    int         `json:"played"` // index into Variants, -1 when unknown
	MoveGrade int         `json:"move_grade"`
	MayDouble [2]bool     `json:"may_double"`
	// Luck of a preset roll, which has no entry of its own.
	Luck *RollLuck `json:"luck,omitempty"`
}

func (*RollLuck) isAnalysis()     {}
func (*MoveAnalysis) isAnalysis() {}
