package match

import "iter"

// Probabilities are the outcome chances of the side on roll.
type Probabilities struct {
	Win            float64 `json:"win"`
	WinGammon      float64 `json:"win_gammon"`
	WinBackgammon  float64 `json:"win_backgammon"`
	Lose           float64 `json:"lose"`
	LoseGammon     float64 `json:"lose_gammon"`
	LoseBackgammon float64 `json:"lose_backgammon"`
}

// VariantInfo is one analysed candidate play, ready for display.
type VariantInfo struct {
	Index         int           `json:"index"`
	Played        bool          `json:"played"`
	Kind          string        `json:"kind"`
	Move          string        `json:"move"`
	Equity        float64       `json:"equity"`
	Context       Context       `json:"context"`
	Probabilities Probabilities `json:"probabilities"`
	Position      Position      `json:"position"`
}

// Variants enumerates the analysed candidates of entry i. It yields
// nothing when the entry carries no checker analysis.
func (g *Game) Variants(i int) iter.Seq[VariantInfo] {
	return func(yield func(VariantInfo) bool) {
		if i < 0 || i >= len(g.entries) {
			return
		}
		e := g.entries[i]
		an, ok := e.Analysis.(*MoveAnalysis)
		if !ok || len(an.Variants) == 0 {
			return
		}
		before, err := g.PositionAt(i)
		if err != nil {
			return
		}
		for k, v := range an.Variants {
			info := VariantInfo{
				Index:   k,
				Played:  k == an.Played,
				Kind:    v.Eval.Describe(),
				Move:    before.FormatMove(e.Side, v.Movements),
				Context: an.Context,
			}
			if len(v.Eval.Outputs) > 0 {
				o := v.Eval.Outputs[0]
				info.Equity = o.Equity
				if v.Eval.Context.Cubeful {
					info.Equity = o.CubefulEquity
				}
				info.Probabilities = Probabilities{
					Win:            o.Win,
					WinGammon:      o.WinGammon,
					WinBackgammon:  o.WinBackgammon,
					Lose:           o.Lose(),
					LoseGammon:     o.LoseGammon,
					LoseBackgammon: o.LoseBackgammon,
				}
			}
			if after, err := before.Apply(e.Side, v.Movements); err == nil {
				info.Position = after
			} else {
				info.Position = before
			}
			if !yield(info) {
				return
			}
		}
	}
}
