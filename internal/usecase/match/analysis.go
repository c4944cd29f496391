package match

import (
	"fmt"
	"strconv"
	"strings"

	"gammon_sgf/internal/domain/backgammon"
	match "gammon_sgf/internal/domain/match"
	sgf "gammon_sgf/internal/domain/sgf"
	"gammon_sgf/internal/errors"
)

// AnalysisVersion is the only blob version read and written.
const AnalysisVersion = 3

const outputLen = 7

// ParseEval reads an evaluation blob:
//
//	E ver 3 <plies>[C] <deterministic> <noise> <prune> <7n reals>
//	X ver 3 Trials <n> (<label> <7 reals>)+
//
// Other versions fail with ErrUnsupportedVersion.
func ParseEval(s string) (match.Evaluation, error) {
	var e match.Evaluation
	tok := strings.Fields(s)
	if len(tok) < 3 || tok[1] != "ver" {
		return e, fmt.Errorf("malformed analysis %q", s)
	}
	if tok[2] != strconv.Itoa(AnalysisVersion) {
		return e, fmt.Errorf("%w %s", errors.ErrUnsupportedVersion, tok[2])
	}
	switch tok[0] {
	case "E":
		return parseEvaluation(tok[3:], s)
	case "X":
		return parseRollout(tok[3:], s)
	}
	return e, fmt.Errorf("unknown analysis kind %q", tok[0])
}

func parseEvaluation(tok []string, s string) (match.Evaluation, error) {
	e := match.Evaluation{Kind: match.KindEvaluation}
	if len(tok) < 4+outputLen || (len(tok)-4)%outputLen != 0 {
		return e, fmt.Errorf("malformed evaluation %q", s)
	}
	plies := tok[0]
	if p, ok := strings.CutSuffix(plies, "C"); ok {
		e.Context.Cubeful = true
		plies = p
	}
	var err error
	if e.Context.Plies, err = strconv.Atoi(plies); err != nil {
		return e, fmt.Errorf("malformed plies in %q", s)
	}
	det, err1 := strconv.Atoi(tok[1])
	noise, err2 := strconv.ParseFloat(tok[2], 64)
	prune, err3 := strconv.Atoi(tok[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return e, fmt.Errorf("malformed evaluation context in %q", s)
	}
	e.Context.Deterministic = det != 0
	e.Context.Noise = noise
	e.Context.Prune = prune != 0

	for rest := tok[4:]; len(rest) > 0; rest = rest[outputLen:] {
		o, err := parseOutput(rest[:outputLen])
		if err != nil {
			return e, fmt.Errorf("%w in %q", err, s)
		}
		e.Outputs = append(e.Outputs, o)
	}
	return e, nil
}

func parseRollout(tok []string, s string) (match.Evaluation, error) {
	e := match.Evaluation{Kind: match.KindRollout}
	if len(tok) < 2 || tok[0] != "Trials" {
		return e, fmt.Errorf("malformed rollout %q", s)
	}
	n, err := strconv.Atoi(tok[1])
	if err != nil || n < 0 {
		return e, fmt.Errorf("malformed trial count in %q", s)
	}
	e.Trials = n

	rest := tok[2:]
	if len(rest) == 0 || len(rest)%(outputLen+1) != 0 {
		return e, fmt.Errorf("malformed rollout %q", s)
	}
	for ; len(rest) > 0; rest = rest[outputLen+1:] {
		o, err := parseOutput(rest[1 : outputLen+1])
		if err != nil {
			return e, fmt.Errorf("%w in %q", err, s)
		}
		e.Labels = append(e.Labels, rest[0])
		e.Outputs = append(e.Outputs, o)
	}
	return e, nil
}

func parseOutput(tok []string) (match.Output, error) {
	v := make([]float64, len(tok))
	for i, t := range tok {
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return match.Output{}, fmt.Errorf("invalid real %q", t)
		}
		v[i] = f
	}
	return match.OutputOf(v), nil
}

func formatReal(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func appendOutput(b *strings.Builder, o match.Output) {
	for _, f := range []float64{o.Win, o.WinGammon, o.WinBackgammon, o.LoseGammon, o.LoseBackgammon, o.Equity, o.CubefulEquity} {
		b.WriteByte(' ')
		b.WriteString(formatReal(f))
	}
}

// FormatEval is the inverse of ParseEval.
func FormatEval(e match.Evaluation) string {
	var b strings.Builder
	if e.Kind == match.KindRollout {
		fmt.Fprintf(&b, "X ver %d Trials %d", AnalysisVersion, e.Trials)
		for i, o := range e.Outputs {
			label := "-"
			if i < len(e.Labels) && e.Labels[i] != "" {
				label = e.Labels[i]
			}
			b.WriteByte(' ')
			b.WriteString(label)
			appendOutput(&b, o)
		}
		return b.String()
	}

	c := e.Context
	cubeful := ""
	if c.Cubeful {
		cubeful = "C"
	}
	fmt.Fprintf(&b, "E ver %d %d%s %d %s %d", AnalysisVersion, c.Plies, cubeful,
		boolInt(c.Deterministic), formatReal(c.Noise), boolInt(c.Prune))
	for _, o := range e.Outputs {
		appendOutput(&b, o)
	}
	return b.String()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseVariants reads A: the index of the played variant followed by one
// "<letters> <blob>" value per candidate.
func parseVariants(values []string) (played int, variants []match.Variant, err error) {
	if len(values) == 0 {
		return -1, nil, nil
	}
	played, err = strconv.Atoi(strings.TrimSpace(values[0]))
	if err != nil {
		return -1, nil, fmt.Errorf("malformed played index %q", values[0])
	}
	for _, v := range values[1:] {
		letters, blob, ok := strings.Cut(strings.TrimSpace(v), " ")
		if !ok {
			return -1, nil, fmt.Errorf("malformed variant %q", v)
		}
		if letters == "-" {
			letters = ""
		}
		mvs, err := backgammon.ParseMovements(letters)
		if err != nil {
			return -1, nil, err
		}
		e, err := ParseEval(blob)
		if err != nil {
			return -1, nil, err
		}
		variants = append(variants, match.Variant{Movements: backgammon.InternalOf(mvs), Eval: e})
	}
	return played, variants, nil
}

// formatVariant renders one A value.
func formatVariant(v match.Variant) string {
	mvs := make([]backgammon.Movement, len(v.Movements))
	for i, mv := range v.Movements {
		mvs[i] = backgammon.ToSGF(mv[0], mv[1])
	}
	letters := string(backgammon.AppendMovements(nil, mvs))
	if letters == "" {
		letters = "-"
	}
	return letters + " " + FormatEval(v.Eval)
}

// sgfColor is the SGF colour that records side.
func sgfColor(side match.Side) sgf.Color {
	if side == match.White {
		return sgf.Black
	}
	return sgf.White
}

// sideOf is the inverse of sgfColor.
func sideOf(c sgf.Color) match.Side {
	if c == sgf.Black {
		return match.White
	}
	return match.Black
}

// luckOf builds the roll luck of a node, or nil when the node carries none.
// GW marks a roll that was good for SGF White, GB one that was good for
// SGF Black.
func luckOf(n *sgf.Node, roller match.Side) *match.RollLuck {
	lu, hasLU := n.Get("LU")
	gw, hasGW := n.Get("GW")
	gb, hasGB := n.Get("GB")
	_, hasUC := n.Get("UC")
	if !hasLU && !hasGW && !hasGB && !hasUC {
		return nil
	}

	l := &match.RollLuck{Type: match.LuckNone}
	if r, ok := lu.(sgf.Real); ok {
		l.Value = float64(r)
	}
	good, emphasis := sgf.White, gw
	if hasGB {
		good, emphasis = sgf.Black, gb
	}
	switch {
	case hasUC:
		l.Type = match.LuckUnknown
	case hasGW || hasGB:
		very := emphasis == sgf.DoubleVery
		if sgfColor(roller) == good {
			l.Type = match.LuckLucky
			if very {
				l.Type = match.LuckVeryLucky
			}
		} else {
			l.Type = match.LuckUnlucky
			if very {
				l.Type = match.LuckVeryUnlucky
			}
		}
	}
	return l
}

// luckProperties is the inverse of luckOf.
func luckProperties(l *match.RollLuck, roller match.Side) []sgf.Property {
	var props []sgf.Property
	if l.Type != match.LuckUnknown || l.Value != 0 {
		props = append(props, sgf.Property{ID: "LU", Value: sgf.Real(l.Value)})
	}
	emphasis := sgf.DoubleNormal
	lucky := true
	switch l.Type {
	case match.LuckUnknown:
		return append(props, sgf.Property{ID: "UC", Value: sgf.DoubleNormal})
	case match.LuckNone:
		return props
	case match.LuckVeryLucky:
		emphasis = sgf.DoubleVery
	case match.LuckUnlucky:
		lucky = false
	case match.LuckVeryUnlucky:
		lucky = false
		emphasis = sgf.DoubleVery
	}
	good := sgfColor(roller)
	if !lucky {
		good = good.Opponent()
	}
	id := "GB"
	if good == sgf.White {
		id = "GW"
	}
	return append(props, sgf.Property{ID: id, Value: emphasis})
}

// moveGrade reads DO and BM: 1 doubtful, 2 bad, 3 very bad.
func moveGrade(n *sgf.Node) int {
	return grade(n, "DO", "BM")
}

// cubeGrade reads DC and BC the same way.
func cubeGrade(n *sgf.Node) int {
	return grade(n, "DC", "BC")
}

func grade(n *sgf.Node, doubtful, bad string) int {
	if n.Has(doubtful) {
		return 1
	}
	if v, ok := n.Get(bad); ok {
		if v == sgf.DoubleVery {
			return 3
		}
		return 2
	}
	return 0
}

func gradeProperties(g int, doubtful, bad string) []sgf.Property {
	switch g {
	case 1:
		return []sgf.Property{{ID: doubtful, Value: sgf.None{}}}
	case 2:
		return []sgf.Property{{ID: bad, Value: sgf.DoubleNormal}}
	case 3:
		return []sgf.Property{{ID: bad, Value: sgf.DoubleVery}}
	}
	return nil
}

// simpleTexts returns the SimpleText items of a List(SimpleText) value.
func simpleTexts(v sgf.Value) []string {
	switch v := v.(type) {
	case sgf.List:
		out := make([]string, 0, len(v.Items))
		for _, it := range v.Items {
			out = append(out, textOf(it))
		}
		return out
	case nil:
		return nil
	}
	return []string{textOf(v)}
}

func textOf(v sgf.Value) string {
	switch v := v.(type) {
	case sgf.SimpleText:
		return string(v)
	case sgf.Text:
		return string(v)
	}
	return sgf.Unescape(sgf.TextOf(v))
}
