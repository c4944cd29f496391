package backgammon

import (
	"fmt"
	"strconv"
	"strings"

	"gammon_sgf/internal/domain/sgf"
)

// Cause tells how a game ended.
type Cause int

const (
	CauseNormal Cause = iota
	CauseResignation
	CauseTimeout
	CauseForfeit
)

var causeLetters = map[Cause]string{
	CauseResignation: "R",
	CauseTimeout:     "T",
	CauseForfeit:     "F",
}

func (c Cause) String() string {
	switch c {
	case CauseResignation:
		return "resignation"
	case CauseTimeout:
		return "timeout"
	case CauseForfeit:
		return "forfeit"
	}
	return "normal"
}

// Outcome distinguishes a decided game from the special results.
type Outcome int

const (
	OutcomeWin Outcome = iota
	OutcomeDraw
	OutcomeVoid
	OutcomeUnknown
)

// Result is the value of RE.
type Result struct {
	Outcome Outcome
	Winner  sgf.Color
	Score   int // 0 when absent
	Cause   Cause
}

func (Result) Kind() sgf.Kind { return sgf.KindCustom }

func (r Result) AppendText(dst []byte, composed bool) []byte {
	switch r.Outcome {
	case OutcomeDraw:
		return append(dst, '0')
	case OutcomeVoid:
		return append(dst, "Void"...)
	case OutcomeUnknown:
		return append(dst, '?')
	}
	dst = append(dst, byte(r.Winner), '+')
	if r.Score > 0 {
		dst = strconv.AppendInt(dst, int64(r.Score), 10)
	}
	return append(dst, causeLetters[r.Cause]...)
}

func (r Result) String() string {
	return string(r.AppendText(nil, false))
}

// ParseResult parses the SimpleText of RE.
func ParseResult(text string) (Result, error) {
	switch text {
	case "0", "Draw":
		return Result{Outcome: OutcomeDraw}, nil
	case "Void":
		return Result{Outcome: OutcomeVoid}, nil
	case "?":
		return Result{Outcome: OutcomeUnknown}, nil
	}
	if len(text) < 2 || text[1] != '+' {
		return Result{}, fmt.Errorf("invalid result %q", text)
	}
	r := Result{Outcome: OutcomeWin}
	switch text[0] {
	case 'B':
		r.Winner = sgf.Black
	case 'W':
		r.Winner = sgf.White
	default:
		return Result{}, fmt.Errorf("invalid winner in result %q", text)
	}

	rest := text[2:]
	digits := 0
	for digits < len(rest) && rest[digits] >= '0' && rest[digits] <= '9' {
		digits++
	}
	if digits > 0 {
		n, err := strconv.Atoi(rest[:digits])
		if err != nil {
			return Result{}, fmt.Errorf("invalid score in result %q", text)
		}
		r.Score = n
	}

	switch strings.ToLower(rest[digits:]) {
	case "":
	case "r", "resign":
		r.Cause = CauseResignation
	case "t", "time":
		r.Cause = CauseTimeout
	case "f", "forfeit":
		r.Cause = CauseForfeit
	default:
		return Result{}, fmt.Errorf("invalid cause in result %q", text)
	}
	return r, nil
}

// ResultType is the RE declaration of the backgammon flavor.
var ResultType = sgf.Custom("Result", func(text string) (sgf.Value, error) {
	return ParseResult(text)
})
