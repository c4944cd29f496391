package main

import (
	"io"

	match "gammon_sgf/internal/domain/match"
	"gammon_sgf/internal/usecase/game"
	"gammon_sgf/internal/utils"
)

type matchReport struct {
	Name     string       `json:"name"`
	ID       string       `json:"id"`
	Players  [2]string    `json:"players"`
	Length   int          `json:"length"`
	Crawford bool         `json:"crawford"`
	Scores   [2]int       `json:"scores"`
	Over     bool         `json:"over"`
	Games    []gameReport `json:"games"`
	Warnings []string     `json:"warnings,omitempty"`
}

type gameReport struct {
	Number   int            `json:"number"`
	Crawford bool           `json:"crawford"`
	Initial  match.Position `json:"initial"`
	Actions  []string       `json:"actions"`
	Winner   string         `json:"winner,omitempty"`
	Points   int            `json:"points,omitempty"`
}

func newReport(name string, m *match.Match) (*matchReport, error) {
	r := &matchReport{
		Name:     name,
		ID:       m.ID.String(),
		Players:  m.Players,
		Length:   m.Length,
		Crawford: m.Crawford,
		Scores:   m.Scores(),
		Over:     m.Over(),
	}
	for _, g := range m.Games {
		lines, err := game.ListGame(m, g.Number)
		if err != nil {
			return nil, err
		}
		gr := gameReport{
			Number:   g.Number,
			Crawford: g.Crawford,
			Initial:  g.Initial(),
			Actions:  lines,
		}
		if g.Over() {
			gr.Winner = g.Winner().String()
			gr.Points = g.Points()
		}
		r.Games = append(r.Games, gr)
	}
	for _, err := range m.Warnings {
		r.Warnings = append(r.Warnings, err.Error())
	}
	return r, nil
}

func writeReport(w io.Writer, name string, m *match.Match) error {
	r, err := newReport(name, m)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, r)
}
