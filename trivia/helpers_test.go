/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import "testing"

var (
	homeRuns   = Stat{Key: "hr", Label: "Home Runs", Superlative: "highest", Polarity: Maximize}
	strikeouts = Stat{Key: "k", Label: "Strikeouts", Superlative: "fewest", Polarity: Minimize}
)

type row struct {
	name string
	team string
	pos  string
	hr   float64
	k    float64
}

func testCatalog(t *testing.T, rows ...row) *Catalog {
	t.Helper()

	players := make([]Player, len(rows))
	for i, r := range rows {
		team, pos := r.team, r.pos
		if team == "" {
			team = "NYY"
		}
		if pos == "" {
			pos = "RF"
		}
		players[i] = NewPlayer(r.name, team, pos, map[StatKey]float64{"hr": r.hr, "k": r.k})
	}

	c, err := NewCatalog(players, []Stat{homeRuns, strikeouts}, nil, nil)
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	return c
}

func names(players []Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}
