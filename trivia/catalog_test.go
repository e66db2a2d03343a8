/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}

	if c.Len() != 300 {
		t.Errorf("Len = %d, want 300", c.Len())
	}
	if got := len(c.Stats()); got != len(DefaultStats()) {
		t.Errorf("stats = %d, want %d", got, len(DefaultStats()))
	}

	first := c.Players()[0]
	if first.Name != "Aaron Judge" || first.Team != "NYY" || first.Position != "RF" {
		t.Errorf("first player = %+v", first)
	}
	if got := first.Value("hr"); got != 36 {
		t.Errorf("Aaron Judge hr = %v, want 36", got)
	}
	if got := first.Value("avg"); got != 0.349 {
		t.Errorf("Aaron Judge avg = %v, want 0.349", got)
	}

	again, _ := Default()
	if again != c {
		t.Error("Default returned a different catalog on second call")
	}
}

func TestNewCatalogValidation(t *testing.T) {
	full := map[StatKey]float64{"hr": 1, "k": 2}

	cases := []struct {
		name      string
		players   []Player
		stats     []Stat
		teams     []Team
		positions []Position
		wantErr   string
	}{
		{
			name:    "valid",
			players: []Player{NewPlayer("A", "NYY", "RF", full)},
			stats:   []Stat{homeRuns, strikeouts},
		},
		{
			name:    "duplicate stat",
			players: []Player{NewPlayer("A", "NYY", "RF", full)},
			stats:   []Stat{homeRuns, homeRuns},
			wantErr: "duplicate statistic",
		},
		{
			name:    "empty stat key",
			stats:   []Stat{{Label: "Nothing"}},
			wantErr: "empty key",
		},
		{
			name:    "unknown team",
			players: []Player{NewPlayer("A", "XXX", "RF", full)},
			stats:   []Stat{homeRuns},
			teams:   []Team{{Key: "NYY"}},
			wantErr: "unknown team",
		},
		{
			name:      "unknown position",
			players:   []Player{NewPlayer("A", "NYY", "P", full)},
			stats:     []Stat{homeRuns},
			positions: []Position{{Key: "RF"}},
			wantErr:   "unknown position",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewCatalog(tc.players, tc.stats, tc.teams, tc.positions)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected err: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("err = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestNewCatalogMissingStat(t *testing.T) {
	players := []Player{
		NewPlayer("A", "NYY", "RF", map[StatKey]float64{"hr": 1, "k": 2}),
		NewPlayer("B", "NYY", "RF", map[StatKey]float64{"hr": 3}),
	}

	_, err := NewCatalog(players, []Stat{homeRuns, strikeouts}, nil, nil)

	var missing *MissingStatError
	if !errors.As(err, &missing) {
		t.Fatalf("err = %v, want *MissingStatError", err)
	}
	if missing.Player != "B" || missing.Stat != "k" {
		t.Errorf("missing = %+v, want B/k", missing)
	}
}

func TestNewCatalogNonFiniteStat(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		players := []Player{
			NewPlayer("A", "NYY", "RF", map[StatKey]float64{"hr": 1, "k": 2}),
			NewPlayer("B", "NYY", "RF", map[StatKey]float64{"hr": v, "k": 2}),
		}

		_, err := NewCatalog(players, []Stat{homeRuns, strikeouts}, nil, nil)

		var invalid *InvalidStatError
		if !errors.As(err, &invalid) {
			t.Fatalf("value %v: err = %v, want *InvalidStatError", v, err)
		}
		if invalid.Player != "B" || invalid.Stat != "hr" {
			t.Errorf("invalid = %+v, want B/hr", invalid)
		}
	}
}

func TestNewPlayerCopiesStats(t *testing.T) {
	stats := map[StatKey]float64{"hr": 5}
	p := NewPlayer("A", "NYY", "RF", stats)
	stats["hr"] = 50

	if got := p.Value("hr"); got != 5 {
		t.Errorf("Value = %v after caller mutation, want 5", got)
	}
}

func TestCatalogStatLookup(t *testing.T) {
	c := testCatalog(t, row{name: "A"})

	s, err := c.Stat("k")
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if s.Polarity != Minimize {
		t.Errorf("k polarity = %v, want Minimize", s.Polarity)
	}

	if _, err := c.Stat("xyz"); !errors.Is(err, ErrUnknownStat) {
		t.Errorf("err = %v, want ErrUnknownStat", err)
	}
}

func TestCatalogMatching(t *testing.T) {
	c := testCatalog(t,
		row{name: "A", team: "NYY", pos: "RF"},
		row{name: "B", team: "BOS", pos: "RF"},
		row{name: "C", team: "NYY", pos: "C"},
	)

	cases := []struct {
		name   string
		filter Filter
		want   string
	}{
		{"no filter", Filter{}, "A,B,C"},
		{"team", Filter{Teams: []string{"NYY"}}, "A,C"},
		{"position", Filter{Positions: []string{"RF"}}, "A,B"},
		{"both", Filter{Teams: []string{"NYY"}, Positions: []string{"RF"}}, "A"},
		{"no match", Filter{Teams: []string{"SEA"}}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := strings.Join(names(c.Matching(tc.filter)), ",")
			if got != tc.want {
				t.Errorf("Matching = %q, want %q", got, tc.want)
			}
		})
	}
}
