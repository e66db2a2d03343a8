/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Filter narrows the player pool and the statistics a round may use.
// Empty slices mean "no filter".
type Filter struct {
	Teams     []string `json:"teams"`
	Positions []string `json:"positions"`
	Stats     []string `json:"stats"`
}

func (f Filter) Matches(p Player) bool {
	teamMatch := len(f.Teams) == 0 || slices.Contains(f.Teams, p.Team)
	positionMatch := len(f.Positions) == 0 || slices.Contains(f.Positions, p.Position)
	return teamMatch && positionMatch
}

// Normalize drops team and position keys the catalog does not know about and
// removes duplicates. Unknown stat keys are an error.
func (f Filter) Normalize(c *Catalog) (Filter, error) {
	teams := make(map[string]bool, len(c.teams))
	for _, t := range c.teams {
		teams[t.Key] = true
	}
	positions := make(map[string]bool, len(c.positions))
	for _, p := range c.positions {
		positions[p.Key] = true
	}

	var out Filter
	for _, t := range f.Teams {
		if teams[t] && !slices.Contains(out.Teams, t) {
			out.Teams = append(out.Teams, t)
		}
	}
	for _, p := range f.Positions {
		if positions[p] && !slices.Contains(out.Positions, p) {
			out.Positions = append(out.Positions, p)
		}
	}
	for _, s := range f.Stats {
		if _, err := c.Stat(StatKey(s)); err != nil {
			return Filter{}, err
		}
		if !slices.Contains(out.Stats, s) {
			out.Stats = append(out.Stats, s)
		}
	}

	return out, nil
}

// RandomStat picks the statistic for a round uniformly from f.Stats, or from
// every catalog statistic when f.Stats is empty.
func (c *Catalog) RandomStat(r *rand.Rand, f Filter) (Stat, error) {
	if len(f.Stats) == 0 {
		if len(c.stats) == 0 {
			return Stat{}, fmt.Errorf("%w: catalog has no statistics", ErrUnknownStat)
		}
		return c.stats[r.IntN(len(c.stats))], nil
	}

	return c.Stat(StatKey(f.Stats[r.IntN(len(f.Stats))]))
}
