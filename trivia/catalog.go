/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"sync"
)

//go:embed data/players.csv
var playersCSV []byte

// Player is a single catalog record. Values are fixed once the record is built.
type Player struct {
	Name     string
	Team     string
	Position string

	stats map[StatKey]float64
}

func NewPlayer(name, team, position string, stats map[StatKey]float64) Player {
	p := Player{
		Name:     name,
		Team:     team,
		Position: position,
		stats:    make(map[StatKey]float64, len(stats)),
	}
	for k, v := range stats {
		p.stats[k] = v
	}
	return p
}

// Value returns the player's value for key. Catalog construction guarantees
// every catalog stat is present.
func (p Player) Value(key StatKey) float64 {
	return p.stats[key]
}

func (p Player) has(key StatKey) bool {
	_, ok := p.stats[key]
	return ok
}

// Catalog is the read-only player table plus its descriptor tables.
type Catalog struct {
	players   []Player
	stats     []Stat
	teams     []Team
	positions []Position

	statIndex map[StatKey]int

	mu      sync.Mutex
	stdDevs map[StatKey]float64
}

// NewCatalog validates and wraps the given tables. Every player must carry a
// value for every stat; when teams or positions are given, every player's
// team and position must appear in them.
func NewCatalog(players []Player, stats []Stat, teams []Team, positions []Position) (*Catalog, error) {
	c := &Catalog{
		players:   slices.Clone(players),
		stats:     slices.Clone(stats),
		teams:     slices.Clone(teams),
		positions: slices.Clone(positions),
		statIndex: make(map[StatKey]int, len(stats)),
		stdDevs:   make(map[StatKey]float64, len(stats)),
	}

	for i, s := range c.stats {
		if s.Key == "" {
			return nil, errors.New("statistic with empty key")
		}
		if _, dup := c.statIndex[s.Key]; dup {
			return nil, fmt.Errorf("duplicate statistic %q", s.Key)
		}
		c.statIndex[s.Key] = i
	}

	teamKeys := make(map[string]bool, len(teams))
	for _, t := range teams {
		teamKeys[t.Key] = true
	}
	positionKeys := make(map[string]bool, len(positions))
	for _, p := range positions {
		positionKeys[p.Key] = true
	}

	for _, p := range c.players {
		for _, s := range c.stats {
			if !p.has(s.Key) {
				return nil, &MissingStatError{Player: p.Name, Stat: s.Key}
			}
			if v := p.Value(s.Key); math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &InvalidStatError{Player: p.Name, Stat: s.Key, Value: v}
			}
		}
		if len(teamKeys) > 0 && !teamKeys[p.Team] {
			return nil, fmt.Errorf("player %q: unknown team %q", p.Name, p.Team)
		}
		if len(positionKeys) > 0 && !positionKeys[p.Position] {
			return nil, fmt.Errorf("player %q: unknown position %q", p.Name, p.Position)
		}
	}

	return c, nil
}

// LoadCatalog parses CSV player data and validates it against the default
// descriptor tables.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	stats := DefaultStats()

	players, err := ParseCSV(r, stats)
	if err != nil {
		return nil, err
	}

	return NewCatalog(players, stats, DefaultTeams(), DefaultPositions())
}

// Default returns the catalog built from the embedded player table.
var Default = sync.OnceValues(func() (*Catalog, error) {
	c, err := LoadCatalog(bytes.NewReader(playersCSV))
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return c, nil
})

func (c *Catalog) Players() []Player {
	return slices.Clone(c.players)
}

func (c *Catalog) Stats() []Stat {
	return slices.Clone(c.stats)
}

func (c *Catalog) Teams() []Team {
	return slices.Clone(c.teams)
}

func (c *Catalog) Positions() []Position {
	return slices.Clone(c.positions)
}

func (c *Catalog) Len() int {
	return len(c.players)
}

func (c *Catalog) Stat(key StatKey) (Stat, error) {
	i, ok := c.statIndex[key]
	if !ok {
		return Stat{}, fmt.Errorf("%w: %q", ErrUnknownStat, key)
	}
	return c.stats[i], nil
}

// Matching returns the players accepted by f, in catalog order.
func (c *Catalog) Matching(f Filter) []Player {
	matches := make([]Player, 0, len(c.players))
	for _, p := range c.players {
		if f.Matches(p) {
			matches = append(matches, p)
		}
	}
	return matches
}
