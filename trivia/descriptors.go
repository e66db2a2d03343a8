/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import "fmt"

type StatKey string

type Polarity int

const (
	Maximize Polarity = iota
	Minimize
)

func (p Polarity) String() string {
	if p == Minimize {
		return "lower is better"
	}
	return "higher is better"
}

func (p Polarity) MarshalText() ([]byte, error) {
	if p == Minimize {
		return []byte("min"), nil
	}
	return []byte("max"), nil
}

func (p *Polarity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "max":
		*p = Maximize
	case "min":
		*p = Minimize
	default:
		return fmt.Errorf("unknown polarity %q", text)
	}
	return nil
}

// Stat describes a statistic a question can be asked about.
type Stat struct {
	Key         StatKey  `json:"key"`
	Label       string   `json:"label"`
	Superlative string   `json:"superlative"`
	Polarity    Polarity `json:"polarity"`
}

type Team struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	ShortLabel string `json:"short_label"`
}

type Position struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

func highest(key StatKey, label string) Stat {
	return Stat{Key: key, Label: label, Superlative: "highest", Polarity: Maximize}
}

func DefaultStats() []Stat {
	return []Stat{
		highest("gp", "Games Played"),
		highest("ab", "At Bats"),
		highest("r", "Runs"),
		highest("h", "Hits"),
		highest("avg", "Batting Average"),
		highest("2b", "Doubles"),
		highest("3b", "Triples"),
		highest("hr", "Home Runs"),
		highest("rbi", "Runs Batted In"),
		highest("tb", "Total Bases"),
		highest("bb", "Walks"),
		{Key: "k", Label: "Strikeouts", Superlative: "fewest", Polarity: Minimize},
		highest("sb", "Stolen Bases"),
		highest("obp", "On-Base Percentage"),
		highest("slg", "Slugging Percentage"),
		highest("ops", "On-base Plus Slugging"),
		highest("war", "Wins Above Replacement"),
	}
}

func DefaultTeams() []Team {
	return []Team{
		{Key: "ARI", Label: "Arizona Diamondbacks", ShortLabel: "Diamondbacks"},
		{Key: "ATH", Label: "Oakland Athletics", ShortLabel: "Athletics"},
		{Key: "ATL", Label: "Atlanta Braves", ShortLabel: "Braves"},
		{Key: "BAL", Label: "Baltimore Orioles", ShortLabel: "Orioles"},
		{Key: "BOS", Label: "Boston Red Sox", ShortLabel: "Red Sox"},
		{Key: "CHC", Label: "Chicago Cubs", ShortLabel: "Cubs"},
		{Key: "CHW", Label: "Chicago White Sox", ShortLabel: "White Sox"},
		{Key: "CIN", Label: "Cincinnati Reds", ShortLabel: "Reds"},
		{Key: "CLE", Label: "Cleveland Guardians", ShortLabel: "Guardians"},
		{Key: "COL", Label: "Colorado Rockies", ShortLabel: "Rockies"},
		{Key: "DET", Label: "Detroit Tigers", ShortLabel: "Tigers"},
		{Key: "HOU", Label: "Houston Astros", ShortLabel: "Astros"},
		{Key: "KC", Label: "Kansas City Royals", ShortLabel: "Royals"},
		{Key: "LAA", Label: "Los Angeles Angels", ShortLabel: "Angels"},
		{Key: "LAD", Label: "Los Angeles Dodgers", ShortLabel: "Dodgers"},
		{Key: "MIA", Label: "Miami Marlins", ShortLabel: "Marlins"},
		{Key: "MIL", Label: "Milwaukee Brewers", ShortLabel: "Brewers"},
		{Key: "MIN", Label: "Minnesota Twins", ShortLabel: "Twins"},
		{Key: "NYM", Label: "New York Mets", ShortLabel: "Mets"},
		{Key: "NYY", Label: "New York Yankees", ShortLabel: "Yankees"},
		{Key: "PHI", Label: "Philadelphia Phillies", ShortLabel: "Phillies"},
		{Key: "PIT", Label: "Pittsburgh Pirates", ShortLabel: "Pirates"},
		{Key: "SD", Label: "San Diego Padres", ShortLabel: "Padres"},
		{Key: "SEA", Label: "Seattle Mariners", ShortLabel: "Mariners"},
		{Key: "SF", Label: "San Francisco Giants", ShortLabel: "Giants"},
		{Key: "STL", Label: "St. Louis Cardinals", ShortLabel: "Cardinals"},
		{Key: "TB", Label: "Tampa Bay Rays", ShortLabel: "Rays"},
		{Key: "TEX", Label: "Texas Rangers", ShortLabel: "Rangers"},
		{Key: "TOR", Label: "Toronto Blue Jays", ShortLabel: "Blue Jays"},
		{Key: "WSH", Label: "Washington Nationals", ShortLabel: "Nationals"},
	}
}

func DefaultPositions() []Position {
	return []Position{
		{Key: "C", Label: "Catcher"},
		{Key: "1B", Label: "First Base"},
		{Key: "2B", Label: "Second Base"},
		{Key: "3B", Label: "Third Base"},
		{Key: "SS", Label: "Shortstop"},
		{Key: "LF", Label: "Left Field"},
		{Key: "CF", Label: "Center Field"},
		{Key: "RF", Label: "Right Field"},
		{Key: "DH", Label: "Designated Hitter"},
		{Key: "SP", Label: "Starting Pitcher"},
	}
}
