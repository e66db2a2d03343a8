/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ParseCSV reads player rows. The header must name the "name", "team" and
// "pos" columns; any column whose header matches a key in stats is read as
// that statistic, and all other columns are ignored.
func ParseCSV(r io.Reader, stats []Stat) ([]Player, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}

	known := make(map[StatKey]bool, len(stats))
	for _, s := range stats {
		known[s.Key] = true
	}

	nameCol, teamCol, posCol := -1, -1, -1
	statCols := make(map[int]StatKey)

	seen := make(map[string]bool, len(headers))

	for i, h := range headers {
		key := strings.ToLower(strings.TrimSpace(h))
		if key == "position" {
			key = "pos"
		}
		if (key == "name" || key == "team" || key == "pos" || known[StatKey(key)]) && seen[key] {
			return nil, fmt.Errorf("duplicate CSV column %q", key)
		}
		seen[key] = true

		switch key {
		case "name":
			nameCol = i
		case "team":
			teamCol = i
		case "pos":
			posCol = i
		default:
			if known[StatKey(key)] {
				statCols[i] = StatKey(key)
			}
		}
	}

	if nameCol < 0 || teamCol < 0 || posCol < 0 {
		return nil, errors.New("CSV header must include name, team and pos columns")
	}

	var players []Player
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		line, _ := reader.FieldPos(0)

		values := make(map[StatKey]float64, len(statCols))
		for col, key := range statCols {
			raw := strings.TrimSpace(row[col])
			if raw == "" {
				continue
			}
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: column %q: %w", line, key, err)
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("line %d: column %q: value %q is not a finite number", line, key, raw)
			}
			values[key] = v
		}

		players = append(players, NewPlayer(
			strings.TrimSpace(row[nameCol]),
			strings.TrimSpace(row[teamCol]),
			strings.TrimSpace(row[posCol]),
			values,
		))
	}

	return players, nil
}
