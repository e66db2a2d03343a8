/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Question is a single round: a statistic and the players to choose from.
type Question struct {
	stat    Stat
	players []Player
}

// Result is the outcome of answering a question.
type Result struct {
	Index   int    `json:"index"`
	Correct bool   `json:"correct"`
	Title   string `json:"title"`
	Detail  string `json:"detail"`
}

// NewQuestion builds a round for stat from the players matching f. It fails
// with ErrEmptyPool when nothing matches.
func NewQuestion(r *rand.Rand, c *Catalog, stat Stat, f Filter, maxDeviationFactor float64) (*Question, error) {
	if _, err := c.Stat(stat.Key); err != nil {
		return nil, err
	}

	group, err := SelectGroup(r, c, c.Matching(f), stat.Key, maxDeviationFactor)
	if err != nil {
		return nil, err
	}

	return &Question{stat: stat, players: group}, nil
}

// Stat is the statistic the round asks about.
func (q *Question) Stat() Stat {
	return q.stat
}

// StatName is the display label of the round's statistic.
func (q *Question) StatName() string {
	return q.stat.Label
}

// Len is the number of players in the group, at most GroupSize.
func (q *Question) Len() int {
	return len(q.players)
}

// PlayerAt reports false when the group is smaller than index+1.
func (q *Question) PlayerAt(index int) (Player, bool) {
	if index < 0 || index >= len(q.players) {
		return Player{}, false
	}
	return q.players[index], true
}

// PlayerName returns "" for an empty slot.
func (q *Question) PlayerName(index int, appendStat bool) string {
	p, ok := q.PlayerAt(index)
	if !ok {
		return ""
	}
	if appendStat {
		return fmt.Sprintf("%s (%s)", p.Name, FormatValue(p.Value(q.stat.Key)))
	}
	return p.Name
}

func (q *Question) IsWinningIndex(index int) bool {
	p, ok := q.PlayerAt(index)
	if !ok {
		return false
	}
	return p.Value(q.stat.Key) == q.WinningValue()
}

// WinningValue is the best value in the group for the question's statistic,
// or 0 for an empty group.
func (q *Question) WinningValue() float64 {
	if len(q.players) == 0 {
		return 0
	}

	key := q.stat.Key
	best := q.players[0].Value(key)
	for _, p := range q.players[1:] {
		v := p.Value(key)
		better := v > best
		if q.stat.Polarity == Minimize {
			better = v < best
		}
		if better {
			best = v
		}
	}
	return best
}

// WinningPlayers lists every player tied for the winning value, in group
// order.
func (q *Question) WinningPlayers() []Player {
	if len(q.players) == 0 {
		return nil
	}

	want := q.WinningValue()

	var winners []Player
	for _, p := range q.players {
		if p.Value(q.stat.Key) == want {
			winners = append(winners, p)
		}
	}
	return winners
}

func (q *Question) AnswerString() string {
	winners := q.WinningPlayers()
	names := make([]string, len(winners))
	for i, p := range winners {
		names[i] = p.Name
	}

	var namePhrase, verb string
	switch len(names) {
	case 0:
		return ""
	case 1:
		namePhrase = names[0]
		verb = "has"
	case 2:
		namePhrase = names[0] + " and " + names[1]
		verb = "both have"
	default:
		namePhrase = strings.Join(names[:len(names)-1], ", ") + ", and " + names[len(names)-1]
		verb = "all have"
	}

	return fmt.Sprintf("%s %s the %s %s (%s)",
		namePhrase,
		verb,
		q.stat.Superlative,
		q.stat.Label,
		FormatValue(q.WinningValue()),
	)
}

// Grade scores a pick of the player at index.
func (q *Question) Grade(index int) Result {
	correct := q.IsWinningIndex(index)
	answer := q.AnswerString()

	if correct {
		return Result{Index: index, Correct: true, Title: "Correct", Detail: "Yes, " + answer}
	}
	return Result{Index: index, Correct: false, Title: "Nope", Detail: answer}
}

// FormatValue prints v in its shortest exact form: 36, 0.349, 4.4.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
