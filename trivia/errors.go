/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyPool   = errors.New("no players match the current filters")
	ErrUnknownStat = errors.New("unknown statistic")
)

// MissingStatError reports a catalog record without a value for one of the
// catalog's statistics. It is raised once, when the catalog is built.
type MissingStatError struct {
	Player string
	Stat   StatKey
}

func (e *MissingStatError) Error() string {
	return fmt.Sprintf("player %q has no value for statistic %q", e.Player, e.Stat)
}

// InvalidStatError reports a NaN or infinite value in a catalog record.
type InvalidStatError struct {
	Player string
	Stat   StatKey
	Value  float64
}

func (e *InvalidStatError) Error() string {
	return fmt.Sprintf("player %q has non-finite value %v for statistic %q", e.Player, e.Value, e.Stat)
}
