/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import (
	"math"
	"math/rand/v2"
	"slices"
)

const (
	GroupSize = 4

	selectAttempts = 100
)

// NewRand returns a PCG-backed source. A zero seed draws a random one.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// SelectGroup picks up to GroupSize players from pool whose values for key
// sit close together.
//
// Pools of GroupSize or fewer come back whole. Otherwise up to 100 random
// groups are drawn; the first whose standard deviation is within
// maxDeviationFactor times the catalog-wide deviation for key is returned,
// and if none qualifies the tightest group seen is returned instead.
func SelectGroup(r *rand.Rand, c *Catalog, pool []Player, key StatKey, maxDeviationFactor float64) ([]Player, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	if len(pool) <= GroupSize {
		return slices.Clone(pool), nil
	}

	populationDeviation, err := c.StdDev(key)
	if err != nil {
		return nil, err
	}
	maxDeviation := maxDeviationFactor * populationDeviation

	order := make([]int, len(pool))
	for i := range order {
		order[i] = i
	}

	var best [GroupSize]int
	lowest := math.Inf(1)
	values := make([]float64, GroupSize)

	for range selectAttempts {
		drawFour(r, order)

		for i := range GroupSize {
			values[i] = pool[order[i]].Value(key)
		}
		deviation := StdDev(values)

		if deviation <= maxDeviation {
			copy(best[:], order[:GroupSize])
			break
		}

		if deviation < lowest {
			lowest = deviation
			copy(best[:], order[:GroupSize])
		}
	}

	group := make([]Player, GroupSize)
	for i, idx := range best {
		group[i] = pool[idx]
	}
	return group, nil
}

// drawFour runs the first GroupSize steps of a Fisher-Yates shuffle over
// order, leaving a uniform random draw without replacement in its head.
func drawFour(r *rand.Rand, order []int) {
	n := len(order)
	for i := range GroupSize {
		j := i + r.IntN(n-i)
		order[i], order[j] = order[j], order[i]
	}
}
