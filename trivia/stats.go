/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package trivia

import "math"

// StdDev is the population standard deviation of values (no Bessel
// correction). It returns 0 for an empty slice.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	m := mean(values)

	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}

	return math.Sqrt(sum / float64(len(values)))
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func (c *Catalog) column(key StatKey) []float64 {
	values := make([]float64, len(c.players))
	for i, p := range c.players {
		values[i] = p.Value(key)
	}
	return values
}

// StdDev returns the population standard deviation of key across the whole
// catalog. Results are cached for the life of the catalog.
func (c *Catalog) StdDev(key StatKey) (float64, error) {
	if _, err := c.Stat(key); err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if v, ok := c.stdDevs[key]; ok {
		return v, nil
	}

	v := StdDev(c.column(key))
	c.stdDevs[key] = v

	return v, nil
}

// Mean returns the arithmetic mean of key across the whole catalog, or 0 for
// an empty catalog.
func (c *Catalog) Mean(key StatKey) (float64, error) {
	if _, err := c.Stat(key); err != nil {
		return 0, err
	}
	if len(c.players) == 0 {
		return 0, nil
	}
	return mean(c.column(key)), nil
}
