// Package wsample provides the single weighted-random-index primitive
// shared by roulette-wheel parent selection, population deletion voting,
// and experience-replay batch sampling.
package wsample

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Choice draws a weight-proportional random index in [0, len(weights)).
// If the total weight is zero or negative, it falls back to a uniform
// draw over the same range. This is the general "recovered locally by
// falling back to uniform random choice" rule applied everywhere this
// module needs a weighted draw: roulette selection at zero total
// fitness, the deletion-vote walk, and experience-replay rank sampling.
func Choice(weights []float64, rng *rand.Rand) int {
	if len(weights) == 0 {
		return 0
	}
	if floats.Sum(weights) <= 0 {
		return rng.Intn(len(weights))
	}
	dist := distuv.NewCategorical(weights, rng)
	return int(dist.Rand())
}
