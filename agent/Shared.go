package agent

import (
	"errors"

	"golang.org/x/exp/rand"

	"github.com/retecs-go/xcs/internal/wsample"
	"github.com/retecs-go/xcs/population"
)

// expandRewards normalizes a reward delivered to Reward into a per-step
// slice of length n: a scalar is broadcast to every step, a sequence
// must cover at least n steps (extras are ignored, matching the
// reference's permissive behaviour — spec.md §9).
func expandRewards(r any, n int) ([]float64, error) {
	switch v := r.(type) {
	case float64:
		rewards := make([]float64, n)
		for i := range rewards {
			rewards[i] = v
		}
		return rewards, nil
	case int:
		return expandRewards(float64(v), n)
	case []float64:
		if len(v) < n {
			return nil, &RewardShapeMismatchError{Op: "reward", Got: len(v), Want: n, Err: errRewardShapeMismatch}
		}
		return v[:n], nil
	default:
		return nil, &ConfigError{Op: "reward", Err: errors.New("must be a float64, int, or []float64")}
	}
}

// deleteFromPopulation shrinks pop to at most maxSize by repeatedly
// drawing a classifier weighted by its deletion vote (falling back to a
// uniform draw when the vote total is zero) and either decrementing its
// numerosity or removing it outright.
func deleteFromPopulation[A comparable](pop *population.Population[A], maxSize int, rng *rand.Rand) {
	for pop.Len() > maxSize {
		avgFitness := pop.AvgFitness()
		classifiers := pop.All()
		votes := make([]float64, len(classifiers))
		for i, k := range classifiers {
			votes[i] = k.DeletionVote(avgFitness)
		}

		idx := wsample.Choice(votes, rng)
		victim := classifiers[idx]
		if victim.Numerosity > 1 {
			victim.Numerosity--
		} else {
			pop.RemoveAt(idx)
		}
	}
}
