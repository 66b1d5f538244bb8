// Package reinforcement implements the temporal-difference update applied
// to an action set after a reward arrives: the MAM-scheduled prediction,
// error and action-set-size updates, followed by the accuracy-weighted
// fitness update.
package reinforcement

import (
	"math"

	"github.com/retecs-go/xcs/classifier"
)

const (
	// Alpha scales the accuracy curve for classifiers whose error
	// exceeds Epsilon0.
	Alpha = 0.1

	// Beta is both the MAM schedule's asymptotic learning rate and the
	// fitness update's learning rate.
	Beta = 0.1

	// Nu is the accuracy curve's exponent.
	Nu = 5.0

	// Epsilon0 is the error threshold below which a classifier is
	// considered fully accurate.
	Epsilon0 = 0.01
)

// Reinforce updates every classifier in actionSet toward target (the
// reward, already discounted by the caller), then recomputes fitness
// over the whole action set from the freshly updated errors. Ordering
// matters: every classifier's prediction, error and action-set-size are
// updated in one pass before UpdateFitness reads the new errors.
func Reinforce[A comparable](actionSet []*classifier.Classifier[A], target float64) {
	numClassifiers := 0
	for _, k := range actionSet {
		numClassifiers += k.Numerosity
	}

	for _, k := range actionSet {
		k.Experience++
		alphaEff := mam(k.Experience)

		k.Prediction += alphaEff * (target - k.Prediction)

		absError := math.Abs(target - k.Prediction)
		k.Epsilon += alphaEff * (absError - k.Epsilon)

		k.ActionSetSize += alphaEff * (float64(numClassifiers) - k.ActionSetSize)
	}

	UpdateFitness(actionSet)
}

// mam is the moyenne-adaptative-modifiee learning-rate schedule: 1/exp
// until it drops below Beta, then the constant Beta.
func mam(experience int) float64 {
	if float64(experience) < 1.0/Beta {
		return 1.0 / float64(experience)
	}
	return Beta
}

// UpdateFitness recomputes each classifier's fitness from the relative
// accuracy of its error within the action set. A classifier with error
// below Epsilon0 is fully accurate (accuracy 1); otherwise accuracy
// decays as a power of epsilon/Epsilon0.
func UpdateFitness[A comparable](actionSet []*classifier.Classifier[A]) {
	accuracy := make([]float64, len(actionSet))
	accuracySum := 0.0
	for i, k := range actionSet {
		if k.Epsilon < Epsilon0 {
			accuracy[i] = 1
		} else {
			accuracy[i] = Alpha * math.Pow(k.Epsilon/Epsilon0, -Nu)
		}
		accuracySum += accuracy[i] * float64(k.Numerosity)
	}

	for i, k := range actionSet {
		relative := accuracy[i] * float64(k.Numerosity) / accuracySum
		k.Fitness += Beta * (relative - k.Fitness)
	}
}
