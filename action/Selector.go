// Package action computes the fitness-weighted prediction array over a
// match set, selects an action from it (ε-greedy in training, greedy in
// evaluation), and slices out the action set sharing a chosen action.
package action

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/retecs-go/xcs/classifier"
)

// PredictionArray maps each action present in a match set to its
// fitness-weighted mean prediction. An action whose members all have
// zero fitness has no defined value (the fitness-weighted mean is 0/0);
// such actions are tracked in order but excluded from Value.
type PredictionArray[A comparable] struct {
	order   []A
	values  map[A]float64
	defined map[A]bool
}

// NewPredictionArray builds the prediction array for matchSet. order is
// the first-seen iteration order of matchSet, used to break ties
// deterministically within a single call.
func NewPredictionArray[A comparable](matchSet []*classifier.Classifier[A]) *PredictionArray[A] {
	grouped := make(map[A][]*classifier.Classifier[A])
	var order []A
	for _, k := range matchSet {
		if _, ok := grouped[k.Action]; !ok {
			order = append(order, k.Action)
		}
		grouped[k.Action] = append(grouped[k.Action], k)
	}

	pa := &PredictionArray[A]{
		order:   order,
		values:  make(map[A]float64, len(order)),
		defined: make(map[A]bool, len(order)),
	}
	for _, a := range order {
		members := grouped[a]
		fitness := make([]float64, len(members))
		prediction := make([]float64, len(members))
		for i, k := range members {
			fitness[i] = k.Fitness
			prediction[i] = k.Prediction
		}
		fitnessSum := floats.Sum(fitness)
		if fitnessSum > 0 {
			pa.values[a] = floats.Dot(fitness, prediction) / fitnessSum
			pa.defined[a] = true
		}
	}
	return pa
}

// Actions returns the actions present in the match set, in first-seen
// order.
func (pa *PredictionArray[A]) Actions() []A {
	return pa.order
}

// Value returns the action's prediction-array entry and whether it is
// defined.
func (pa *PredictionArray[A]) Value(a A) (float64, bool) {
	v, ok := pa.defined[a]
	if !ok || !v {
		return 0, false
	}
	return pa.values[a], true
}

// SelectAction chooses an action from pa. In training mode, with
// probability pExplore it returns a uniformly random action from every
// action present in the match set (not only those with a defined
// value). Otherwise — and always outside training mode — it returns the
// defined action of greatest value, breaking ties by first-seen order.
//
// If no action has a defined value (every niche has all-zero fitness:
// the EmptyNiche condition in the error-handling design), this falls
// back to a uniform random choice over every present action rather than
// comparing against an undefined value.
func SelectAction[A comparable](pa *PredictionArray[A], trainMode bool, pExplore float64, rng *rand.Rand) (A, error) {
	var zero A
	if len(pa.order) == 0 {
		return zero, errNoActions
	}

	if trainMode && rng.Float64() < pExplore {
		return pa.order[rng.Intn(len(pa.order))], nil
	}

	best, bestVal, any := zero, 0.0, false
	for _, a := range pa.order {
		v, ok := pa.Value(a)
		if !ok {
			continue
		}
		if !any || v > bestVal {
			best, bestVal, any = a, v, true
		}
	}
	if any {
		return best, nil
	}

	// EmptyNiche: nothing has a defined prediction. Fall back to
	// uniform random choice over the present actions rather than
	// erroring — this is non-fatal per the error-handling design.
	return pa.order[rng.Intn(len(pa.order))], nil
}

// GetActionSet returns every classifier in matchSet proposing a.
func GetActionSet[A comparable](matchSet []*classifier.Classifier[A], a A) []*classifier.Classifier[A] {
	var actionSet []*classifier.Classifier[A]
	for _, k := range matchSet {
		if k.Action == a {
			actionSet = append(actionSet, k)
		}
	}
	return actionSet
}
