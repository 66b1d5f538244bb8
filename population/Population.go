// Package population implements the bounded multiset of classifiers an
// Agent owns. Matching grows it via covering, the genetic algorithm grows
// it via offspring insertion, and the Agent's deletion pass shrinks it
// back within bound at the end of each reward cycle.
package population

import (
	"gonum.org/v1/gonum/floats"

	"github.com/retecs-go/xcs/classifier"
)

// Population is an unordered, growable collection of classifiers. All
// other components borrow a *Population for the duration of a single
// call; only the Agent retains one across call boundaries.
type Population[A comparable] struct {
	classifiers []*classifier.Classifier[A]
}

// New returns an empty population.
func New[A comparable]() *Population[A] {
	return &Population[A]{}
}

// FromSlice returns a population wrapping classifiers directly, taking
// ownership of the slice. Used to restore a population from a
// persisted snapshot.
func FromSlice[A comparable](classifiers []*classifier.Classifier[A]) *Population[A] {
	return &Population[A]{classifiers: classifiers}
}

// Len returns the number of distinct classifier records (not the sum of
// numerosity).
func (p *Population[A]) Len() int {
	return len(p.classifiers)
}

// All returns the population's classifiers. The returned slice is
// borrowed: callers must not retain it past the current call, and must
// not append to it (use Append on the Population itself to grow it).
func (p *Population[A]) All() []*classifier.Classifier[A] {
	return p.classifiers
}

// Append adds a classifier to the population, growing it by one record.
func (p *Population[A]) Append(k *classifier.Classifier[A]) {
	p.classifiers = append(p.classifiers, k)
}

// RemoveAt deletes the classifier at index i, preserving the relative
// order of the rest.
func (p *Population[A]) RemoveAt(i int) {
	p.classifiers = append(p.classifiers[:i], p.classifiers[i+1:]...)
}

// TotalNumerosity returns the sum of numerosity over every classifier in
// the population.
func (p *Population[A]) TotalNumerosity() int {
	numerosity := make([]float64, len(p.classifiers))
	for i, k := range p.classifiers {
		numerosity[i] = float64(k.Numerosity)
	}
	return int(floats.Sum(numerosity))
}

// TotalFitness returns the sum of fitness over every classifier in the
// population.
func (p *Population[A]) TotalFitness() float64 {
	fitness := make([]float64, len(p.classifiers))
	for i, k := range p.classifiers {
		fitness[i] = k.Fitness
	}
	return floats.Sum(fitness)
}

// AvgFitness returns TotalFitness divided by TotalNumerosity, the
// population-wide average fitness per rule instance used by
// DeletionVote.
func (p *Population[A]) AvgFitness() float64 {
	return p.TotalFitness() / float64(p.TotalNumerosity())
}
