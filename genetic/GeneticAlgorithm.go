// Package genetic implements the discovery component: roulette-wheel
// parent selection, two-point ternary crossover plus arithmetic interval
// crossover, and niche mutation, triggered once an action set's average
// classifier age exceeds the GA threshold.
package genetic

import (
	"golang.org/x/exp/rand"

	"github.com/retecs-go/xcs/classifier"
	"github.com/retecs-go/xcs/internal/wsample"
	"github.com/retecs-go/xcs/population"
	"github.com/retecs-go/xcs/situation"
)

const (
	// ThetaGA is the average-age threshold (in timestamp units) an
	// action set must exceed before a GA iteration fires.
	ThetaGA = 25

	// Chi is the probability that selected parents are crossed over;
	// when it doesn't fire, children are untouched clones of their
	// parents (still mutated below).
	Chi = 0.75

	// CrossoverAlpha (phi) is the arithmetic crossover's mixing
	// coefficient for interval conditions.
	CrossoverAlpha = 0.6

	// Mu is the per-site mutation rate.
	Mu = 0.025

	// fitnessDamping scales a freshly produced child's fitness down,
	// independent of whether crossover fired, so new rules must re-earn
	// trust before dominating their niche.
	fitnessDamping = 0.1
)

// GA performs genetic-algorithm iterations for a fixed action space,
// drawing from a shared RNG for selection, crossover and mutation.
type GA[A comparable] struct {
	PossibleActions []A
	Rng             *rand.Rand
}

// New returns a GA operating over possibleActions (needed for the
// mutation operator's action reassignment).
func New[A comparable](possibleActions []A, rng *rand.Rand) *GA[A] {
	return &GA[A]{PossibleActions: possibleActions, Rng: rng}
}

// PerformIteration runs one GA iteration against actionSet if the
// set's numerosity-weighted average timestamp is more than ThetaGA
// behind the current time. Two children are produced by roulette
// selection, optional crossover, fitness damping and mutation, then
// appended to pop. Population bounding (deletion) is not performed
// here; the Agent invokes it once at the end of a reward cycle.
func (g *GA[A]) PerformIteration(actionSet []*classifier.Classifier[A], sigma situation.Situation, pop *population.Population[A], timestamp int) {
	totalNumerosity := 0
	weightedTimestamp := 0.0
	for _, k := range actionSet {
		totalNumerosity += k.Numerosity
		weightedTimestamp += float64(k.Numerosity) * float64(k.Timestamp)
	}
	avgAge := float64(timestamp) - weightedTimestamp/float64(totalNumerosity)
	if avgAge <= ThetaGA {
		return
	}

	for _, k := range actionSet {
		k.Timestamp = timestamp
	}

	parent1 := g.selectParent(actionSet)
	parent2 := g.selectParent(actionSet)

	child1 := parent1.Clone()
	child2 := parent2.Clone()
	child1.Numerosity, child1.Experience = 1, 0
	child2.Numerosity, child2.Experience = 1, 0

	if g.Rng.Float64() < Chi {
		g.applyCrossover(child1, child2)
		child1.Prediction = (parent1.Prediction + parent2.Prediction) / 2
		child2.Prediction = child1.Prediction
		child1.Epsilon = (parent1.Epsilon + parent2.Epsilon) / 2
		child2.Epsilon = child1.Epsilon
		child1.Fitness = (parent1.Fitness + parent2.Fitness) / 2
		child2.Fitness = child1.Fitness
	}

	// Fitness is damped regardless of whether crossover fired.
	child1.Fitness *= fitnessDamping
	child2.Fitness *= fitnessDamping

	g.mutate(child1, sigma)
	g.mutate(child2, sigma)

	pop.Append(child1)
	pop.Append(child2)
}

// selectParent performs roulette-wheel selection over actionSet weighted
// by fitness, falling back to a uniform draw when total fitness is zero
// (spec.md §9's unspecified zero-total-fitness case).
func (g *GA[A]) selectParent(actionSet []*classifier.Classifier[A]) *classifier.Classifier[A] {
	weights := make([]float64, len(actionSet))
	for i, k := range actionSet {
		weights[i] = k.Fitness
	}
	return actionSet[wsample.Choice(weights, g.Rng)]
}

// applyCrossover performs the two-point ternary crossover over
// CondPrev, swapping indices [y, x) — a deliberately half-open range, to
// match the reference — and an arithmetic crossover over both interval
// conditions.
func (g *GA[A]) applyCrossover(c1, c2 *classifier.Classifier[A]) {
	x := int(g.Rng.Float64() * float64(len(c1.CondPrev)))
	y := int(g.Rng.Float64() * float64(len(c1.CondPrev)))
	if y > x {
		x, y = y, x
	}
	for i := y; i < x; i++ {
		c1.CondPrev[i], c2.CondPrev[i] = c2.CondPrev[i], c1.CondPrev[i]
	}

	c1.CondLast, c2.CondLast = crossInterval(c1.CondLast, c2.CondLast)
	c1.CondDuration, c2.CondDuration = crossInterval(c1.CondDuration, c2.CondDuration)
}

// crossInterval applies the arithmetic crossover c1 <- phi*a+(1-phi)*b,
// c2 <- (1-phi)*a+phi*b elementwise. No attempt is made to re-normalize
// an inverted result (Lo > Hi): such a classifier is sterile against
// matching until mutation repairs it, which is the reference's
// deliberate behaviour (spec.md §9).
func crossInterval(a, b situation.Interval) (situation.Interval, situation.Interval) {
	phi := CrossoverAlpha
	c1 := situation.Interval{
		Lo: phi*a.Lo + (1-phi)*b.Lo,
		Hi: phi*a.Hi + (1-phi)*b.Hi,
	}
	c2 := situation.Interval{
		Lo: (1-phi)*a.Lo + phi*b.Lo,
		Hi: (1-phi)*a.Hi + phi*b.Hi,
	}
	return c1, c2
}

// mutate applies the niche mutation operator in place: each
// previous-results slot toggles between DontCare and sigma's concrete
// result with probability Mu, the interval conditions are resampled
// around sigma with probability Mu each, and the action is reassigned
// uniformly with probability Mu. Mutation is constructed to always
// leave the classifier matching sigma.
func (g *GA[A]) mutate(k *classifier.Classifier[A], sigma situation.Situation) {
	for i := range k.CondPrev {
		if g.Rng.Float64() < Mu {
			if k.CondPrev[i] == situation.DontCare {
				k.CondPrev[i] = situation.FromResult(sigma.PreviousResults[i])
			} else {
				k.CondPrev[i] = situation.DontCare
			}
		}
	}

	if g.Rng.Float64() < Mu {
		k.CondLast = situation.Interval{
			Lo: sigma.LastExecution - g.Rng.Float64()*lastExecutionSpread,
			Hi: sigma.LastExecution + g.Rng.Float64()*lastExecutionSpread,
		}
	}

	if g.Rng.Float64() < Mu {
		k.CondDuration = situation.Interval{
			Lo: sigma.Duration - g.Rng.Float64()*durationSpread,
			Hi: sigma.Duration + g.Rng.Float64()*durationSpread,
		}
	}

	if g.Rng.Float64() < Mu {
		k.Action = g.PossibleActions[g.Rng.Intn(len(g.PossibleActions))]
	}
}

// These mirror package match's covering spreads exactly: mutation's
// interval resampling uses the same jitter as covering (spec.md §4.5.2
// reuses §4.2's constants by name).
const (
	lastExecutionSpread = 0.5
	durationSpread      = 0.5
)
