// Package classifier implements the condition-action rule at the heart of
// the classifier system: its matching predicate, its deletion vote, and
// the statistics the reinforcement and genetic-algorithm components
// update in place.
package classifier

import "github.com/retecs-go/xcs/situation"

const (
	// ThetaDel is the experience threshold below which a classifier's
	// deletion vote is never inflated by under-performance.
	ThetaDel = 20

	// Delta scales the population's average fitness into the
	// under-performance threshold used by DeletionVote.
	Delta = 0.1
)

// Classifier is a single condition-action rule. A is the host-defined
// action type (for example a priority-bucket enum); it must be
// comparable so classifiers and action sets can be grouped and compared
// by action.
type Classifier[A comparable] struct {
	// CondPrev is the ternary condition over PreviousResults, one symbol
	// per history slot.
	CondPrev []situation.Symbol

	// CondLast is the condition over LastExecution.
	CondLast situation.Interval

	// CondDuration is the condition over Duration.
	CondDuration situation.Interval

	// Action is the action this rule proposes.
	Action A

	// Timestamp is the time of this classifier's last GA involvement
	// (its own creation time, until a GA iteration touches it).
	Timestamp int

	// Prediction is the learned expected reward for this rule's action.
	Prediction float64

	// Epsilon is the learned absolute prediction error.
	Epsilon float64

	// Fitness is the learned relative accuracy of this rule within its
	// niche.
	Fitness float64

	// Experience is the number of reinforcement updates this rule has
	// received.
	Experience int

	// ActionSetSize is the learned estimate of the average size (in
	// numerosity) of the action sets this rule has participated in.
	ActionSetSize float64

	// Numerosity is the number of identical rule instances this record
	// stands in for.
	Numerosity int
}

// New constructs a classifier with the spec's initial statistics
// (prediction, epsilon and fitness at zero; action-set-size and
// numerosity at one) and the given conditions.
func New[A comparable](condPrev []situation.Symbol, condLast, condDuration situation.Interval, action A, timestamp int) *Classifier[A] {
	return &Classifier[A]{
		CondPrev:      condPrev,
		CondLast:      condLast,
		CondDuration:  condDuration,
		Action:        action,
		Timestamp:     timestamp,
		ActionSetSize: 1,
		Numerosity:    1,
	}
}

// Matches reports whether the classifier's conditions accept sigma.
// Interval containment is checked with both comparisons unconditionally;
// an inverted interval (Lo > Hi), which genetic crossover can produce,
// therefore never matches anything — see package genetic's crossInterval
// for why this is preserved rather than repaired here.
func (k *Classifier[A]) Matches(sigma situation.Situation) bool {
	if !k.CondDuration.Contains(sigma.Duration) {
		return false
	}
	for i, sym := range k.CondPrev {
		if !sym.Matches(sigma.PreviousResults[i]) {
			return false
		}
	}
	if !k.CondLast.Contains(sigma.LastExecution) {
		return false
	}
	return true
}

// DeletionVote computes the classifier's vote in the population's
// deletion-pressure walk. The base vote is action-set-size times
// numerosity; it is inflated when the classifier is experienced
// (Experience > ThetaDel) yet under-performs the population's average
// fitness (its per-instance fitness is below Delta*avgFitness).
func (k *Classifier[A]) DeletionVote(avgFitness float64) float64 {
	vote := k.ActionSetSize * float64(k.Numerosity)
	perInstance := k.Fitness / float64(k.Numerosity)
	if k.Experience > ThetaDel && perInstance < Delta*avgFitness {
		vote = vote * avgFitness / perInstance
	}
	return vote
}

// Clone returns a fully independent deep copy: the condition slice is
// copied so that subsequent mutation of one classifier's CondPrev can
// never corrupt another's. GeneticAlgorithm relies on this to produce
// independent children from a single parent.
func (k *Classifier[A]) Clone() *Classifier[A] {
	condPrev := make([]situation.Symbol, len(k.CondPrev))
	copy(condPrev, k.CondPrev)
	clone := *k
	clone.CondPrev = condPrev
	return &clone
}
