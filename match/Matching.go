// Package match builds the match set a situation induces over a
// population, synthesizing ("covering") new classifiers when the match
// set lacks enough action diversity.
package match

import (
	"golang.org/x/exp/rand"

	"github.com/retecs-go/xcs/classifier"
	"github.com/retecs-go/xcs/population"
	"github.com/retecs-go/xcs/situation"
)

const (
	// maxRounds bounds the get_match_set covering loop. The reference
	// treats non-convergence within this many rounds as fatal.
	maxRounds = 10

	// durationSpread (D_MAX) bounds how wide a freshly covered
	// classifier's duration condition can be around the situation's
	// actual duration.
	durationSpread = 0.5

	// lastExecutionSpread (M_MAX) is the same spread for the
	// last-execution condition.
	lastExecutionSpread = 0.5

	// pDontCare is the per-slot probability that a covering
	// classifier's previous-results condition is generalized to
	// DontCare instead of fixed to the situation's concrete result.
	pDontCare = 0.33
)

// Matcher builds match sets for a fixed minimum-niche-action-count and
// action space, drawing from a shared RNG for covering.
type Matcher[A comparable] struct {
	ThetaMna        int
	PossibleActions []A
	Rng             *rand.Rand
}

// New returns a Matcher requiring at least thetaMna distinct actions in
// every match set it produces, covering from possibleActions as needed.
func New[A comparable](thetaMna int, possibleActions []A, rng *rand.Rand) *Matcher[A] {
	return &Matcher[A]{ThetaMna: thetaMna, PossibleActions: possibleActions, Rng: rng}
}

// GetMatchSet returns every classifier in pop matching sigma, covering
// new classifiers into pop until at least ThetaMna distinct actions are
// present. It returns a *DivergenceError if the loop fails to converge
// within 10 rounds.
func (m *Matcher[A]) GetMatchSet(pop *population.Population[A], sigma situation.Situation, timestamp int) ([]*classifier.Classifier[A], error) {
	var matchSet []*classifier.Classifier[A]
	for round := 0; round < maxRounds; round++ {
		matchSet = matchSet[:0]
		for _, k := range pop.All() {
			if k.Matches(sigma) {
				matchSet = append(matchSet, k)
			}
		}

		present := distinctActions(matchSet)
		if len(present) >= m.ThetaMna {
			return matchSet, nil
		}

		missing := m.ThetaMna - len(present)
		for i := 0; i < missing; i++ {
			candidates := actionsNotIn(m.PossibleActions, present)
			if len(candidates) == 0 {
				break
			}
			newClassifier := m.GenerateCoveringClassifier(sigma, candidates, timestamp)
			present = append(present, newClassifier.Action)
			pop.Append(newClassifier)
		}
		// Restart with an empty match set, as in the reference: the
		// next round re-filters pop (now including the new rules)
		// from scratch.
		matchSet = nil
	}

	return nil, &DivergenceError{Op: "GetMatchSet", Rounds: maxRounds, Err: errDivergence}
}

// GenerateCoveringClassifier synthesizes a classifier guaranteed to
// match sigma: a uniformly chosen action from missingActions, interval
// conditions jittered around sigma's duration and last-execution
// values, and a previous-results condition generalized to DontCare with
// probability pDontCare per slot.
func (m *Matcher[A]) GenerateCoveringClassifier(sigma situation.Situation, missingActions []A, timestamp int) *classifier.Classifier[A] {
	action := missingActions[m.Rng.Intn(len(missingActions))]

	condDuration := situation.Interval{
		Lo: sigma.Duration - m.Rng.Float64()*durationSpread,
		Hi: sigma.Duration + m.Rng.Float64()*durationSpread,
	}

	lowerBorder := m.Rng.Float64() * lastExecutionSpread
	upperBorder := m.Rng.Float64() * lastExecutionSpread
	condLast := situation.Interval{
		Lo: sigma.LastExecution - lowerBorder,
		Hi: sigma.LastExecution + upperBorder,
	}

	condPrev := make([]situation.Symbol, sigma.HistLen())
	for i, result := range sigma.PreviousResults {
		if m.Rng.Float64() <= pDontCare {
			condPrev[i] = situation.DontCare
		} else {
			condPrev[i] = situation.FromResult(result)
		}
	}

	return classifier.New(condPrev, condLast, condDuration, action, timestamp)
}

func distinctActions[A comparable](classifiers []*classifier.Classifier[A]) []A {
	seen := make(map[A]bool)
	var actions []A
	for _, k := range classifiers {
		if !seen[k.Action] {
			seen[k.Action] = true
			actions = append(actions, k.Action)
		}
	}
	return actions
}

func actionsNotIn[A comparable](all []A, present []A) []A {
	seen := make(map[A]bool, len(present))
	for _, a := range present {
		seen[a] = true
	}
	var missing []A
	for _, a := range all {
		if !seen[a] {
			missing = append(missing, a)
		}
	}
	return missing
}
