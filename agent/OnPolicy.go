package agent

import (
	"golang.org/x/exp/rand"

	"github.com/retecs-go/xcs/action"
	"github.com/retecs-go/xcs/classifier"
	"github.com/retecs-go/xcs/genetic"
	"github.com/retecs-go/xcs/match"
	"github.com/retecs-go/xcs/population"
	"github.com/retecs-go/xcs/reinforcement"
	"github.com/retecs-go/xcs/situation"
)

// onPolicyCycle is one decision step's retained context: the situation
// it was taken in, and the action set it produced. The Agent keeps
// these across the reward-delivery boundary so they can be reinforced
// once a reward arrives.
type onPolicyCycle[A comparable] struct {
	Sigma     situation.Situation
	ActionSet []*classifier.Classifier[A]
}

// OnPolicy is the one-step, on-policy agent (component C6): it
// bootstraps each reward cycle's target from the *chosen* action's
// predicted value in the following cycle, matching the reference's
// on-policy choice over a max-over-actions bootstrap (spec.md §9 open
// question).
type OnPolicy[A comparable] struct {
	cfg Config[A]

	population *population.Population[A]
	matcher    *match.Matcher[A]
	ga         *genetic.GA[A]
	rng        *rand.Rand

	timestamp int
	pExplore  float64
	trainMode bool

	actionHistory    []onPolicyCycle[A]
	oldActionHistory []onPolicyCycle[A]
	maxPredSum       float64

	prevRewards []float64
	hasRewards  bool
}

// NewOnPolicy validates cfg and returns a fresh OnPolicy agent with an
// empty population.
func NewOnPolicy[A comparable](cfg Config[A]) (*OnPolicy[A], error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	return &OnPolicy[A]{
		cfg:        cfg,
		population: population.New[A](),
		matcher:    match.New(len(cfg.PossibleActions), cfg.PossibleActions, rng),
		ga:         genetic.New(cfg.PossibleActions, rng),
		rng:        rng,
		timestamp:  1,
		pExplore:   cfg.InitialExploration,
		trainMode:  true,
	}, nil
}

// Train puts the agent in training mode (ε-greedy exploration active).
func (o *OnPolicy[A]) Train() { o.trainMode = true }

// Eval puts the agent in evaluation mode (always-greedy action
// selection).
func (o *OnPolicy[A]) Eval() { o.trainMode = false }

// GetAction matches sigma against the population (covering as needed),
// selects an action, and records the decision so it can be reinforced
// once Reward delivers its outcome.
func (o *OnPolicy[A]) GetAction(sigma situation.Situation) (A, error) {
	var zero A

	matchSet, err := o.matcher.GetMatchSet(o.population, sigma, o.timestamp)
	if err != nil {
		return zero, err
	}

	o.pExplore = (o.pExplore-o.cfg.ExplorationFloor)*0.99 + o.cfg.ExplorationFloor

	pa := action.NewPredictionArray(matchSet)
	chosen, err := action.SelectAction(pa, o.trainMode, o.pExplore, o.rng)
	if err != nil {
		return zero, err
	}

	if v, ok := pa.Value(chosen); ok {
		o.maxPredSum += v
	}

	actionSet := action.GetActionSet(matchSet, chosen)
	o.actionHistory = append(o.actionHistory, onPolicyCycle[A]{Sigma: sigma, ActionSet: actionSet})

	return chosen, nil
}

// Reward delivers the rewards for the cycle of GetAction calls since the
// last Reward call. r is either a float64/int scalar, broadcast to every
// step, or a []float64 at least as long as the in-flight action history
// (spec.md §9 — extra entries are ignored).
//
// The first Reward call in an agent's lifetime reinforces nothing: it
// records the reward and shifts history, since there is no previous
// cycle yet to bootstrap a target for. From the second call on, the
// previous cycle's action sets are reinforced against a target of that
// cycle's reward plus Gamma times this cycle's average chosen-action
// prediction, and a GA iteration is attempted on each. Every call,
// including the first, then prunes the population back to
// MaxPopulationSize.
func (o *OnPolicy[A]) Reward(r any) error {
	rewards, err := expandRewards(r, len(o.actionHistory))
	if err != nil {
		return err
	}

	if o.hasRewards {
		avgMaxPred := o.maxPredSum / float64(len(o.actionHistory))
		for i, cycle := range o.oldActionHistory {
			discounted := o.prevRewards[i] + o.cfg.Gamma*avgMaxPred
			reinforcement.Reinforce(cycle.ActionSet, discounted)
			o.ga.PerformIteration(cycle.ActionSet, cycle.Sigma, o.population, o.timestamp)
			o.timestamp++
		}
	}

	o.prevRewards = rewards
	o.hasRewards = true
	o.maxPredSum = 0
	o.oldActionHistory = o.actionHistory
	o.actionHistory = nil

	deleteFromPopulation(o.population, o.cfg.MaxPopulationSize, o.rng)
	return nil
}

// PopulationSize returns the current number of distinct classifier
// records.
func (o *OnPolicy[A]) PopulationSize() int {
	return o.population.Len()
}
