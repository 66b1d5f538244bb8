package agent

import (
	"golang.org/x/exp/rand"

	"github.com/retecs-go/xcs/action"
	"github.com/retecs-go/xcs/genetic"
	"github.com/retecs-go/xcs/internal/wsample"
	"github.com/retecs-go/xcs/match"
	"github.com/retecs-go/xcs/population"
	"github.com/retecs-go/xcs/reinforcement"
	"github.com/retecs-go/xcs/situation"
)

// erDecision is a single in-flight decision, pending its reward.
type erDecision[A comparable] struct {
	Sigma  situation.Situation
	Action A
}

// transition is a stored (situation, action, reward) tuple tagged with
// the CI cycle it was produced in.
type transition[A comparable] struct {
	Sigma   situation.Situation
	Action  A
	Reward  float64
	CycleID int
}

// ExperienceReplay is the batched, off-policy agent variant (component
// C7): it stores transitions in a bounded ring and periodically learns
// from a rank-weighted batch, bootstrapping each transition's target
// from the averaged greedy prediction one CI cycle ahead.
type ExperienceReplay[A comparable] struct {
	cfg Config[A]

	population *population.Population[A]
	matcher    *match.Matcher[A]
	ga         *genetic.GA[A]
	rng        *rand.Rand

	timestamp int
	pExplore  float64
	trainMode bool

	actionHistory []erDecision[A]
	memory        []transition[A]
	cycleID       int
}

// NewExperienceReplay validates cfg and returns a fresh
// ExperienceReplay agent with an empty population and empty replay
// memory.
func NewExperienceReplay[A comparable](cfg Config[A]) (*ExperienceReplay[A], error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	return &ExperienceReplay[A]{
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
func (e *ExperienceReplay[A]) Train() { e.trainMode = true }

// Eval puts the agent in evaluation mode (always-greedy action
// selection).
func (e *ExperienceReplay[A]) Eval() { e.trainMode = false }

// GetAction matches sigma (covering as needed), selects an action, and
// records the (situation, action) pair pending its reward.
func (e *ExperienceReplay[A]) GetAction(sigma situation.Situation) (A, error) {
	var zero A

	matchSet, err := e.matcher.GetMatchSet(e.population, sigma, e.timestamp)
	if err != nil {
		return zero, err
	}

	e.pExplore = (e.pExplore-e.cfg.ExplorationFloor)*0.99 + e.cfg.ExplorationFloor

	pa := action.NewPredictionArray(matchSet)
	chosen, err := action.SelectAction(pa, e.trainMode, e.pExplore, e.rng)
	if err != nil {
		return zero, err
	}

	e.actionHistory = append(e.actionHistory, erDecision[A]{Sigma: sigma, Action: chosen})
	return chosen, nil
}

// Reward stores the delivered rewards as transitions tagged with the
// current CI cycle, advances the cycle counter, and — on the cycle
// schedule used by the reference (the second cycle, and every third
// cycle thereafter) — runs a batch of experience-replay learning.
func (e *ExperienceReplay[A]) Reward(r any) error {
	rewards, err := expandRewards(r, len(e.actionHistory))
	if err != nil {
		return err
	}

	for i, d := range e.actionHistory {
		e.remember(transition[A]{Sigma: d.Sigma, Action: d.Action, Reward: rewards[i], CycleID: e.cycleID})
	}
	e.actionHistory = nil
	e.cycleID++

	if e.cycleID == 2 || e.cycleID%3 == 0 {
		return e.learnFromExperience()
	}
	return nil
}

// remember appends t to the replay memory, evicting the oldest entries
// once the bound configured by ReplayMemory is exceeded.
func (e *ExperienceReplay[A]) remember(t transition[A]) {
	e.memory = append(e.memory, t)
	if over := len(e.memory) - e.cfg.ReplayMemory; over > 0 {
		e.memory = e.memory[over:]
	}
}

// learnFromExperience samples a rank-proportional batch of transitions
// from cycles strictly before the previous one, bootstraps each
// sampled transition's target from its source cycle's next-cycle
// average greedy prediction, reinforces and runs a GA iteration on
// whatever action set the current population now matches that
// transition's situation and action with, and finally prunes the
// population back to bound.
func (e *ExperienceReplay[A]) learnFromExperience() error {
	var usable []transition[A]
	for _, t := range e.memory {
		if t.CycleID < e.cycleID-1 {
			usable = append(usable, t)
		}
	}

	batch := e.sampleBatch(usable)

	avgPred := make(map[int]float64)
	haveAvgPred := make(map[int]bool)
	seenCycle := make(map[int]bool)
	for _, t := range batch {
		if seenCycle[t.CycleID] {
			continue
		}
		seenCycle[t.CycleID] = true
		v, ok, err := e.averagePrediction(t.CycleID)
		if err != nil {
			return err
		}
		if ok {
			avgPred[t.CycleID] = v
			haveAvgPred[t.CycleID] = true
		}
	}

	for _, t := range batch {
		if !haveAvgPred[t.CycleID] {
			continue
		}
		discounted := t.Reward + e.cfg.Gamma*avgPred[t.CycleID]

		matchSet, err := e.matcher.GetMatchSet(e.population, t.Sigma, e.timestamp)
		if err != nil {
			return err
		}
		actionSet := action.GetActionSet(matchSet, t.Action)
		if len(actionSet) == 0 {
			continue
		}

		reinforcement.Reinforce(actionSet, discounted)
		e.ga.PerformIteration(actionSet, t.Sigma, e.population, e.timestamp)
		e.timestamp++
	}

	deleteFromPopulation(e.population, e.cfg.MaxPopulationSize, e.rng)
	return nil
}

// averagePrediction returns the mean greedy (ε=0) prediction of every
// stored transition from cycleID+1, by re-matching and re-selecting
// against the population's current state. It returns ok=false when no
// transitions from that cycle are stored — a deviation from the
// reference, which divides by zero in this case.
//
// The reference's non-on-policy branch sums prediction_array's *keys*
// rather than their values, which only works by accident in a dynamically
// typed host where actions happen to be summable; with a generic,
// possibly non-numeric action type A, summing keys does not even
// type-check, so this always uses the chosen action's actual predicted
// value. Since the action is chosen greedily, that value equals what the
// reference's (separately offered) on-policy branch computes, so the two
// branches are unified here (spec.md §9 open question).
func (e *ExperienceReplay[A]) averagePrediction(cycleID int) (float64, bool, error) {
	var next []transition[A]
	for _, t := range e.memory {
		if t.CycleID == cycleID+1 {
			next = append(next, t)
		}
	}
	if len(next) == 0 {
		return 0, false, nil
	}

	sum := 0.0
	for _, t := range next {
		matchSet, err := e.matcher.GetMatchSet(e.population, t.Sigma, e.timestamp)
		if err != nil {
			return 0, false, err
		}
		pa := action.NewPredictionArray(matchSet)
		chosen, err := action.SelectAction(pa, true, 0, e.rng)
		if err != nil {
			return 0, false, err
		}
		v, _ := pa.Value(chosen)
		sum += v
	}
	return sum / float64(len(next)), true, nil
}

// sampleBatch draws up to ReplayBatch transitions from usable without
// replacement, weighted by insertion rank (oldest transitions carry the
// lowest weight, matching the reference's time-rank-proportional
// scheme). If usable is no larger than the configured batch size, every
// usable transition is returned.
func (e *ExperienceReplay[A]) sampleBatch(usable []transition[A]) []transition[A] {
	n := len(usable)
	if n == 0 || e.cfg.ReplayBatch >= n {
		return usable
	}

	weights := make([]float64, n)
	for i := range weights {
		weights[i] = float64(i + 1)
	}

	chosen := make(map[int]bool, e.cfg.ReplayBatch)
	batch := make([]transition[A], 0, e.cfg.ReplayBatch)
	remaining := make([]float64, n)
	copy(remaining, weights)
	for len(batch) < e.cfg.ReplayBatch {
		idx := wsample.Choice(remaining, e.rng)
		if chosen[idx] {
			continue
		}
		chosen[idx] = true
		remaining[idx] = 0
		batch = append(batch, usable[idx])
	}
	return batch
}

// PopulationSize returns the current number of distinct classifier
// records.
func (e *ExperienceReplay[A]) PopulationSize() int {
	return e.population.Len()
}
