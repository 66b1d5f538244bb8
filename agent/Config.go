// Package agent implements the two policy wrappers that drive the
// classifier-system core: an on-policy one-step variant (OnPolicy) and
// an experience-replay variant (ExperienceReplay) that batches past
// transitions and bootstraps from an averaged target.
package agent

import "errors"

// Config configures either agent variant. A is the host-defined action
// type.
type Config[A comparable] struct {
	// MaxPopulationSize bounds the population's distinct classifier
	// count, enforced after every reward cycle.
	MaxPopulationSize int

	// PossibleActions is the non-empty, ordered action space.
	PossibleActions []A

	// HistLen is the fixed length of a situation's PreviousResults.
	HistLen int

	// ExplorationFloor is the asymptote the exploration probability
	// decays toward. Zero selects the default of 0.1.
	ExplorationFloor float64

	// InitialExploration is the exploration probability at
	// construction. Zero selects the default of 0.25.
	InitialExploration float64

	// Gamma is the temporal-difference discount applied to the
	// bootstrapped target. Zero selects the default of 0.71.
	Gamma float64

	// ReplayMemory bounds the experience-replay ring buffer (only used
	// by ExperienceReplay). Zero selects the default of 5000.
	ReplayMemory int

	// ReplayBatch is the experience-replay batch size (only used by
	// ExperienceReplay). Zero selects the default of 10.
	ReplayBatch int

	// Seed seeds the agent's single shared RNG.
	Seed uint64
}

const (
	defaultExplorationFloor   = 0.1
	defaultInitialExploration = 0.25
	defaultGamma              = 0.71
	defaultReplayMemory       = 5000
	defaultReplayBatch        = 10
)

// withDefaults returns a copy of c with zero-valued optional fields
// filled in.
func (c Config[A]) withDefaults() Config[A] {
	if c.ExplorationFloor == 0 {
		c.ExplorationFloor = defaultExplorationFloor
	}
	if c.InitialExploration == 0 {
		c.InitialExploration = defaultInitialExploration
	}
	if c.Gamma == 0 {
		c.Gamma = defaultGamma
	}
	if c.ReplayMemory == 0 {
		c.ReplayMemory = defaultReplayMemory
	}
	if c.ReplayBatch == 0 {
		c.ReplayBatch = defaultReplayBatch
	}
	return c
}

// Validate reports a *ConfigError for an empty action set, a
// non-positive history length, a non-positive population bound, or a
// ReplayBatch outside [0, 2000].
func (c Config[A]) Validate() error {
	if len(c.PossibleActions) == 0 {
		return &ConfigError{Op: "PossibleActions", Err: errors.New("must be non-empty")}
	}
	if c.HistLen <= 0 {
		return &ConfigError{Op: "HistLen", Err: errors.New("must be positive")}
	}
	if c.MaxPopulationSize <= 0 {
		return &ConfigError{Op: "MaxPopulationSize", Err: errors.New("must be positive")}
	}
	if c.ReplayBatch < 0 || c.ReplayBatch > 2000 {
		return &ConfigError{Op: "ReplayBatch", Err: errors.New("must be within [0, 2000]")}
	}
	return nil
}
