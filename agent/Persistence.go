package agent

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/rand"

	"github.com/retecs-go/xcs/classifier"
	"github.com/retecs-go/xcs/genetic"
	"github.com/retecs-go/xcs/match"
	"github.com/retecs-go/xcs/population"
)

// Snapshot is the gob-encodable state of an agent: its configuration,
// population and the timestamp and exploration scalars. Both agent
// variants serialize to and restore from the same Snapshot shape;
// ExperienceReplay additionally fills Memory and CycleID. The RNG's
// position is not saved: a restored agent reseeds from Config.Seed.
// In-flight actions and OnPolicy's previous-cycle action sets and
// rewards are not saved either, so an OnPolicy agent's first Reward
// after loading reinforces nothing.
type Snapshot[A comparable] struct {
	Config      Config[A]
	Classifiers []classifier.Classifier[A]
	Timestamp   int
	PExplore    float64

	// ExperienceReplay-only fields, zero-valued for OnPolicy snapshots.
	Memory  []transition[A]
	CycleID int
}

// Save gob-encodes a Snapshot of o to path.
func (o *OnPolicy[A]) Save(path string) error {
	snap := Snapshot[A]{
		Config:      o.cfg,
		Classifiers: dereference(o.population.All()),
		Timestamp:   o.timestamp,
		PExplore:    o.pExplore,
	}
	return writeSnapshot(path, snap)
}

// LoadOnPolicy restores an OnPolicy agent from a Snapshot previously
// written by Save. The restored agent resumes in training mode, with no
// in-flight, not-yet-rewarded actions.
func LoadOnPolicy[A comparable](path string) (*OnPolicy[A], error) {
	var snap Snapshot[A]
	if err := readSnapshot(path, &snap); err != nil {
		return nil, err
	}

	cfg := snap.Config.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))
	return &OnPolicy[A]{
		cfg:        cfg,
		population: population.FromSlice(reference(snap.Classifiers)),
		matcher:    match.New(len(cfg.PossibleActions), cfg.PossibleActions, rng),
		ga:         genetic.New(cfg.PossibleActions, rng),
		rng:        rng,
		timestamp:  snap.Timestamp,
		pExplore:   snap.PExplore,
		trainMode:  true,
	}, nil
}

// Save gob-encodes a Snapshot of e to path, including its replay memory
// and cycle counter.
func (e *ExperienceReplay[A]) Save(path string) error {
	snap := Snapshot[A]{
		Config:      e.cfg,
		Classifiers: dereference(e.population.All()),
		Timestamp:   e.timestamp,
		PExplore:    e.pExplore,
		Memory:      e.memory,
		CycleID:     e.cycleID,
	}
	return writeSnapshot(path, snap)
}

// LoadExperienceReplay restores an ExperienceReplay agent from a
// Snapshot previously written by Save.
func LoadExperienceReplay[A comparable](path string) (*ExperienceReplay[A], error) {
	var snap Snapshot[A]
	if err := readSnapshot(path, &snap); err != nil {
		return nil, err
	}

	cfg := snap.Config.withDefaults()
	rng := rand.New(rand.NewSource(cfg.Seed))
	return &ExperienceReplay[A]{
		cfg:        cfg,
		population: population.FromSlice(reference(snap.Classifiers)),
		matcher:    match.New(len(cfg.PossibleActions), cfg.PossibleActions, rng),
		ga:         genetic.New(cfg.PossibleActions, rng),
		rng:        rng,
		timestamp:  snap.Timestamp,
		pExplore:   snap.PExplore,
		trainMode:  true,
		memory:     snap.Memory,
		cycleID:    snap.CycleID,
	}, nil
}

func writeSnapshot[A comparable](path string, snap Snapshot[A]) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(snap); err != nil {
		return fmt.Errorf("agent: encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("agent: write snapshot: %w", err)
	}
	return nil
}

func readSnapshot[A comparable](path string, snap *Snapshot[A]) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("agent: open snapshot: %w", err)
	}
	defer f.Close()

	dec := gob.NewDecoder(f)
	if err := dec.Decode(snap); err != nil && err != io.EOF {
		return fmt.Errorf("agent: decode snapshot: %w", err)
	}
	return nil
}

// dereference copies a population's borrowed classifier pointers into a
// flat, gob-friendly value slice.
func dereference[A comparable](classifiers []*classifier.Classifier[A]) []classifier.Classifier[A] {
	flat := make([]classifier.Classifier[A], len(classifiers))
	for i, k := range classifiers {
		flat[i] = *k
	}
	return flat
}

// reference rebuilds owned classifier pointers from a flat value slice,
// the inverse of dereference.
func reference[A comparable](flat []classifier.Classifier[A]) []*classifier.Classifier[A] {
	classifiers := make([]*classifier.Classifier[A], len(flat))
	for i := range flat {
		k := flat[i]
		classifiers[i] = &k
	}
	return classifiers
}
