package agent

import (
	"os"
	"testing"
)

func erTestConfig() Config[string] {
	cfg := testConfig()
	cfg.ReplayMemory = 50
	cfg.ReplayBatch = 4
	return cfg
}

func TestExperienceReplayGetActionAndReward(t *testing.T) {
	e, err := NewExperienceReplay(erTestConfig())
	if err != nil {
		t.Fatalf("NewExperienceReplay: %v", err)
	}

	for cycle := 0; cycle < 12; cycle++ {
		if _, err := e.GetAction(testSigma()); err != nil {
			t.Fatalf("GetAction: %v", err)
		}
		if err := e.Reward(1.0); err != nil {
			t.Fatalf("Reward at cycle %d: %v", cycle, err)
		}
		if e.PopulationSize() > erTestConfig().MaxPopulationSize {
			t.Fatalf("population size %d exceeds bound after cycle %d", e.PopulationSize(), cycle)
		}
	}
}

func TestExperienceReplayMemoryBounded(t *testing.T) {
	cfg := erTestConfig()
	cfg.ReplayMemory = 5
	e, err := NewExperienceReplay(cfg)
	if err != nil {
		t.Fatalf("NewExperienceReplay: %v", err)
	}

	for cycle := 0; cycle < 20; cycle++ {
		if _, err := e.GetAction(testSigma()); err != nil {
			t.Fatalf("GetAction: %v", err)
		}
		if err := e.Reward(1.0); err != nil {
			t.Fatalf("Reward at cycle %d: %v", cycle, err)
		}
		if len(e.memory) > cfg.ReplayMemory {
			t.Fatalf("replay memory size %d exceeds bound %d", len(e.memory), cfg.ReplayMemory)
		}
	}
}

func TestAveragePredictionUndefinedWithNoNextCycle(t *testing.T) {
	e, err := NewExperienceReplay(erTestConfig())
	if err != nil {
		t.Fatalf("NewExperienceReplay: %v", err)
	}

	_, ok, err := e.averagePrediction(0)
	if err != nil {
		t.Fatalf("averagePrediction returned error: %v", err)
	}
	if ok {
		t.Error("averagePrediction should report ok=false when no transitions exist for the next cycle")
	}
}

func TestExperienceReplaySaveLoadRoundTrip(t *testing.T) {
	e, err := NewExperienceReplay(erTestConfig())
	if err != nil {
		t.Fatalf("NewExperienceReplay: %v", err)
	}
	for i := 0; i < 8; i++ {
		if _, err := e.GetAction(testSigma()); err != nil {
			t.Fatalf("GetAction: %v", err)
		}
		if err := e.Reward(1.0); err != nil {
			t.Fatalf("Reward: %v", err)
		}
	}

	f, err := os.CreateTemp("", "er-*.gob")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := e.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored, err := LoadExperienceReplay[string](path)
	if err != nil {
		t.Fatalf("LoadExperienceReplay: %v", err)
	}
	if restored.cycleID != e.cycleID {
		t.Errorf("restored cycleID = %d, want %d", restored.cycleID, e.cycleID)
	}
	if len(restored.memory) != len(e.memory) {
		t.Errorf("restored memory length = %d, want %d", len(restored.memory), len(e.memory))
	}
}
