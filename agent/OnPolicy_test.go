package agent

import (
	"os"
	"testing"

	"github.com/retecs-go/xcs/situation"
)

func testConfig() Config[string] {
	return Config[string]{
		MaxPopulationSize: 20,
		PossibleActions:   []string{"skip", "retest"},
		HistLen:           3,
		Seed:              1,
	}
}

func testSigma() situation.Situation {
	return situation.Situation{
		PreviousResults: []situation.Result{situation.Pass, situation.Pass, situation.Fail},
		LastExecution:   5,
		Duration:        5,
	}
}

func TestConfigValidate(t *testing.T) {
	bad := Config[string]{}
	err := bad.Validate()
	if err == nil {
		t.Error("empty config should fail validation")
	}
	if !IsConfigError(err) {
		t.Errorf("expected a config error, got %T: %v", err, err)
	}

	good := testConfig()
	if err := good.Validate(); err != nil {
		t.Errorf("valid config failed validation: %v", err)
	}
}

func TestOnPolicyGetActionAndReward(t *testing.T) {
	o, err := NewOnPolicy(testConfig())
	if err != nil {
		t.Fatalf("NewOnPolicy: %v", err)
	}

	for cycle := 0; cycle < 10; cycle++ {
		sigma := testSigma()
		if _, err := o.GetAction(sigma); err != nil {
			t.Fatalf("GetAction: %v", err)
		}
		if err := o.Reward(1.0); err != nil {
			t.Fatalf("Reward: %v", err)
		}
		if o.PopulationSize() > testConfig().MaxPopulationSize {
			t.Fatalf("population size %d exceeds bound after cycle %d", o.PopulationSize(), cycle)
		}
	}
}

func TestOnPolicyRewardShapeMismatch(t *testing.T) {
	o, err := NewOnPolicy(testConfig())
	if err != nil {
		t.Fatalf("NewOnPolicy: %v", err)
	}
	if _, err := o.GetAction(testSigma()); err != nil {
		t.Fatalf("GetAction: %v", err)
	}
	if _, err := o.GetAction(testSigma()); err != nil {
		t.Fatalf("GetAction: %v", err)
	}

	err = o.Reward([]float64{1.0})
	if err == nil {
		t.Fatal("expected a shape-mismatch error for a too-short reward sequence")
	}
	if !IsRewardShapeMismatch(err) {
		t.Errorf("expected a reward-shape-mismatch error, got %T: %v", err, err)
	}
}

func TestOnPolicySaveLoadRoundTrip(t *testing.T) {
	o, err := NewOnPolicy(testConfig())
	if err != nil {
		t.Fatalf("NewOnPolicy: %v", err)
	}
	for i := 0; i < 5; i++ {
		if _, err := o.GetAction(testSigma()); err != nil {
			t.Fatalf("GetAction: %v", err)
		}
		if err := o.Reward(1.0); err != nil {
			t.Fatalf("Reward: %v", err)
		}
	}

	f, err := os.CreateTemp("", "onpolicy-*.gob")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	path := f.Name()
	f.Close()
	defer os.Remove(path)

	if err := o.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	restored, err := LoadOnPolicy[string](path)
	if err != nil {
		t.Fatalf("LoadOnPolicy: %v", err)
	}
	if restored.PopulationSize() != o.PopulationSize() {
		t.Errorf("restored population size = %d, want %d", restored.PopulationSize(), o.PopulationSize())
	}
}
