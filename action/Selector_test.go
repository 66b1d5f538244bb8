package action

import (
	"testing"

	"golang.org/x/exp/rand"

	"github.com/retecs-go/xcs/classifier"
	"github.com/retecs-go/xcs/situation"
)

func withStats(k *classifier.Classifier[string], fitness, prediction float64) *classifier.Classifier[string] {
	k.Fitness = fitness
	k.Prediction = prediction
	return k
}

func TestPredictionArrayScenario(t *testing.T) {
	// spec.md scenario 2: action X has members (fitness=10,pred=5) and
	// (fitness=3,pred=4); PA[X] should be 62/13. Action Y has a single
	// member with fitness=7, prediction=2; PA[Y] should be 2.
	condPrev := []situation.Symbol{situation.DontCare}
	iv := situation.Interval{Lo: 0, Hi: 10}

	x1 := withStats(classifier.New(condPrev, iv, iv, "X", 1), 10, 5)
	x2 := withStats(classifier.New(condPrev, iv, iv, "X", 1), 3, 4)
	y1 := withStats(classifier.New(condPrev, iv, iv, "Y", 1), 7, 2)

	pa := NewPredictionArray([]*classifier.Classifier[string]{x1, x2, y1})

	gotX, ok := pa.Value("X")
	if !ok {
		t.Fatal("PA[X] should be defined")
	}
	wantX := 62.0 / 13.0
	if diff := gotX - wantX; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("PA[X] = %v, want %v", gotX, wantX)
	}

	gotY, ok := pa.Value("Y")
	if !ok {
		t.Fatal("PA[Y] should be defined")
	}
	if gotY != 2 {
		t.Errorf("PA[Y] = %v, want 2", gotY)
	}
}

func TestPredictionArrayUndefinedAtZeroFitness(t *testing.T) {
	condPrev := []situation.Symbol{situation.DontCare}
	iv := situation.Interval{Lo: 0, Hi: 10}
	k := withStats(classifier.New(condPrev, iv, iv, "X", 1), 0, 5)

	pa := NewPredictionArray([]*classifier.Classifier[string]{k})
	if _, ok := pa.Value("X"); ok {
		t.Error("an all-zero-fitness niche must have no defined prediction value")
	}
	if len(pa.Actions()) != 1 {
		t.Error("the action must still be present even without a defined value")
	}
}

func TestSelectActionGreedy(t *testing.T) {
	condPrev := []situation.Symbol{situation.DontCare}
	iv := situation.Interval{Lo: 0, Hi: 10}
	x := withStats(classifier.New(condPrev, iv, iv, "X", 1), 1, 10)
	y := withStats(classifier.New(condPrev, iv, iv, "Y", 1), 1, 1)

	pa := NewPredictionArray([]*classifier.Classifier[string]{x, y})
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 20; i++ {
		got, err := SelectAction(pa, false, 0, rng)
		if err != nil {
			t.Fatalf("SelectAction returned error: %v", err)
		}
		if got != "X" {
			t.Fatalf("eval-mode SelectAction should always pick the higher-valued action, got %v", got)
		}
	}
}

func TestSelectActionEmptyNicheFallsBackToUniform(t *testing.T) {
	condPrev := []situation.Symbol{situation.DontCare}
	iv := situation.Interval{Lo: 0, Hi: 10}
	x := withStats(classifier.New(condPrev, iv, iv, "X", 1), 0, 10)
	y := withStats(classifier.New(condPrev, iv, iv, "Y", 1), 0, 1)

	pa := NewPredictionArray([]*classifier.Classifier[string]{x, y})
	rng := rand.New(rand.NewSource(1))

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		got, err := SelectAction(pa, false, 0, rng)
		if err != nil {
			t.Fatalf("SelectAction returned error: %v", err)
		}
		seen[got] = true
	}
	if len(seen) != 2 {
		t.Fatalf("uniform fallback should reach both actions over 50 draws, saw %v", seen)
	}
}

func TestGetActionSet(t *testing.T) {
	condPrev := []situation.Symbol{situation.DontCare}
	iv := situation.Interval{Lo: 0, Hi: 10}
	x1 := classifier.New(condPrev, iv, iv, "X", 1)
	x2 := classifier.New(condPrev, iv, iv, "X", 1)
	y1 := classifier.New(condPrev, iv, iv, "Y", 1)

	set := GetActionSet([]*classifier.Classifier[string]{x1, x2, y1}, "X")
	if len(set) != 2 {
		t.Errorf("GetActionSet(X) size = %d, want 2", len(set))
	}
}
