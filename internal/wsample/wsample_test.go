package wsample

import (
	"testing"

	"golang.org/x/exp/rand"
)

func TestChoiceZeroTotalFallsBackToUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	weights := []float64{0, 0, 0}
	for i := 0; i < 20; i++ {
		idx := Choice(weights, rng)
		if idx < 0 || idx >= len(weights) {
			t.Fatalf("Choice returned out-of-range index %d", idx)
		}
	}
}

func TestChoiceSingleWeightAlwaysPicksIt(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	weights := []float64{0, 5, 0}
	for i := 0; i < 20; i++ {
		if idx := Choice(weights, rng); idx != 1 {
			t.Fatalf("Choice with a single positive weight = %d, want 1", idx)
		}
	}
}
