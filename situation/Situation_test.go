package situation

import "testing"

func TestSymbolMatches(t *testing.T) {
	if !DontCare.Matches(Pass) || !DontCare.Matches(Fail) {
		t.Fatal("DontCare must match both Pass and Fail")
	}
	if !SymbolPass.Matches(Pass) {
		t.Error("SymbolPass should match Pass")
	}
	if SymbolPass.Matches(Fail) {
		t.Error("SymbolPass should not match Fail")
	}
	if !SymbolFail.Matches(Fail) {
		t.Error("SymbolFail should match Fail")
	}
	if SymbolFail.Matches(Pass) {
		t.Error("SymbolFail should not match Pass")
	}
}

func TestFromResult(t *testing.T) {
	if FromResult(Pass) != SymbolPass {
		t.Error("FromResult(Pass) should be SymbolPass")
	}
	if FromResult(Fail) != SymbolFail {
		t.Error("FromResult(Fail) should be SymbolFail")
	}
}

func TestIntervalContains(t *testing.T) {
	iv := Interval{Lo: 1, Hi: 3}
	for _, x := range []float64{1, 2, 3} {
		if !iv.Contains(x) {
			t.Errorf("Interval(1,3) should contain %v", x)
		}
	}
	if iv.Contains(0.999) || iv.Contains(3.001) {
		t.Error("Interval(1,3) should not contain values outside its bounds")
	}
}

func TestIntervalInvertedNeverContains(t *testing.T) {
	iv := Interval{Lo: 3, Hi: 1}
	for _, x := range []float64{0, 1, 2, 3, 4} {
		if iv.Contains(x) {
			t.Errorf("inverted interval must never contain %v, contained it", x)
		}
	}
}

func TestHistLen(t *testing.T) {
	s := Situation{PreviousResults: []Result{Pass, Fail, Pass}}
	if s.HistLen() != 3 {
		t.Errorf("HistLen() = %d, want 3", s.HistLen())
	}
}
