// Package situation defines the observation a caller presents to an Agent:
// a CI test case's recent pass/fail history, how long ago it last ran, and
// how long it is expected to take.
package situation

import "fmt"

// Result is a single recorded test outcome.
type Result bool

const (
	Fail Result = false
	Pass Result = true
)

// Symbol is a ternary value over Result used only in a Classifier's
// previous-results condition: a concrete Result, or DontCare which
// matches either Result.
type Symbol int

const (
	// DontCare matches both Pass and Fail.
	DontCare Symbol = iota
	SymbolPass
	SymbolFail
)

// FromResult converts a concrete Result into its matching Symbol.
func FromResult(r Result) Symbol {
	if r {
		return SymbolPass
	}
	return SymbolFail
}

// Matches reports whether s accepts r. DontCare accepts any Result.
func (s Symbol) Matches(r Result) bool {
	if s == DontCare {
		return true
	}
	return s == FromResult(r)
}

// String implements fmt.Stringer for debugging and logging by a host
// harness.
func (s Symbol) String() string {
	switch s {
	case DontCare:
		return "#"
	case SymbolPass:
		return "pass"
	case SymbolFail:
		return "fail"
	default:
		return fmt.Sprintf("Symbol(%d)", int(s))
	}
}

// Interval is an ordered pair (Lo, Hi) used as a Classifier condition over
// a continuous situation field. No Lo<=Hi invariant is enforced: GA
// crossover can produce an inverted interval, and matching against an
// inverted interval always fails. This is deliberate (see package genetic)
// and must not be "fixed" by normalizing here.
type Interval struct {
	Lo, Hi float64
}

// Contains reports whether x falls within [Lo, Hi] inclusive. An inverted
// interval (Lo > Hi) can never contain a value.
func (iv Interval) Contains(x float64) bool {
	return iv.Lo <= x && x <= iv.Hi
}

// Situation is the observation presented to an Agent for a single test
// case.
type Situation struct {
	// PreviousResults is the ordered outcome history, most recent last,
	// of fixed length (the Agent's configured history length).
	PreviousResults []Result

	// LastExecution is how long ago (implementation-defined units) the
	// test case was last run.
	LastExecution float64

	// Duration is the test case's expected run time.
	Duration float64
}

// HistLen returns the length of PreviousResults.
func (s Situation) HistLen() int {
	return len(s.PreviousResults)
}
