package action

import "errors"

// errNoActions reports that SelectAction was called against an empty
// prediction array (no classifier matched). A well-formed match set
// from package match always contains at least theta_mna actions, so
// this should never occur outside of direct, malformed use of this
// package.
var errNoActions = errors.New("action: no actions present in prediction array")
