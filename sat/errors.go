package sat

import (
	"errors"
	"fmt"
)

// ErrUnsat is returned by AddClause when adding the clause makes the
// problem immediately, conclusively unsatisfiable (spec.md §7, "Immediate
// UNSAT at load"). It is informational: the solver records the conclusion
// internally and Solve will report Unsat without entering the search loop
// regardless of whether the caller checks this error.
var ErrUnsat = errors.New("sat: formula is unsatisfiable")

func errInvalidConfig(msg string) error {
	return fmt.Errorf("sat: invalid configuration: %s", msg)
}

func errVarOutOfRange(v, n int) error {
	return fmt.Errorf("sat: variable %d out of range [0, %d)", v, n)
}
