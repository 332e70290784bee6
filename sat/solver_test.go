package sat

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustSolver(t *testing.T, numVars int, cfg Config, clauses [][]Literal) *Solver {
	t.Helper()
	s, err := NewSolver(numVars, cfg)
	if err != nil {
		t.Fatalf("NewSolver() error: %s", err)
	}
	for _, c := range clauses {
		// ErrUnsat is an early, informational signal that the problem is
		// already conclusively unsatisfiable; Solve still reports it
		// without entering the search loop, so it is not fatal here.
		if err := s.AddClause(c); err != nil && err != ErrUnsat {
			t.Fatalf("AddClause(%v) error: %s", c, err)
		}
	}
	return s
}

// checkModel reports every clause not satisfied by model.
func checkModel(t *testing.T, clauses [][]Literal, model []bool) {
	t.Helper()
	for _, c := range clauses {
		satisfied := false
		for _, l := range c {
			v := l.VarID()
			if (l.IsPositive() && model[v]) || (!l.IsPositive() && !model[v]) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			t.Errorf("clause %v not satisfied by model %v", c, model)
		}
	}
}

func TestSolve_TautologyIsTriviallySat(t *testing.T) {
	clauses := [][]Literal{
		{PositiveLiteral(0), NegativeLiteral(0)},
	}
	s := mustSolver(t, 1, DefaultConfig(), clauses)

	got := s.Solve(context.Background(), 0)
	if got != Sat {
		t.Fatalf("Solve() = %v, want Sat", got)
	}
	checkModel(t, clauses, s.Model())
}

func TestSolve_UnitPropagationChain(t *testing.T) {
	// x0 -> x1 -> x2, with x0 forced true.
	clauses := [][]Literal{
		{PositiveLiteral(0)},
		{NegativeLiteral(0), PositiveLiteral(1)},
		{NegativeLiteral(1), PositiveLiteral(2)},
	}
	s := mustSolver(t, 3, DefaultConfig(), clauses)

	got := s.Solve(context.Background(), 0)
	if got != Sat {
		t.Fatalf("Solve() = %v, want Sat", got)
	}
	model := s.Model()
	if !model[0] || !model[1] || !model[2] {
		t.Errorf("model = %v, want all true", model)
	}
	checkModel(t, clauses, model)
}

func TestSolve_ConflictingUnitsIsUnsat(t *testing.T) {
	clauses := [][]Literal{
		{PositiveLiteral(0)},
		{NegativeLiteral(0)},
	}
	s := mustSolver(t, 1, DefaultConfig(), clauses)

	if got := s.Solve(context.Background(), 0); got != Unsat {
		t.Fatalf("Solve() = %v, want Unsat", got)
	}
}

func TestSolve_EmptyClauseIsImmediatelyUnsat(t *testing.T) {
	s, err := NewSolver(1, DefaultConfig())
	if err != nil {
		t.Fatalf("NewSolver() error: %s", err)
	}
	if err := s.AddClause([]Literal{}); err != ErrUnsat {
		t.Fatalf("AddClause(empty clause) error = %v, want ErrUnsat", err)
	}
	if got := s.Solve(context.Background(), 0); got != Unsat {
		t.Fatalf("Solve() = %v, want Unsat", got)
	}
}

func TestSolve_EmptyFormulaIsSat(t *testing.T) {
	s, err := NewSolver(0, DefaultConfig())
	if err != nil {
		t.Fatalf("NewSolver() error: %s", err)
	}
	if got := s.Solve(context.Background(), 0); got != Sat {
		t.Fatalf("Solve() = %v, want Sat", got)
	}
}

// pigeonhole builds the classic (n+1) pigeons into n holes instance, which
// is unsatisfiable for every n >= 1. Variable p*n+h means "pigeon p sits in
// hole h".
func pigeonhole(n int) (numVars int, clauses [][]Literal) {
	pigeons := n + 1
	numVars = pigeons * n
	v := func(p, h int) int { return p*n + h }

	for p := 0; p < pigeons; p++ {
		c := make([]Literal, 0, n)
		for h := 0; h < n; h++ {
			c = append(c, PositiveLiteral(v(p, h)))
		}
		clauses = append(clauses, c)
	}
	for h := 0; h < n; h++ {
		for p1 := 0; p1 < pigeons; p1++ {
			for p2 := p1 + 1; p2 < pigeons; p2++ {
				clauses = append(clauses, []Literal{
					NegativeLiteral(v(p1, h)),
					NegativeLiteral(v(p2, h)),
				})
			}
		}
	}
	return numVars, clauses
}

func TestSolve_PigeonholeIsUnsat(t *testing.T) {
	for _, strategy := range []RestartStrategyKind{RestartGlucose, RestartLuby} {
		numVars, clauses := pigeonhole(2) // 3 pigeons, 2 holes
		cfg := DefaultConfig()
		cfg.RestartStrategy = strategy
		s := mustSolver(t, numVars, cfg, clauses)

		got := s.Solve(context.Background(), 0)
		if got != Unsat {
			t.Errorf("strategy %d: Solve() = %v, want Unsat", strategy, got)
		}
		if s.Stats().Conflicts > 500 {
			t.Errorf("strategy %d: Conflicts = %d, want a modest count for a 3-into-2 instance", strategy, s.Stats().Conflicts)
		}
	}
}

func TestSolve_MinimalResolutionRefutationIsUnsat(t *testing.T) {
	// {1,2} ^ {1,-2} ^ {-1,2} ^ {-1,-2}: every assignment of x1,x2 falsifies
	// one clause.
	clauses := [][]Literal{
		{PositiveLiteral(0), PositiveLiteral(1)},
		{PositiveLiteral(0), NegativeLiteral(1)},
		{NegativeLiteral(0), PositiveLiteral(1)},
		{NegativeLiteral(0), NegativeLiteral(1)},
	}
	s := mustSolver(t, 2, DefaultConfig(), clauses)

	if got := s.Solve(context.Background(), 0); got != Unsat {
		t.Fatalf("Solve() = %v, want Unsat", got)
	}
}

func TestSolve_SmallThreeSatIsSatisfiable(t *testing.T) {
	// (x0 v x1 v x2) ^ (!x0 v x1) ^ (!x1 v x2) ^ (x0 v !x2)
	// Satisfied e.g. by x0=x1=x2=true.
	clauses := [][]Literal{
		{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)},
		{NegativeLiteral(0), PositiveLiteral(1)},
		{NegativeLiteral(1), PositiveLiteral(2)},
		{PositiveLiteral(0), NegativeLiteral(2)},
	}
	s := mustSolver(t, 3, DefaultConfig(), clauses)

	got := s.Solve(context.Background(), 0)
	if got != Sat {
		t.Fatalf("Solve() = %v, want Sat", got)
	}
	checkModel(t, clauses, s.Model())
}

func TestSolve_ContextCancelledReturnsIndeterminate(t *testing.T) {
	numVars, clauses := pigeonhole(6)
	s := mustSolver(t, numVars, DefaultConfig(), clauses)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if got := s.Solve(ctx, 0); got != Indeterminate {
		t.Fatalf("Solve() with a cancelled context = %v, want Indeterminate", got)
	}
}

func TestSolve_ConflictBudgetReturnsIndeterminate(t *testing.T) {
	numVars, clauses := pigeonhole(6)
	s := mustSolver(t, numVars, DefaultConfig(), clauses)

	if got := s.Solve(context.Background(), 1); got != Indeterminate {
		t.Fatalf("Solve() with a budget of 1 conflict = %v, want Indeterminate", got)
	}
}

// modelKey renders a model as a compact binary string, e.g. [true, false]
// becomes "10", so sets of models can be compared as sets of strings.
func modelKey(model []bool) string {
	b := make([]byte, len(model))
	for i, v := range model {
		if v {
			b[i] = '1'
		} else {
			b[i] = '0'
		}
	}
	return string(b)
}

func modelSet(models [][]bool) map[string]struct{} {
	set := make(map[string]struct{}, len(models))
	for _, m := range models {
		set[modelKey(m)] = struct{}{}
	}
	return set
}

// solveAll returns every model of the clauses added to s so far, found by
// repeatedly solving and blocking the previous model with a fresh clause.
func solveAll(t *testing.T, s *Solver) [][]bool {
	t.Helper()
	var models [][]bool
	for s.Solve(context.Background(), 0) == Sat {
		model := append([]bool(nil), s.Model()...)
		models = append(models, model)

		block := make([]Literal, len(model))
		for i, v := range model {
			if v {
				block[i] = NegativeLiteral(i)
			} else {
				block[i] = PositiveLiteral(i)
			}
		}
		if err := s.AddClause(block); err != nil && err != ErrUnsat {
			t.Fatalf("AddClause(%v) error: %s", block, err)
		}
	}
	return models
}

func TestSolve_EnumeratesAllModels(t *testing.T) {
	// (x0 v x1) ^ (!x0 v !x1): exactly one of x0, x1 is true.
	clauses := [][]Literal{
		{PositiveLiteral(0), PositiveLiteral(1)},
		{NegativeLiteral(0), NegativeLiteral(1)},
	}
	s := mustSolver(t, 2, DefaultConfig(), clauses)

	got := modelSet(solveAll(t, s))
	want := modelSet([][]bool{{true, false}, {false, true}})

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("model set mismatch (-want +got):\n%s", diff)
	}
}

func TestSolver_AddClauseAfterSearchStartedIsRejected(t *testing.T) {
	s := mustSolver(t, 2, DefaultConfig(), nil)
	s.assume(PositiveLiteral(0))

	if err := s.AddClause([]Literal{PositiveLiteral(1)}); err == nil {
		t.Errorf("AddClause() at decision level 1 = nil error, want non-nil")
	}
}
