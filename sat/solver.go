package sat

import (
	"context"
	"log"
)

// Status is the outcome of a call to Solve (spec.md §6).
type Status int8

const (
	Unsat Status = iota
	Sat
	// Indeterminate is returned when the budget or context deadline is
	// exhausted before a verdict is reached.
	Indeterminate
)

func (st Status) String() string {
	switch st {
	case Sat:
		return "SAT"
	case Unsat:
		return "UNSAT"
	default:
		return "INDETERMINATE"
	}
}

// Solver owns every piece of state for a single CDCL search: the clause
// database, watch lists, trail, decision heuristic, restart controller,
// reduction manager, and inprocessor (spec.md §5 "the solver is a single
// owning value"). Two Solver instances never share state.
type Solver struct {
	cfg Config

	constraints []*Clause // original problem clauses, never removed by reduction
	learnts     []*Clause // learnt clauses, candidates for reduction

	clauseInc   float64
	clauseDecay float64

	watchers  [][]watcher // indexed by Literal
	propQueue *Queue[Literal]

	trail *trail
	order *varOrder

	restart    restartController
	postpone   *restartPostponing
	reduction  *reductionManager
	inproc     *inprocessor

	// unsat latches a conclusive, level-0-derived contradiction. Once set
	// it is permanent: no further search can change the verdict.
	unsat bool

	stats Statistics

	// model holds the last satisfying assignment found, or nil.
	model []bool

	// Scratch buffers reused across calls to avoid per-conflict
	// allocation (mirrors the teacher's tmp* fields).
	scratchWatchers []watcher
	scratchLearnt   []Literal
	scratchReason   []Literal
	minimizeStack   []Literal

	seenVar resetSet
	lbdSeen resetSet
}

// NewSolver returns a solver with numVars variables and the given
// configuration. cfg is validated synchronously (spec.md §7).
func NewSolver(numVars int, cfg Config) (*Solver, error) {
	if numVars < 0 {
		return nil, errVarOutOfRange(numVars, numVars)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Solver{
		cfg:         cfg,
		clauseInc:   1,
		clauseDecay: cfg.ClauseDecay,
		propQueue:   NewQueue[Literal](128),
		trail:       newTrail(),
		order:       newVarOrder(cfg, cfg.RandomSeed),
		postpone:    newRestartPostponing(cfg.RestartPostponing),
		reduction:   newReductionManager(cfg.LearnedClauseLimitBase, cfg.LearnedClauseLimitGrowth),
		inproc:      newInprocessor(cfg.InprocessingInterval),
	}
	if cfg.RestartStrategy == RestartLuby {
		s.restart = newLubyRestart(cfg.RestartBase)
	} else {
		s.restart = newGlucoseRestart(cfg.GlucoseWindow, cfg.GlucoseK)
	}

	for i := 0; i < numVars; i++ {
		s.addVariable()
	}
	return s, nil
}

func (s *Solver) addVariable() int {
	id := s.trail.numVars()
	s.watchers = append(s.watchers, nil, nil)
	s.trail.addVariable()
	s.order.addVariable()
	s.seenVar.expand()
	s.lbdSeen.expand()
	return id
}

// NumVariables returns the number of declared variables.
func (s *Solver) NumVariables() int { return s.trail.numVars() }

// NumAssigns returns the number of currently assigned variables.
func (s *Solver) NumAssigns() int { return s.trail.len() }

// NumConstraints returns the number of live original clauses.
func (s *Solver) NumConstraints() int { return len(s.constraints) }

// NumLearnts returns the number of live learnt clauses.
func (s *Solver) NumLearnts() int { return len(s.learnts) }

func (s *Solver) decisionLevel() int { return s.trail.decisionLevel() }

// SetPhaseHint seeds the saved phase for a variable (spec.md §6, optional
// input interface).
func (s *Solver) SetPhaseHint(v int, value bool) error {
	if v < 0 || v >= s.NumVariables() {
		return errVarOutOfRange(v, s.NumVariables())
	}
	s.order.phase[v] = Lift(value)
	s.trail.phase[v] = Lift(value)
	return nil
}

// AddClause normalizes and inserts a clause given as signed-integer-style
// literals already encoded via PositiveLiteral/NegativeLiteral (spec.md
// §6). It must be called before Solve reaches a non-root decision level.
func (s *Solver) AddClause(literals []Literal) error {
	if s.decisionLevel() != 0 {
		return errInvalidConfig("clauses may only be added at decision level 0")
	}
	for _, l := range literals {
		if l < 0 || l.VarID() >= s.NumVariables() {
			return errVarOutOfRange(l.VarID(), s.NumVariables())
		}
	}

	tmp := append([]Literal(nil), literals...)
	_, ok := s.addOriginal(tmp)
	if !ok {
		s.unsat = true
		return ErrUnsat
	}
	return nil
}

// enqueue assigns l to true at the current decision level with the given
// reason. It returns false if l was already assigned to the opposite
// polarity (the caller must treat that as a conflict), true otherwise
// (including when l was already assigned to true).
func (s *Solver) enqueue(l Literal, reason *Clause) bool {
	switch s.trail.valueOf(l) {
	case False:
		return false
	case True:
		return true
	default:
		s.trail.push(l, reason)
		s.propQueue.Push(l)
		return true
	}
}

func (s *Solver) bumpVarActivity(v int) {
	s.order.bump(v)
}

func (s *Solver) bumpClauseActivity(c *Clause) {
	c.activity += s.clauseInc
	if c.activity > 1e100 {
		s.clauseInc *= 1e-100
		for _, l := range s.learnts {
			l.activity *= 1e-100
		}
	}
}

func (s *Solver) decayActivities() {
	s.order.decay()
	s.clauseInc /= s.clauseDecay
}

// assume pushes a new decision level and enqueues l as a decision (no
// reason).
func (s *Solver) assume(l Literal) {
	s.trail.newDecisionLevel()
	s.enqueue(l, nil)
}

// backtrackTo undoes every assignment made above level, reinserting freed
// variables into the VSIDS order with their phase saved (spec.md §4.4
// backtrack_to). It does not clear the propagation queue itself; callers
// that backtrack outside of conflict handling (restarts) must do so only
// when the queue is already empty, which holds at decision level 0.
func (s *Solver) backtrackTo(level int) {
	s.trail.truncateTo(level, func(v int) {
		// popOne has already recorded v's last polarity in trail.phase;
		// reinsert propagates it into the VSIDS order's own saved phase.
		s.order.reinsert(v, s.trail.phase[v])
	})
}

func (s *Solver) invariant(cond bool, format string, args ...any) {
	if !cond {
		log.Panicf(format, args...)
	}
}

// Solve runs the CDCL search loop until a verdict is reached, the context
// is cancelled, or conflictBudget conflicts have been spent (spec.md
// §4.11, §5). A non-positive conflictBudget means unbounded.
func (s *Solver) Solve(ctx context.Context, conflictBudget int64) Status {
	s.model = nil
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if !s.preprocess() {
		return Unsat
	}

	var spent int64
	for {
		select {
		case <-ctx.Done():
			return Indeterminate
		default:
		}

		conflict := s.propagate()
		if conflict != nil {
			s.stats.Conflicts++
			spent++

			if s.decisionLevel() == 0 {
				s.unsat = true
				return Unsat
			}

			learnt, bj := s.analyze(conflict)
			lbd := s.computeLBD(learnt)

			s.backtrackTo(bj)
			c, ok := s.addLearned(learnt, lbd)
			if !ok {
				s.unsat = true
				return Unsat
			}
			if c != nil {
				s.enqueue(c.literals[0], c)
			} else {
				// Unit learnt clause: addLearned already enqueued it via
				// storeClause's size==1 branch.
			}

			s.decayActivities()
			s.restart.observeConflict(lbd)

			if conflictBudget > 0 && spent >= conflictBudget {
				return Indeterminate
			}
			continue
		}

		// No conflict.
		if s.decisionLevel() == 0 {
			if !s.simplify() {
				return Unsat
			}
		}

		if s.restart.shouldRestart() {
			preRestartTrailLen := s.trail.len()
			if !s.postpone.veto(preRestartTrailLen) {
				s.backtrackTo(0)
				s.restart.onRestart()
				s.stats.Restarts++
				s.postpone.record(preRestartTrailLen)
				s.order.onRestart(s.stats.Restarts, s.stats.Conflicts, s.cfg.AdaptiveRestartRatio, s.cfg.AdaptiveThresholdConflicts)

				if s.inproc.due(s.stats.Conflicts) {
					if !s.inprocess() {
						return Unsat
					}
				}
				continue
			}
		}

		if s.reduction.shouldReduce(len(s.learnts)) {
			s.reduceDB()
		}

		if s.trail.len() == s.NumVariables() {
			s.saveModel()
			s.backtrackTo(0)
			return Sat
		}

		lit, ok := s.order.pick(func(v int) bool {
			return s.trail.valueOf(PositiveLiteral(v)) != Unknown
		})
		if !ok {
			s.saveModel()
			s.backtrackTo(0)
			return Sat
		}
		s.stats.Decisions++
		s.assume(lit)
	}
}

// preprocess normalizes the problem once before search begins (spec.md
// §4.11 step 1): propagate whatever units were enqueued by AddClause,
// fail fast on an immediate contradiction, then eliminate pure literals.
func (s *Solver) preprocess() bool {
	if s.unsat {
		return false
	}
	if s.propagate() != nil {
		s.unsat = true
		return false
	}
	s.eliminatePureLiterals()
	if s.propagate() != nil {
		s.unsat = true
		return false
	}
	return !s.unsat
}

// eliminatePureLiterals assigns, satisfyingly, every variable that
// appears with only one polarity across all currently-live clauses
// (spec.md §4.11 step 1, §9 Open Question: preprocessing only, never
// mid-search).
func (s *Solver) eliminatePureLiterals() {
	seenPos := make([]bool, s.NumVariables())
	seenNeg := make([]bool, s.NumVariables())

	for _, c := range s.constraints {
		for _, l := range c.literals {
			if l.IsPositive() {
				seenPos[l.VarID()] = true
			} else {
				seenNeg[l.VarID()] = true
			}
		}
	}

	for v := 0; v < s.NumVariables(); v++ {
		if s.trail.valueOf(PositiveLiteral(v)) != Unknown {
			continue
		}
		switch {
		case seenPos[v] && !seenNeg[v]:
			s.enqueue(PositiveLiteral(v), nil)
		case seenNeg[v] && !seenPos[v]:
			s.enqueue(NegativeLiteral(v), nil)
		}
	}
}

// simplify removes clauses satisfied at the root level from both
// databases (spec.md §4.2's Simplify collaborator). Only valid to call at
// decision level 0 with an empty propagation queue.
func (s *Solver) simplify() bool {
	s.invariant(s.decisionLevel() == 0, "simplify called at decision level %d", s.decisionLevel())
	s.invariant(s.propQueue.Size() == 0, "simplify called with a non-empty propagation queue")

	if s.unsat || s.propagate() != nil {
		s.unsat = true
		return false
	}

	simplifyList := func(clauses *[]*Clause) {
		cs := *clauses
		k := 0
		for _, c := range cs {
			if c.simplifyAtRoot(s) {
				s.deleteClause(c)
				continue
			}
			cs[k] = c
			k++
		}
		*clauses = cs[:k]
	}
	simplifyList(&s.learnts)
	simplifyList(&s.constraints)
	return true
}

// saveModel records a total assignment once every variable has a value.
func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for v := range model {
		lb := s.trail.valueOf(PositiveLiteral(v))
		s.invariant(lb != Unknown, "variable %d unassigned at a claimed solution", v)
		model[v] = lb == True
	}
	s.model = model
}

// Model returns the satisfying assignment from the most recent Sat result,
// or nil if the last call to Solve did not return Sat.
func (s *Solver) Model() []bool {
	return s.model
}
