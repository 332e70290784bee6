package sat

// analyze performs first-UIP conflict analysis (spec.md §4.6). Given the
// conflicting clause and the current decision level, it walks the trail
// backwards, resolving against each visited reason clause, until exactly
// one literal from the current decision level remains unresolved (the
// UIP). It returns the learnt clause (asserting literal at position 0) and
// the backjump level.
func (s *Solver) analyze(conflict *Clause) ([]Literal, int) {
	level := s.trail.decisionLevel()
	s.seenVar.clear()

	// pending counts how many literals from the current decision level
	// still need to be resolved away before the UIP is reached.
	pending := 0
	backjump := 0

	s.scratchLearnt = s.scratchLearnt[:0]
	s.scratchLearnt = append(s.scratchLearnt, 0) // placeholder for the UIP literal

	reason := conflict
	resolvingLit := Literal(-1) // -1 marks "explain the conflict clause itself"
	idx := s.trail.len() - 1

	for {
		lits := s.explain(reason, resolvingLit)
		for _, q := range lits {
			v := q.VarID()
			if s.seenVar.contains(v) {
				continue
			}
			s.seenVar.add(v)
			s.bumpVarActivity(v)

			if s.trail.level[v] == level {
				pending++
				continue
			}
			s.scratchLearnt = append(s.scratchLearnt, q.Opposite())
			if lv := s.trail.level[v]; lv > backjump {
				backjump = lv
			}
		}

		// Walk backwards to the next seen literal on the trail.
		var v int
		for {
			resolvingLit = s.trail.lits[idx]
			idx--
			v = resolvingLit.VarID()
			if s.seenVar.contains(v) {
				break
			}
		}
		reason = s.trail.reason[v]

		pending--
		if pending <= 0 {
			break
		}
	}

	s.scratchLearnt[0] = resolvingLit.Opposite()

	if s.cfg.ClauseMinimization {
		s.scratchLearnt = s.minimize(s.scratchLearnt)
	}

	// Minimization can drop the very literal that produced backjump above,
	// so the level driving the backjump must be re-derived from the final
	// clause (storeClause picks its second watch the same way, from the
	// post-minimization literals — spec.md §4.6).
	backjump = 0
	for _, q := range s.scratchLearnt[1:] {
		if lv := s.trail.level[q.VarID()]; lv > backjump {
			backjump = lv
		}
	}

	return s.scratchLearnt, backjump
}

// explain returns the literals that justify reason: if resolvingLit is -1,
// reason is the conflicting clause itself and every literal (negated)
// participates; otherwise reason is the clause that propagated
// resolvingLit and only the literals other than resolvingLit participate
// (spec.md §4.6 "resolve against the variable's reason clause"). Reason
// clauses visited here have their activity bumped if they are learnt
// (spec.md §4.6 side effects).
func (s *Solver) explain(reason *Clause, resolvingLit Literal) []Literal {
	s.scratchReason = s.scratchReason[:0]
	if resolvingLit == -1 {
		for _, l := range reason.literals {
			s.scratchReason = append(s.scratchReason, l.Opposite())
		}
	} else {
		for _, l := range reason.literals[1:] {
			s.scratchReason = append(s.scratchReason, l.Opposite())
		}
	}
	if reason.IsLearnt() {
		s.bumpClauseActivity(reason)
	}
	return s.scratchReason
}

// computeLBD returns the number of distinct decision levels among lits
// (spec.md §3, §4.6: "LBD ... count of distinct decision levels").
func (s *Solver) computeLBD(lits []Literal) int {
	s.lbdSeen.clear()
	// lbdSeen is indexed by level+1, and a level can reach the number of
	// variables, so make room for every index up to the current level+1.
	for len(s.lbdSeen.addedAt) <= s.trail.decisionLevel()+1 {
		s.lbdSeen.expand()
	}
	n := 0
	for _, l := range lits {
		lv := s.trail.level[l.VarID()]
		if !s.lbdSeen.contains(lv + 1) { // +1 since level can be 0
			s.lbdSeen.add(lv + 1)
			n++
		}
	}
	return n
}

// minimize implements recursive learnt-clause minimization (spec.md §4.6,
// "Optional clause minimization"): a literal can be dropped from the
// learnt clause if every other literal of its reason clause is already
// redundant (in the clause, or itself recursively redundant).
func (s *Solver) minimize(learnt []Literal) []Literal {
	if len(learnt) <= 1 {
		return learnt
	}

	kept := learnt[:1] // the asserting literal is never minimized away
	for _, l := range learnt[1:] {
		if !s.literalRedundant(l) {
			kept = append(kept, l)
		}
	}
	return kept
}

// literalRedundant reports whether l's assignment is implied by the rest
// of the learnt clause already being false, via an iterative walk of
// reason clauses (spec.md §4.6: "Implementation as a recursive check with
// a depth/memoization bound is encouraged" — the bound here is the seen
// set itself, which both memoizes and prevents revisiting). Variables
// marked seen by a probe that succeeds stay marked, since they are shown
// to be implied by the clause; a probe that fails unmarks the variables it
// marked, so later probes do not treat them as already in the clause.
func (s *Solver) literalRedundant(l Literal) bool {
	s.minimizeStack = append(s.minimizeStack[:0], l)
	var marked []int
	fail := func() bool {
		for _, v := range marked {
			s.seenVar.addedAt[v] = 0 // timestamp is never 0 after clear
		}
		return false
	}

	for len(s.minimizeStack) > 0 {
		cur := s.minimizeStack[len(s.minimizeStack)-1]
		s.minimizeStack = s.minimizeStack[:len(s.minimizeStack)-1]

		reason := s.trail.reason[cur.VarID()]
		if reason == nil {
			return fail() // decision literal: not implied by anything
		}
		for _, m := range reason.literals[1:] {
			v := m.VarID()
			if s.seenVar.contains(v) || s.trail.level[v] == 0 {
				continue // already in the clause, or forced unconditionally
			}
			if s.trail.reason[v] == nil {
				return fail()
			}
			s.seenVar.add(v)
			marked = append(marked, v)
			s.minimizeStack = append(s.minimizeStack, m.Opposite())
		}
	}
	return true
}
