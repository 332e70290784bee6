package sat

// propagate drains the propagation queue against the watch lists (BCP,
// spec.md §4.5). It returns the first clause found entirely false under
// the current trail, or nil if the queue emptied without conflict.
//
// The algorithm follows spec.md §4.5 step by step: for each dequeued
// literal l (which just became true, so its negation just became false),
// every clause on l's watch list (those watching l's negation) is visited; position 0 is made to hold the partner of the watched literal,
// satisfied clauses are left alone, a new watch is sought among positions
// 2..end, and if none is found the clause is either unit (enqueue) or
// conflicting (return it immediately — P3: the first conflict encountered
// stops the pass).
func (s *Solver) propagate() *Clause {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()

		watchList := s.watchers[l]
		s.scratchWatchers = append(s.scratchWatchers[:0], watchList...)
		s.watchers[l] = watchList[:0]

		for i, w := range s.scratchWatchers {
			// The guard short-circuit does not change propagation
			// semantics (spec.md §4.5 is unaffected by it) but avoids
			// loading clauses that are already known to be satisfied.
			if s.trail.valueOf(w.guard) == True {
				s.watchers[l] = append(s.watchers[l], w)
				continue
			}

			if s.propagateClause(w.clause, l) {
				continue
			}

			// Conflict: keep the remaining (not-yet-visited) watchers in
			// place and stop the pass immediately.
			s.watchers[l] = append(s.watchers[l], s.scratchWatchers[i+1:]...)
			s.propQueue.Clear()
			s.stats.Propagations += int64(i + 1)
			return s.scratchWatchers[i].clause
		}
		s.stats.Propagations += int64(len(s.scratchWatchers))
	}
	return nil
}

// propagateClause re-establishes c's watch after l became true, i.e. after
// c's watched literal l.Opposite() was falsified. It returns true if c remains satisfiable without forcing
// anything (possibly after moving its watch), and false if c is now unit
// (in which case the unit has already been enqueued) or conflicting.
func (s *Solver) propagateClause(c *Clause, l Literal) bool {
	lits := c.literals
	opp := l.Opposite()

	// Position 0 must hold the literal other than opp (step 1a).
	if lits[0] == opp {
		lits[0], lits[1] = lits[1], lits[0]
	}

	if s.trail.valueOf(lits[0]) == True {
		s.watch(c, l, lits[0])
		return true
	}

	// Scan 2..end (wrapping from the cached prevPos) for a non-false
	// literal to adopt as the new watch (step 1c).
	if c.prevPos >= len(lits) {
		c.prevPos = 2
	}
	for i := c.prevPos; i < len(lits); i++ {
		if s.trail.valueOf(lits[i]) != False {
			lits[1], lits[i] = lits[i], lits[1]
			c.prevPos = i
			s.watch(c, lits[1].Opposite(), lits[0])
			return true
		}
	}
	for i := 2; i < c.prevPos; i++ {
		if s.trail.valueOf(lits[i]) != False {
			lits[1], lits[i] = lits[i], lits[1]
			c.prevPos = i
			s.watch(c, lits[1].Opposite(), lits[0])
			return true
		}
	}

	// No replacement: c is unit on lits[0] if that is still unassigned,
	// otherwise c is conflicting (step 1d).
	s.watch(c, l, lits[0])
	return s.enqueue(lits[0], c)
}
