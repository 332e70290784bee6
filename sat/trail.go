package sat

// trail is the chronological record of every currently assigned literal,
// partitioned by decision level (spec.md §4.4). It is the single source of
// truth for assignment order; backtracking truncates it.
type trail struct {
	assigns []LBool // indexed by Literal; assigns[l] and assigns[l.Opposite()] are kept in sync
	level   []int   // indexed by variable id; decision level at which it was assigned, -1 if unassigned
	reason  []*Clause

	lits     []Literal // the trail itself, in assignment order
	trailLim []int     // trail length at the start of each decision level

	// phase remembers the last value each variable was assigned, reused as
	// the default polarity for future decisions (spec.md §4.7 "phase
	// saving").
	phase []LBool
}

func newTrail() *trail {
	return &trail{}
}

// addVariable grows the trail's per-variable/per-literal bookkeeping for a
// newly declared variable.
func (t *trail) addVariable() {
	t.assigns = append(t.assigns, Unknown, Unknown)
	t.level = append(t.level, -1)
	t.reason = append(t.reason, nil)
	t.phase = append(t.phase, False) // spec.md §4.7: saved phase initialized FALSE
}

func (t *trail) numVars() int { return len(t.level) }

func (t *trail) decisionLevel() int { return len(t.trailLim) }

func (t *trail) valueOf(l Literal) LBool { return t.assigns[l] }

// newDecisionLevel records the trail position at which a new decision
// level begins (spec.md §4.4 new_decision_level).
func (t *trail) newDecisionLevel() {
	t.trailLim = append(t.trailLim, len(t.lits))
}

// push assigns l to true at the current decision level with the given
// reason (nil for a decision). The caller must have already verified that
// l is not assigned to the opposite polarity.
func (t *trail) push(l Literal, reason *Clause) {
	v := l.VarID()
	t.assigns[l] = True
	t.assigns[l.Opposite()] = False
	t.level[v] = t.decisionLevel()
	t.reason[v] = reason
	t.lits = append(t.lits, l)
}

// popOne undoes the most recently pushed trail entry and returns the
// undone literal together with its variable id, so callers (VSIDS
// reinsertion, the restart/backtrack machinery) can react to it.
func (t *trail) popOne() (Literal, int) {
	l := t.lits[len(t.lits)-1]
	t.lits = t.lits[:len(t.lits)-1]
	v := l.VarID()

	// Save the phase before clearing, so future decisions on v default to
	// how it was last assigned (spec.md §4.4 backtrack_to).
	t.phase[v] = Lift(l.IsPositive())

	t.assigns[l] = Unknown
	t.assigns[l.Opposite()] = Unknown
	t.reason[v] = nil
	t.level[v] = -1
	return l, v
}

// truncateTo pops every trail entry with level > target and trims the
// decision-point list to match, invoking onUndo(v) for every undone
// variable so the caller (the solver) can reinsert it into the VSIDS
// order (spec.md §4.4 backtrack_to).
func (t *trail) truncateTo(target int, onUndo func(v int)) {
	for t.decisionLevel() > target {
		start := t.trailLim[len(t.trailLim)-1]
		for len(t.lits) > start {
			_, v := t.popOne()
			onUndo(v)
		}
		t.trailLim = t.trailLim[:len(t.trailLim)-1]
	}
}

// last returns the most recently assigned literal still on the trail.
func (t *trail) last() Literal { return t.lits[len(t.lits)-1] }

func (t *trail) len() int { return len(t.lits) }
