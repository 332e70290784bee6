package sat

// inprocessor periodically applies subsumption and self-subsuming
// resolution to the whole clause database while the solver is at decision
// level 0 (spec.md §4.10). It is only ever invoked between restarts.
type inprocessor struct {
	interval    int64
	lastRun     int64
	occurrence  map[Literal][]*Clause
	invocations int64
}

func newInprocessor(interval int64) *inprocessor {
	return &inprocessor{interval: interval}
}

// due reports whether enough conflicts have elapsed since the last run to
// warrant another inprocessing pass.
func (ip *inprocessor) due(conflicts int64) bool {
	if ip.interval <= 0 {
		return false
	}
	return conflicts-ip.lastRun >= ip.interval
}

// signature computes a 64-bit Bloom filter over a clause's literals, used
// to reject impossible subsumption/self-subsumption pairs cheaply before
// paying for a full literal-set comparison (spec.md §4.10).
func signature(lits []Literal) uint64 {
	var sig uint64
	for _, l := range lits {
		sig |= 1 << uint(l%64)
	}
	return sig
}

// inprocess runs one pass of subsumption and self-subsuming resolution
// over the original+learnt database (spec.md §4.10 SC1: applied at
// decision level 0 against the full database). It returns false if a
// resulting unit clause conflicts at level 0 (i.e. the formula is UNSAT).
func (s *Solver) inprocess() bool {
	ip := s.inproc
	ip.lastRun = s.stats.Conflicts
	ip.invocations++
	s.stats.Inprocessings++

	all := make([]*Clause, 0, len(s.constraints)+len(s.learnts))
	all = append(all, s.constraints...)
	all = append(all, s.learnts...)

	ip.buildOccurrence(all)

	changed := true
	for changed {
		changed = false
		if s.subsume(all) {
			changed = true
		}
		if s.selfSubsume(all) {
			changed = true
		}
		// Re-derive the live clause list: subsumption/strengthening may
		// have deleted or shrunk entries.
		all = s.liveClauses(all)
		ip.buildOccurrence(all)

		if s.unsat {
			return false
		}
	}

	s.compactClauseLists()
	if s.propagate() != nil {
		s.unsat = true
		return false
	}
	return true
}

func (ip *inprocessor) buildOccurrence(clauses []*Clause) {
	if ip.occurrence == nil {
		ip.occurrence = make(map[Literal][]*Clause)
	} else {
		for k := range ip.occurrence {
			delete(ip.occurrence, k)
		}
	}
	for _, c := range clauses {
		for _, l := range c.literals {
			ip.occurrence[l] = append(ip.occurrence[l], c)
		}
	}
}

func (s *Solver) liveClauses(in []*Clause) []*Clause {
	out := in[:0]
	for _, c := range in {
		if !c.isDeleted() {
			out = append(out, c)
		}
	}
	return out
}

// containsAll reports whether every literal of small also appears in big.
// Both slices are assumed literal-deduplicated.
func containsAll(small, big []Literal) bool {
	for _, l := range small {
		found := false
		for _, m := range big {
			if l == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// subsume removes every clause D that is not locked and for which some
// other clause C is a strict subset of D (spec.md §4.10 "Subsumption");
// clauses with identical literal sets are all kept. Occurrence lists
// restrict candidate pairs to clauses sharing at least one literal, and
// the Bloom signature rejects most non-subsuming pairs before the O(|C|)
// set-containment check runs.
func (s *Solver) subsume(clauses []*Clause) bool {
	changed := false
	sigs := make(map[*Clause]uint64, len(clauses))
	for _, c := range clauses {
		sigs[c] = signature(c.literals)
	}

	for _, c := range clauses {
		if c.isDeleted() || len(c.literals) == 0 {
			continue
		}
		candidates := s.inproc.occurrence[c.literals[0]]
		for _, d := range candidates {
			if d == c || d.isDeleted() {
				continue
			}
			if len(c.literals) > len(d.literals) {
				continue
			}
			// Bloom pre-check: every bit set in c's signature must be
			// set in d's signature, or c cannot be a subset of d.
			if sigs[c]&^sigs[d] != 0 {
				continue
			}
			if d.locked(s) {
				continue // SC3: never remove a clause reasoning a live assignment
			}
			if containsAll(c.literals, d.literals) && len(c.literals) < len(d.literals) {
				s.deleteClause(d)
				changed = true
			}
		}
	}
	return changed
}

// selfSubsume strengthens clauses via self-subsuming resolution: if
// C = {l} union R and D = {not l} union R union S (R subseteq D\{not l}),
// D can be shortened to D \ {not l} (spec.md §4.10).
func (s *Solver) selfSubsume(clauses []*Clause) bool {
	changed := false
	for _, c := range clauses {
		if c.isDeleted() {
			continue
		}
		for _, l := range c.literals {
			candidates := s.inproc.occurrence[l.Opposite()]
			for _, d := range candidates {
				if d == c || d.isDeleted() || d.locked(s) {
					continue
				}
				if s.tryStrengthen(c, d, l) {
					changed = true
				}
			}
		}
	}
	return changed
}

// tryStrengthen attempts to remove l.Opposite() from d using c, where l in
// c. It succeeds when c's literals other than l are all present in d.
func (s *Solver) tryStrengthen(c, d *Clause, l Literal) bool {
	rest := make([]Literal, 0, len(c.literals)-1)
	for _, m := range c.literals {
		if m != l {
			rest = append(rest, m)
		}
	}
	if !containsAll(rest, d.literals) {
		return false
	}

	// Capture the clause's current watches before mutating its literal
	// slice: whichever positions it occupied, both watch-list entries
	// must be torn down and rebuilt (SC2).
	oldWatch0, oldWatch1 := d.literals[0], d.literals[1]

	k := 0
	for _, m := range d.literals {
		if m != l.Opposite() {
			d.literals[k] = m
			k++
		}
	}
	d.literals = d.literals[:k]

	s.unwatch(d, oldWatch0.Opposite())
	s.unwatch(d, oldWatch1.Opposite())

	switch len(d.literals) {
	case 0:
		s.unsat = true
		d.status |= statusDeleted
	case 1:
		if !s.enqueue(d.literals[0], nil) {
			s.unsat = true
		}
		d.status |= statusDeleted // watches already torn down above
	default:
		d.prevPos = 2
		s.watch(d, d.literals[0].Opposite(), d.literals[1])
		s.watch(d, d.literals[1].Opposite(), d.literals[0])
	}
	return true
}

// compactClauseLists drops deleted entries from the constraints and
// learnts slices so they stop being iterated by later passes.
func (s *Solver) compactClauseLists() {
	k := 0
	for _, c := range s.constraints {
		if !c.isDeleted() {
			s.constraints[k] = c
			k++
		}
	}
	s.constraints = s.constraints[:k]

	k = 0
	for _, c := range s.learnts {
		if !c.isDeleted() {
			s.learnts[k] = c
			k++
		}
	}
	s.learnts = s.learnts[:k]
}
