package sat

import "strings"

// clauseStatus packs per-clause boolean metadata into a single byte.
type clauseStatus uint8

const (
	statusLearnt    clauseStatus = 1 << iota // clause was derived by conflict analysis
	statusDeleted                            // clause has been logically removed
	statusProtected                          // glue clause (LBD <= 2), never reduced away
)

// Clause is a disjunction of literals. Positions 0 and 1 always hold the
// two watched literals (invariant WL1). In a garbage-collected language a
// *Clause pointer already behaves like the stable, non-owning "arena
// reference" spec.md's design notes call for: the Go runtime is the arena,
// and every component (watch lists, trail reasons, the analyzer) holds a
// plain pointer rather than an index into a manually managed slab.
type Clause struct {
	literals []Literal

	activity float64 // bumped when the clause is used to explain a conflict (learnt only)
	lbd      int32    // literal block distance (learnt only); 0 if never computed

	// prevPos caches where the last replacement watch was found, so the
	// next search over literals[2:] does not always restart from the top.
	prevPos int

	status clauseStatus
}

func (c *Clause) Literals() []Literal { return c.literals }

func (c *Clause) IsLearnt() bool { return c.status&statusLearnt != 0 }

func (c *Clause) isDeleted() bool { return c.status&statusDeleted != 0 }

func (c *Clause) IsProtected() bool { return c.status&statusProtected != 0 }

func (c *Clause) setProtected(v bool) {
	if v {
		c.status |= statusProtected
	} else {
		c.status &^= statusProtected
	}
}

// LBD returns the clause's literal block distance: the number of distinct
// decision levels among its literals. Meaningful for learnt clauses only.
func (c *Clause) LBD() int { return int(c.lbd) }

// Len returns the number of live literals in the clause.
func (c *Clause) Len() int { return len(c.literals) }

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// newClause allocates a clause from literals already known to contain at
// least two entries and to be free of duplicates/tautologies (the callers
// are responsible for that normalization per spec.md §4.2). addOriginal
// also drops literals false at level 0; a learnt clause keeps its false
// literals, since all but the asserting one are false when it is stored.
func newClause(literals []Literal, learnt bool) *Clause {
	c := &Clause{
		literals: append([]Literal(nil), literals...),
		prevPos:  2,
	}
	if learnt {
		c.status |= statusLearnt
	}
	return c
}

// locked reports whether c is currently the reason for the assignment of
// its first literal's variable, i.e. whether it must not be deleted right
// now (spec.md §4.9 rule 2, §4.10 SC3).
func (c *Clause) locked(s *Solver) bool {
	if len(c.literals) == 0 {
		return false
	}
	return s.trail.reason[c.literals[0].VarID()] == c
}

// addOriginal normalizes and stores a problem clause (spec.md §4.2
// add_original). It removes duplicate literals, detects tautologies (a
// literal and its negation both present), and reports whether the clause
// turned out to be trivially satisfied, a genuine (possibly unit) clause,
// or an immediate contradiction (empty/conflicting unit).
//
// The returned bool is false only when the clause is a hard contradiction
// the driver must treat as UNSAT; ok is true for tautologies, satisfied
// units, and ordinary multi-literal clauses alike.
func (s *Solver) addOriginal(tmp []Literal) (*Clause, bool) {
	size := len(tmp)
	seen := make(map[Literal]struct{}, size)

	for i := size - 1; i >= 0; i-- {
		if _, ok := seen[tmp[i].Opposite()]; ok {
			return nil, true // tautology: clause is trivially satisfied
		}
		if _, ok := seen[tmp[i]]; ok {
			size--
			tmp[i], tmp[size] = tmp[size], tmp[i]
			continue
		}
		seen[tmp[i]] = struct{}{}

		switch s.trail.valueOf(tmp[i]) {
		case True:
			return nil, true // already satisfied at level 0
		case False:
			size--
			tmp[i], tmp[size] = tmp[size], tmp[i]
		}
	}
	tmp = tmp[:size]

	return s.storeClause(tmp, false)
}

// addLearned stores a clause produced by conflict analysis, with the given
// precomputed LBD, and bumps its activity (spec.md §4.2 add_learned, §4.6).
func (s *Solver) addLearned(literals []Literal, lbd int) (*Clause, bool) {
	c, ok := s.storeClause(literals, true)
	if c != nil {
		c.lbd = int32(lbd)
		c.setProtected(lbd <= 2)
		s.bumpClauseActivity(c)
	}
	return c, ok
}

// storeClause performs the final size dispatch shared by addOriginal and
// addLearned: an empty clause is a hard contradiction, a unit clause is
// enqueued directly without being materialized, and anything larger is
// allocated and put on watch.
func (s *Solver) storeClause(literals []Literal, learnt bool) (*Clause, bool) {
	switch len(literals) {
	case 0:
		return nil, false
	case 1:
		return nil, s.enqueue(literals[0], nil)
	default:
		c := newClause(literals, learnt)
		if learnt {
			// The second watched literal should be the one with the
			// highest decision level among the non-asserting literals,
			// so that backjumping to bj immediately exposes a unit
			// clause on the new watch (spec.md §4.6).
			maxLevel := -1
			wl := 1
			for i := 1; i < len(c.literals); i++ {
				if lvl := s.trail.level[c.literals[i].VarID()]; lvl > maxLevel {
					maxLevel = lvl
					wl = i
				}
			}
			c.literals[1], c.literals[wl] = c.literals[wl], c.literals[1]
		}

		s.watch(c, c.literals[0].Opposite(), c.literals[1])
		s.watch(c, c.literals[1].Opposite(), c.literals[0])

		if learnt {
			s.learnts = append(s.learnts, c)
		} else {
			s.constraints = append(s.constraints, c)
		}
		return c, true
	}
}

// deleteClause marks c for lazy removal: it is unwatched immediately but
// its storage is only dropped from the constraints/learnts slices the next
// time those are compacted (simplify, reduce, inprocess).
func (s *Solver) deleteClause(c *Clause) {
	c.status |= statusDeleted
	s.unwatch(c, c.literals[0].Opposite())
	s.unwatch(c, c.literals[1].Opposite())
}

// simplifyAtRoot removes literals that are already false at level 0 and
// reports whether the clause became satisfied (and can thus be dropped
// entirely). Only valid to call at decision level 0.
func (c *Clause) simplifyAtRoot(s *Solver) bool {
	k := 0
	for _, l := range c.literals {
		switch s.trail.valueOf(l) {
		case True:
			return true
		case False:
			// drop
		default:
			c.literals[k] = l
			k++
		}
	}
	c.literals = c.literals[:k]
	return false
}
