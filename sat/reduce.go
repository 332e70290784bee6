package sat

import "sort"

// reductionManager tracks the dynamically-growing learnt-clause count
// limit that triggers a database cleanup (spec.md §4.9).
type reductionManager struct {
	base           float64
	growth         float64
	reductionsDone int
}

func newReductionManager(base int, growth float64) *reductionManager {
	return &reductionManager{base: float64(base), growth: growth}
}

// limit returns the current learnt-clause count threshold.
func (r *reductionManager) limit() int {
	l := r.base
	for i := 0; i < r.reductionsDone; i++ {
		l *= r.growth
	}
	return int(l)
}

// shouldReduce reports whether the learnt database has grown past the
// current limit.
func (r *reductionManager) shouldReduce(numLearnts int) bool {
	return numLearnts > r.limit()
}

// reduceDB deletes the bottom half (by LBD ascending, then activity
// descending) of non-glue, non-locked learnt clauses (spec.md §4.9):
//
//  1. Clauses with LBD <= 2 ("glue clauses") are never deleted.
//  2. Clauses currently acting as a reason on the trail are never deleted.
//  3. Among the rest, sort by (LBD asc, activity desc) and drop the bottom
//     half.
func (s *Solver) reduceDB() {
	sort.Slice(s.learnts, func(i, j int) bool {
		a, b := s.learnts[i], s.learnts[j]
		if a.lbd != b.lbd {
			return a.lbd < b.lbd
		}
		return a.activity > b.activity
	})

	kept := make([]*Clause, 0, len(s.learnts))
	candidates := make([]*Clause, 0, len(s.learnts))
	for _, c := range s.learnts {
		if c.IsProtected() || c.locked(s) {
			kept = append(kept, c)
			continue
		}
		candidates = append(candidates, c)
	}

	cut := len(candidates) / 2
	for i, c := range candidates {
		if i < cut {
			kept = append(kept, c)
			continue
		}
		s.deleteClause(c)
	}

	s.learnts = kept
	s.reduction.reductionsDone++
	s.stats.Reductions++
}
