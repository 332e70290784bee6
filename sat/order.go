package sat

import (
	"math/rand"

	"github.com/rhartert/yagh"
)

// varOrder maintains the VSIDS-ordered set of unassigned variables plus the
// phase-saving and random-phase machinery spec.md §4.7 describes.
type varOrder struct {
	heap *yagh.IntMap[float64] // min-heap over -activity, so Pop yields max activity

	activities []float64
	varInc     float64
	varDecay   float64

	phase       []LBool
	phaseSaving bool

	rng         *rand.Rand
	randomProb  float64 // current probability of a random phase
	configuredP float64 // the non-zero probability to latch to once adaptive fires
	adaptive    bool
	adaptiveOn  bool // latched true once the ratio/threshold condition has fired once
}

func newVarOrder(cfg Config, seed int64) *varOrder {
	return &varOrder{
		heap:        yagh.New[float64](0),
		varInc:      1,
		varDecay:    cfg.VSIDSDecay,
		phaseSaving: cfg.PhaseSaving,
		rng:         rand.New(rand.NewSource(seed)),
		configuredP: cfg.RandomPhaseProb,
		adaptive:    cfg.AdaptiveRandomPhase,
	}
}

// addVariable registers a new variable with zero activity and the saved
// phase initialized false (spec.md §4.7).
func (vo *varOrder) addVariable() {
	id := len(vo.activities)
	vo.activities = append(vo.activities, 0)
	vo.phase = append(vo.phase, False)
	vo.heap.GrowBy(1)
	vo.heap.Put(id, 0)
}

// reinsert makes v a candidate again after it becomes unassigned (e.g. on
// backtrack), optionally updating its saved phase to the value it held
// (spec.md §4.4 backtrack_to, §4.7 phase saving).
func (vo *varOrder) reinsert(v int, wasValue LBool) {
	if vo.phaseSaving {
		vo.phase[v] = wasValue
	}
	vo.heap.Put(v, -vo.activities[v])
}

// bump increases v's activity, rescaling all activities if the increment
// has grown too large (spec.md §4.7 VSIDS bump).
func (vo *varOrder) bump(v int) {
	vo.activities[v] += vo.varInc
	if vo.heap.Contains(v) {
		vo.heap.Put(v, -vo.activities[v])
	}
	if vo.activities[v] > 1e100 {
		vo.rescale()
	}
}

func (vo *varOrder) rescale() {
	vo.varInc *= 1e-100
	for v, a := range vo.activities {
		na := a * 1e-100
		vo.activities[v] = na
		if vo.heap.Contains(v) {
			vo.heap.Put(v, -na)
		}
	}
}

// decay grows the activity increment so that future bumps count for more
// than past ones (spec.md §4.7: "var_inc *= 1/decay").
func (vo *varOrder) decay() {
	vo.varInc /= vo.varDecay
	if vo.varInc > 1e100 {
		vo.rescale()
	}
}

// pick pops the highest-activity still-unassigned variable and returns the
// literal to branch on, combining the saved phase with the (possibly
// latched) random-phase probability (spec.md §4.7 pick_branching_literal).
// It returns ok=false once every variable is assigned.
func (vo *varOrder) pick(isAssigned func(int) bool) (lit Literal, ok bool) {
	for {
		next, has := vo.heap.Pop()
		if !has {
			return 0, false
		}
		v := next.Elem
		if isAssigned(v) {
			continue // stale entry: drop and keep looking
		}

		positive := vo.phase[v] != False
		if vo.randomProb > 0 && vo.rng.Float64() < vo.randomProb {
			positive = vo.rng.Intn(2) == 0
		}
		if positive {
			return PositiveLiteral(v), true
		}
		return NegativeLiteral(v), true
	}
}

// onRestart implements the adaptive random-phase latch: once the restart
// ratio exceeds the configured threshold and enough conflicts have
// elapsed, random phases switch on permanently for the rest of the search
// (spec.md §4.7 "Adaptive random-phase enablement").
func (vo *varOrder) onRestart(restarts, conflicts int64, ratioThreshold float64, conflictFloor int64) {
	if !vo.adaptive || vo.adaptiveOn {
		return
	}
	if conflicts < conflictFloor {
		return
	}
	if float64(restarts)/float64(conflicts) > ratioThreshold {
		vo.adaptiveOn = true
		vo.randomProb = vo.configuredP
	}
}
