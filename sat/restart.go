package sat

// restartController decides when the driver should back off to decision
// level 0 (spec.md §4.8). Two strategies share this interface (spec.md §9
// "Dynamic dispatch" design note: a capability set of observe/decide/
// acknowledge rather than one bloated struct).
type restartController interface {
	// observeConflict records that a conflict occurred, producing a
	// learnt clause with the given LBD.
	observeConflict(lbd int)
	// shouldRestart reports whether a restart should fire now.
	shouldRestart() bool
	// onRestart acknowledges that a restart just happened.
	onRestart()
}

// lubyRestart restarts when the number of conflicts since the last restart
// reaches base * Luby(i), advancing i on every restart (spec.md §4.8).
type lubyRestart struct {
	base             int64
	index            int64
	conflictsSinceUp int64
}

func newLubyRestart(base int) *lubyRestart {
	return &lubyRestart{base: int64(base), index: 1}
}

func (l *lubyRestart) observeConflict(lbd int) {
	l.conflictsSinceUp++
}

func (l *lubyRestart) shouldRestart() bool {
	return l.conflictsSinceUp >= l.base*lubySequence(l.index)
}

func (l *lubyRestart) onRestart() {
	l.conflictsSinceUp = 0
	l.index++
}

// lubySequence returns the i-th term (i >= 1) of the Luby sequence:
// 1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8, ... (spec.md §4.8).
func lubySequence(i int64) int64 {
	x := i - 1 // the classic algorithm is 0-indexed
	size, seq := int64(1), int64(0)
	for size < x+1 {
		seq++
		size = 2*size + 1
	}
	for size-1 != x {
		size = (size - 1) / 2
		seq--
		x = x % size
	}
	return int64(1) << uint(seq)
}

// glucoseRestart restarts when the fast-moving average of recent
// learnt-clause LBDs is significantly worse than the long-run average
// (spec.md §4.8 "Glucose (adaptive)").
type glucoseRestart struct {
	window    []int
	pos       int
	filled    int
	fastSum   int
	k         float64
	slowSum   float64
	slowCount int64
}

func newGlucoseRestart(windowSize int, k float64) *glucoseRestart {
	return &glucoseRestart{
		window: make([]int, windowSize),
		k:      k,
	}
}

func (g *glucoseRestart) observeConflict(lbd int) {
	if g.filled == len(g.window) {
		g.fastSum -= g.window[g.pos]
	} else {
		g.filled++
	}
	g.window[g.pos] = lbd
	g.fastSum += lbd
	g.pos = (g.pos + 1) % len(g.window)

	g.slowSum += float64(lbd)
	g.slowCount++
}

func (g *glucoseRestart) shouldRestart() bool {
	if g.filled < len(g.window) || g.slowCount == 0 {
		return false
	}
	fastAvg := float64(g.fastSum) / float64(g.filled)
	slowAvg := g.slowSum / float64(g.slowCount)
	if slowAvg == 0 {
		return false
	}
	return fastAvg > slowAvg/g.k
}

// onRestart empties the fast window, so the next restart waits for a full
// window of LBDs learnt after this one.
func (g *glucoseRestart) onRestart() {
	g.pos, g.filled, g.fastSum = 0, 0, 0
}

// restartPostponing suppresses a restart trigger when the current trail is
// substantially larger than the running average of trail sizes recorded at
// past restart moments: a "good" state the search should not disturb
// (spec.md §4.8 "Restart postponing").
type restartPostponing struct {
	enabled bool
	avg     ema
}

func newRestartPostponing(enabled bool) *restartPostponing {
	return &restartPostponing{enabled: enabled, avg: newEMA(0.95)}
}

// veto reports whether a restart that would otherwise fire should be
// suppressed this round, given the current trail length.
func (p *restartPostponing) veto(trailLen int) bool {
	if !p.enabled || !p.avg.init {
		return false
	}
	return float64(trailLen) > 1.4*p.avg.val()
}

// record updates the moving average with the trail length observed when a
// restart actually happens (either fired or about to happen).
func (p *restartPostponing) record(trailLen int) {
	if !p.enabled {
		return
	}
	p.avg.add(float64(trailLen))
}
