package sat

import "testing"

func TestTrail_PushAndValueOf(t *testing.T) {
	tr := newTrail()
	tr.addVariable()
	tr.addVariable()

	tr.push(PositiveLiteral(0), nil)
	if got := tr.valueOf(PositiveLiteral(0)); got != True {
		t.Errorf("valueOf(x0) = %v, want True", got)
	}
	if got := tr.valueOf(NegativeLiteral(0)); got != False {
		t.Errorf("valueOf(!x0) = %v, want False", got)
	}
	if got := tr.valueOf(PositiveLiteral(1)); got != Unknown {
		t.Errorf("valueOf(x1) = %v, want Unknown", got)
	}
}

func TestTrail_TruncateTo_UndoesAboveTargetLevel(t *testing.T) {
	tr := newTrail()
	for i := 0; i < 3; i++ {
		tr.addVariable()
	}

	tr.push(PositiveLiteral(0), nil) // level 0
	tr.newDecisionLevel()
	tr.push(NegativeLiteral(1), nil) // level 1
	tr.newDecisionLevel()
	tr.push(PositiveLiteral(2), nil) // level 2

	var undone []int
	tr.truncateTo(1, func(v int) { undone = append(undone, v) })

	if tr.decisionLevel() != 1 {
		t.Errorf("decisionLevel() = %d, want 1", tr.decisionLevel())
	}
	if tr.valueOf(PositiveLiteral(2)) != Unknown {
		t.Errorf("x2 still assigned after truncateTo(1)")
	}
	if tr.valueOf(NegativeLiteral(1)) != True {
		t.Errorf("!x1 was undone by truncateTo(1), but it belongs to level 1")
	}
	if len(undone) != 1 || undone[0] != 2 {
		t.Errorf("undone = %v, want [2]", undone)
	}
}

func TestTrail_PopOne_SavesPhase(t *testing.T) {
	tr := newTrail()
	tr.addVariable()
	tr.newDecisionLevel()
	tr.push(NegativeLiteral(0), nil)

	tr.truncateTo(0, func(v int) {})

	if tr.phase[0] != False {
		t.Errorf("phase[0] = %v after undoing !x0, want False", tr.phase[0])
	}
}
