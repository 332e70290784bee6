package sat

import "time"

// RestartStrategyKind selects which restart policy the driver uses
// (spec.md §4.8).
type RestartStrategyKind int

const (
	// RestartGlucose restarts when the fast-moving average of recent
	// learnt-clause LBDs gets worse than the long-run average.
	RestartGlucose RestartStrategyKind = iota
	// RestartLuby restarts on the classic Luby sequence, scaled by
	// Config.RestartBase.
	RestartLuby
)

// Config holds every tunable the core recognizes (spec.md §6). All fields
// are optional; DefaultConfig returns the documented defaults.
type Config struct {
	// VSIDSDecay is the per-conflict decay applied to the variable
	// activity increment. Must be in (0, 1].
	VSIDSDecay float64
	// ClauseDecay is the per-conflict decay applied to the learnt-clause
	// activity increment. Must be in (0, 1].
	ClauseDecay float64

	RestartStrategy   RestartStrategyKind
	RestartBase       int     // Luby base unit
	GlucoseWindow     int     // size of the fast LBD window
	GlucoseK          float64 // fast/slow ratio threshold
	RestartPostponing bool

	RandomPhaseProb            float64
	AdaptiveRandomPhase        bool
	AdaptiveThresholdConflicts int64
	AdaptiveRestartRatio       float64

	LearnedClauseLimitBase   int
	LearnedClauseLimitGrowth float64

	// InprocessingInterval is the number of conflicts between inprocessing
	// passes. Zero or negative disables inprocessing entirely.
	InprocessingInterval int64

	RandomSeed int64

	// ClauseMinimization enables recursive learnt-clause minimization
	// during conflict analysis (spec.md §4.6, "optional clause
	// minimization"). Defaults to enabled.
	ClauseMinimization bool

	// PhaseSaving enables reusing a variable's last-assigned polarity as
	// its default decision polarity (spec.md §4.7). Defaults to enabled;
	// disabling it keeps each variable's initial phase (false, unless set
	// by SetPhaseHint), so decisions default to the negative literal.
	PhaseSaving bool

	// Timeout bounds wall-clock search time in addition to any explicit
	// conflict budget passed to Solve. Zero means unbounded.
	Timeout time.Duration
}

// DefaultConfig returns the configuration documented in spec.md §6.
func DefaultConfig() Config {
	return Config{
		VSIDSDecay:                 0.95,
		ClauseDecay:                0.999,
		RestartStrategy:            RestartGlucose,
		RestartBase:                100,
		GlucoseWindow:              50,
		GlucoseK:                   0.8,
		RestartPostponing:          true,
		RandomPhaseProb:            0,
		AdaptiveRandomPhase:        true,
		AdaptiveThresholdConflicts: 1000,
		AdaptiveRestartRatio:       0.2,
		LearnedClauseLimitBase:     2000,
		LearnedClauseLimitGrowth:   1.1,
		InprocessingInterval:       2000,
		RandomSeed:                 0,
		ClauseMinimization:         true,
		PhaseSaving:                true,
	}
}

// validate reports the first invalid-input error found in c, per spec.md
// §7 ("conflicting configuration ... reported synchronously at the call
// site; search is not started").
func (c Config) validate() error {
	if c.VSIDSDecay <= 0 || c.VSIDSDecay > 1 {
		return errInvalidConfig("VSIDSDecay must be in (0, 1]")
	}
	if c.ClauseDecay <= 0 || c.ClauseDecay > 1 {
		return errInvalidConfig("ClauseDecay must be in (0, 1]")
	}
	if c.RandomPhaseProb < 0 || c.RandomPhaseProb > 1 {
		return errInvalidConfig("RandomPhaseProb must be in [0, 1]")
	}
	if c.RestartBase <= 0 {
		return errInvalidConfig("RestartBase must be positive")
	}
	if c.GlucoseWindow <= 0 {
		return errInvalidConfig("GlucoseWindow must be positive")
	}
	if c.LearnedClauseLimitBase <= 0 {
		return errInvalidConfig("LearnedClauseLimitBase must be positive")
	}
	if c.LearnedClauseLimitGrowth <= 1 {
		return errInvalidConfig("LearnedClauseLimitGrowth must be > 1")
	}
	return nil
}
