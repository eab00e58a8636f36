// Package director implements the adaptive difficulty controller. It reads
// profiler output and game state on a throttled interval and emits bounded,
// validated adjustments to speed and food placement. Every failure path
// degrades to a deterministic fallback; the simulation never depends on the
// director's health.
package director

import (
	"fmt"
	"io"
	"math"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/game"
	"github.com/arcadeworks/serpent/internal/profiler"
)

// analysisInterval rate-limits full analysis passes. This bounds the
// worst-case time spent on adaptation regardless of input rate.
const analysisInterval = time.Second

// passBudget is the soft per-pass time budget. Exceeding it on average
// triggers self-degradation on later passes, never an abort of the current
// one.
const passBudget = 16 * time.Millisecond

const passWindowCap = 10

// Trend classifies recent skill movement.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// BehaviorAnalysis is the typed result of one analysis pass.
type BehaviorAnalysis struct {
	Profile     profiler.Snapshot
	Performance float64
	Risk        float64
	Trend       Trend
}

// Director is the adaptive policy core. It owns the decision log, the
// recovery flag, the continuous difficulty level, and the streak counters.
type Director struct {
	cfg      Config
	profiler *profiler.Profiler
	clock    core.Clock
	rng      *rand.Rand
	logger   *log.Logger

	recovery        bool
	difficultyLevel float64 // in [0.5, 2.0]
	goodStreak      int
	poorStreak      int

	lastAnalysis       time.Time
	lastAdjustment     AdjustmentType
	lastAnalysisResult *BehaviorAnalysis
	pendingSpeed       *float64

	decisions     []Decision
	passDurations []time.Duration
}

// New creates a director observing the given profiler. The rng seed governs
// food-band sampling only; movement determinism is unaffected.
func New(p *profiler.Profiler, clock core.Clock, cfg Config, seed int64, logger *log.Logger) *Director {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Director{
		cfg:             cfg.Clamped(),
		profiler:        p,
		clock:           clock,
		rng:             rand.New(rand.NewSource(seed)),
		logger:          logger,
		difficultyLevel: 1.0,
		lastAdjustment:  AdjustNone,
	}
}

// Configure replaces the config, clamping every field into range.
func (d *Director) Configure(cfg Config) {
	d.cfg = cfg.Clamped()
}

// Config returns the current (clamped) configuration.
func (d *Director) Config() Config {
	return d.cfg
}

// Recovery reports whether recovery mode is active.
func (d *Director) Recovery() bool {
	return d.recovery
}

// DifficultyLevel returns the continuous difficulty level in [0.5, 2.0].
func (d *Director) DifficultyLevel() float64 {
	return d.difficultyLevel
}

// Decisions returns a copy of the decision log, oldest first.
func (d *Director) Decisions() []Decision {
	out := make([]Decision, len(d.decisions))
	copy(out, d.decisions)
	return out
}

// AnalyzePlayerBehavior runs one analysis pass over the profiler and game
// state. Calls inside the throttle interval are no-ops returning nil. A
// panic anywhere in the pass is recovered, logged, and leaves prior policy
// state in effect.
func (d *Director) AnalyzePlayerBehavior(state game.State) (analysis *BehaviorAnalysis) {
	now := d.clock.Now()
	if !d.lastAnalysis.IsZero() && now.Sub(d.lastAnalysis) < analysisInterval {
		return nil
	}
	d.lastAnalysis = now

	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("analysis pass failed, keeping previous policy", "panic", r)
			analysis = nil
		}
		d.recordPassDuration(time.Since(started))
	}()

	profile := d.profiler.Snapshot()
	performance := d.computePerformance(profile, state)
	risk := d.computeRisk(profile, state)
	trend := d.computeTrend()

	a := &BehaviorAnalysis{
		Profile:     profile,
		Performance: performance,
		Risk:        risk,
		Trend:       trend,
	}

	d.updateRecovery(a, state)
	d.decideSpeed(a, state)
	d.updateDifficultyLevel(a, state)
	d.updateStreaks(a)

	d.lastAnalysisResult = a
	return a
}

// computePerformance blends score rate, skill, and error rate into a rough
// [0,1] band. Score rate is normalized per minute; the constants are tuning,
// not physics.
func (d *Director) computePerformance(profile profiler.Snapshot, state game.State) float64 {
	scoreRate := 0.0
	if state.GameTime > 0 {
		perMinute := float64(state.Score) / (float64(state.GameTime) / 60000.0)
		scoreRate = core.ClampF(perMinute/100.0, 0, 1)
	}
	return core.ClampF(
		0.4*scoreRate+0.4*profile.SkillProgression+0.2*(1.0-profile.ErrorFrequency),
		0, 1)
}

func (d *Director) computeRisk(profile profiler.Snapshot, state game.State) float64 {
	danger := core.AssessDangerLevel(state.SnakePositions(), state.Grid)
	return core.ClampF(
		0.5*danger+0.3*profile.StressLevel+0.2*profile.ErrorFrequency,
		0, 1)
}

// computeTrend compares the skill levels recorded with the last 3 decisions
// against the 3 before them. Fewer than 3 prior samples reads as stable.
func (d *Director) computeTrend() Trend {
	n := len(d.decisions)
	if n < 6 {
		return TrendStable
	}

	recent := 0.0
	for _, dec := range d.decisions[n-3:] {
		recent += dec.PlayerMetrics.SkillLevel
	}
	recent /= 3

	previous := 0.0
	for _, dec := range d.decisions[n-6 : n-3] {
		previous += dec.PlayerMetrics.SkillLevel
	}
	previous /= 3

	if previous <= 0 {
		if recent > 0 {
			return TrendImproving
		}
		return TrendStable
	}

	relative := (recent - previous) / previous
	switch {
	case relative > 0.10:
		return TrendImproving
	case relative < -0.10:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// updateRecovery applies the recovery-mode gate. The gate has no hysteresis
// band: a state sitting exactly at a threshold can flicker between modes on
// consecutive passes. Preserved as-is; see DESIGN.md.
func (d *Director) updateRecovery(a *BehaviorAnalysis, state game.State) {
	active := a.Risk > d.cfg.RecoveryThreshold ||
		a.Profile.StressLevel > 0.7 ||
		d.poorStreak >= 3

	if active == d.recovery {
		return
	}
	d.recovery = active
	d.lastAdjustment = AdjustRecovery

	var reason string
	if active {
		switch {
		case a.Risk > d.cfg.RecoveryThreshold:
			reason = fmt.Sprintf("recovery on: risk %.2f over threshold %.2f", a.Risk, d.cfg.RecoveryThreshold)
		case a.Profile.StressLevel > 0.7:
			reason = fmt.Sprintf("recovery on: stress %.2f", a.Profile.StressLevel)
		default:
			reason = fmt.Sprintf("recovery on: poor streak %d", d.poorStreak)
		}
	} else {
		reason = "recovery off: struggle indicators cleared"
	}
	d.logDecision(DecisionRecoveryTrigger, reason, a.Profile, state)
}

// decideSpeed stages a bounded speed change for AdjustGameSpeed to consume.
// Changes smaller than 0.1 on this path are not committed.
func (d *Director) decideSpeed(a *BehaviorAnalysis, state game.State) {
	current := state.Speed
	target := current

	switch {
	case a.Performance > d.cfg.MasteryThreshold && a.Trend == TrendImproving && !d.recovery:
		target = math.Min(current+d.cfg.AdaptationSensitivity*0.2, d.cfg.MaxSpeedIncrease)
	case d.recovery || a.Performance < 0.3 || a.Trend == TrendDeclining:
		target = math.Max(current-d.cfg.AdaptationSensitivity*0.15, d.cfg.MinSpeedDecrease)
	}

	if math.Abs(target-current) <= 0.1 {
		return
	}

	v := core.ClampF(target, game.MinSpeed, game.MaxSpeed)
	d.pendingSpeed = &v
	d.lastAdjustment = AdjustSpeed
	d.logDecision(DecisionSpeedAdjustment,
		d.reason(fmt.Sprintf("speed %.2f -> %.2f", current, v),
			fmt.Sprintf("performance %.2f, trend %s, recovery %v", a.Performance, a.Trend, d.recovery)),
		a.Profile, state)
}

// updateDifficultyLevel moves the continuous difficulty level toward its
// target, committing and logging only deltas above 0.1.
func (d *Director) updateDifficultyLevel(a *BehaviorAnalysis, state game.State) {
	var target float64
	if d.recovery {
		target = math.Max(0.5, d.difficultyLevel-0.2)
	} else {
		target = math.Min(2.0, 0.5+a.Performance*1.5)
	}

	if math.Abs(target-d.difficultyLevel) <= 0.1 {
		return
	}

	prev := d.difficultyLevel
	d.difficultyLevel = target
	d.lastAdjustment = AdjustDifficulty
	d.logDecision(DecisionFoodPlacement,
		d.reason(fmt.Sprintf("difficulty level %.2f -> %.2f", prev, target),
			fmt.Sprintf("performance %.2f, recovery %v", a.Performance, d.recovery)),
		a.Profile, state)
}

// updateStreaks advances the saturating streak counters. Neutral passes
// decay both toward zero by one instead of resetting outright.
func (d *Director) updateStreaks(a *BehaviorAnalysis) {
	const saturation = 10
	switch {
	case a.Performance > 0.6 && a.Risk < 0.4:
		d.goodStreak = min(d.goodStreak+1, saturation)
		d.poorStreak = max(d.poorStreak-1, 0)
	case a.Performance < 0.3 || a.Risk > 0.7:
		d.poorStreak = min(d.poorStreak+1, saturation)
		d.goodStreak = max(d.goodStreak-1, 0)
	default:
		d.goodStreak = max(d.goodStreak-1, 0)
		d.poorStreak = max(d.poorStreak-1, 0)
	}
}

// AdjustGameSpeed returns the speed the engine should run at. A speed staged
// by the analysis pass is consumed one-shot and overrides the reaction-time
// nudge. Invalid input yields a clamped default rather than an error.
func (d *Director) AdjustGameSpeed(current float64) float64 {
	if math.IsNaN(current) || math.IsInf(current, 0) || current <= 0 {
		d.logger.Warn("invalid current speed, using default", "speed", current)
		return core.ClampF(1.0, d.cfg.MinSpeedDecrease, d.cfg.MaxSpeedIncrease)
	}

	if d.pendingSpeed != nil {
		v := *d.pendingSpeed
		d.pendingSpeed = nil
		return core.ClampF(v, game.MinSpeed, game.MaxSpeed)
	}

	profile := d.profiler.Snapshot()
	factor := 1.0
	switch {
	case profile.AverageReactionTime > 0 && profile.AverageReactionTime < 200 && profile.StressLevel < 0.3:
		factor = 1.1
	case profile.AverageReactionTime > 500 || profile.StressLevel > 0.7:
		factor = 0.9
	}

	v := core.ClampF(current*factor, d.cfg.MinSpeedDecrease, d.cfg.MaxSpeedIncrease)
	v = core.ClampF(v, game.MinSpeed, game.MaxSpeed)
	if math.Abs(v-current) > 0.05 {
		d.logger.Debug("reaction-based speed nudge",
			"from", current, "to", v,
			"avg_reaction_ms", profile.AverageReactionTime,
			"stress", profile.StressLevel)
	}
	return v
}

// ShouldTriggerRecoveryMechanic is the advisory struggle signal, distinct
// from the internal recovery-mode gate: it fires when at least two of the
// four struggle indicators hold.
func (d *Director) ShouldTriggerRecoveryMechanic(profile profiler.Snapshot) bool {
	indicators := 0
	if profile.StressLevel > d.cfg.RecoveryThreshold {
		indicators++
	}
	if profile.ErrorFrequency > 0.5 {
		indicators++
	}
	if profile.SkillProgression < 0.2 && len(d.decisions) > 10 {
		indicators++
	}
	if d.poorStreak >= 3 {
		indicators++
	}
	return indicators >= 2
}

// Feedback derives the per-frame cosmetic feedback record.
func (d *Director) Feedback() VisualFeedback {
	performance := 0.0
	if d.lastAnalysisResult != nil {
		performance = d.lastAnalysisResult.Performance
	}
	return VisualFeedback{
		StressLevel:      d.profiler.StressLevel(),
		PerformanceLevel: performance,
		AdjustmentType:   d.lastAdjustment,
	}
}

// logDecision appends to the bounded decision log.
func (d *Director) logDecision(t DecisionType, reasoning string, profile profiler.Snapshot, state game.State) {
	dec := Decision{
		Timestamp: d.clock.Now(),
		Type:      t,
		Reasoning: reasoning,
		PlayerMetrics: PlayerMetrics{
			ReactionTime: profile.AverageReactionTime,
			StressLevel:  profile.StressLevel,
			SkillLevel:   profile.SkillProgression,
		},
		GameContext: GameContext{
			Score:       state.Score,
			SnakeLength: len(state.Snake),
			GameTime:    state.GameTime,
		},
	}
	d.decisions = append(d.decisions, dec)
	if len(d.decisions) > decisionLogCap {
		d.decisions = d.decisions[1:]
	}
	d.logger.Debug("director decision", "type", t, "reasoning", reasoning)
}

// reason assembles a reasoning string honoring the configured verbosity.
func (d *Director) reason(summary, detail string) string {
	switch d.cfg.Verbosity {
	case VerbosityMinimal:
		return summary
	case VerbosityVerbose:
		return summary + " (" + detail + "; recovery=" + fmt.Sprint(d.recovery) +
			fmt.Sprintf(", level=%.2f, streaks good=%d poor=%d", d.difficultyLevel, d.goodStreak, d.poorStreak) + ")"
	default:
		return summary + " (" + detail + ")"
	}
}

// recordPassDuration feeds the self-throttling loop: when the rolling window
// of pass durations averages over the frame budget, the director lowers its
// own sensitivity and verbosity.
func (d *Director) recordPassDuration(elapsed time.Duration) {
	d.passDurations = append(d.passDurations, elapsed)
	if len(d.passDurations) < passWindowCap {
		return
	}
	if len(d.passDurations) > passWindowCap {
		d.passDurations = d.passDurations[1:]
	}

	var total time.Duration
	for _, pd := range d.passDurations {
		total += pd
	}
	if total/time.Duration(len(d.passDurations)) <= passBudget {
		return
	}

	d.cfg.AdaptationSensitivity = core.ClampF(d.cfg.AdaptationSensitivity*0.5, 0, 1)
	switch d.cfg.Verbosity {
	case VerbosityVerbose:
		d.cfg.Verbosity = VerbosityDetailed
	case VerbosityDetailed:
		d.cfg.Verbosity = VerbosityMinimal
	}
	d.passDurations = d.passDurations[:0]
	d.logger.Warn("analysis passes over budget, degrading director",
		"sensitivity", d.cfg.AdaptationSensitivity,
		"verbosity", d.cfg.Verbosity)
}
