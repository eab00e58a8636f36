package profiler

import (
	"math"
	"testing"
	"time"

	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/game"
)

func testState() game.State {
	return game.State{
		Snake: []game.Segment{{Position: core.Position{X: 10, Y: 10}, Direction: core.DirRight}},
		Food:  core.Position{X: 15, Y: 10},
		Speed: 1.0,
		Grid:  core.GridSize{Width: 20, Height: 20},
	}
}

func newTestProfiler() *Profiler {
	return New(core.NewManualClock(time.Unix(1000, 0)))
}

func recordN(p *Profiler, n int, latency time.Duration) {
	state := testState()
	for range n {
		p.RecordInput(Input{
			Direction: core.DirUp,
			Timestamp: time.Unix(1000, 0),
			Latency:   latency,
		}, state)
	}
}

func TestReactionWindowCap(t *testing.T) {
	p := newTestProfiler()

	// Fill past the cap with slow inputs, then overwrite with fast ones.
	// Only the most recent 50 may contribute to the average.
	recordN(p, 50, 150*time.Millisecond)
	recordN(p, 50, 50*time.Millisecond)

	if got := p.ReactionWindowLen(); got != 50 {
		t.Fatalf("window length = %d, want 50", got)
	}
	if got := p.AverageReactionTime(); got != 50 {
		t.Errorf("average reaction = %v, want 50 (old entries evicted)", got)
	}
	if got := p.InputCount(); got != 100 {
		t.Errorf("input count = %d, want 100", got)
	}
}

func TestEmptyProfilerDefaults(t *testing.T) {
	p := newTestProfiler()

	if got := p.StressLevel(); got != 0 {
		t.Errorf("stress with no history = %v, want 0", got)
	}
	if got := p.AverageReactionTime(); got != 0 {
		t.Errorf("reaction with no history = %v, want 0", got)
	}
	if got := p.RiskTolerance(); got != 0.5 {
		t.Errorf("initial risk tolerance = %v, want 0.5", got)
	}
	if got := p.ErrorFrequency(); got != 0 {
		t.Errorf("initial error frequency = %v, want 0", got)
	}
}

func TestStressLevelFastInputs(t *testing.T) {
	p := newTestProfiler()

	// Ten sub-150ms inputs arm the rapid-input factor (+0.4). With four
	// applicable factors and the rest at zero the average is 0.1.
	recordN(p, 10, 50*time.Millisecond)

	got := p.StressLevel()
	if math.Abs(got-0.1) > 1e-9 {
		t.Errorf("stress = %v, want 0.1", got)
	}
}

func TestStressLevelBounded(t *testing.T) {
	p := newTestProfiler()

	for range 30 {
		p.RecordError()
	}
	recordN(p, 40, 20*time.Millisecond)
	for range 40 {
		p.RecordError()
	}

	got := p.StressLevel()
	if got < 0 || got > 1 {
		t.Errorf("stress = %v out of [0,1]", got)
	}
}

func TestErrorFrequencyBeforeInputs(t *testing.T) {
	p := newTestProfiler()
	p.RecordError()

	// With zero inputs the denominator floors at 1
	if got := p.ErrorFrequency(); got != 1 {
		t.Errorf("error frequency = %v, want 1", got)
	}
	// Only the always-on error factor applies: 1 * 0.5 / 1 factor
	if got := p.StressLevel(); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("stress = %v, want 0.5", got)
	}
}

func TestRiskToleranceStaysBounded(t *testing.T) {
	p := newTestProfiler()

	// Snake pinned against the left wall; moving left is maximal risk
	state := testState()
	state.Snake[0].Position = core.Position{X: 0, Y: 10}

	for range 50 {
		p.RecordInput(Input{Direction: core.DirLeft, Latency: 100 * time.Millisecond}, state)
	}
	if got := p.RiskTolerance(); got < 0 || got > 1 {
		t.Errorf("risk tolerance = %v out of [0,1]", got)
	}
	if got := p.RiskTolerance(); got <= 0.5 {
		t.Errorf("risk tolerance = %v, want above 0.5 after risky play", got)
	}
}

func TestSkillProgressionBounded(t *testing.T) {
	p := newTestProfiler()

	state := testState()
	state.Score = 500
	state.GameTime = 300000
	for range 20 {
		p.RecordMove()
	}
	for range 10 {
		p.RecordFoodCollected()
	}
	p.RecordInput(Input{Direction: core.DirUp, Latency: 100 * time.Millisecond}, state)

	got := p.SkillProgression()
	if got < 0 || got > 1 {
		t.Errorf("skill = %v out of [0,1]", got)
	}
	if got == 0 {
		t.Error("skill should be positive after a strong session")
	}
}

func TestPredictNextMoveColdStart(t *testing.T) {
	p := newTestProfiler()

	// Fewer than 3 recorded moves: all four directions, presence guaranteed
	got := p.PredictNextMove(testState())
	if len(got) != 4 {
		t.Fatalf("predicted %d directions, want 4", len(got))
	}
	seen := map[core.Direction]bool{}
	for _, d := range got {
		seen[d] = true
	}
	for _, d := range core.Directions {
		if !seen[d] {
			t.Errorf("direction %v missing from prediction", d)
		}
	}
}

func TestPredictNextMoveWithHistory(t *testing.T) {
	p := newTestProfiler()
	state := testState()

	dirs := []core.Direction{core.DirUp, core.DirRight, core.DirUp, core.DirRight, core.DirUp}
	for _, d := range dirs {
		p.RecordInput(Input{Direction: d, Latency: 200 * time.Millisecond}, state)
	}

	got := p.PredictNextMove(state)
	if len(got) != 4 {
		t.Fatalf("predicted %d directions, want 4", len(got))
	}
	seen := map[core.Direction]bool{}
	for _, d := range got {
		if seen[d] {
			t.Fatalf("direction %v ranked twice", d)
		}
		seen[d] = true
	}
}

func TestPeakStressMonotonic(t *testing.T) {
	p := newTestProfiler()

	recordN(p, 10, 50*time.Millisecond)
	first := p.Snapshot().PeakStress

	// Slow, calm inputs lower current stress but never the recorded peak
	recordN(p, 40, 400*time.Millisecond)
	second := p.Snapshot().PeakStress

	if second < first {
		t.Errorf("peak stress dropped from %v to %v", first, second)
	}
}

func TestReset(t *testing.T) {
	p := newTestProfiler()
	recordN(p, 20, 50*time.Millisecond)
	p.RecordError()
	p.RecordFoodCollected()
	p.RecordCollision()

	p.Reset()

	snap := p.Snapshot()
	if snap.InputCount != 0 || snap.FoodCollected != 0 || snap.Collisions != 0 {
		t.Errorf("counters not cleared: %+v", snap)
	}
	if snap.AverageReactionTime != 0 || snap.StressLevel != 0 || snap.PeakStress != 0 {
		t.Errorf("derived metrics not cleared: %+v", snap)
	}
	if snap.RiskTolerance != 0.5 {
		t.Errorf("risk tolerance = %v, want default 0.5", snap.RiskTolerance)
	}
}
