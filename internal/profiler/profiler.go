// Package profiler maintains rolling statistics over one player's inputs
// within a session: reaction times, movement patterns, risk-taking, and
// derived stress and skill estimates. It never mutates game state; it only
// observes snapshots.
package profiler

import (
	"sort"
	"time"

	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/game"
)

// Rolling window capacities. Oldest entries are evicted FIFO beyond the cap.
const (
	reactionWindowCap = 50
	movementWindowCap = 100
	nearMissWindowCap = 20
	decisionWindowCap = 20
)

// Input is one directional keypress as delivered by the input collaborator.
// Latency is the time since the previous input.
type Input struct {
	Direction core.Direction
	Timestamp time.Time
	Latency   time.Duration
}

// Profiler tracks one player's behavior. It is created at session start and
// reset at session end.
type Profiler struct {
	clock core.Clock

	reactionTimes  []float64 // milliseconds, newest last
	movements      []core.Direction
	nearMisses     []bool
	decisionPoints []float64 // risk taken at each recorded decision

	totalInputs   int
	errorEvents   int
	moveCount     int
	foodCollected int
	collisions    int

	riskTolerance    float64
	errorFrequency   float64
	skillProgression float64
	peakStress       float64

	sessionStart time.Time
}

// Snapshot is a read-only view of the profiler's derived metrics.
type Snapshot struct {
	AverageReactionTime float64 // milliseconds
	StressLevel         float64
	RiskTolerance       float64
	SkillProgression    float64
	ErrorFrequency      float64
	PeakStress          float64
	InputCount          int
	FoodCollected       int
	Collisions          int
	SessionStart        time.Time
}

// New creates a profiler with all fields at their defaults.
func New(clock core.Clock) *Profiler {
	p := &Profiler{clock: clock}
	p.Reset()
	return p
}

// Reset clears all histories and restores defaults for a new session.
func (p *Profiler) Reset() {
	p.reactionTimes = p.reactionTimes[:0]
	p.movements = p.movements[:0]
	p.nearMisses = p.nearMisses[:0]
	p.decisionPoints = p.decisionPoints[:0]
	p.totalInputs = 0
	p.errorEvents = 0
	p.moveCount = 0
	p.foodCollected = 0
	p.collisions = 0
	p.riskTolerance = 0.5
	p.errorFrequency = 0
	p.skillProgression = 0
	p.peakStress = 0
	p.sessionStart = p.clock.Now()
}

// RecordInput ingests one directional input against the current game state:
// it updates the reaction and movement windows, scores the risk of the chosen
// move, nudges risk tolerance toward the observed behavior, and recomputes
// skill progression.
func (p *Profiler) RecordInput(in Input, state game.State) {
	p.totalInputs++

	p.reactionTimes = pushCapped(p.reactionTimes, float64(in.Latency.Milliseconds()), reactionWindowCap)
	p.movements = pushCapped(p.movements, in.Direction, movementWindowCap)

	body := state.SnakePositions()
	chosenRisk := core.DirectionalRisk(body, state.Grid, in.Direction)
	p.nearMisses = pushCapped(p.nearMisses, chosenRisk > 0.7, nearMissWindowCap)
	p.decisionPoints = pushCapped(p.decisionPoints, chosenRisk, decisionWindowCap)

	// Nudge tolerance toward the risk actually taken.
	p.riskTolerance = core.ClampF(p.riskTolerance+(chosenRisk-0.5)*0.1, 0, 1)

	p.errorFrequency = core.ClampF(float64(p.errorEvents)/float64(max(1, p.totalInputs)), 0, 1)
	p.recomputeSkill(state)

	if s := p.StressLevel(); s > p.peakStress {
		p.peakStress = s
	}
}

// RecordError counts a rejected or fatal input (invalid direction change,
// collision) into the error frequency.
func (p *Profiler) RecordError() {
	p.errorEvents++
	p.errorFrequency = core.ClampF(float64(p.errorEvents)/float64(max(1, p.totalInputs)), 0, 1)
}

// RecordCollision counts a terminal collision.
func (p *Profiler) RecordCollision() {
	p.collisions++
	p.RecordError()
}

// RecordMove counts one movement tick, used for food-efficiency.
func (p *Profiler) RecordMove() {
	p.moveCount++
}

// RecordFoodCollected counts one food consumption.
func (p *Profiler) RecordFoodCollected() {
	p.foodCollected++
}

// recomputeSkill blends normalized score, length, survival time, food
// efficiency, and error rate into a [0,1] progression estimate.
func (p *Profiler) recomputeSkill(state game.State) {
	normScore := core.ClampF(float64(state.Score)/200.0, 0, 1)
	normLength := core.ClampF(float64(len(state.Snake))/20.0, 0, 1)
	normTime := core.ClampF(float64(state.GameTime)/180000.0, 0, 1)
	foodEfficiency := core.ClampF(float64(p.foodCollected)*15.0/float64(max(1, p.moveCount)), 0, 1)

	p.skillProgression = 0.3*normScore +
		0.25*normLength +
		0.15*normTime +
		0.2*foodEfficiency +
		0.1*(1.0-p.errorFrequency)
}

// AverageReactionTime returns the mean of the reaction window in
// milliseconds, 0 when empty.
func (p *Profiler) AverageReactionTime() float64 {
	return mean(p.reactionTimes)
}

// StressLevel estimates player stress in [0,1] as the average of up to four
// factors, each counted only when its precondition has enough data:
//
//	(a) recent-5 reaction average below 80% of the lifetime average: +0.3
//	(b) recent-10 inter-input gap average under 150ms: +0.4
//	(c) errorFrequency * 0.5, always counted
//	(d) more than 3 recent near misses: +0.3, counted once movement exists
//
// Averaging only over applicable factors keeps the empty-history case at
// exactly 0 and stops missing data from diluting real signals.
func (p *Profiler) StressLevel() float64 {
	sum := 0.0
	factors := 0

	if len(p.reactionTimes) >= 5 {
		recent := mean(p.reactionTimes[len(p.reactionTimes)-5:])
		if lifetime := mean(p.reactionTimes); lifetime > 0 && recent < 0.8*lifetime {
			sum += 0.3
		}
		factors++
	}

	if len(p.reactionTimes) >= 10 {
		if mean(p.reactionTimes[len(p.reactionTimes)-10:]) < 150 {
			sum += 0.4
		}
		factors++
	}

	sum += p.errorFrequency * 0.5
	factors++

	if len(p.movements) > 0 {
		misses := 0
		for _, nm := range p.nearMisses {
			if nm {
				misses++
			}
		}
		if misses > 3 {
			sum += 0.3
		}
		factors++
	}

	return core.ClampF(sum/float64(factors), 0, 1)
}

// PredictNextMove ranks the four directions by how likely the player is to
// choose them next. With fewer than 3 recorded moves it returns all four in
// enum order; the contract there is presence, not ordering. Otherwise it
// blends bigram transition frequency (weight 0.6) with a food-distance and
// risk heuristic (weight 0.4).
func (p *Profiler) PredictNextMove(state game.State) []core.Direction {
	dirs := make([]core.Direction, len(core.Directions))
	copy(dirs, core.Directions[:])
	if len(p.movements) < 3 || len(state.Snake) == 0 {
		return dirs
	}

	last := p.movements[len(p.movements)-1]
	var counts [4]float64
	maxCount := 0.0
	for i := 0; i+1 < len(p.movements); i++ {
		if p.movements[i] == last {
			counts[p.movements[i+1]]++
			if counts[p.movements[i+1]] > maxCount {
				maxCount = counts[p.movements[i+1]]
			}
		}
	}

	body := state.SnakePositions()
	head := state.Head().Position
	var scores [4]float64
	for _, d := range core.Directions {
		freq := 0.0
		if maxCount > 0 {
			freq = counts[d] / maxCount
		}
		dist := core.ManhattanDistance(head.Step(d), state.Food)
		heuristic := 0.1*float64(20-dist) + 0.5*(1.0-core.DirectionalRisk(body, state.Grid, d))
		scores[d] = 0.6*freq + 0.4*heuristic
	}

	sort.SliceStable(dirs, func(i, j int) bool {
		return scores[dirs[i]] > scores[dirs[j]]
	})
	return dirs
}

// RiskTolerance returns the smoothed risk-taking estimate in [0,1].
func (p *Profiler) RiskTolerance() float64 {
	return p.riskTolerance
}

// SkillProgression returns the current skill estimate in [0,1].
func (p *Profiler) SkillProgression() float64 {
	return p.skillProgression
}

// ErrorFrequency returns the error rate in [0,1].
func (p *Profiler) ErrorFrequency() float64 {
	return p.errorFrequency
}

// InputCount returns the number of inputs recorded this session.
func (p *Profiler) InputCount() int {
	return p.totalInputs
}

// ReactionWindowLen returns the current reaction window size.
func (p *Profiler) ReactionWindowLen() int {
	return len(p.reactionTimes)
}

// Snapshot captures the derived metrics for the director and session layer.
func (p *Profiler) Snapshot() Snapshot {
	return Snapshot{
		AverageReactionTime: p.AverageReactionTime(),
		StressLevel:         p.StressLevel(),
		RiskTolerance:       p.riskTolerance,
		SkillProgression:    p.skillProgression,
		ErrorFrequency:      p.errorFrequency,
		PeakStress:          p.peakStress,
		InputCount:          p.totalInputs,
		FoodCollected:       p.foodCollected,
		Collisions:          p.collisions,
		SessionStart:        p.sessionStart,
	}
}

// pushCapped appends to a window, evicting the oldest entry beyond limit.
func pushCapped[T any](window []T, v T, limit int) []T {
	window = append(window, v)
	if len(window) > limit {
		window = window[1:]
	}
	return window
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
