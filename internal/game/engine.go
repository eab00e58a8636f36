package game

import (
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/arcadeworks/serpent/internal/core"
)

// Speed multiplier bounds. Speed is a rate multiplier over the base tick
// interval, not an FPS value.
const (
	MinSpeed = 0.1
	MaxSpeed = 5.0
)

const initialSnakeLength = 3

// FoodPlacementStrategy picks the next food cell after a consumption event.
// The director implements this; the engine falls back to uniform random
// placement when the strategy fails or none is injected.
type FoodPlacementStrategy interface {
	PlaceFood(state State) (core.Position, error)
}

// MoveResult reports what happened during one movement tick.
type MoveResult struct {
	Moved       bool
	Consumed    bool
	ScoreGained int
	Collision   core.CollisionResult
	BoardFull   bool
}

// Engine owns the game state and is its only writer. All mutation happens
// through its methods, synchronously; snapshots handed out are deep copies.
type Engine struct {
	state     State
	placement FoodPlacementStrategy
	rng       *rand.Rand
	logger    *log.Logger
}

// NewEngine creates an engine for the given grid, seeded for deterministic
// food placement. The placement strategy may be nil.
func NewEngine(grid core.GridSize, seed int64, placement FoodPlacementStrategy, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	e := &Engine{
		placement: placement,
		rng:       rand.New(rand.NewSource(seed)),
		logger:    logger,
	}
	e.initState(grid)
	return e
}

// initState builds the INIT-status state: a three-segment snake heading
// right from the grid center, food at a random free cell, speed 1.0.
func (e *Engine) initState(grid core.GridSize) {
	startX := grid.Width / 2
	startY := grid.Height / 2

	snake := make([]Segment, 0, initialSnakeLength)
	for i := range initialSnakeLength {
		snake = append(snake, Segment{
			Position:  core.Position{X: startX - i, Y: startY},
			Direction: core.DirRight,
			Age:       i,
		})
	}

	e.state = State{
		Snake:  snake,
		Score:  0,
		Status: StatusInit,
		Speed:  1.0,
		Grid:   grid,
	}

	if food, err := GenerateFoodPosition(e.state, e.rng); err == nil {
		e.state.Food = food
	}
}

// Snapshot returns a deep copy of the current state.
func (e *Engine) Snapshot() State {
	return e.state.Clone()
}

// Status returns the current lifecycle status.
func (e *Engine) Status() Status {
	return e.state.Status
}

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 {
	return e.state.Speed
}

// transition applies a status change if the transition table allows it.
// Illegal transitions are logged and rejected, never fatal.
func (e *Engine) transition(to Status) bool {
	if !CanTransition(e.state.Status, to) {
		e.logger.Debug("rejected status transition",
			"from", e.state.Status, "to", to)
		return false
	}
	e.state.Status = to
	return true
}

// StartGame transitions INIT -> PLAYING.
func (e *Engine) StartGame() bool {
	return e.transition(StatusPlaying)
}

// PauseGame transitions PLAYING -> PAUSED.
func (e *Engine) PauseGame() bool {
	if e.state.Status != StatusPlaying {
		e.logger.Debug("rejected pause", "status", e.state.Status)
		return false
	}
	return e.transition(StatusPaused)
}

// ResumeGame transitions PAUSED -> PLAYING.
func (e *Engine) ResumeGame() bool {
	if e.state.Status != StatusPaused {
		e.logger.Debug("rejected resume", "status", e.state.Status)
		return false
	}
	return e.transition(StatusPlaying)
}

// EndGame transitions PLAYING or PAUSED -> GAME_OVER.
func (e *Engine) EndGame() bool {
	return e.transition(StatusGameOver)
}

// ResetGame transitions GAME_OVER -> INIT and rebuilds the initial state.
func (e *Engine) ResetGame() bool {
	if !e.transition(StatusInit) {
		return false
	}
	e.initState(e.state.Grid)
	return true
}

// ChangeDirection redirects the snake head. Rejected when not playing or
// when the new direction would reverse the head into itself; otherwise the
// change takes effect on the very next movement tick.
func (e *Engine) ChangeDirection(d core.Direction) bool {
	if e.state.Status != StatusPlaying {
		return false
	}
	if len(e.state.Snake) > 0 && d == e.state.Head().Direction.Opposite() {
		return false
	}
	e.state.Snake[0].Direction = d
	return true
}

// SetSpeed stores the speed multiplier, clamped to [MinSpeed, MaxSpeed].
func (e *Engine) SetSpeed(v float64) {
	e.state.Speed = core.ClampF(v, MinSpeed, MaxSpeed)
}

// TickInterval converts a base movement interval into the effective one for
// the current speed.
func (e *Engine) TickInterval(base time.Duration) time.Duration {
	return time.Duration(float64(base) / e.state.Speed)
}

// UpdateGameTime accumulates play time; it only counts while PLAYING.
func (e *Engine) UpdateGameTime(dt time.Duration) {
	if e.state.Status == StatusPlaying {
		e.state.GameTime += dt.Milliseconds()
	}
}

// SpawnFoodAt places food at the given cell if it is in bounds and off the
// snake. Returns false and leaves state unchanged on violation.
func (e *Engine) SpawnFoodAt(pos core.Position) bool {
	if !e.state.Grid.InBounds(pos) || e.state.Occupies(pos) {
		return false
	}
	e.state.Food = pos
	return true
}

// MoveSnake advances the snake one cell. No-op unless PLAYING.
//
// The new head is prepended first; collision detection runs on that
// post-move, pre-tail-removal body so a self hit at the new head is caught
// even on a growth tick. Consumption keeps the tail (growth) and repositions
// the food; otherwise the tail is dropped. Ages are recomputed afterward.
func (e *Engine) MoveSnake() MoveResult {
	if e.state.Status != StatusPlaying || len(e.state.Snake) == 0 {
		return MoveResult{}
	}

	head := e.state.Head()
	newHead := Segment{
		Position:  head.Position.Step(head.Direction),
		Direction: head.Direction,
	}
	e.state.Snake = append([]Segment{newHead}, e.state.Snake...)

	result := MoveResult{Moved: true}
	result.Collision = core.DetectCollisions(e.state.SnakePositions(), e.state.Grid)
	if result.Collision.Has {
		e.transition(StatusGameOver)
		return result
	}

	consumption := CheckFoodConsumption(e.state)
	if consumption.Consumed {
		result.Consumed = true
		result.ScoreGained = consumption.ScoreIncrease
		e.state.Score += consumption.ScoreIncrease
		if !e.repositionFood() {
			// Board full: nowhere left to place food, the run is over.
			result.BoardFull = true
			e.transition(StatusGameOver)
			return result
		}
	} else if len(e.state.Snake) > 1 {
		e.state.Snake = e.state.Snake[:len(e.state.Snake)-1]
	}

	for i := range e.state.Snake {
		e.state.Snake[i].Age = i
	}

	return result
}

// repositionFood asks the injected strategy for the next food cell, falling
// back to uniform random placement on any failure. Returns false only when
// the board has no free cell at all.
func (e *Engine) repositionFood() bool {
	if e.placement != nil {
		pos, err := e.placement.PlaceFood(e.Snapshot())
		switch {
		case errors.Is(err, ErrNoValidPosition):
			return false
		case err != nil:
			e.logger.Warn("placement strategy failed, using random placement", "error", err)
		case e.SpawnFoodAt(pos):
			return true
		default:
			e.logger.Warn("placement strategy returned invalid position, using random placement",
				"x", pos.X, "y", pos.Y)
		}
	}

	pos, err := GenerateFoodPosition(e.state, e.rng)
	if err != nil {
		return false
	}
	e.state.Food = pos
	return true
}
