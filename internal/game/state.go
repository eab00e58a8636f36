// Package game implements the deterministic snake simulation: the
// INIT/PLAYING/PAUSED/GAME_OVER state machine, movement and growth, and the
// food model. All state is owned by the Engine; everything else in the
// program works on read-only snapshots.
package game

import "github.com/arcadeworks/serpent/internal/core"

// Status is the game lifecycle state.
type Status int

const (
	StatusInit Status = iota
	StatusPlaying
	StatusPaused
	StatusGameOver
)

func (s Status) String() string {
	switch s {
	case StatusInit:
		return "init"
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// transitions is the fixed table of legal status changes. Anything not
// listed is rejected as a no-op.
var transitions = map[Status][]Status{
	StatusInit:     {StatusPlaying},
	StatusPlaying:  {StatusPaused, StatusGameOver},
	StatusPaused:   {StatusPlaying, StatusGameOver},
	StatusGameOver: {StatusInit},
}

// CanTransition reports whether moving from one status to another is legal.
func CanTransition(from, to Status) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Segment is one cell of the snake. Age is the index from the head,
// recomputed every tick; it exists only for the renderer's decay effect.
type Segment struct {
	Position  core.Position
	Direction core.Direction
	Age       int
}

// State is a snapshot of the full game state. The Engine hands out deep
// copies, so holders can never mutate the live simulation.
type State struct {
	Snake    []Segment
	Food     core.Position
	Score    int
	Status   Status
	Speed    float64
	Grid     core.GridSize
	GameTime int64 // Accumulated play time in milliseconds
}

// Head returns the head segment. Valid only for a non-empty snake.
func (s State) Head() Segment {
	return s.Snake[0]
}

// SnakePositions returns the body cells in head-first order.
func (s State) SnakePositions() []core.Position {
	out := make([]core.Position, len(s.Snake))
	for i, seg := range s.Snake {
		out[i] = seg.Position
	}
	return out
}

// Occupies reports whether any snake segment sits on the given cell.
func (s State) Occupies(p core.Position) bool {
	for _, seg := range s.Snake {
		if seg.Position == p {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	out := s
	out.Snake = make([]Segment, len(s.Snake))
	copy(out.Snake, s.Snake)
	return out
}
