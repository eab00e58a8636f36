// Package core provides fundamental types and utilities for the game:
// grid geometry, collision detection, and the injectable clock. It contains
// no external dependencies to keep game logic pure and testable.
package core

// Position is a grid cell coordinate, 0-indexed from the top-left corner.
type Position struct {
	X, Y int
}

// Direction is one of the four movement directions.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// Directions lists all four directions in enum order.
var Directions = [4]Direction{DirUp, DirDown, DirLeft, DirRight}

// Opposite returns the reverse of this direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

// Vector returns the unit grid offset for this direction.
func (d Direction) Vector() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	default:
		return 1, 0
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Step returns the position one cell away in the given direction.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Vector()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// GridSize describes the playfield dimensions in cells.
type GridSize struct {
	Width, Height int
}

// InBounds reports whether the position lies inside the grid.
func (g GridSize) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// Cells returns the total number of cells in the grid.
func (g GridSize) Cells() int {
	return g.Width * g.Height
}

// ManhattanDistance returns the L1 distance between two positions.
func ManhattanDistance(a, b Position) int {
	return Abs(a.X-b.X) + Abs(a.Y-b.Y)
}

// Adjacent reports whether two positions share an edge.
func Adjacent(a, b Position) bool {
	return ManhattanDistance(a, b) == 1
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
