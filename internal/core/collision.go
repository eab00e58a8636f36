package core

// CollisionType classifies what the snake head ran into.
type CollisionType string

const (
	CollisionNone CollisionType = "none"
	CollisionWall CollisionType = "wall"
	CollisionSelf CollisionType = "self"
)

// CollisionResult is the outcome of a collision check.
type CollisionResult struct {
	Has      bool
	Type     CollisionType
	Position Position // Cell where the collision occurred (head position)
}

// DetectCollisions checks the snake body (head at index 0) against the grid.
// Wall collision is checked before self collision. The body passed in must be
// the post-move, pre-tail-removal snake so a self hit at the new head is
// caught even on a growth tick.
func DetectCollisions(body []Position, grid GridSize) CollisionResult {
	if len(body) == 0 {
		return CollisionResult{Type: CollisionNone}
	}

	head := body[0]
	if !grid.InBounds(head) {
		return CollisionResult{Has: true, Type: CollisionWall, Position: head}
	}

	for _, seg := range body[1:] {
		if seg == head {
			return CollisionResult{Has: true, Type: CollisionSelf, Position: head}
		}
	}

	return CollisionResult{Type: CollisionNone}
}

// AssessDangerLevel scores how boxed-in the snake head is, in [0, 1].
// It combines the fraction of blocked adjacent cells with a wall-proximity
// term. Both the food model and the director use this single implementation
// so their risk views never diverge.
func AssessDangerLevel(body []Position, grid GridSize) float64 {
	if len(body) == 0 {
		return 0
	}

	head := body[0]
	available := 0
	for _, d := range Directions {
		next := head.Step(d)
		if !grid.InBounds(next) {
			continue
		}
		blocked := false
		for _, seg := range body {
			if seg == next {
				blocked = true
				break
			}
		}
		if !blocked {
			available++
		}
	}

	danger := 1.0 - float64(available)/4.0

	// Within one cell of any edge
	if head.X <= 1 || head.Y <= 1 || head.X >= grid.Width-2 || head.Y >= grid.Height-2 {
		danger += 0.3
	}

	return ClampF(danger, 0, 1)
}

// DirectionalRisk scores how dangerous moving one cell in the given direction
// would be, in [0, 1]. Immediate death (wall or body) scores 1; otherwise the
// score blends wall proximity, body proximity, and escape-route scarcity at
// the destination cell.
func DirectionalRisk(body []Position, grid GridSize, d Direction) float64 {
	if len(body) == 0 {
		return 0
	}

	next := body[0].Step(d)
	if !grid.InBounds(next) {
		return 1
	}
	for _, seg := range body {
		if seg == next {
			return 1
		}
	}

	risk := 0.0

	// Wall proximity at the destination
	if next.X == 0 || next.Y == 0 || next.X == grid.Width-1 || next.Y == grid.Height-1 {
		risk += 0.3
	}

	// Body proximity: any segment adjacent to the destination
	for _, seg := range body {
		if Adjacent(seg, next) {
			risk += 0.3
			break
		}
	}

	// Escape routes from the destination cell
	escapes := 0
	for _, ed := range Directions {
		cell := next.Step(ed)
		if !grid.InBounds(cell) {
			continue
		}
		open := true
		for _, seg := range body {
			if seg == cell {
				open = false
				break
			}
		}
		if open {
			escapes++
		}
	}
	risk += 0.4 * (1.0 - float64(escapes)/4.0)

	return ClampF(risk, 0, 1)
}
