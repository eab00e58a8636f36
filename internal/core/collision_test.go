package core

import (
	"math"
	"testing"
)

func TestDetectCollisions(t *testing.T) {
	grid := GridSize{Width: 20, Height: 20}

	tests := []struct {
		name string
		body []Position
		want CollisionType
	}{
		{
			name: "empty body",
			body: nil,
			want: CollisionNone,
		},
		{
			name: "open field",
			body: []Position{{10, 10}, {9, 10}, {8, 10}},
			want: CollisionNone,
		},
		{
			name: "head past right wall",
			body: []Position{{20, 10}, {19, 10}},
			want: CollisionWall,
		},
		{
			name: "head past top wall",
			body: []Position{{5, -1}, {5, 0}},
			want: CollisionWall,
		},
		{
			name: "head on body",
			body: []Position{{10, 10}, {10, 11}, {11, 11}, {11, 10}, {10, 10}},
			want: CollisionSelf,
		},
		{
			name: "wall checked before self",
			body: []Position{{-1, 0}, {-1, 0}},
			want: CollisionWall,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetectCollisions(tt.body, grid)
			if result.Type != tt.want {
				t.Errorf("got %v, want %v", result.Type, tt.want)
			}
			if result.Has != (tt.want != CollisionNone) {
				t.Errorf("Has = %v inconsistent with type %v", result.Has, result.Type)
			}
			if result.Has && len(tt.body) > 0 && result.Position != tt.body[0] {
				t.Errorf("collision position = %v, want head %v", result.Position, tt.body[0])
			}
		})
	}
}

func TestAssessDangerLevel(t *testing.T) {
	grid := GridSize{Width: 20, Height: 20}

	// Single segment in the open center: all four neighbors free, no wall
	if got := AssessDangerLevel([]Position{{10, 10}}, grid); got != 0 {
		t.Errorf("open center danger = %v, want 0", got)
	}

	// Corner: two neighbors out of bounds, plus wall proximity
	got := AssessDangerLevel([]Position{{0, 0}}, grid)
	if math.Abs(got-0.8) > 1e-9 {
		t.Errorf("corner danger = %v, want 0.8", got)
	}

	// Empty body is never dangerous
	if got := AssessDangerLevel(nil, grid); got != 0 {
		t.Errorf("empty body danger = %v, want 0", got)
	}

	// Fully boxed in clamps at 1
	body := []Position{{10, 10}, {10, 9}, {10, 11}, {9, 10}, {11, 10}}
	if got := AssessDangerLevel(body, grid); got != 1 {
		t.Errorf("boxed-in danger = %v, want 1", got)
	}
}

func TestDirectionalRisk(t *testing.T) {
	grid := GridSize{Width: 20, Height: 20}

	// Moving into a wall is certain death
	if got := DirectionalRisk([]Position{{0, 10}}, grid, DirLeft); got != 1 {
		t.Errorf("wall move risk = %v, want 1", got)
	}

	// Moving into the body is certain death
	body := []Position{{10, 10}, {11, 10}}
	if got := DirectionalRisk(body, grid, DirRight); got != 1 {
		t.Errorf("body move risk = %v, want 1", got)
	}

	// Single segment in the open: destination has the head adjacent (+0.3)
	// and loses one escape route to it (+0.1)
	got := DirectionalRisk([]Position{{10, 10}}, grid, DirRight)
	if math.Abs(got-0.4) > 1e-9 {
		t.Errorf("open move risk = %v, want 0.4", got)
	}

	// Risk stays within [0, 1] for every direction from a cramped corner
	corner := []Position{{1, 1}, {1, 2}, {2, 2}}
	for _, d := range Directions {
		r := DirectionalRisk(corner, grid, d)
		if r < 0 || r > 1 {
			t.Errorf("risk(%v) = %v out of [0,1]", d, r)
		}
	}
}
