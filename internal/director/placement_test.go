package director

import (
	"errors"
	"strings"
	"testing"

	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/game"
)

func TestPlaceFoodValid(t *testing.T) {
	d, _, _ := testDirector(DefaultConfig())
	state := openState()

	pos, err := d.PlaceFood(state)
	if err != nil {
		t.Fatalf("PlaceFood failed: %v", err)
	}
	if !state.Grid.InBounds(pos) || state.Occupies(pos) {
		t.Errorf("placed food at invalid cell %v", pos)
	}

	// Every successful placement leaves a decision behind
	found := false
	for _, dec := range d.Decisions() {
		if dec.Type == DecisionFoodPlacement {
			found = true
		}
	}
	if !found {
		t.Error("placement did not log a food placement decision")
	}
}

func TestPlaceFoodInvalidStateFallsBack(t *testing.T) {
	d, _, _ := testDirector(DefaultConfig())

	// Empty snake: fall back to the grid center, never error
	state := game.State{Grid: core.GridSize{Width: 10, Height: 10}}
	pos, err := d.PlaceFood(state)
	if err != nil {
		t.Fatalf("fallback returned error: %v", err)
	}
	if pos != (core.Position{X: 5, Y: 5}) {
		t.Errorf("fallback position = %v, want center (5,5)", pos)
	}

	// Degenerate grid: same story
	pos, err = d.PlaceFood(game.State{})
	if err != nil {
		t.Fatalf("degenerate grid returned error: %v", err)
	}
	if pos != (core.Position{}) {
		t.Errorf("degenerate fallback = %v, want (0,0)", pos)
	}
}

func TestPlaceFoodFullBoard(t *testing.T) {
	d, _, _ := testDirector(DefaultConfig())

	state := game.State{
		Snake: []game.Segment{
			{Position: core.Position{X: 0, Y: 0}},
			{Position: core.Position{X: 1, Y: 0}},
			{Position: core.Position{X: 1, Y: 1}},
			{Position: core.Position{X: 0, Y: 1}},
		},
		Grid: core.GridSize{Width: 2, Height: 2},
	}

	_, err := d.PlaceFood(state)
	if !errors.Is(err, game.ErrNoValidPosition) {
		t.Fatalf("err = %v, want ErrNoValidPosition", err)
	}
}

func TestPlaceFoodRecoveryOverride(t *testing.T) {
	d, _, _ := testDirector(DefaultConfig())
	d.recovery = true
	state := openState()

	pos, err := d.PlaceFood(state)
	if err != nil {
		t.Fatalf("PlaceFood failed: %v", err)
	}
	if !state.Grid.InBounds(pos) || state.Occupies(pos) {
		t.Errorf("placed food at invalid cell %v", pos)
	}

	decisions := d.Decisions()
	if len(decisions) == 0 {
		t.Fatal("no decision logged")
	}
	last := decisions[len(decisions)-1]
	if !strings.Contains(last.Reasoning, "recovery") {
		t.Errorf("reasoning %q does not mention recovery", last.Reasoning)
	}
	if !strings.Contains(last.Reasoning, string(game.DifficultyEasy)) {
		t.Errorf("reasoning %q does not name the easy band", last.Reasoning)
	}
}

func TestPlaceFoodMasteryOverride(t *testing.T) {
	d, _, _ := testDirector(DefaultConfig())
	d.goodStreak = 5
	state := openState()

	pos, err := d.PlaceFood(state)
	if err != nil {
		t.Fatalf("PlaceFood failed: %v", err)
	}
	if !state.Grid.InBounds(pos) || state.Occupies(pos) {
		t.Errorf("placed food at invalid cell %v", pos)
	}

	decisions := d.Decisions()
	last := decisions[len(decisions)-1]
	if !strings.Contains(last.Reasoning, string(game.DifficultyHard)) {
		t.Errorf("reasoning %q does not name the hard band", last.Reasoning)
	}
}

func TestFallbackPlacementRowScan(t *testing.T) {
	d, _, _ := testDirector(DefaultConfig())

	// Center occupied: first free cell in row-major order wins
	state := game.State{
		Snake: []game.Segment{{Position: core.Position{X: 5, Y: 5}}},
		Grid:  core.GridSize{Width: 10, Height: 10},
	}
	if got := d.fallbackPlacement(state); got != (core.Position{X: 0, Y: 0}) {
		t.Errorf("fallback = %v, want (0,0)", got)
	}
}
