package director

import (
	"errors"
	"fmt"

	"github.com/arcadeworks/serpent/internal/core"
	"github.com/arcadeworks/serpent/internal/game"
)

// PlaceFood implements game.FoodPlacementStrategy. It asks the food model
// for a base suggestion, overrides the difficulty band from director state,
// and re-validates the result. Any invalid state or computation failure
// falls back to the deterministic center-then-scan strategy; a genuinely
// full board surfaces game.ErrNoValidPosition for the engine to handle.
func (d *Director) PlaceFood(state game.State) (pos core.Position, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Warn("food placement failed, using fallback", "panic", r)
			pos, err = d.fallbackPlacement(state), nil
		}
	}()

	if len(state.Snake) == 0 || state.Grid.Width <= 0 || state.Grid.Height <= 0 {
		d.logger.Warn("invalid state for placement, using fallback",
			"snake_len", len(state.Snake),
			"grid_w", state.Grid.Width, "grid_h", state.Grid.Height)
		return d.fallbackPlacement(state), nil
	}

	suggestion, err := game.SuggestFoodPlacement(state, d.rng)
	if errors.Is(err, game.ErrNoValidPosition) {
		return core.Position{}, err
	}
	if err != nil {
		return d.fallbackPlacement(state), nil
	}

	difficulty := suggestion.Difficulty
	reasoning := suggestion.Reasoning
	switch {
	case d.recovery:
		difficulty = game.DifficultyEasy
		reasoning = "recovery mode: easing placement"
	case d.goodStreak >= 5:
		difficulty = game.DifficultyHard
		reasoning = fmt.Sprintf("good streak %d: rewarding mastery", d.goodStreak)
	case d.difficultyLevel > 1.5:
		difficulty = game.DifficultyHard
		reasoning = fmt.Sprintf("difficulty level %.2f: rewarding mastery", d.difficultyLevel)
	}

	chosen := suggestion.Position
	if difficulty != suggestion.Difficulty {
		chosen, err = game.GenerateOptimalFoodPosition(state, difficulty, d.rng)
		if errors.Is(err, game.ErrNoValidPosition) {
			return core.Position{}, err
		}
		if err != nil {
			return d.fallbackPlacement(state), nil
		}
	}

	if !state.Grid.InBounds(chosen) || state.Occupies(chosen) {
		d.logger.Warn("placement produced invalid cell, using fallback",
			"x", chosen.X, "y", chosen.Y)
		return d.fallbackPlacement(state), nil
	}

	d.logDecision(DecisionFoodPlacement,
		d.reason(fmt.Sprintf("food at (%d,%d), band %s", chosen.X, chosen.Y, difficulty), reasoning),
		d.profiler.Snapshot(), state)
	return chosen, nil
}

// fallbackPlacement is the deterministic last line of defense: grid center,
// else the first free cell in row-major order, else (0,0) as the absolute
// last resort (the caller should expect a collision in that case).
func (d *Director) fallbackPlacement(state game.State) core.Position {
	if state.Grid.Width > 0 && state.Grid.Height > 0 {
		center := core.Position{X: state.Grid.Width / 2, Y: state.Grid.Height / 2}
		if !state.Occupies(center) {
			return center
		}
		for y := range state.Grid.Height {
			for x := range state.Grid.Width {
				p := core.Position{X: x, Y: y}
				if !state.Occupies(p) {
					return p
				}
			}
		}
	}
	return core.Position{}
}
