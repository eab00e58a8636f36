package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/arcadeworks/serpent/internal/core"
)

// ErrNoValidPosition is returned when the grid has no free cell left for
// food. The board is fully occupied; the engine treats this as a terminal
// condition, not a crash.
var ErrNoValidPosition = errors.New("game: no valid food position available")

// Difficulty is a food-placement band biasing distance from the snake head.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

const baseFoodScore = 10

// ConsumptionResult reports whether the head reached the food this tick and
// how much score it is worth.
type ConsumptionResult struct {
	Consumed      bool
	ScoreIncrease int
}

// CheckFoodConsumption checks the head against the food cell. The score
// award is base + length bonus + speed bonus, floored at the base value so a
// sub-1.0 speed can never make food worth less than the base.
func CheckFoodConsumption(state State) ConsumptionResult {
	if len(state.Snake) == 0 || state.Head().Position != state.Food {
		return ConsumptionResult{}
	}

	lengthBonus := len(state.Snake) / 10 * 5
	speedBonus := int((state.Speed - 1.0) * 5)

	score := baseFoodScore + lengthBonus + speedBonus
	if score < baseFoodScore {
		score = baseFoodScore
	}

	return ConsumptionResult{Consumed: true, ScoreIncrease: score}
}

// ValidFoodPositions enumerates every in-bounds cell not occupied by the
// snake, in row-major order.
func ValidFoodPositions(state State) []core.Position {
	positions := make([]core.Position, 0, state.Grid.Cells()-len(state.Snake))
	for y := range state.Grid.Height {
		for x := range state.Grid.Width {
			p := core.Position{X: x, Y: y}
			if !state.Occupies(p) {
				positions = append(positions, p)
			}
		}
	}
	return positions
}

// GenerateFoodPosition picks a uniformly random valid cell.
func GenerateFoodPosition(state State, rng *rand.Rand) (core.Position, error) {
	valid := ValidFoodPositions(state)
	if len(valid) == 0 {
		return core.Position{}, ErrNoValidPosition
	}
	return valid[rng.Intn(len(valid))], nil
}

// GenerateOptimalFoodPosition picks a valid cell from a distance band
// relative to the snake head: the closest 30% for easy, middle 40% for
// medium, farthest 30% for hard.
func GenerateOptimalFoodPosition(state State, difficulty Difficulty, rng *rand.Rand) (core.Position, error) {
	valid := ValidFoodPositions(state)
	if len(valid) == 0 {
		return core.Position{}, ErrNoValidPosition
	}
	if len(state.Snake) == 0 {
		return valid[rng.Intn(len(valid))], nil
	}

	head := state.Head().Position
	sort.SliceStable(valid, func(i, j int) bool {
		return core.ManhattanDistance(valid[i], head) < core.ManhattanDistance(valid[j], head)
	})

	n := len(valid)
	var band []core.Position
	switch difficulty {
	case DifficultyEasy:
		band = valid[:max(1, n*30/100)]
	case DifficultyHard:
		start := n - max(1, n*30/100)
		band = valid[start:]
	default:
		lo := n * 30 / 100
		hi := n * 70 / 100
		if hi <= lo {
			hi = lo + 1
		}
		band = valid[lo:min(hi, n)]
	}

	return band[rng.Intn(len(band))], nil
}

// PlacementSuggestion is a food position with the difficulty band chosen and
// a human-readable reason, consumed by the director's decision log.
type PlacementSuggestion struct {
	Position   core.Position
	Difficulty Difficulty
	Reasoning  string
}

// SuggestFoodPlacement picks a difficulty band from the board situation and
// generates a matching position. High danger or a cramped board eases up;
// a long snake or high speed pushes toward mastery.
func SuggestFoodPlacement(state State, rng *rand.Rand) (PlacementSuggestion, error) {
	danger := core.AssessDangerLevel(state.SnakePositions(), state.Grid)
	valid := len(ValidFoodPositions(state))

	var difficulty Difficulty
	var reasoning string
	switch {
	case danger > 0.7 || valid < 10:
		difficulty = DifficultyEasy
		reasoning = fmt.Sprintf("easing placement: danger %.2f, %d open cells", danger, valid)
	case len(state.Snake) > 15 || state.Speed > 2.0:
		difficulty = DifficultyHard
		reasoning = fmt.Sprintf("rewarding mastery: length %d, speed %.2f", len(state.Snake), state.Speed)
	default:
		difficulty = DifficultyMedium
		reasoning = "steady play, medium placement"
	}

	pos, err := GenerateOptimalFoodPosition(state, difficulty, rng)
	if err != nil {
		return PlacementSuggestion{}, err
	}

	return PlacementSuggestion{Position: pos, Difficulty: difficulty, Reasoning: reasoning}, nil
}
