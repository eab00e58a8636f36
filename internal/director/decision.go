package director

import "time"

// DecisionType tags what kind of adjustment a logged decision describes.
type DecisionType string

const (
	DecisionSpeedAdjustment DecisionType = "speed_adjustment"
	DecisionFoodPlacement   DecisionType = "food_placement"
	DecisionRecoveryTrigger DecisionType = "recovery_trigger"
)

// decisionLogCap bounds the decision log; oldest entries are evicted.
const decisionLogCap = 100

// PlayerMetrics is the player view captured alongside a decision.
type PlayerMetrics struct {
	ReactionTime float64 // milliseconds
	StressLevel  float64
	SkillLevel   float64
}

// GameContext is the game view captured alongside a decision.
type GameContext struct {
	Score       int
	SnakeLength int
	GameTime    int64 // milliseconds
}

// Decision is one structured entry in the director's append-only log. The
// explanation panel and the analysis trend both read from this log.
type Decision struct {
	Timestamp     time.Time
	Type          DecisionType
	Reasoning     string
	PlayerMetrics PlayerMetrics
	GameContext   GameContext
}

// AdjustmentType tells the renderer which kind of adjustment happened last,
// for cosmetic-only feedback.
type AdjustmentType string

const (
	AdjustNone       AdjustmentType = "none"
	AdjustSpeed      AdjustmentType = "speed"
	AdjustDifficulty AdjustmentType = "difficulty"
	AdjustRecovery   AdjustmentType = "recovery"
)

// VisualFeedback is derived once per frame for the rendering collaborator.
type VisualFeedback struct {
	StressLevel      float64
	PerformanceLevel float64
	AdjustmentType   AdjustmentType
}
