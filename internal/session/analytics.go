package session

import (
	"math"
	"sort"
)

// Summary is the coarse cross-session view.
type Summary struct {
	Sessions        int
	BestScore       int
	AverageScore    float64
	AverageDuration float64 // milliseconds
	TotalPlayTime   int64   // milliseconds
}

// TrendDirection classifies the long-run score trend.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendStable    TrendDirection = "stable"
	TrendDeclining TrendDirection = "declining"
)

// Comparison relates recent play to the long run.
type Comparison struct {
	Trend TrendDirection
	// Consistency in [0,1]: 1 means identical scores every session.
	Consistency float64
	// StreakLength counts consecutive sessions moving the same way by more
	// than 5%; StreakImproving tells which way.
	StreakLength    int
	StreakImproving bool
}

// Analytics is the detailed statistics view over the history.
type Analytics struct {
	MeanScore      float64
	MedianScore    float64
	StdDevScore    float64
	MeanReaction   float64 // milliseconds
	MeanSkill      float64
	MeanPeakStress float64
}

// GetSessionSummary derives the summary from history. Pure; no hidden state.
func (m *Manager) GetSessionSummary() Summary {
	s := Summary{Sessions: len(m.history)}
	if s.Sessions == 0 {
		return s
	}

	totalScore := 0
	for _, d := range m.history {
		totalScore += d.FinalScore
		if d.FinalScore > s.BestScore {
			s.BestScore = d.FinalScore
		}
		s.TotalPlayTime += d.GameTime
	}
	s.AverageScore = float64(totalScore) / float64(s.Sessions)
	s.AverageDuration = float64(s.TotalPlayTime) / float64(s.Sessions)
	return s
}

// GetPerformanceComparison derives trend (least-squares slope over scores),
// consistency, and the current ±5% streak.
func (m *Manager) GetPerformanceComparison() Comparison {
	c := Comparison{Trend: TrendStable, Consistency: 1}
	n := len(m.history)
	if n < 2 {
		return c
	}

	scores := make([]float64, n)
	for i, d := range m.history {
		scores[i] = float64(d.FinalScore)
	}

	mean := meanOf(scores)
	slope := regressionSlope(scores)

	// Slope threshold relative to the average score keeps the trend call
	// scale-free.
	threshold := 0.05 * math.Max(mean, 1)
	switch {
	case slope > threshold:
		c.Trend = TrendImproving
	case slope < -threshold:
		c.Trend = TrendDeclining
	}

	if mean > 0 {
		c.Consistency = clamp01(1 - stdDev(scores, mean)/mean)
	}

	c.StreakLength, c.StreakImproving = currentStreak(scores)
	return c
}

// GetDetailedAnalytics derives mean/median/stddev statistics over history.
func (m *Manager) GetDetailedAnalytics() Analytics {
	a := Analytics{}
	n := len(m.history)
	if n == 0 {
		return a
	}

	scores := make([]float64, n)
	for i, d := range m.history {
		scores[i] = float64(d.FinalScore)
		a.MeanReaction += d.Stats.AverageReactionTime
		a.MeanSkill += d.Stats.FinalSkill
		a.MeanPeakStress += d.Stats.PeakStress
	}
	a.MeanReaction /= float64(n)
	a.MeanSkill /= float64(n)
	a.MeanPeakStress /= float64(n)

	a.MeanScore = meanOf(scores)
	a.StdDevScore = stdDev(scores, a.MeanScore)

	sorted := make([]float64, n)
	copy(sorted, scores)
	sort.Float64s(sorted)
	if n%2 == 1 {
		a.MedianScore = sorted[n/2]
	} else {
		a.MedianScore = (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return a
}

// currentStreak walks backward from the latest session counting consecutive
// moves in the same direction exceeding 5%.
func currentStreak(scores []float64) (length int, improving bool) {
	n := len(scores)
	if n < 2 {
		return 0, false
	}

	prev := math.Max(scores[n-2], 1)
	ratio := scores[n-1] / prev
	switch {
	case ratio > 1.05:
		improving = true
	case ratio < 0.95:
		improving = false
	default:
		return 0, false
	}

	length = 1
	for i := n - 2; i > 0; i-- {
		prev = math.Max(scores[i-1], 1)
		ratio = scores[i] / prev
		if improving && ratio > 1.05 {
			length++
		} else if !improving && ratio < 0.95 {
			length++
		} else {
			break
		}
	}
	return length, improving
}

// regressionSlope fits score = a + b*index and returns b.
func regressionSlope(values []float64) float64 {
	n := float64(len(values))
	var sumX, sumY, sumXY, sumXX float64
	for i, v := range values {
		x := float64(i)
		sumX += x
		sumY += v
		sumXY += x * v
		sumXX += x * x
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / float64(len(values)))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
