package services

import (
	"math"
	"time"

	"github.com/lgdx/analytics-backend/internal/types"
)

// Numeric helpers shared by the analyzers. The time-slot analyzer and the
// pattern detector intentionally re-derive their statistics from raw records
// instead of consuming each other's output, so the sharing happens here, at
// the level of pure functions over value slices.

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return sum / float64(len(values))
}

func stdev(values []float64) float64 {
	return math.Sqrt(variance(values))
}

// consistencyScore maps score spread onto 0-100: a flat history scores 100,
// every point of standard deviation costs `penalty`. An empty history has no
// consistency to speak of and scores 0.
func consistencyScore(values []float64, penalty float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return math.Max(0, 100-penalty*stdev(values))
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// linearTrend fits y = slope*x + intercept over x = 0..n-1 by ordinary least
// squares. r² is clamped to >= 0; a constant sequence has zero total sum of
// squares and reports r² = 0. Fewer than two points short-circuits instead of
// dividing by zero.
func linearTrend(data []float64) (slope, intercept, r2 float64) {
	if len(data) < 2 {
		if len(data) == 1 {
			return 0, data[0], 0
		}
		return 0, 0, 0
	}

	n := float64(len(data))
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range data {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	slope = (n*sumXY - sumX*sumY) / (n*sumXX - sumX*sumX)
	intercept = (sumY - slope*sumX) / n

	yMean := sumY / n
	var totalSS, residualSS float64
	for i, y := range data {
		totalSS += (y - yMean) * (y - yMean)
		predicted := slope*float64(i) + intercept
		residualSS += (y - predicted) * (y - predicted)
	}
	if totalSS > 0 {
		r2 = 1 - residualSS/totalSS
	}
	return slope, intercept, math.Max(0, r2)
}

// slotStats is the per-group statistic bundle both the time-slot analyzer and
// the pattern detector derive from raw reflections.
type slotStats struct {
	scores       []float64
	averageScore float64
	consistency  float64
	count        int
}

func computeSlotStats(scores []float64, penalty float64) slotStats {
	return slotStats{
		scores:       scores,
		averageScore: mean(scores),
		consistency:  consistencyScore(scores, penalty),
		count:        len(scores),
	}
}

// groupScoresBySlot buckets overall scores by time slot, preserving record
// order within each bucket.
func groupScoresBySlot(reflections []*types.Reflection) map[types.TimeSlot][]float64 {
	out := make(map[types.TimeSlot][]float64, 3)
	for _, r := range reflections {
		out[r.TimeSlot] = append(out[r.TimeSlot], r.OverallScore)
	}
	return out
}

// groupScoresByWeekday buckets overall scores by the reflection's weekday.
func groupScoresByWeekday(reflections []*types.Reflection) map[time.Weekday][]float64 {
	out := make(map[time.Weekday][]float64, 7)
	for _, r := range reflections {
		wd := r.Date.Weekday()
		out[wd] = append(out[wd], r.OverallScore)
	}
	return out
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// analysisWindow resolves a trailing window of whole days ending today (UTC).
func analysisWindow(days int) (start, end time.Time) {
	end = time.Now().UTC().Truncate(24 * time.Hour)
	start = end.AddDate(0, 0, -days)
	return start, end
}
