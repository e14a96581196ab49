package types

import "time"

type PatternCategory string

const (
	PatternCategoryTime         PatternCategory = "time"
	PatternCategorySubject      PatternCategory = "subject"
	PatternCategoryCondition    PatternCategory = "condition"
	PatternCategoryProductivity PatternCategory = "productivity"
	PatternCategoryHabit        PatternCategory = "habit"
)

type PatternTrend string

const (
	PatternTrendIncreasing PatternTrend = "increasing"
	PatternTrendDecreasing PatternTrend = "decreasing"
	PatternTrendStable     PatternTrend = "stable"
)

// Pattern is a detected behavioral regularity. Patterns are rebuilt from raw
// records on every query; there is no pattern identity across calls.
type Pattern struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Description   string                 `json:"description"`
	Category      PatternCategory        `json:"category"`
	Strength      float64                `json:"strength"`
	Frequency     float64                `json:"frequency"`
	Consistency   float64                `json:"consistency"`
	FirstDetected time.Time              `json:"first_detected"`
	LastDetected  time.Time              `json:"last_detected"`
	Trend         PatternTrend           `json:"trend"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// SchedulePattern is a projected optimal-schedule row derived from time
// patterns.
type SchedulePattern struct {
	TimeSlot     string  `json:"time_slot"`
	Weekday      int     `json:"weekday"`
	AverageScore float64 `json:"average_score"`
	Frequency    float64 `json:"frequency"`
	Consistency  float64 `json:"consistency"`
}
